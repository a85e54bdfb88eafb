package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/snooker-app/kds"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/services"
	"github.com/yeremiapane/snooker-app/utils"
)

type BillController struct {
	Ledger  *services.LedgerStore
	Billing *services.BillingAssembler
	Hub     *kds.Hub
}

func NewBillController(ledger *services.LedgerStore, billing *services.BillingAssembler, hub *kds.Hub) *BillController {
	return &BillController{Ledger: ledger, Billing: billing, Hub: hub}
}

// CreateBill -> saves the ended session of a table and frees the table
func (bc *BillController) CreateBill(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bill, err := bc.Billing.Finalize(c.Request.Context(), n, customer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Hub.BroadcastBillCreated(bill)
	utils.RespondJSON(c, http.StatusCreated, "Bill saved", bill)
}

// GetAllBills -> every bill, optionally filtered with ?status=paid|unpaid
func (bc *BillController) GetAllBills(c *gin.Context) {
	var (
		bills []models.BillRecord
		err   error
	)
	if status := c.Query("status"); status != "" {
		bills, err = bc.Ledger.ListByStatus(c.Request.Context(), models.PaymentStatus(status))
	} else {
		bills, err = bc.Ledger.ListAll(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bills", bills)
}

func (bc *BillController) GetBillByID(c *gin.Context) {
	bill, err := bc.Ledger.Get(c.Request.Context(), c.Param("bill_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

func (bc *BillController) UpdatePaymentStatus(c *gin.Context) {
	var body struct {
		PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bill, err := bc.Ledger.UpdatePaymentStatus(c.Request.Context(), c.Param("bill_id"), body.PaymentStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Hub.BroadcastBillPaymentUpdated(bill)
	utils.RespondJSON(c, http.StatusOK, "Payment status updated", bill)
}

func (bc *BillController) DeleteBill(c *gin.Context) {
	billID := c.Param("bill_id")
	if err := bc.Ledger.Delete(c.Request.Context(), billID); err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Hub.BroadcastBillDeleted(billID)
	utils.InfoLogger.WithFields(logrus.Fields{"bill": billID}).Info("bill deleted")
	utils.RespondJSON(c, http.StatusOK, "Bill deleted", gin.H{"id": billID})
}

// ClearBills -> wipes the whole ledger
func (bc *BillController) ClearBills(c *gin.Context) {
	if err := bc.Ledger.Clear(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Hub.BroadcastLedgerCleared()
	utils.RespondJSON(c, http.StatusOK, "All bills cleared", nil)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/services"
	"github.com/yeremiapane/snooker-app/utils"
)

type TableController struct {
	Registry *services.SessionRegistry
	Billing  *services.BillingAssembler
}

func NewTableController(registry *services.SessionRegistry, billing *services.BillingAssembler) *TableController {
	return &TableController{Registry: registry, Billing: billing}
}

// GetAllTables -> live snapshot of every table
func (tc *TableController) GetAllTables(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of tables", tc.Registry.List())
}

func (tc *TableController) GetTable(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	session, err := tc.Registry.Get(n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", session)
}

func (tc *TableController) StartSession(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	session, err := tc.Registry.Start(n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session started", session)
}

func (tc *TableController) StopSession(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	session, err := tc.Registry.Stop(n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session stopped", session)
}

func (tc *TableController) ResetTable(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	session, err := tc.Registry.Reset(n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table reset", session)
}

// AddItem -> adds one unit of a catalog item, or of a custom item when a
// name and price are given
func (tc *TableController) AddItem(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}

	var req struct {
		ItemID string `json:"item_id" binding:"required"`
		Name   string `json:"name"`
		Price  int64  `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.LineItem
	if catalog, found := models.FindCatalogItem(req.ItemID); found && req.Name == "" {
		item = catalog.LineItem()
	} else if req.Name != "" {
		item = models.LineItem{ID: req.ItemID, Name: req.Name, UnitPrice: req.Price}
	} else {
		respondServiceError(c, services.ValidationError{Field: "item_id", Message: "unknown item " + req.ItemID})
		return
	}

	session, err := tc.Registry.AddItem(n, item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added", session)
}

// PreviewBill -> totals of the current session, nothing is saved
func (tc *TableController) PreviewBill(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	preview, err := tc.Billing.Preview(n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill preview", preview)
}

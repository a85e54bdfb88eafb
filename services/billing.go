package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/utils"
)

// BillPreview is the end-of-session summary shown before a bill is saved.
type BillPreview struct {
	TableNumber     int               `json:"tableNumber"`
	Status          string            `json:"status"`
	DurationMinutes int64             `json:"durationMinutes"`
	Blocks          int64             `json:"blocks"`
	TableCharge     int64             `json:"tableCharge"`
	Items           []models.LineItem `json:"items"`
	ItemsTotal      int64             `json:"itemsTotal"`
	Total           int64             `json:"total"`
}

// BillingAssembler turns ended sessions into ledger bills.
type BillingAssembler struct {
	registry *SessionRegistry
	ledger   *LedgerStore
}

func NewBillingAssembler(registry *SessionRegistry, ledger *LedgerStore) *BillingAssembler {
	return &BillingAssembler{registry: registry, ledger: ledger}
}

// Preview computes the totals of the table's current session without
// touching the ledger.
func (b *BillingAssembler) Preview(tableNumber int) (BillPreview, error) {
	session, err := b.registry.Get(tableNumber)
	if err != nil {
		return BillPreview{}, err
	}

	preview := BillPreview{
		TableNumber:     session.TableNumber,
		Status:          string(session.Status),
		DurationMinutes: session.ElapsedMinutes,
		TableCharge:     session.TableCharge,
		Items:           session.Items,
		ItemsTotal:      session.ItemsTotal(),
	}
	if rate := b.registry.Pricing().Rate; rate > 0 {
		preview.Blocks = session.TableCharge / rate
	}
	preview.Total = preview.TableCharge + preview.ItemsTotal
	return preview, nil
}

// Finalize records the ended session of tableNumber as a bill and resets
// the table. When the bill cannot be stored the session stays ended.
func (b *BillingAssembler) Finalize(ctx context.Context, tableNumber int, customer models.Customer) (models.BillRecord, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	if customer.Name == "" {
		return models.BillRecord{}, ValidationError{Field: "customer_name", Message: "is required"}
	}
	if customer.PaymentStatus == "" {
		customer.PaymentStatus = models.PaymentUnpaid
	}
	if !customer.PaymentStatus.Valid() {
		return models.BillRecord{}, ValidationError{Field: "payment_status", Message: "must be paid or unpaid"}
	}

	var bill models.BillRecord
	err := b.registry.Settle(tableNumber, func(session models.TableSession) error {
		stored, err := b.ledger.Append(ctx, BuildBill(session, customer))
		if err != nil {
			return err
		}
		bill = stored
		return nil
	})
	if err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"table": tableNumber,
		}).Errorf("finalize bill: %v", err)
		return models.BillRecord{}, err
	}
	return bill, nil
}

// BuildBill snapshots session into an unsaved bill for customer.
func BuildBill(session models.TableSession, customer models.Customer) models.BillRecord {
	return models.BillRecord{
		CustomerName:    customer.Name,
		Phone:           customer.Phone,
		TableNumber:     session.TableNumber,
		DurationMinutes: session.ElapsedSeconds / 60,
		Items:           models.CloneItems(session.Items),
		Amount:          session.TableCharge + session.ItemsTotal(),
		PaymentStatus:   customer.PaymentStatus,
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/store"
	"github.com/yeremiapane/snooker-app/utils"
	"go.jetify.com/typeid/v2"
)

// BillsKey is the storage key holding the JSON array of all bills.
const BillsKey = "snooker_bills"

const billIDPrefix = "bill"

// LedgerStore keeps every finalized bill as one JSON blob under BillsKey.
type LedgerStore struct {
	kv  store.KV
	mu  sync.Mutex
	now func() time.Time
}

func NewLedgerStore(kv store.KV) *LedgerStore {
	return &LedgerStore{kv: kv, now: time.Now}
}

// NewBillID returns a fresh, sortable bill identifier ("bill_...").
func NewBillID() (string, error) {
	tid, err := typeid.Generate(billIDPrefix)
	if err != nil {
		return "", err
	}
	return tid.String(), nil
}

func (l *LedgerStore) load(ctx context.Context) ([]models.BillRecord, error) {
	raw, err := l.kv.Get(ctx, BillsKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []models.BillRecord{}, nil
	}
	if err != nil {
		return nil, storageError("read bills", err)
	}

	var bills []models.BillRecord
	if err := json.Unmarshal(raw, &bills); err != nil {
		return nil, storageError("decode bills", err)
	}
	return bills, nil
}

func (l *LedgerStore) save(ctx context.Context, bills []models.BillRecord) error {
	raw, err := json.Marshal(bills)
	if err != nil {
		return storageError("encode bills", err)
	}
	if err := l.kv.Set(ctx, BillsKey, raw); err != nil {
		return storageError("write bills", err)
	}
	return nil
}

// Append persists bill, filling in ID and CreatedAt when empty.
func (l *LedgerStore) Append(ctx context.Context, bill models.BillRecord) (models.BillRecord, error) {
	if bill.ID == "" {
		id, err := NewBillID()
		if err != nil {
			return models.BillRecord{}, fmt.Errorf("generate bill id: %w", err)
		}
		bill.ID = id
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = l.now().UTC()
	}
	if bill.PaymentStatus == "" {
		bill.PaymentStatus = models.PaymentUnpaid
	}
	bill.Items = models.CloneItems(bill.Items)

	l.mu.Lock()
	defer l.mu.Unlock()

	bills, err := l.load(ctx)
	if err != nil {
		return models.BillRecord{}, err
	}
	for _, existing := range bills {
		if existing.ID == bill.ID {
			return models.BillRecord{}, fmt.Errorf("bill %s already recorded: %w", bill.ID, ErrInvalidArgument)
		}
	}
	if err := l.save(ctx, append(bills, bill)); err != nil {
		return models.BillRecord{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"bill":   bill.ID,
		"table":  bill.TableNumber,
		"amount": utils.FormatRupees(bill.Amount),
		"status": bill.PaymentStatus,
	}).Info("bill recorded")
	return bill, nil
}

// ListAll returns every bill, oldest first.
func (l *LedgerStore) ListAll(ctx context.Context) ([]models.BillRecord, error) {
	l.mu.Lock()
	bills, err := l.load(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].CreatedAt.Before(bills[j].CreatedAt)
	})
	return bills, nil
}

// ListByStatus returns the bills with the given payment status, oldest first.
func (l *LedgerStore) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.BillRecord, error) {
	if !status.Valid() {
		return nil, ValidationError{Field: "status", Message: fmt.Sprintf("unknown payment status %q", status)}
	}
	bills, err := l.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.BillRecord, 0, len(bills))
	for _, bill := range bills {
		if bill.PaymentStatus == status {
			filtered = append(filtered, bill)
		}
	}
	return filtered, nil
}

func (l *LedgerStore) Get(ctx context.Context, billID string) (models.BillRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bills, err := l.load(ctx)
	if err != nil {
		return models.BillRecord{}, err
	}
	for _, bill := range bills {
		if bill.ID == billID {
			return bill, nil
		}
	}
	return models.BillRecord{}, fmt.Errorf("bill %s: %w", billID, ErrNotFound)
}

// UpdatePaymentStatus sets the payment status of one bill. Unknown ids
// return ErrNotFound and leave the ledger untouched.
func (l *LedgerStore) UpdatePaymentStatus(ctx context.Context, billID string, status models.PaymentStatus) (models.BillRecord, error) {
	if !status.Valid() {
		return models.BillRecord{}, ValidationError{Field: "payment_status", Message: fmt.Sprintf("unknown payment status %q", status)}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bills, err := l.load(ctx)
	if err != nil {
		return models.BillRecord{}, err
	}

	for i := range bills {
		if bills[i].ID != billID {
			continue
		}
		if bills[i].PaymentStatus == status {
			return bills[i], nil
		}
		bills[i].PaymentStatus = status
		if err := l.save(ctx, bills); err != nil {
			return models.BillRecord{}, err
		}
		utils.InfoLogger.WithFields(logrus.Fields{
			"bill":   billID,
			"status": status,
		}).Info("bill payment status updated")
		return bills[i], nil
	}
	return models.BillRecord{}, fmt.Errorf("bill %s: %w", billID, ErrNotFound)
}

// Delete removes one bill.
func (l *LedgerStore) Delete(ctx context.Context, billID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bills, err := l.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.BillRecord, 0, len(bills))
	for _, bill := range bills {
		if bill.ID != billID {
			kept = append(kept, bill)
		}
	}
	if len(kept) == len(bills) {
		return fmt.Errorf("bill %s: %w", billID, ErrNotFound)
	}
	return l.save(ctx, kept)
}

// Clear wipes the whole ledger.
func (l *LedgerStore) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.kv.Delete(ctx, BillsKey); err != nil {
		return storageError("clear bills", err)
	}
	utils.InfoLogger.Warn("ledger cleared")
	return nil
}

// Summary aggregates the ledger for the dashboard.
func (l *LedgerStore) Summary(ctx context.Context) (models.LedgerSummary, error) {
	bills, err := l.ListAll(ctx)
	if err != nil {
		return models.LedgerSummary{}, err
	}

	var summary models.LedgerSummary
	for _, bill := range bills {
		summary.TotalSessions++
		summary.TotalRevenue += bill.Amount
		summary.TotalPlayMinutes += bill.DurationMinutes
		switch bill.PaymentStatus {
		case models.PaymentPaid:
			summary.PaidCount++
			summary.PaidAmount += bill.Amount
		case models.PaymentUnpaid:
			summary.UnpaidCount++
			summary.UnpaidAmount += bill.Amount
		}
	}
	return summary, nil
}

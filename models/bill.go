package models

import "time"

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentUnpaid
}

// BillRecord is a finalized bill. Everything except PaymentStatus is frozen
// at creation time.
type BillRecord struct {
	ID              string        `json:"id"`
	CustomerName    string        `json:"customerName"`
	Phone           string        `json:"phone,omitempty"`
	TableNumber     int           `json:"tableNumber"`
	DurationMinutes int64         `json:"durationMinutes"`
	Items           []LineItem    `json:"items"`
	Amount          int64         `json:"amount"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// LedgerSummary is the dashboard aggregation over all bills.
type LedgerSummary struct {
	TotalRevenue     int64 `json:"totalRevenue"`
	PaidAmount       int64 `json:"paidAmount"`
	UnpaidAmount     int64 `json:"unpaidAmount"`
	PaidCount        int   `json:"paidCount"`
	UnpaidCount      int   `json:"unpaidCount"`
	TotalSessions    int   `json:"totalSessions"`
	TotalPlayMinutes int64 `json:"totalPlayMinutes"`
}

package models

// Customer carries the details collected when a session is saved as a bill.
type Customer struct {
	Name          string        `json:"customer_name" binding:"required"`
	Phone         string        `json:"phone"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

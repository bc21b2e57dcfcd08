package models

import "time"

// Invoice statuses.
const (
	InvoiceUnpaid    = "Unpaid"
	InvoicePaid      = "Paid"
	InvoiceCancelled = "Cancelled"
)

type Invoice struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	Amount    float64   `json:"amount"`
	DueDate   time.Time `json:"-"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceUnpaid, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

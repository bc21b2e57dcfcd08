package models

import "time"

// Member is a club member. Amount is the outstanding balance.
type Member struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email,omitempty"`
	Sport     string    `json:"sport"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Contract struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	MemberID     int64     `json:"member_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	ContractType string    `json:"contract_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type InventoryItem struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Condition string    `json:"condition"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Document struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Recipient   string     `json:"recipient"`
	SentBy      string     `json:"sent_by"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Report struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	MemberID   int64     `json:"member_id"`
	ReportType string    `json:"report_type"`
	ReportText string    `json:"report_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Dashboard holds the record counts shown on the landing page.
type Dashboard struct {
	Members          int64 `json:"members"`
	UnpaidMembers    int64 `json:"unpaid_members"`
	Contracts        int64 `json:"contracts"`
	ExpiredContracts int64 `json:"expired_contracts"`
	UnpaidInvoices   int64 `json:"unpaid_invoices"`
	InventoryItems   int64 `json:"inventory_items"`
	Documents        int64 `json:"documents"`
}

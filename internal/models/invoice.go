package models

// Invoice maps to the host billing `invoices` table.
type Invoice struct {
	ID           int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       int     `gorm:"column:user_id" json:"user_id"`
	InvoiceNum   string  `gorm:"column:invoice_num;size:64" json:"invoice_num"`
	CurrencyCode string  `gorm:"column:currency_code;size:8" json:"currency_code"`
	Total        float64 `gorm:"column:total" json:"total"`
	Status       string  `gorm:"column:status;size:32" json:"status"` // Unpaid, Paid, Cancelled
	DateCreated  string  `gorm:"column:date_created;size:64" json:"date_created"`
	DatePaid     string  `gorm:"column:date_paid;size:64" json:"date_paid"`
}

func (Invoice) TableName() string {
	return "invoices"
}

package models

// Transaction maps to the host billing `transactions` table. The unique index
// on transaction_id is the authoritative exactly-once guard; the reconciler's
// existence pre-check is only a fast path.
type Transaction struct {
	ID            uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InvoiceID     int     `gorm:"column:invoice_id;index" json:"invoice_id"`
	TransactionID string  `gorm:"column:transaction_id;size:191;uniqueIndex" json:"transaction_id"`
	Gateway       string  `gorm:"column:gateway;size:64" json:"gateway"`
	AmountIn      float64 `gorm:"column:amount_in" json:"amount_in"`
	Fees          float64 `gorm:"column:fees" json:"fees"`
	Date          string  `gorm:"column:date;size:64" json:"date"`
}

func (Transaction) TableName() string {
	return "transactions"
}

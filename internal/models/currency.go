package models

// Currency maps to the host billing `currencies` table. Rate is relative to
// the host's base currency; Decimals is the canonical display precision.
type Currency struct {
	ID       int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code     string  `gorm:"column:code;size:8;uniqueIndex" json:"code"`
	Rate     float64 `gorm:"column:rate" json:"rate"`
	Decimals int     `gorm:"column:decimals" json:"decimals"`
}

func (Currency) TableName() string {
	return "currencies"
}

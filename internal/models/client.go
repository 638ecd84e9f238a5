package models

// Client maps to the host billing `clients` table.
type Client struct {
	ID           int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"column:email;size:255" json:"email"`
	FirstName    string `gorm:"column:first_name;size:128" json:"first_name"`
	LastName     string `gorm:"column:last_name;size:128" json:"last_name"`
	Phone        string `gorm:"column:phone;size:64" json:"phone"`
	CurrencyCode string `gorm:"column:currency_code;size:8" json:"currency_code"`
}

func (Client) TableName() string {
	return "clients"
}

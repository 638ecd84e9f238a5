package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inpaygate/internal/models"
)

// InvoiceRepository handles invoice database operations.
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// FindByID returns an invoice by its numeric id.
func (r *InvoiceRepository) FindByID(ctx context.Context, id int) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// MarkPaid sets an invoice's status to Paid and stamps the payment time.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    "Paid",
		"date_paid": fmt.Sprintf("%d", time.Now().Unix()),
	}).Error
}

package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inpaygate/internal/models"
)

// TransactionRepository handles applied-payment database operations.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Exists reports whether a transaction with the given external reference has
// been recorded. An empty reference never exists.
func (r *TransactionRepository) Exists(ctx context.Context, reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("transaction_id = ?", reference).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create records a payment. The unique index on transaction_id surfaces
// concurrent duplicates as gorm.ErrDuplicatedKey.
func (r *TransactionRepository) Create(ctx context.Context, invoiceID int, reference string, amount, fee float64, gateway string) error {
	tx := &models.Transaction{
		InvoiceID:     invoiceID,
		TransactionID: reference,
		Gateway:       gateway,
		AmountIn:      amount,
		Fees:          fee,
		Date:          fmt.Sprintf("%d", time.Now().Unix()),
	}
	return r.db.WithContext(ctx).Create(tx).Error
}

package repository

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"inpaygate/internal/models"
)

// CurrencyRepository handles currency lookups and conversion.
type CurrencyRepository struct {
	db *gorm.DB
}

func NewCurrencyRepository(db *gorm.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// FindByCode returns a currency by its code.
func (r *CurrencyRepository) FindByCode(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&currency).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

// Convert converts an amount from one currency code to another using the
// host's stored rates (relative to the base currency), rounded to the target
// currency's canonical precision.
func (r *CurrencyRepository) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	target, err := r.FindByCode(ctx, to)
	if err != nil {
		return 0, fmt.Errorf("target currency %s: %w", to, err)
	}
	if from == to {
		return roundTo(amount, target.Decimals), nil
	}

	source, err := r.FindByCode(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("source currency %s: %w", from, err)
	}
	if source.Rate == 0 {
		return 0, fmt.Errorf("source currency %s has no rate", from)
	}

	converted := amount / source.Rate * target.Rate
	return roundTo(converted, target.Decimals), nil
}

func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 2
	}
	pow := math.Pow10(decimals)
	return math.Round(v*pow) / pow
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inpaygate/internal/gateway"
)

// Ledger adapts the billing database repositories to the narrow surface the
// reconciliation core consumes.
type Ledger struct {
	invoices     *InvoiceRepository
	transactions *TransactionRepository
	currencies   *CurrencyRepository
}

func NewLedger(invoices *InvoiceRepository, transactions *TransactionRepository, currencies *CurrencyRepository) *Ledger {
	return &Ledger{
		invoices:     invoices,
		transactions: transactions,
		currencies:   currencies,
	}
}

func (l *Ledger) TransactionExists(ctx context.Context, reference string) (bool, error) {
	return l.transactions.Exists(ctx, reference)
}

func (l *Ledger) ResolveInvoice(ctx context.Context, invoiceID int) (*gateway.Invoice, error) {
	inv, err := l.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &gateway.Invoice{
		ID:           inv.ID,
		UserID:       inv.UserID,
		Number:       inv.InvoiceNum,
		CurrencyCode: inv.CurrencyCode,
		Total:        inv.Total,
		Status:       inv.Status,
	}, nil
}

func (l *Ledger) ApplyPayment(ctx context.Context, invoiceID int, reference string, amount, fee float64, gatewayName string) error {
	if err := l.transactions.Create(ctx, invoiceID, reference, amount, fee, gatewayName); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return gateway.ErrDuplicateTransaction
		}
		return err
	}
	// The payment row is the idempotency anchor; a failed status flip is
	// recoverable by the host and must not undo the applied payment.
	return l.invoices.MarkPaid(ctx, invoiceID)
}

func (l *Ledger) ConvertCurrency(ctx context.Context, amount float64, from, to string) (float64, error) {
	return l.currencies.Convert(ctx, amount, from, to)
}

package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Invoice statuses as kept by the host ledger.
const (
	InvoiceUnpaid    = "Unpaid"
	InvoicePaid      = "Paid"
	InvoiceCancelled = "Cancelled"
)

// Reconciliation failures. They are logged and discarded on the webhook path;
// the synchronous verification path maps them to structured JSON errors.
var (
	ErrDuplicateTransaction = errors.New("transaction already applied")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvoiceCancelled     = errors.New("invoice is cancelled")
	ErrInvoiceAlreadyPaid   = errors.New("invoice is already paid")
)

// Invoice is the host ledger's view of an invoice, as much of it as the
// reconciler needs.
type Invoice struct {
	ID           int
	UserID       int
	Number       string
	CurrencyCode string
	Total        float64
	Status       string
}

// Ledger is the narrow surface of the host billing platform consumed by the
// reconciliation core. The host owns all persistent state.
type Ledger interface {
	// TransactionExists reports whether a payment with this external
	// reference has already been applied.
	TransactionExists(ctx context.Context, reference string) (bool, error)

	// ResolveInvoice maps a raw invoice id to the invoice record.
	ResolveInvoice(ctx context.Context, invoiceID int) (*Invoice, error)

	// ApplyPayment records a payment against an invoice, keyed by the
	// transaction reference. Must fail with a duplicate error when the
	// reference was already applied.
	ApplyPayment(ctx context.Context, invoiceID int, reference string, amount, fee float64, gatewayName string) error

	// ConvertCurrency converts an amount between currency codes, rounded to
	// the target currency's canonical precision.
	ConvertCurrency(ctx context.Context, amount float64, from, to string) (float64, error)
}

// TxLogger records gateway decisions into the host's transaction log. The
// implementation is gated by the gatewayLogs configuration flag.
type TxLogger interface {
	Log(message, status string)
}

// Reconciler applies a verified transaction to the correct invoice exactly
// once. It owns no state; the ledger's transaction table is the only
// idempotency signal.
type Reconciler struct {
	ledger    Ledger
	txlog     TxLogger
	logger    *zap.Logger
	convertTo string
}

// NewReconciler creates a reconciler. convertTo is the configured settlement
// currency, empty when no conversion applies.
func NewReconciler(ledger Ledger, txlog TxLogger, logger *zap.Logger, convertTo string) *Reconciler {
	return &Reconciler{
		ledger:    ledger,
		txlog:     txlog,
		logger:    logger,
		convertTo: convertTo,
	}
}

// AlreadyApplied reports whether a reference has been applied. An empty
// reference is never "applied", and a ledger lookup failure is treated as not
// found: a duplicate-processing retry is preferred over blocking a legitimate
// payment, and the commit step is guarded again by the ledger's unique
// reference constraint.
func (r *Reconciler) AlreadyApplied(ctx context.Context, reference string) bool {
	if reference == "" {
		return false
	}
	exists, err := r.ledger.TransactionExists(ctx, reference)
	if err != nil {
		r.logger.Warn("idempotency lookup failed, treating as not applied",
			zap.String("reference", reference), zap.Error(err))
		return false
	}
	return exists
}

// Apply commits one payment. Each step is a precondition gate; the first
// failure wins. Amounts arrive in minor currency units and are divided by 100
// before ledger application.
func (r *Reconciler) Apply(ctx context.Context, invoiceID int, reference string, payload *TransactionPayload) error {
	if r.AlreadyApplied(ctx, reference) {
		r.txlog.Log(fmt.Sprintf("Payment already processed for reference: %s (duplicate prevented)", reference), "Information")
		return ErrDuplicateTransaction
	}

	invoice, err := r.ledger.ResolveInvoice(ctx, invoiceID)
	if err != nil {
		r.fail(reference, fmt.Sprintf("invoice %d lookup failed: %v", invoiceID, err))
		return ErrInvoiceNotFound
	}
	switch invoice.Status {
	case InvoiceCancelled:
		r.fail(reference, fmt.Sprintf("invoice %d is cancelled", invoiceID))
		return ErrInvoiceCancelled
	case InvoicePaid:
		r.fail(reference, fmt.Sprintf("invoice %d is already paid", invoiceID))
		return ErrInvoiceAlreadyPaid
	}

	amount := float64(payload.Amount) / 100

	if r.convertTo != "" && r.convertTo != invoice.CurrencyCode {
		converted, err := r.ledger.ConvertCurrency(ctx, amount, r.convertTo, invoice.CurrencyCode)
		if err != nil {
			r.fail(reference, fmt.Sprintf("currency conversion failed: %v", err))
			return err
		}
		amount = converted
	}

	if err := r.ledger.ApplyPayment(ctx, invoice.ID, reference, amount, 0, GatewayName); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			r.txlog.Log(fmt.Sprintf("Payment already processed for reference: %s (duplicate prevented)", reference), "Information")
			return ErrDuplicateTransaction
		}
		r.fail(reference, fmt.Sprintf("payment commit failed: %v", err))
		return err
	}

	r.txlog.Log(fmt.Sprintf("Payment added successfully for invoice %d", invoice.ID), "Successful")
	r.logger.Info("payment applied",
		zap.Int("invoice_id", invoice.ID),
		zap.String("reference", reference),
		zap.Float64("amount", amount))
	return nil
}

func (r *Reconciler) fail(reference, message string) {
	r.txlog.Log(fmt.Sprintf("Payment processing error: %s", message), "Unsuccessful")
	r.logger.Warn("reconciliation failed",
		zap.String("reference", reference), zap.String("detail", message))
}

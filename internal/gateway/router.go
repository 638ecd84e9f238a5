package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// GatewayName is the module identifier recorded against applied payments.
const GatewayName = "inpaycheckout"

// The processor emits one event family per payment rail. The four completed
// names are synonymous for routing purposes, as are the failed and cancelled
// variants.
var (
	completedEvents = map[string]bool{
		"payment.virtual_payid.completed":            true,
		"payment.checkout_payid.completed":           true,
		"payment.virtual_account.completed":          true,
		"payment.checkout_virtual_account.completed": true,
	}
	failedEvents = map[string]bool{
		"payment.virtual_payid.failed":            true,
		"payment.checkout_payid.failed":           true,
		"payment.virtual_account.failed":          true,
		"payment.checkout_virtual_account.failed": true,
	}
	cancelledEvents = map[string]bool{
		"payment.virtual_payid.cancelled":            true,
		"payment.checkout_payid.cancelled":           true,
		"payment.virtual_account.cancelled":          true,
		"payment.checkout_virtual_account.cancelled": true,
	}
)

// Router dispatches authenticated webhook events. Only completion events
// mutate the ledger; everything else is logged and acknowledged.
type Router struct {
	verifier Verifier
	recon    *Reconciler
	txlog    TxLogger
	logger   *zap.Logger
}

// NewRouter creates an event router.
func NewRouter(verifier Verifier, recon *Reconciler, txlog TxLogger, logger *zap.Logger) *Router {
	return &Router{
		verifier: verifier,
		recon:    recon,
		txlog:    txlog,
		logger:   logger,
	}
}

// Route processes one webhook event. All reconciliation failures are absorbed
// here: the HTTP layer always acknowledges an authenticated delivery so the
// processor does not retry conditions that will never resolve.
func (rt *Router) Route(ctx context.Context, ev *WebhookEvent) {
	switch {
	case completedEvents[ev.Event]:
		rt.handleCompleted(ctx, ev)

	case failedEvents[ev.Event]:
		rt.txlog.Log(fmt.Sprintf("Payment failure webhook received for reference: %s", ev.Data.Reference), "Unsuccessful")

	case cancelledEvents[ev.Event]:
		rt.txlog.Log(fmt.Sprintf("Payment cancellation webhook received for reference: %s", ev.Data.Reference), "Unsuccessful")

	default:
		rt.txlog.Log(fmt.Sprintf("Unhandled webhook event: %s", ev.Event), "Information")
	}
}

func (rt *Router) handleCompleted(ctx context.Context, ev *WebhookEvent) {
	reference := ev.Data.Reference
	rt.txlog.Log(fmt.Sprintf("Payment completion webhook received for reference: %s", reference), "Successful")

	invoiceID, hostRef, ok := ResolveIdentity(&ev.Data)
	if !ok {
		rt.logger.Warn("completion event without resolvable invoice identity",
			zap.String("event", ev.Event), zap.String("reference", reference))
		return
	}

	if rt.recon.AlreadyApplied(ctx, hostRef) {
		rt.txlog.Log(fmt.Sprintf("Payment already processed for reference: %s (duplicate prevented)", hostRef), "Information")
		return
	}

	// The webhook body is not trusted for money movement; the processor's
	// ledger is re-checked before anything is applied.
	result := rt.verifier.Verify(ctx, reference)
	if !result.Success || result.Data == nil || result.Data.Status != StatusCompleted {
		detail := result.Err
		if detail == "" && result.Data != nil {
			detail = "status " + result.Data.Status
		}
		rt.txlog.Log(fmt.Sprintf("Webhook received but API verification failed for reference: %s (%s)", reference, detail), "Unsuccessful")
		return
	}

	if err := rt.recon.Apply(ctx, invoiceID, hostRef, result.Data); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			return
		}
		rt.logger.Warn("webhook reconciliation not applied",
			zap.Int("invoice_id", invoiceID), zap.String("reference", hostRef), zap.Error(err))
		return
	}

	rt.txlog.Log(fmt.Sprintf("Payment successfully processed via webhook for reference: %s", hostRef), "Successful")
}

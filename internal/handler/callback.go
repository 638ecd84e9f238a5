package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inpaygate/internal/gateway"
)

// VerifyResponse is the JSON body returned to synchronous verification calls.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CallbackHandler serves the single gateway callback surface: webhook POST,
// synchronous verification POST (X-Verify-Payment) and legacy GET redirect.
type CallbackHandler struct {
	secret    string
	tolerance time.Duration
	systemURL string

	verifier gateway.Verifier
	recon    *gateway.Reconciler
	events   *gateway.Router
	txlog    gateway.TxLogger
	logger   *zap.Logger
}

// NewCallbackHandler creates the callback handler.
func NewCallbackHandler(
	secret string,
	tolerance time.Duration,
	systemURL string,
	verifier gateway.Verifier,
	recon *gateway.Reconciler,
	events *gateway.Router,
	txlog gateway.TxLogger,
	logger *zap.Logger,
) *CallbackHandler {
	if tolerance <= 0 {
		tolerance = gateway.DefaultReplayTolerance
	}
	return &CallbackHandler{
		secret:    secret,
		tolerance: tolerance,
		systemURL: systemURL,
		verifier:  verifier,
		recon:     recon,
		events:    events,
		txlog:     txlog,
		logger:    logger,
	}
}

// Callback dispatches inbound POSTs: a request carrying the X-Verify-Payment
// header is a client-triggered verification, anything else is a webhook
// delivery from the processor.
func (h *CallbackHandler) Callback(c echo.Context) error {
	if c.Request().Header.Get("X-Verify-Payment") != "" {
		return h.verifyPayment(c)
	}
	return h.webhook(c)
}

// ── Webhook path ─────────────────────────────────────────────────────

func (h *CallbackHandler) webhook(c echo.Context) error {
	req := c.Request()

	rawBody, err := io.ReadAll(req.Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid webhook data")
	}

	timestamp := req.Header.Get("X-Webhook-Timestamp")
	if !gateway.TimestampFresh(timestamp, h.tolerance) {
		h.txlog.Log(fmt.Sprintf("Invalid webhook timestamp: %s", timestamp), "Unsuccessful")
		return c.String(http.StatusBadRequest, "Invalid timestamp")
	}

	signature := req.Header.Get("X-Webhook-Signature")
	if !gateway.VerifySignature(rawBody, signature, h.secret) {
		h.txlog.Log("Invalid webhook signature", "Unsuccessful")
		return c.String(http.StatusUnauthorized, "Invalid signature")
	}

	ev, err := gateway.ParseEvent(rawBody)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid event data")
	}

	h.txlog.Log(fmt.Sprintf("Webhook event received: %s", ev.Event), "Information")

	// Everything below the boundary gates is swallowed: the processor gets
	// 200 regardless of reconciliation outcome, or it would retry forever on
	// conditions that will never resolve.
	h.events.Route(req.Context(), ev)

	return c.String(http.StatusOK, "OK")
}

// ── Synchronous verification path ────────────────────────────────────

type verifyRequest struct {
	Reference string          `json:"reference"`
	InvoiceID gateway.FlexInt `json:"invoice_id"`
}

func (h *CallbackHandler) verifyPayment(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, VerifyResponse{Success: false, Message: "invalid request body"})
	}
	if req.Reference == "" || req.InvoiceID <= 0 {
		return c.JSON(http.StatusBadRequest, VerifyResponse{Success: false, Message: "reference and invoice_id are required"})
	}

	ctx := c.Request().Context()
	invoiceID := int(req.InvoiceID)

	if h.recon.AlreadyApplied(ctx, req.Reference) {
		return c.JSON(http.StatusOK, VerifyResponse{Success: true, Message: "payment already applied"})
	}

	result := h.verifier.Verify(ctx, req.Reference)
	if !result.Success || result.Data == nil {
		return c.JSON(http.StatusOK, VerifyResponse{Success: false, Message: result.Err})
	}
	if result.Data.Status != gateway.StatusCompleted {
		return c.JSON(http.StatusOK, VerifyResponse{Success: false, Message: "payment not completed: status " + result.Data.Status})
	}

	// The caller names an invoice; the transaction's own identity must agree.
	resolvedID, hostRef, ok := gateway.ResolveIdentity(result.Data)
	if !ok {
		hostRef = req.Reference
		resolvedID = invoiceID
	}
	if resolvedID != invoiceID {
		h.txlog.Log(fmt.Sprintf("Verification invoice mismatch: reference %s resolves to invoice %d, caller sent %d", req.Reference, resolvedID, invoiceID), "Unsuccessful")
		return c.JSON(http.StatusOK, VerifyResponse{Success: false, Message: "transaction does not belong to this invoice"})
	}

	if err := h.recon.Apply(ctx, invoiceID, hostRef, result.Data); err != nil {
		if errors.Is(err, gateway.ErrDuplicateTransaction) {
			return c.JSON(http.StatusOK, VerifyResponse{Success: true, Message: "payment already applied"})
		}
		return c.JSON(http.StatusOK, VerifyResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(http.StatusOK, VerifyResponse{Success: true, Message: "payment applied"})
}

// ── Legacy GET redirect path ─────────────────────────────────────────

// CallbackRedirect handles the direct browser redirect after checkout. The
// webhook is the processing path of record; this only reports status. With a
// configured system URL the user lands back on the invoice view, otherwise
// the request is acknowledged with a bare 200.
func (h *CallbackHandler) CallbackRedirect(c echo.Context) error {
	invoiceID := c.QueryParam("invoiceid")
	reference := c.QueryParam("reference")
	if invoiceID == "" || reference == "" {
		return c.String(http.StatusBadRequest, "Invalid parameters")
	}

	applied := h.recon.AlreadyApplied(c.Request().Context(), reference)
	if applied {
		h.txlog.Log(fmt.Sprintf("Payment already processed via webhook for reference: %s", reference), "Information")
	} else {
		h.txlog.Log(fmt.Sprintf("GET callback received for reference: %s (payment processing pending)", reference), "Information")
	}

	if h.systemURL == "" {
		return c.String(http.StatusOK, "OK")
	}

	flag := "&paymentfailed=1"
	if applied {
		flag = "&paymentsuccess=1"
	}
	redirect := h.systemURL + "/viewinvoice.php?id=" + url.QueryEscape(invoiceID) + flag
	return c.Redirect(http.StatusFound, redirect)
}

package handler

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inpaygate/internal/gateway"
	"inpaygate/internal/models"
)

// InvoiceFinder looks up invoices for checkout-session creation.
type InvoiceFinder interface {
	FindByID(ctx context.Context, id int) (*models.Invoice, error)
}

// ClientFinder looks up billing clients for checkout-session creation.
type ClientFinder interface {
	FindByID(ctx context.Context, id int) (*models.Client, error)
}

// CheckoutSession carries everything the inline checkout SDK needs to open
// the hosted payment modal for one invoice.
type CheckoutSession struct {
	APIKey      string           `json:"api_key"`
	Reference   string           `json:"reference"`
	Amount      int64            `json:"amount"` // minor units (kobo)
	Currency    string           `json:"currency"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	CallbackURL string           `json:"callback_url"`
	Metadata    gateway.Metadata `json:"metadata"`
}

type checkoutRequest struct {
	InvoiceID gateway.FlexInt `json:"invoice_id"`
}

// CheckoutHandler creates checkout sessions for unpaid invoices.
type CheckoutHandler struct {
	publicKey   string
	callbackURL string
	invoices    InvoiceFinder
	clients     ClientFinder
	logger      *zap.Logger
}

func NewCheckoutHandler(publicKey, callbackURL string, invoices InvoiceFinder, clients ClientFinder, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		publicKey:   publicKey,
		callbackURL: callbackURL,
		invoices:    invoices,
		clients:     clients,
		logger:      logger,
	}
}

// CreateSession validates the invoice and returns the checkout parameters.
// The transaction reference is {invoiceId}_{unixSeconds}_{randomSuffix}; the
// reconciler treats it as opaque, but the first segment doubles as the
// invoice-id fallback when webhook metadata goes missing.
func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil || req.InvoiceID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invoice_id is required"})
	}

	ctx := c.Request().Context()
	invoiceID := int(req.InvoiceID)

	invoice, err := h.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "invoice not found"})
	}
	if invoice.Status != gateway.InvoiceUnpaid {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invoice is not payable"})
	}
	if invoice.CurrencyCode != "NGN" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "iNPAY Checkout only supports NGN currency"})
	}

	client, err := h.clients.FindByID(ctx, invoice.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
	}

	reference := newReference(invoiceID)

	session := CheckoutSession{
		APIKey:      h.publicKey,
		Reference:   reference,
		Amount:      int64(math.Round(invoice.Total * 100)),
		Currency:    invoice.CurrencyCode,
		Email:       strings.TrimSpace(client.Email),
		FirstName:   strings.TrimSpace(client.FirstName),
		LastName:    strings.TrimSpace(client.LastName),
		CallbackURL: sessionCallbackURL(h.callbackURL, invoiceID, reference),
		Metadata: gateway.Metadata{
			InvoiceID: gateway.FlexInt(invoiceID),
			Reference: reference,
			Phone:     strings.TrimSpace(client.Phone),
		},
	}

	h.logger.Info("checkout session created",
		zap.Int("invoice_id", invoiceID),
		zap.String("reference", reference),
		zap.Int64("amount_kobo", session.Amount))

	return c.JSON(http.StatusOK, session)
}

func newReference(invoiceID int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d_%d_%s", invoiceID, time.Now().Unix(), suffix)
}

// sessionCallbackURL builds the browser return URL for one session. The GET
// callback handler requires both query params to report payment status.
func sessionCallbackURL(base string, invoiceID int, reference string) string {
	q := url.Values{}
	q.Set("invoiceid", strconv.Itoa(invoiceID))
	q.Set("reference", reference)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

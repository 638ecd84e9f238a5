package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Transaction statuses reported by the processor.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// ErrMissingEvent indicates a webhook body without an event name.
var ErrMissingEvent = errors.New("missing event field")

// FlexInt decodes a JSON number or a numeric string. The checkout SDK and the
// processor API are not consistent about which one they send.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Tolerate decimal strings like "150000.00".
			fl, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return err
			}
			n = int64(fl)
		}
		*f = FlexInt(n)
		return nil
	}

	var fl float64
	if err := json.Unmarshal(b, &fl); err != nil {
		return err
	}
	*f = FlexInt(fl)
	return nil
}

// Metadata carries the host billing identifiers attached at checkout time.
// The inline SDK stringifies it, so it may arrive as a nested JSON string,
// a plain object, or an empty array when nothing was attached.
type Metadata struct {
	InvoiceID   FlexInt `json:"invoice_id"`
	Reference   string  `json:"reference"`
	Phone       string  `json:"phone"`
	CallbackURL string  `json:"callback_url"`
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte("[]")) {
		*m = Metadata{}
		return nil
	}

	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			*m = Metadata{}
			return nil
		}
		b = []byte(inner)
	}

	if b[0] != '{' {
		*m = Metadata{}
		return nil
	}

	type alias Metadata
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*m = Metadata(a)
	return nil
}

// TransactionPayload is the normalized transaction shape used by the router
// and reconciler. Amount is always in minor currency units (kobo).
type TransactionPayload struct {
	Reference string   `json:"reference"`
	Amount    FlexInt  `json:"amount"`
	Status    string   `json:"status"`
	Metadata  Metadata `json:"metadata"`
}

// WebhookEvent is one inbound webhook delivery. The body event name is
// authoritative; the X-Webhook-Event header is advisory only.
type WebhookEvent struct {
	Event string             `json:"event"`
	Data  TransactionPayload `json:"data"`
}

// ParseEvent decodes a raw webhook body into a WebhookEvent. A body without
// an event name is rejected before any routing happens.
func ParseEvent(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	if ev.Event == "" {
		return nil, ErrMissingEvent
	}
	return &ev, nil
}

// ResolveIdentity extracts the host invoice id and host transaction reference
// from a payload. Structured metadata wins; when it is absent or incomplete,
// the processor reference is split on "_" and the first segment taken as the
// invoice id (references are otherwise opaque — this is a last resort, and
// only applies when the split yields at least two parts).
func ResolveIdentity(p *TransactionPayload) (invoiceID int, hostRef string, ok bool) {
	if p.Metadata.InvoiceID > 0 && p.Metadata.Reference != "" {
		return int(p.Metadata.InvoiceID), p.Metadata.Reference, true
	}

	parts := strings.Split(p.Reference, "_")
	if len(parts) < 2 {
		return 0, "", false
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, p.Reference, true
}

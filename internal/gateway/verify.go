package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"inpaygate/internal/pkg/httpclient"
)

// DefaultAPIBase is the production processor API host.
const DefaultAPIBase = "https://api.inpaycheckout.com"

// VerificationResult is the uniform outcome of a transaction status check.
type VerificationResult struct {
	Success bool
	Data    *TransactionPayload
	Err     string
}

// Verifier confirms a transaction against the processor's ledger.
type Verifier interface {
	Verify(ctx context.Context, reference string) VerificationResult
}

// VerifyClient calls the processor's status/verify endpoints. The cheaper GET
// status check runs first; a transport error or non-200 falls back to the
// POST verify endpoint. There is no retry beyond those two attempts.
type VerifyClient struct {
	client *httpclient.Client
}

// NewVerifyClient creates a verification client for the given API base URL
// and secret key.
func NewVerifyClient(baseURL, secret string) *VerifyClient {
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}
	c := httpclient.New().
		WithBaseURL(baseURL).
		WithBearerToken(strings.TrimSpace(secret)).
		WithHeader("Accept", "application/json")
	return &VerifyClient{client: c}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Verify checks a transaction reference with the processor. Whichever attempt
// returns 200 with success=true and a non-empty data object wins; otherwise
// the most specific error collected is surfaced (API-reported message over
// generic HTTP or transport errors).
func (v *VerifyClient) Verify(ctx context.Context, reference string) VerificationResult {
	resp, err := v.client.Request().
		SetContext(ctx).
		SetQueryParam("reference", reference).
		Get("/api/v1/developer/transaction/status")

	if err != nil || resp.StatusCode() != 200 {
		transportErr := ""
		if err != nil {
			transportErr = fmt.Sprintf("status check failed: %v", err)
		} else {
			transportErr = fmt.Sprintf("status check failed: HTTP %d", resp.StatusCode())
		}

		resp, err = v.client.Request().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"reference": reference}).
			Post("/api/v1/developer/transaction/verify")
		if err != nil {
			return VerificationResult{Err: fmt.Sprintf("%s; verify failed: %v", transportErr, err)}
		}
		if resp.StatusCode() != 200 {
			return VerificationResult{Err: fmt.Sprintf("API error: HTTP %d - reference: %s", resp.StatusCode(), reference)}
		}
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return VerificationResult{Err: "invalid JSON response from API"}
	}

	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "unknown error"
		}
		return VerificationResult{Err: "API error: " + msg}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return VerificationResult{Err: "API returned empty transaction data"}
	}

	var payload TransactionPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return VerificationResult{Err: "invalid transaction data from API"}
	}

	return VerificationResult{Success: true, Data: &payload}
}

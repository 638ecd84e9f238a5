package gateway

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseEvent_Valid(t *testing.T) {
	body := []byte(`{
		"event": "payment.checkout_payid.completed",
		"data": {
			"reference": "42_1700000000_ab12cd34",
			"amount": 150000,
			"status": "completed",
			"metadata": {"invoice_id": 42, "reference": "42_1700000000_ab12cd34"}
		}
	}`)

	ev, err := ParseEvent(body)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if ev.Event != "payment.checkout_payid.completed" {
		t.Errorf("Unexpected event name: %s", ev.Event)
	}
	if ev.Data.Amount != 150000 {
		t.Errorf("Expected amount 150000, got %d", ev.Data.Amount)
	}
	if ev.Data.Metadata.InvoiceID != 42 {
		t.Errorf("Expected metadata invoice_id 42, got %d", ev.Data.Metadata.InvoiceID)
	}
}

func TestParseEvent_MissingEvent(t *testing.T) {
	if _, err := ParseEvent([]byte(`{"data":{"reference":"x"}}`)); !errors.Is(err, ErrMissingEvent) {
		t.Errorf("Expected ErrMissingEvent, got %v", err)
	}
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	if _, err := ParseEvent([]byte(`{not json`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestMetadata_StringifiedJSON(t *testing.T) {
	// The inline SDK sends metadata through JSON.stringify, so it arrives as
	// a nested JSON string.
	body := []byte(`{"reference":"r","amount":"150000","metadata":"{\"invoice_id\":\"42\",\"reference\":\"42_1_ab\",\"phone\":\"0800\"}"}`)

	var p TransactionPayload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Metadata.InvoiceID != 42 {
		t.Errorf("Expected invoice_id 42, got %d", p.Metadata.InvoiceID)
	}
	if p.Metadata.Reference != "42_1_ab" {
		t.Errorf("Expected reference 42_1_ab, got %s", p.Metadata.Reference)
	}
	if p.Amount != 150000 {
		t.Errorf("Expected amount 150000, got %d", p.Amount)
	}
}

func TestMetadata_EmptyArray(t *testing.T) {
	var p TransactionPayload
	if err := json.Unmarshal([]byte(`{"reference":"r","metadata":[]}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Metadata.InvoiceID != 0 || p.Metadata.Reference != "" {
		t.Error("Expected empty metadata for [] value")
	}
}

func TestMetadata_Null(t *testing.T) {
	var p TransactionPayload
	if err := json.Unmarshal([]byte(`{"reference":"r","metadata":null}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Metadata.InvoiceID != 0 {
		t.Error("Expected empty metadata for null value")
	}
}

func TestFlexInt_Variants(t *testing.T) {
	cases := []struct {
		in   string
		want FlexInt
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`150000`, 150000},
		{`"150000.00"`, 150000},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tc := range cases {
		var f FlexInt
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("Unmarshal(%s) failed: %v", tc.in, err)
			continue
		}
		if f != tc.want {
			t.Errorf("Unmarshal(%s) = %d, want %d", tc.in, f, tc.want)
		}
	}
}

func TestResolveIdentity_MetadataWins(t *testing.T) {
	p := &TransactionPayload{
		Reference: "99_1700000000_zz",
		Metadata:  Metadata{InvoiceID: 42, Reference: "host-ref-1"},
	}
	id, ref, ok := ResolveIdentity(p)
	if !ok || id != 42 || ref != "host-ref-1" {
		t.Errorf("Expected (42, host-ref-1, true), got (%d, %s, %v)", id, ref, ok)
	}
}

func TestResolveIdentity_ReferenceFallback(t *testing.T) {
	p := &TransactionPayload{Reference: "42_1700000000_ab12cd34"}
	id, ref, ok := ResolveIdentity(p)
	if !ok || id != 42 || ref != "42_1700000000_ab12cd34" {
		t.Errorf("Expected fallback to invoice 42, got (%d, %s, %v)", id, ref, ok)
	}
}

func TestResolveIdentity_Unresolvable(t *testing.T) {
	cases := []*TransactionPayload{
		{Reference: "nodelimiter"},
		{Reference: "abc_123"},
		{Reference: ""},
		{Reference: "0_123_ab"},
	}
	for _, p := range cases {
		if _, _, ok := ResolveIdentity(p); ok {
			t.Errorf("Expected reference %q to be unresolvable", p.Reference)
		}
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const (
	statusPath = "/api/v1/developer/transaction/status"
	verifyPath = "/api/v1/developer/transaction/verify"
)

func TestVerify_StatusEndpointSuccess(t *testing.T) {
	var gotAuth, gotRef string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotRef = r.URL.Query().Get("reference")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":{"reference":"42_1_aa","amount":150000,"status":"completed"}}`)
	}))
	defer srv.Close()

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "42_1_aa")

	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Err)
	}
	if result.Data.Status != StatusCompleted {
		t.Errorf("Expected completed status, got %s", result.Data.Status)
	}
	if result.Data.Amount != 150000 {
		t.Errorf("Expected amount 150000, got %d", result.Data.Amount)
	}
	if gotAuth != "Bearer sk_test_key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotRef != "42_1_aa" {
		t.Errorf("Expected reference query param, got %q", gotRef)
	}
}

func TestVerify_FallsBackToPostOnNon200(t *testing.T) {
	var postBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case statusPath:
			w.WriteHeader(http.StatusInternalServerError)
		case verifyPath:
			if r.Method != http.MethodPost {
				t.Errorf("Expected POST fallback, got %s", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &postBody)
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":true,"data":{"reference":"42_1_aa","amount":150000,"status":"completed"}}`)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "42_1_aa")

	if !result.Success {
		t.Fatalf("Expected fallback success, got error: %s", result.Err)
	}
	if postBody["reference"] != "42_1_aa" {
		t.Errorf("Expected reference in POST body, got %v", postBody)
	}
}

func TestVerify_NoRetryOn200BusinessFailure(t *testing.T) {
	verifyCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case statusPath:
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":false,"message":"transaction not found"}`)
		case verifyPath:
			verifyCalls++
		}
	}))
	defer srv.Close()

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "missing")

	if result.Success {
		t.Error("Expected business failure")
	}
	if !strings.Contains(result.Err, "transaction not found") {
		t.Errorf("Expected API-reported message to win, got %q", result.Err)
	}
	// A 200 with success=false is an answer, not a transport failure.
	if verifyCalls != 0 {
		t.Errorf("Expected no POST fallback after a 200 response, got %d calls", verifyCalls)
	}
}

func TestVerify_BothEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "42_1_aa")

	if result.Success {
		t.Error("Expected failure")
	}
	if !strings.Contains(result.Err, "HTTP 404") {
		t.Errorf("Expected HTTP status in error, got %q", result.Err)
	}
}

func TestVerify_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>gateway timeout</html>`)
	}))
	defer srv.Close()

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "42_1_aa")

	if result.Success || !strings.Contains(result.Err, "invalid JSON") {
		t.Errorf("Expected invalid JSON error, got %q", result.Err)
	}
}

func TestVerify_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":null}`)
	}))
	defer srv.Close()

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "42_1_aa")

	if result.Success {
		t.Error("Expected empty data to be treated as failure")
	}
	if !strings.Contains(result.Err, "empty transaction data") {
		t.Errorf("Unexpected error: %q", result.Err)
	}
}

func TestVerify_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := NewVerifyClient(srv.URL, "sk_test_key")
	result := client.Verify(context.Background(), "42_1_aa")

	if result.Success {
		t.Error("Expected transport failure")
	}
	if result.Err == "" {
		t.Error("Expected error detail for transport failure")
	}
}

package gateway

import (
	"context"
	"strings"
	"sync"
)

type appliedPayment struct {
	invoiceID int
	amount    float64
	fee       float64
	gateway   string
}

// fakeLedger is an in-memory stand-in for the host billing ledger.
type fakeLedger struct {
	mu       sync.Mutex
	invoices map[int]*Invoice
	applied  map[string]appliedPayment

	existsErr   error
	applyErr    error
	convertRate float64 // multiplier applied by ConvertCurrency, 0 = identity
	convertErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		invoices: make(map[int]*Invoice),
		applied:  make(map[string]appliedPayment),
	}
}

func (l *fakeLedger) TransactionExists(_ context.Context, reference string) (bool, error) {
	if l.existsErr != nil {
		return false, l.existsErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.applied[reference]
	return ok, nil
}

func (l *fakeLedger) ResolveInvoice(_ context.Context, invoiceID int) (*Invoice, error) {
	inv, ok := l.invoices[invoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

func (l *fakeLedger) ApplyPayment(_ context.Context, invoiceID int, reference string, amount, fee float64, gatewayName string) error {
	if l.applyErr != nil {
		return l.applyErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.applied[reference]; ok {
		return ErrDuplicateTransaction
	}
	l.applied[reference] = appliedPayment{
		invoiceID: invoiceID,
		amount:    amount,
		fee:       fee,
		gateway:   gatewayName,
	}
	return nil
}

func (l *fakeLedger) ConvertCurrency(_ context.Context, amount float64, _, _ string) (float64, error) {
	if l.convertErr != nil {
		return 0, l.convertErr
	}
	rate := l.convertRate
	if rate == 0 {
		rate = 1
	}
	return amount * rate, nil
}

// fakeTxLog records gateway log lines.
type fakeTxLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *fakeTxLog) Log(message, status string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, status+": "+message)
}

func (l *fakeTxLog) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// fakeVerifier returns a canned verification result.
type fakeVerifier struct {
	mu     sync.Mutex
	result VerificationResult
	calls  int
}

func (v *fakeVerifier) Verify(_ context.Context, _ string) VerificationResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	return v.result
}

func (v *fakeVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

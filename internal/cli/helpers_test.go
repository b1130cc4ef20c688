package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	nodela "github.com/nodela/nodela-go"
	"github.com/nodela/nodela-go/internal/config"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const testAPIKey = "sk_test_0123456789"

func envWithKey(key string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if name == config.EnvAPIKey && key != "" {
			return key, true
		}
		return "", false
	}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree against handler with the API key set in
// the environment and retries disabled.
func runCLI(t *testing.T, handler http.Handler, args ...string) cliResult {
	t.Helper()
	return runCLIWithEnv(t, handler, envWithKey(testAPIKey), args...)
}

func runCLIWithEnv(t *testing.T, handler http.Handler, lookup func(string) (string, bool), args ...string) cliResult {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := NewEnv(
		WithStdout(stdout),
		WithStderr(stderr),
		WithLookupEnv(lookup),
		WithClientOptions(nodela.WithRetryBackoff(time.Millisecond, 5*time.Millisecond)),
	)

	root := RootCmd(env, "test")
	root.SetArgs(append([]string{"--base-url", server.URL, "--max-retries", "0"}, args...))
	err := root.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeData(w http.ResponseWriter, status int, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= 400 {
		fmt.Fprintf(w, `{"success":false,"data":null,"error":%s}`, data)
		return
	}
	fmt.Fprintf(w, `{"success":true,"data":%s,"error":null}`, data)
}

const createdInvoiceJSON = `{
  "id": "c1",
  "invoice_id": "INV-1",
  "original_amount": "49.99",
  "original_currency": "USD",
  "amount": "49.99",
  "currency": "USDT",
  "checkout_url": "https://pay.nodela.co/INV-1",
  "status": "pending",
  "created_at": "2026-01-02T15:04:05Z"
}`

func verificationJSON(id string, paid bool) string {
	return fmt.Sprintf(`{
  "id": "v-%[1]s",
  "invoice_id": %[1]q,
  "original_amount": "10",
  "original_currency": "EUR",
  "amount": "10.83",
  "currency": "USDT",
  "status": "pending",
  "paid": %[2]t,
  "created_at": "2026-01-02T15:04:05Z"
}`, id, paid)
}

func transactionJSON(id string) string {
	return fmt.Sprintf(`{
  "id": %[1]q,
  "invoice_id": "INV-%[1]s",
  "reference": "",
  "original_amount": "10",
  "original_currency": "EUR",
  "amount": "10.83",
  "currency": "USDT",
  "exchange_rate": "1.083",
  "title": "",
  "description": "",
  "status": "completed",
  "paid": true,
  "customer": {"email": "ada@example.com"},
  "created_at": "2026-01-02T15:04:05Z",
  "payment": {
    "id": "pay-%[1]s",
    "network": "tron",
    "token": "USDT",
    "address": "TXYZ",
    "amount": "10.83",
    "status": "confirmed",
    "tx_hash": ["0xabc"],
    "transaction_type": "payment",
    "payer_email": "ada@example.com",
    "created_at": "2026-01-02T15:10:00Z"
  }
}`, id)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := ledger.NewRepository(context.Background(), kv.NewMemoryStore(), "")
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	service := services.NewTransactionService(repo, nil)
	srv := NewServer(":0", service, nil)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func createTransaction(t *testing.T, srv *Server, body string) core.Transaction {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var tx core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("create: decode response: %v", err)
	}
	return tx
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := doRequest(t, srv, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d", path, rec.Code)
		}
	}
}

func TestCreateAndGetTransaction(t *testing.T) {
	srv := newTestServer(t)

	tx := createTransaction(t, srv, `{"type":"expense","category":"food","amount":42.5,"date":"2024-03-10T00:00:00Z","comment":"groceries"}`)
	if tx.ID == "" {
		t.Fatal("expected an assigned id")
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/"+tx.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"amount":42.5`) {
		t.Fatalf("amount should serialize as a plain number, got %s", rec.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `{{{`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"zero amount", `{"type":"expense","category":"food","amount":0,"date":"2024-03-10T00:00:00Z"}`, http.StatusUnprocessableEntity},
		{"category mismatch", `{"type":"income","category":"food","amount":10,"date":"2024-03-10T00:00:00Z"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"type":"expense","category":"crypto","amount":10,"date":"2024-03-10T00:00:00Z"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateTransaction(t *testing.T) {
	srv := newTestServer(t)

	tx := createTransaction(t, srv, `{"type":"expense","category":"food","amount":10,"date":"2024-03-10T00:00:00Z"}`)

	rec := doRequest(t, srv, http.MethodPut, "/api/transactions/"+tx.ID, `{"amount":25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var updated core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Amount.String() != "25" {
		t.Fatalf("amount = %s, want 25", updated.Amount)
	}
	if updated.Category != core.Food {
		t.Fatalf("category should be unchanged, got %s", updated.Category)
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/transactions/missing", `{"amount":25}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing: status = %d, want 404", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv := newTestServer(t)

	tx := createTransaction(t, srv, `{"type":"expense","category":"food","amount":10,"date":"2024-03-10T00:00:00Z"}`)

	if rec := doRequest(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestListTransactionsWithFilters(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, `{"type":"expense","category":"food","amount":10,"date":"2024-03-10T00:00:00Z"}`)
	createTransaction(t, srv, `{"type":"income","category":"salary","amount":100,"date":"2024-03-15T00:00:00Z"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions?type=income", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != core.Income {
		t.Fatalf("unexpected filtered listing: %+v", txs)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/api/transactions?type=transfer", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown type filter: status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/api/transactions?dateFrom=10-03-2024", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad dateFrom: status = %d, want 400", rec.Code)
	}
}

func TestBalanceEndpoint(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, `{"type":"income","category":"salary","amount":150.5,"date":"2024-03-01T00:00:00Z"}`)
	createTransaction(t, srv, `{"type":"expense","category":"food","amount":40.25,"date":"2024-03-02T00:00:00Z"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/balance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"totalIncome":150.5`, `"totalExpense":40.25`, `"netBalance":110.25`} {
		if !strings.Contains(body, want) {
			t.Errorf("balance body missing %s: %s", want, body)
		}
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, `{"type":"income","category":"salary","amount":200,"date":"2024-01-05T00:00:00Z"}`)
	createTransaction(t, srv, `{"type":"expense","category":"food","amount":150,"date":"2024-01-10T00:00:00Z"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/analytics/statistics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("statistics: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"savingsRate":25`) {
		t.Fatalf("statistics body missing savings rate: %s", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/analytics/categories?period=all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories breakdown: status = %d", rec.Code)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/api/analytics/categories?period=decade", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown period: status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/api/analytics/statistics?months=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative months: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/analytics/periods", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"quarter"`) {
		t.Fatalf("periods: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/categories?type=income", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories: status = %d", rec.Code)
	}
	var opts []core.CategoryOption
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts) == 0 || opts[0].Value != core.Salary {
		t.Fatalf("unexpected income categories: %+v", opts)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/api/categories?type=transfer", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("grouped categories: status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"income"`) || !strings.Contains(body, `"expense"`) {
		t.Fatalf("grouped categories body: %s", body)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	createTransaction(t, srv, `{"type":"expense","category":"food","amount":10,"date":"2024-03-10T00:00:00Z"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status = %d", rec.Code)
	}
	exported := rec.Body.String()

	fresh := newTestServer(t)
	if rec := doRequest(t, fresh, http.MethodPost, "/api/import", exported); rec.Code != http.StatusOK {
		t.Fatalf("import: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, fresh, http.MethodGet, "/api/transactions", "")
	var txs []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("imported collection has %d records, want 1", len(txs))
	}
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	srv := newTestServer(t)
	createTransaction(t, srv, `{"type":"expense","category":"food","amount":10,"date":"2024-03-10T00:00:00Z"}`)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `nonsense`, http.StatusUnprocessableEntity},
		{"not an array", `{"a":1}`, http.StatusUnprocessableEntity},
		{"missing fields", `[{"id":"x"}]`, http.StatusUnprocessableEntity},
		{"empty body", ``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/import", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	// A rejected import never touches the stored collection.
	rec := doRequest(t, srv, http.MethodGet, "/api/transactions", "")
	var txs []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("collection changed after rejected imports: %d records", len(txs))
	}
}

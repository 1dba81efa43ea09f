package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	srv := NewServer("127.0.0.1:0", repo, repo, repo, Options{
		RequestTimeout:     5 * time.Second,
		RateLimitPerMinute: 1000,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func decodeInto(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
}

func errorKind(t *testing.T, raw []byte) string {
	t.Helper()
	var env errorEnvelope
	decodeInto(t, raw, &env)
	return env.Error.Kind
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	var banner map[string]string
	decodeInto(t, raw, &banner)
	if banner["message"] == "" || banner["version"] != Version {
		t.Fatalf("banner = %v", banner)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /health status = %d", resp.StatusCode)
	}
	var health map[string]string
	decodeInto(t, raw, &health)
	if health["status"] != "healthy" {
		t.Fatalf("health = %v", health)
	}
	if _, err := time.Parse(time.RFC3339, health["timestamp"]); err != nil {
		t.Fatalf("health timestamp %q: %v", health["timestamp"], err)
	}
}

func TestTransactionCreateGetRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	payload := map[string]any{
		"title":       "Groceries",
		"amount":      50.0,
		"category":    "Food & Dining",
		"type":        "expense",
		"date":        "2024-01-15",
		"time":        "10:00",
		"description": "weekly shop",
	}
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/transactions", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d body = %s", resp.StatusCode, raw)
	}
	var created core.Transaction
	decodeInto(t, raw, &created)
	if created.ID == 0 || created.CreatedAt == "" {
		t.Fatalf("created record missing server fields: %+v", created)
	}

	resp, raw = doJSON(t, http.MethodGet, fmt.Sprintf("%s/transactions/%d", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var fetched core.Transaction
	decodeInto(t, raw, &fetched)
	if fetched != created {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", fetched, created)
	}
}

func TestTransactionValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"invalid type", map[string]any{"title": "x", "amount": 1.0, "category": "Food & Dining", "type": "transfer", "date": "2024-01-01", "time": "10:00"}},
		{"missing title", map[string]any{"amount": 1.0, "category": "Food & Dining", "type": "expense", "date": "2024-01-01", "time": "10:00"}},
		{"missing amount", map[string]any{"title": "x", "category": "Food & Dining", "type": "expense", "date": "2024-01-01", "time": "10:00"}},
		{"negative amount", map[string]any{"title": "x", "amount": -5.0, "category": "Food & Dining", "type": "expense", "date": "2024-01-01", "time": "10:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doJSON(t, http.MethodPost, ts.URL+"/transactions", tc.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d body = %s", resp.StatusCode, raw)
			}
			if kind := errorKind(t, raw); kind != KindValidation {
				t.Fatalf("kind = %q, want %q", kind, KindValidation)
			}
		})
	}
}

func TestTransactionNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/transactions/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if kind := errorKind(t, raw); kind != KindNotFound {
		t.Fatalf("kind = %q", kind)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/transactions/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d", resp.StatusCode)
	}
}

func TestTransactionDeleteTwice(t *testing.T) {
	ts := newTestServer(t)

	_, raw := doJSON(t, http.MethodPost, ts.URL+"/transactions", map[string]any{
		"title": "Coffee", "amount": 3.5, "category": "Food & Dining",
		"type": "expense", "date": "2024-02-01", "time": "08:30",
	})
	var created core.Transaction
	decodeInto(t, raw, &created)

	url := fmt.Sprintf("%s/transactions/%d", ts.URL, created.ID)

	resp, raw := doJSON(t, http.MethodDelete, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first delete status = %d body = %s", resp.StatusCode, raw)
	}
	var confirmation map[string]string
	decodeInto(t, raw, &confirmation)
	if confirmation["message"] == "" {
		t.Fatalf("delete confirmation = %v", confirmation)
	}

	resp, raw = doJSON(t, http.MethodDelete, url, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d", resp.StatusCode)
	}
	if kind := errorKind(t, raw); kind != KindNotFound {
		t.Fatalf("kind = %q", kind)
	}
}

func TestTransactionListFilterAndOrder(t *testing.T) {
	ts := newTestServer(t)

	for _, p := range []map[string]any{
		{"title": "Salary", "amount": 2000.0, "category": "Salary", "type": "income", "date": "2024-01-01", "time": "09:00"},
		{"title": "Lunch", "amount": 12.0, "category": "Food & Dining", "type": "expense", "date": "2024-01-02", "time": "12:30"},
		{"title": "Bonus", "amount": 500.0, "category": "Salary", "type": "income", "date": "2024-01-03", "time": "09:00"},
	} {
		if resp, raw := doJSON(t, http.MethodPost, ts.URL+"/transactions", p); resp.StatusCode != http.StatusOK {
			t.Fatalf("create status = %d body = %s", resp.StatusCode, raw)
		}
	}

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/transactions?type=income", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []core.Transaction
	decodeInto(t, raw, &list)
	if len(list) != 2 {
		t.Fatalf("income rows = %d, want 2", len(list))
	}
	for _, tx := range list {
		if tx.Type != core.Income {
			t.Fatalf("filter leaked %q row", tx.Type)
		}
	}
	if list[0].Title != "Bonus" || list[1].Title != "Salary" {
		t.Fatalf("not sorted by (date desc, time desc): %+v", list)
	}
}

func TestCategoryCreateAndDuplicate(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var before []core.Category
	decodeInto(t, raw, &before)
	if len(before) != 12 {
		t.Fatalf("seeded categories = %d, want 12", len(before))
	}

	// Defaults applied when optional fields are omitted.
	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/categories", map[string]any{
		"name": "Pets", "type": "expense",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d body = %s", resp.StatusCode, raw)
	}
	var created core.Category
	decodeInto(t, raw, &created)
	if created.Budget != 0 || created.Icon != core.DefaultCategoryIcon || created.Color != core.DefaultCategoryColor {
		t.Fatalf("defaults not applied: %+v", created)
	}

	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/categories", map[string]any{
		"name": "Pets", "type": "expense", "budget": 50.0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d", resp.StatusCode)
	}
	if kind := errorKind(t, raw); kind != KindDuplicate {
		t.Fatalf("kind = %q, want %q", kind, KindDuplicate)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var after []core.Category
	decodeInto(t, raw, &after)
	if len(after) != len(before)+1 {
		t.Fatalf("category count = %d, want %d", len(after), len(before)+1)
	}

	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/categories", map[string]any{
		"name": "Gifts", "type": "presents",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad type status = %d", resp.StatusCode)
	}
	if kind := errorKind(t, raw); kind != KindValidation {
		t.Fatalf("kind = %q, want %q", kind, KindValidation)
	}
}

func TestBudgetScenario(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/transactions", map[string]any{
		"title":    "Groceries",
		"amount":   50.0,
		"category": "Food & Dining",
		"type":     "expense",
		"date":     "2024-01-15",
		"time":     "10:00",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d body = %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/budget/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", resp.StatusCode)
	}
	var summary core.BudgetSummary
	decodeInto(t, raw, &summary)
	if summary.TotalExpenses != 50.0 {
		t.Errorf("total expenses = %v, want 50", summary.TotalExpenses)
	}
	if summary.Balance != -50.0 {
		t.Errorf("balance = %v, want -50", summary.Balance)
	}
	if summary.Balance != summary.TotalIncome-summary.TotalExpenses {
		t.Errorf("balance arithmetic broken: %+v", summary)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/budget/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("spending status = %d", resp.StatusCode)
	}
	var rows []core.CategorySpending
	decodeInto(t, raw, &rows)
	if len(rows) != 8 {
		t.Fatalf("spending rows = %d, want 8", len(rows))
	}
	if rows[0].Name != "Food & Dining" {
		t.Fatalf("top spender = %q, want Food & Dining", rows[0].Name)
	}
	food := rows[0]
	if food.Spent != 50.0 || food.Remaining != 550.0 {
		t.Errorf("food row = %+v", food)
	}
	if math.Abs(food.Percentage-8.33) > 0.01 {
		t.Errorf("food percentage = %v, want ~8.33", food.Percentage)
	}
}

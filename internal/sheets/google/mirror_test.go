package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ledger/internal/core"
)

func TestNewClientRequiresTarget(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, Options{SheetName: "Ledger", CredentialsJSON: "{}"}); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if _, err := NewClient(ctx, Options{SpreadsheetID: "id", CredentialsJSON: "{}"}); err == nil {
		t.Fatal("expected error for missing sheet name")
	}
}

func TestReadCredentials(t *testing.T) {
	ctx := context.Background()

	if _, err := readCredentials(ctx, Options{}); err == nil {
		t.Fatal("expected error without credentials")
	}

	got, err := readCredentials(ctx, Options{CredentialsJSON: ` {"type":"service_account"} `, CredentialsFile: "/nope"})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Fatalf("inline credentials: got %q, err %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = readCredentials(ctx, Options{CredentialsFile: path})
	if err != nil || string(got) != `{"from":"file"}` {
		t.Fatalf("file credentials: got %q, err %v", got, err)
	}

	if _, err := readCredentials(ctx, Options{CredentialsFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected error for missing credentials file")
	}
}

func TestSyncWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "id", sheetName: "Ledger"}
	if err := c.Sync(context.Background(), nil); err == nil {
		t.Fatal("expected error when service is nil")
	}
}

type recordedCall struct {
	method string
	path   string
	values [][]any
}

func TestSyncClearsThenWrites(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, path: r.URL.Path}
		if r.Method == http.MethodPut {
			var vr struct {
				Values [][]any `json:"values"`
			}
			if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
				t.Errorf("decode update body: %v", err)
			}
			call.values = vr.Values
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := newClient(svc, "sheet-id", "Ledger")

	records := []core.Record{
		core.NewRecord("2024-01-01", core.Income, core.AmountFromInt(100), "salary"),
		core.NewRecord("2024-01-02", core.Expense, core.AmountFromInt(40), "food"),
	}
	if err := c.Sync(ctx, records); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("expected 2 API calls, got %d: %+v", len(calls), calls)
	}
	if calls[0].method != http.MethodPost || !strings.HasSuffix(calls[0].path, ":clear") {
		t.Fatalf("first call should clear the range, got %+v", calls[0])
	}
	if !strings.Contains(calls[0].path, "sheet-id") {
		t.Fatalf("clear call should target the spreadsheet, got %s", calls[0].path)
	}
	if calls[1].method != http.MethodPut {
		t.Fatalf("second call should update values, got %+v", calls[1])
	}
	if len(calls[1].values) != 3 || calls[1].values[0][0] != "Date" || calls[1].values[2][3] != "food" {
		t.Fatalf("unexpected written values %v", calls[1].values)
	}
}

func TestSyncHonoursCancelledContextWhileWaiting(t *testing.T) {
	c := newClient(&gsheet.Service{}, "sheet-id", "Ledger")
	c.limiter.SetBurst(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Sync(ctx, nil); err == nil {
		t.Fatal("expected error when the quota wait is cancelled")
	}
}

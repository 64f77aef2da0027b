package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/mamadbah2/fencequote/internal/config"
)

func TestSheetWriterAppendRows(t *testing.T) {
	var gotBody struct {
		Values [][]interface{} `json:"values"`
	}
	var gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123","updates":{"updatedRows":2}}`))
	}))
	defer srv.Close()

	writer, err := NewSheetWriter(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123"}, nil,
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewSheetWriter() error = %v", err)
	}

	updated, err := writer.AppendRows(context.Background(), ledgerRange,
		[]interface{}{"2026-03-02", "q-1", "=HYPERLINK(\"x\")"},
		[]interface{}{"2026-03-02", "q-2", "Dana"})
	if err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}
	if !strings.Contains(gotPath, "sheet-123") || !strings.HasSuffix(gotPath, ":append") {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "valueInputOption=RAW") || !strings.Contains(gotQuery, "insertDataOption=INSERT_ROWS") {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(gotBody.Values) != 2 || gotBody.Values[0][2] != "=HYPERLINK(\"x\")" {
		t.Fatalf("values = %v", gotBody.Values)
	}
}

func TestSheetWriterRejectsEmptyInput(t *testing.T) {
	if _, err := NewSheetWriter(context.Background(), config.SheetsConfig{}, nil); err == nil {
		t.Fatal("NewSheetWriter() without spreadsheet id error = nil")
	}

	writer := &SheetWriter{}
	if _, err := writer.AppendRows(context.Background(), ""); err == nil {
		t.Fatal("AppendRows() with empty range error = nil")
	}
	if n, err := writer.AppendRows(context.Background(), ledgerRange); err != nil || n != 0 {
		t.Fatalf("AppendRows() with no rows = %d, %v", n, err)
	}
}

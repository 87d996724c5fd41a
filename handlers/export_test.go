package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotationdesk/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "OBRA-2025-014 Bodega Funza", "OBRA-2025-014-Bodega-Funza"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"no special chars", "simple", "simple"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHandleProposalExportExcel_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-EXPORT-XLSX")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Cimentación zapatas")
	qw := testhelpers.CreateTestQuoteWork(t, app, work.Id)
	quote := testhelpers.CreateTestQuoteItem(t, app, item.Id, 750000, 0, 0)
	testhelpers.AttachQuoteToWork(t, app, quote, qw.Id)

	handler := HandleProposalExportExcel(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/works/%s/quote/export/excel", work.Id), nil)
	req.SetPathValue("workId", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	ct := rec.Header().Get("Content-Type")
	if !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("expected Excel content type, got %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "OBRA-EXPORT-XLSX") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

func TestHandleProposalExportPDF_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "OBRA-EXPORT-PDF")
	item := testhelpers.CreateTestItem(t, app, work.Id, "Instalación de gas")
	qw := testhelpers.CreateTestQuoteWork(t, app, work.Id)
	quote := testhelpers.CreateTestQuoteItem(t, app, item.Id, 420000, 0, 0)
	testhelpers.AttachQuoteToWork(t, app, quote, qw.Id)

	handler := HandleProposalExportPDF(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/works/%s/quote/export/pdf", work.Id), nil)
	req.SetPathValue("workId", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("expected body to start with PDF header")
	}
}

func TestHandleProposalExportPDF_WorkNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalExportPDF(app)
	req := httptest.NewRequest(http.MethodGet, "/api/works/nonexistent/quote/export/pdf", nil)
	req.SetPathValue("workId", "nonexistent")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

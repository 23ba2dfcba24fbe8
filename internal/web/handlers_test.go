package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/ops"
	"github.com/hpungsan/debtmap/internal/storage"
)

// newTestHandler returns the configured HTTP handler and its engine.
func newTestHandler(t *testing.T) (http.Handler, *storage.Engine) {
	t.Helper()

	eng := storage.NewEngine(filepath.Join(t.TempDir(), "debts.json"), "testproject")
	if err := eng.Initialize(); err != nil {
		t.Fatalf("failed to initialize storage: %v", err)
	}

	srv := NewServer(eng, config.DefaultConfig(), "test", "127.0.0.1", 0)
	return srv.Handler, eng
}

// seedEntry creates one entry and returns its id.
func seedEntry(t *testing.T, eng *storage.Engine) string {
	t.Helper()

	notes := "some *emphasized* context"
	out, err := ops.Create(eng, ops.CreateInput{
		Title:       "Replace ad-hoc retry loop",
		Description: "Client retries forever without backoff",
		FilePath:    "internal/client/client.go",
		LineNumber:  120,
		Notes:       &notes,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	return out.Entry.ID
}

func TestRootRedirectsToDebts(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/debts" {
		t.Errorf("Location = %q, want /debts", loc)
	}
}

func TestListPage(t *testing.T) {
	handler, eng := newTestHandler(t)
	seedEntry(t, eng)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Replace ad-hoc retry loop") {
		t.Error("list page should contain the entry title")
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestListPage_FilterAndValidation(t *testing.T) {
	handler, eng := newTestHandler(t)
	seedEntry(t, eng)

	// A filter that matches nothing still renders.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debts?status=closed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Replace ad-hoc retry loop") {
		t.Error("closed filter should exclude the open entry")
	}

	// An invalid filter token renders the error page.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debts?status=done", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListPage_JSONError(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/debts?severity=extreme", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), `"VALIDATION"`) {
		t.Errorf("JSON error should carry the code, got: %s", rec.Body.String())
	}
}

func TestDetailPage(t *testing.T) {
	handler, eng := newTestHandler(t)
	id := seedEntry(t, eng)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debts/"+id, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Replace ad-hoc retry loop") {
		t.Error("detail page should contain the entry title")
	}
	if !strings.Contains(body, "<em>emphasized</em>") {
		t.Error("notes markdown should be rendered to HTML")
	}
}

func TestDetailPage_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debts/debt-1-zzzzzzzz", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTransitionForm(t *testing.T) {
	handler, eng := newTestHandler(t)
	id := seedEntry(t, eng)

	form := url.Values{"status": {"in-progress"}}
	req := httptest.NewRequest(http.MethodPost, "/debts/"+id+"/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/debts/"+id {
		t.Errorf("Location = %q, want the detail page", loc)
	}

	got, err := ops.Get(eng, ops.GetInput{ID: id})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Entry.Status != debt.StatusInProgress {
		t.Errorf("Status = %q, want in-progress", got.Entry.Status)
	}
}

func TestTransitionForm_Invalid(t *testing.T) {
	handler, eng := newTestHandler(t)
	id := seedEntry(t, eng)

	form := url.Values{"status": {"closed"}}
	req := httptest.NewRequest(http.MethodPost, "/debts/"+id+"/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// open -> closed is allowed, but closed -> closed on a second submit is not.
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("first transition status = %d, want 303", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/debts/"+id+"/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("repeat transition status = %d, want 409", rec.Code)
	}
}

func TestDeleteForm(t *testing.T) {
	handler, eng := newTestHandler(t)
	id := seedEntry(t, eng)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debts/"+id+"/delete", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/debts" {
		t.Errorf("Location = %q, want /debts", loc)
	}

	if _, err := ops.Get(eng, ops.GetInput{ID: id}); err == nil {
		t.Error("entry should be gone after delete")
	}
}

func TestStatsPage(t *testing.T) {
	handler, eng := newTestHandler(t)
	seedEntry(t, eng)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debts/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "testproject") {
		t.Error("stats page should carry the project name")
	}
}

func TestStaticAssets(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

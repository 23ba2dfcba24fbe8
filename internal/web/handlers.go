package web

import (
	"net/http"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/ops"
	"github.com/hpungsan/debtmap/internal/storage"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	eng      *storage.Engine
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /debts, listing entries with optional filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ops.ListInput{
		FilePath: q.Get("file"),
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
	}

	result, err := ops.List(h.eng, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Debt Entries",
			Version: h.renderer.version,
			Nav:     "debts",
		},
		Items:    result.Items,
		Total:    result.Total,
		Status:   input.Status,
		Severity: input.Severity,
		Category: input.Category,
		FilePath: input.FilePath,
		Tag:      input.Tag,
		Statuses: debt.Statuses(),
	})
}

// HandleDetail handles GET /debts/{id}: one entry with rendered markdown.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.Get(h.eng, ops.GetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	entry := result.Entry
	data := DetailPageData{
		PageData: PageData{
			Title:   entry.Title,
			Version: h.renderer.version,
			Nav:     "debts",
		},
		Entry:        entry,
		NextStatuses: entry.Status.AllowedTransitions(),
	}
	if entry.Notes != nil {
		data.NotesHTML = h.renderer.renderMarkdown(*entry.Notes)
	}
	if entry.Context != nil {
		data.ContextHTML = h.renderer.renderMarkdown("```\n" + *entry.Context + "\n```")
	}

	h.renderer.renderPage(w, "detail", data)
}

// HandleTransition handles POST /debts/{id}/status, moving an entry through
// the lifecycle and bouncing back to its detail page.
func (h *Handlers) HandleTransition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status := r.FormValue("status")

	if _, err := ops.Transition(h.eng, ops.TransitionInput{ID: id, Status: status}); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/debts/"+id, http.StatusSeeOther)
}

// HandleDelete handles POST /debts/{id}/delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := ops.Delete(h.eng, ops.DeleteInput{ID: id}); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/debts", http.StatusSeeOther)
}

// HandleStats handles GET /debts/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Stats(h.eng)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "stats", StatsPageData{
		PageData: PageData{
			Title:   "Stats",
			Version: h.renderer.version,
			Nav:     "stats",
		},
		Stats: result,
	})
}

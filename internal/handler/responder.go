package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go-admin-panel/internal/view"
)

type Mode int

const (
	ModePage Mode = iota
	ModeFragment
	ModeJSON
)

func (m Mode) String() string {
	switch m {
	case ModeFragment:
		return "fragment"
	case ModeJSON:
		return "json"
	default:
		return "page"
	}
}

// ModeOf decides how a request is answered. HTMX requests get fragments;
// API paths and clients asking for JSON get the JSON envelope; everything
// else gets a full page.
func ModeOf(r *http.Request) Mode {
	if strings.EqualFold(r.Header.Get("HX-Request"), "true") {
		return ModeFragment
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return ModeJSON
	}
	if accept := r.Header.Get("Accept"); strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return ModeJSON
	}

	return ModePage
}

// Responder writes listing results and failures in one response mode. It is
// chosen once per request so handlers never branch on the mode themselves.
type Responder interface {
	Mode() Mode
	List(w http.ResponseWriter, v view.ListView)
	ListError(w http.ResponseWriter, v view.ListView, err error)
	Error(w http.ResponseWriter, chrome view.Chrome, colspan int, err error)
}

func NewResponder(r *http.Request, renderer *view.Renderer) Responder {
	switch ModeOf(r) {
	case ModeFragment:
		return fragmentResponder{renderer: renderer}
	case ModeJSON:
		return jsonResponder{}
	default:
		return pageResponder{renderer: renderer}
	}
}

type jsonResponder struct{}

func (jsonResponder) Mode() Mode { return ModeJSON }

func (jsonResponder) List(w http.ResponseWriter, v view.ListView) {
	p := v.Pagination
	writeSuccess(w, http.StatusOK, v.Data, &p)
}

func (jsonResponder) ListError(w http.ResponseWriter, _ view.ListView, err error) {
	writeError(w, err)
}

func (jsonResponder) Error(w http.ResponseWriter, _ view.Chrome, _ int, err error) {
	writeError(w, err)
}

// fragmentResponder answers HTMX swaps. Failures are rendered inline with
// status 200 because HTMX does not swap error responses by default.
type fragmentResponder struct {
	renderer *view.Renderer
}

func (fragmentResponder) Mode() Mode { return ModeFragment }

func (f fragmentResponder) List(w http.ResponseWriter, v view.ListView) {
	renderHTML(w, f.renderer, http.StatusOK, "fragment", v)
}

func (f fragmentResponder) ListError(w http.ResponseWriter, v view.ListView, err error) {
	_, body := classify(err)
	renderHTML(w, f.renderer, http.StatusOK, "fragment", v.WithError(userMessage(body)))
}

func (f fragmentResponder) Error(w http.ResponseWriter, chrome view.Chrome, colspan int, err error) {
	_, body := classify(err)
	renderHTML(w, f.renderer, http.StatusOK, "error_fragment", view.ErrorView{
		Chrome:  chrome,
		Message: userMessage(body),
		Colspan: colspan,
	})
}

// pageResponder renders full documents. A failed listing still renders the
// page, empty and with the error shown.
type pageResponder struct {
	renderer *view.Renderer
}

func (pageResponder) Mode() Mode { return ModePage }

func (p pageResponder) List(w http.ResponseWriter, v view.ListView) {
	renderHTML(w, p.renderer, http.StatusOK, "list", v)
}

func (p pageResponder) ListError(w http.ResponseWriter, v view.ListView, err error) {
	_, body := classify(err)
	renderHTML(w, p.renderer, http.StatusOK, "list", v.WithError(userMessage(body)))
}

func (p pageResponder) Error(w http.ResponseWriter, chrome view.Chrome, _ int, err error) {
	status, body := classify(err)
	chrome.Title = http.StatusText(status)
	renderHTML(w, p.renderer, status, "error_page", view.ErrorView{
		Chrome:  chrome,
		Status:  status,
		Message: userMessage(body),
	})
}

func renderHTML(w http.ResponseWriter, renderer *view.Renderer, status int, name string, data any) {
	var buf strings.Builder
	if err := renderer.Render(&buf, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Unexpected server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}

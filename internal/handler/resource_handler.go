package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
	"go-admin-panel/internal/service"
	"go-admin-panel/internal/view"
	"go-admin-panel/pkg/apierror"
)

const maxBodyBytes = 1 << 20

// ResourceHandler serves every registered resource through the same listing
// and mutation endpoints.
type ResourceHandler struct {
	registry *resource.Registry
	listing  *service.ListingService
	records  *service.RecordService
	renderer *view.Renderer
}

func NewResourceHandler(registry *resource.Registry, listing *service.ListingService, records *service.RecordService, renderer *view.Renderer) *ResourceHandler {
	return &ResourceHandler{registry: registry, listing: listing, records: records, renderer: renderer}
}

// Resources describes the registered resources: columns, actions and the
// fields that can be searched, filtered and written.
func (h *ResourceHandler) Resources(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.registry.All(), nil)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	resp := NewResponder(r, h.renderer)

	res, err := h.resource(r)
	if err != nil {
		resp.Error(w, h.renderer.Chrome("", ""), 1, err)
		return
	}

	h.respondListing(w, r, resp, res, false)
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := NewResponder(r, h.renderer)

	res, err := h.resource(r)
	if err != nil {
		resp.Error(w, h.renderer.Chrome("", ""), 1, err)
		return
	}

	row, err := h.records.Get(r.Context(), res, chi.URLParam(r, "id"))
	if err != nil {
		resp.Error(w, h.renderer.Chrome(res.Title, res.Name), res.Colspan(), err)
		return
	}

	if resp.Mode() == ModeJSON {
		writeSuccess(w, http.StatusOK, row, nil)
		return
	}

	chrome := h.renderer.Chrome(res.Title, res.Name)
	renderHTML(w, h.renderer, http.StatusOK, "detail", view.NewDetailView(chrome, res, row, h.listURL(res)))
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, err := h.resource(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input, err := decodeRow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	row, err := h.records.Create(r.Context(), res, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, row, nil)
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	res, err := h.resource(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input, err := decodeRow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	row, err := h.records.Update(r.Context(), res, chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, row, nil)
}

// Delete removes one row. JSON callers get the deleted row's label; HTMX
// callers get the refreshed listing fragment for the page they were on.
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resp := NewResponder(r, h.renderer)

	res, err := h.resource(r)
	if err != nil {
		resp.Error(w, h.renderer.Chrome("", ""), 1, err)
		return
	}

	result, err := h.records.Delete(r.Context(), res, chi.URLParam(r, "id"))
	if err != nil {
		resp.Error(w, h.renderer.Chrome(res.Title, res.Name), res.Colspan(), err)
		return
	}

	switch resp.Mode() {
	case ModeJSON:
		writeSuccess(w, http.StatusOK, result, nil)
	case ModeFragment:
		w.Header().Set("HX-Trigger", `{"rowDeleted":`+mustJSON(result.Label)+`}`)
		h.respondListing(w, r, resp, res, true)
	default:
		http.Redirect(w, r, h.listURL(res)+queryString(r), http.StatusSeeOther)
	}
}

// BulkAction applies a declared bulk action to the rows named by the ids
// form values and answers with the refreshed listing.
func (h *ResourceHandler) BulkAction(w http.ResponseWriter, r *http.Request) {
	resp := NewResponder(r, h.renderer)

	res, err := h.resource(r)
	if err != nil {
		resp.Error(w, h.renderer.Chrome("", ""), 1, err)
		return
	}
	chrome := h.renderer.Chrome(res.Title, res.Name)

	action := strings.ToLower(chi.URLParam(r, "action"))
	if action != "delete" || !hasAction(res.BulkActions, action) {
		resp.Error(w, chrome, res.Colspan(), apierror.BadRequest("unsupported bulk action", action))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		resp.Error(w, chrome, res.Colspan(), apierror.BadRequest("invalid form body", err.Error()))
		return
	}

	ids := lo.Uniq(lo.Compact(r.PostForm["ids"]))
	results := make([]model.DeleteResult, 0, len(ids))
	for _, id := range ids {
		result, err := h.records.Delete(r.Context(), res, id)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			resp.Error(w, chrome, res.Colspan(), err)
			return
		}
		results = append(results, result)
	}

	if resp.Mode() == ModeJSON {
		writeSuccess(w, http.StatusOK, results, nil)
		return
	}
	if resp.Mode() == ModePage {
		http.Redirect(w, r, h.listURL(res)+queryString(r), http.StatusSeeOther)
		return
	}

	h.respondListing(w, r, resp, res, true)
}

// respondListing runs the listing contract for the request's query string.
// With afterDelete set, a page left empty by the delete falls back to the
// last page; plain listings return the requested page even when it is empty.
func (h *ResourceHandler) respondListing(w http.ResponseWriter, r *http.Request, resp Responder, res *resource.Resource, afterDelete bool) {
	query := r.URL.Query()
	req := h.listing.ParseRequest(res, query)
	chrome := h.renderer.Chrome(res.Title, res.Name)

	result, err := h.listing.List(r.Context(), res, req)
	if err != nil {
		empty := model.ListingResult{Page: req.Page, Limit: req.Limit}
		resp.ListError(w, view.NewListView(chrome, res, empty, query, h.listURL(res)), err)
		return
	}

	if afterDelete && len(result.Rows) == 0 && req.Page > 1 && result.Total > 0 {
		req.Page = result.Pagination().TotalPages
		if result, err = h.listing.List(r.Context(), res, req); err != nil {
			empty := model.ListingResult{Page: req.Page, Limit: req.Limit}
			resp.ListError(w, view.NewListView(chrome, res, empty, query, h.listURL(res)), err)
			return
		}
	}

	resp.List(w, view.NewListView(chrome, res, result, query, h.listURL(res)))
}

func (h *ResourceHandler) resource(r *http.Request) (*resource.Resource, error) {
	return h.registry.Get(chi.URLParam(r, "resource"))
}

func (h *ResourceHandler) listURL(res *resource.Resource) string {
	return h.renderer.BasePath() + "/" + res.Name
}

func decodeRow(r *http.Request) (model.Row, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var input model.Row
	if err := dec.Decode(&input); err != nil {
		return nil, apierror.BadRequest("invalid JSON body", err.Error())
	}
	if input == nil {
		return nil, apierror.BadRequest("invalid JSON body", "expected an object")
	}

	return input, nil
}

func hasAction(actions []model.Action, name string) bool {
	for _, a := range actions {
		if strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

func queryString(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return ""
	}
	return "?" + r.URL.RawQuery
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}

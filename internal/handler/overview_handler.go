package handler

import (
	"net/http"

	"go-admin-panel/internal/service"
	"go-admin-panel/internal/view"
)

type OverviewHandler struct {
	service  *service.OverviewService
	renderer *view.Renderer
}

func NewOverviewHandler(service *service.OverviewService, renderer *view.Renderer) *OverviewHandler {
	return &OverviewHandler{service: service, renderer: renderer}
}

// Show reports the row count of every table. Tables that cannot be counted
// are marked rather than failing the response.
func (h *OverviewHandler) Show(w http.ResponseWriter, r *http.Request) {
	overview := h.service.Counts(r.Context())

	if ModeOf(r) == ModeJSON {
		writeSuccess(w, http.StatusOK, overview, nil)
		return
	}

	renderHTML(w, h.renderer, http.StatusOK, "overview", view.OverviewView{
		Chrome:   h.renderer.Chrome("Overview", ""),
		Overview: overview,
	})
}

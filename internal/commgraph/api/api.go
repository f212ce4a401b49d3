// Package api: 통신 그래프 조회 엔드포인트
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rlaaudgjs5638/contractGraph/internal/commgraph/app"
	"github.com/rlaaudgjs5638/contractGraph/server/utils"
)

const defaultHubCount = 10

type graphProvider interface {
	LoadCommGraph() (*app.CommunicationGraph, error)
}

// CommGraphAPIHandler 통신 그래프 API 핸들러
type CommGraphAPIHandler struct {
	provider graphProvider
}

func NewCommGraphAPIHandler(provider graphProvider) *CommGraphAPIHandler {
	return &CommGraphAPIHandler{provider: provider}
}

// RegisterRoutes ModuleRegistrar 인터페이스 구현
func (h *CommGraphAPIHandler) RegisterRoutes(router *chi.Mux) error {
	router.Get("/api/commgraph", h.handleGraph)
	router.Get("/api/commgraph/viz", h.handleViz)
	router.Get("/api/commgraph/hubs", h.handleHubs)
	return nil
}

func (h *CommGraphAPIHandler) withGraph(w http.ResponseWriter) (*app.CommunicationGraph, bool) {
	g, err := h.provider.LoadCommGraph()
	if err != nil {
		utils.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	if g == nil {
		utils.WriteErrorResponse(w, "communication graph not generated yet", http.StatusNotFound)
		return nil, false
	}
	return g, true
}

func (h *CommGraphAPIHandler) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := h.withGraph(w)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, g)
}

func (h *CommGraphAPIHandler) handleViz(w http.ResponseWriter, r *http.Request) {
	g, ok := h.withGraph(w)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, g.ToVizFormat())
}

// handleHubs: ?n= 으로 상위 허브 개수 조정 (기본 10)
func (h *CommGraphAPIHandler) handleHubs(w http.ResponseWriter, r *http.Request) {
	g, ok := h.withGraph(w)
	if !ok {
		return
	}
	n := utils.ParseIntParam(r, "n", defaultHubCount)
	if n <= 0 {
		utils.WriteErrorResponse(w, "n must be positive", http.StatusBadRequest)
		return
	}
	utils.WriteJSONResponse(w, g.Hubs(n))
}

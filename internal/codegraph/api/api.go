// Package api: 코드 그래프 조회 엔드포인트
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rlaaudgjs5638/contractGraph/internal/codegraph/app"
	"github.com/rlaaudgjs5638/contractGraph/server/utils"
)

// graphProvider: 저장된 코드 그래프를 읽어오는 쪽 (persistence.Store가 구현)
type graphProvider interface {
	LoadCodeGraph() (*app.CodeGraph, error)
}

// CodeGraphAPIHandler 코드 그래프 API 핸들러
type CodeGraphAPIHandler struct {
	provider graphProvider
}

func NewCodeGraphAPIHandler(provider graphProvider) *CodeGraphAPIHandler {
	return &CodeGraphAPIHandler{provider: provider}
}

// RegisterRoutes ModuleRegistrar 인터페이스 구현
func (h *CodeGraphAPIHandler) RegisterRoutes(router *chi.Mux) error {
	router.Get("/api/codegraph", h.handleGraph)
	router.Get("/api/codegraph/viz", h.handleViz)
	router.Get("/api/codegraph/stats", h.handleStats)
	return nil
}

// withGraph: 그래프 로드 실패/부재를 한 곳에서 처리
func (h *CodeGraphAPIHandler) withGraph(w http.ResponseWriter) (*app.CodeGraph, bool) {
	g, err := h.provider.LoadCodeGraph()
	if err != nil {
		utils.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	if g == nil {
		utils.WriteErrorResponse(w, "code graph not generated yet", http.StatusNotFound)
		return nil, false
	}
	return g, true
}

func (h *CodeGraphAPIHandler) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := h.withGraph(w)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, g)
}

func (h *CodeGraphAPIHandler) handleViz(w http.ResponseWriter, r *http.Request) {
	g, ok := h.withGraph(w)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, g.ToVizFormat())
}

func (h *CodeGraphAPIHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	g, ok := h.withGraph(w)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, g.Stats())
}

// Package handler internal/infrastructure/handler/trend_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jlozanoc/xchange-service/internal/application/service"
	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/metrics"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/middleware"
)

// TrendHandler serves the 30-day chart for a currency pair, as plot geometry
// or rendered SVG.
type TrendHandler struct {
	service *service.TrendService
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(svc *service.TrendService, m *metrics.Metrics, log logger.Logger) *TrendHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TrendHandler{
		service: svc,
		metrics: m,
		logger:  log,
	}
}

// GetTrend builds and renders the chart for a pair. Historical-data failures
// never surface here: the series silently degrades to a synthetic one.
func (h *TrendHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if len(from) != 3 || len(to) != 3 {
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Both 'from' and 'to' must be 3-letter currency codes (e.g. EUR, PEN)",
			http.StatusBadRequest, requestID)
		return
	}

	width, _ := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	height, _ := strconv.ParseFloat(r.URL.Query().Get("height"), 64)

	if geom, ok := h.service.Cached(from, to, width, height); ok {
		h.countBuild("cached")
		h.respond(w, r, geom, from, to)
		return
	}

	series, geom, _, err := h.service.Refresh(r.Context(), from, to, width, height)
	if err != nil {
		h.logger.Error("Failed to render trend", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"The trend chart could not be rendered", http.StatusInternalServerError, requestID)
		return
	}

	if series.Synthetic {
		h.countBuild("synthetic")
	} else {
		h.countBuild("historical")
	}
	h.respond(w, r, geom, from, to)
}

func (h *TrendHandler) respond(w http.ResponseWriter, r *http.Request, geom entity.PlotGeometry, from, to string) {
	if r.URL.Query().Get("format") == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(RenderSVG(geom, from, to)))
		return
	}
	sendJSON(w, geom)
}

func (h *TrendHandler) countBuild(mode string) {
	if h.metrics != nil {
		h.metrics.TrendBuildsTotal.WithLabelValues(mode).Inc()
	}
}

// RegisterRoutes registers the trend handler routes
func (h *TrendHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/trend", h.GetTrend).Methods("GET")

	h.logger.Info("Trend routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/trend",
		},
	})
}

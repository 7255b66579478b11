// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jlozanoc/xchange-service/internal/application/service"
	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/cache"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/metrics"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/middleware"
	"github.com/jlozanoc/xchange-service/internal/locale"
)

// defaultTo mirrors the widget's fixed initial target currency.
const defaultTo = "USD"

// ConversionHandler handles HTTP requests for rates, conversion, history and
// the initial-pair heuristic.
type ConversionHandler struct {
	service *service.ConversionService
	store   *cache.SnapshotStore
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(svc *service.ConversionService, store *cache.SnapshotStore, m *metrics.Metrics, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: svc,
		store:   store,
		metrics: m,
		logger:  log,
	}
}

// GetRates describes the installed snapshot: base, labeled currencies,
// freshness and origin.
func (h *ConversionHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snapshot, ok := h.store.Current()
	if !ok {
		sendErrorResponse(w, h.logger, "Rates unavailable",
			"No exchange rate data could be loaded", http.StatusServiceUnavailable, requestID)
		return
	}

	codes := snapshot.Codes()
	currencies := make([]CurrencyInfo, 0, len(codes))
	for _, code := range codes {
		currencies = append(currencies, CurrencyInfo{
			Code:   code,
			Name:   entity.CurrencyName(code),
			Symbol: entity.CurrencySymbol(code),
		})
	}

	sendJSON(w, RatesResponse{
		Base:       snapshot.Base,
		Currencies: currencies,
		FetchedAt:  snapshot.FetchedAt.Format(time.RFC3339),
		Source:     string(snapshot.Source),
	})
}

// Convert converts an amount between two currencies of the snapshot.
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if len(from) != 3 || len(to) != 3 {
		h.logger.Warn("Invalid currency selector", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
		})
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Both 'from' and 'to' must be 3-letter currency codes (e.g. EUR, PEN)",
			http.StatusBadRequest, requestID)
		return
	}

	// A malformed amount is not an error: it converts to a zero result,
	// exactly like an empty input field.
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		amount = math.NaN()
	}

	if h.metrics != nil {
		h.metrics.ConversionsTotal.Inc()
	}

	result, err := h.service.Convert(r.Context(), amount, from, to)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrDataUnavailable):
			sendErrorResponse(w, h.logger, "Rates unavailable",
				"No exchange rate data could be loaded", http.StatusServiceUnavailable, requestID)
		default:
			h.logger.Error("Conversion failed", map[string]interface{}{
				"request_id": requestID,
				"from":       from,
				"to":         to,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Unknown currency",
				"The requested currency is not part of the current snapshot",
				http.StatusBadRequest, requestID)
		}
		return
	}

	sendJSON(w, ConvertResponse{
		Amount:        result.Amount,
		From:          result.From,
		To:            result.To,
		Result:        result.Result,
		EffectiveRate: result.EffectiveRate,
	})
}

// GetHistory returns the conversion ledger, newest first.
func (h *ConversionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries := h.service.History()

	resp := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, HistoryEntryResponse{
			ID:            e.ID,
			Amount:        e.Amount,
			From:          e.From,
			To:            e.To,
			Result:        e.Result,
			EffectiveRate: e.EffectiveRate,
			Date:          e.DisplayDate,
		})
	}

	sendJSON(w, resp)
}

// GetDefaults suggests the initial currency pair for a client locale.
func (h *ConversionHandler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snapshot, ok := h.store.Current()
	if !ok {
		sendErrorResponse(w, h.logger, "Rates unavailable",
			"No exchange rate data could be loaded", http.StatusServiceUnavailable, requestID)
		return
	}

	clientLocale := r.URL.Query().Get("locale")
	offset, err := strconv.ParseFloat(r.URL.Query().Get("offset"), 64)
	if err != nil {
		offset = 0
	}

	from := locale.DetectDefaultFrom(clientLocale, offset, snapshot.Has)

	h.logger.Debug("Resolved default pair", map[string]interface{}{
		"request_id": requestID,
		"locale":     clientLocale,
		"offset":     offset,
		"from":       from,
	})

	sendJSON(w, DefaultsResponse{From: from, To: defaultTo})
}

// Health is a liveness probe; it reports degraded when no snapshot loaded.
func (h *ConversionHandler) Health(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.store.Current(); !ok {
		sendJSON(w, map[string]string{"status": "degraded", "reason": "no rate snapshot"})
		return
	}
	sendJSON(w, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/rates", h.GetRates).Methods("GET")
	router.HandleFunc("/api/convert", h.Convert).Methods("GET")
	router.HandleFunc("/api/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/api/defaults", h.GetDefaults).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/rates",
			"GET /api/convert",
			"GET /api/history",
			"GET /api/defaults",
			"GET /healthz",
		},
	})
}

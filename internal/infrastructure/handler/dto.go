package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
)

// CurrencyInfo labels one selectable currency.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RatesResponse describes the installed snapshot.
type RatesResponse struct {
	Base       string         `json:"base"`
	Currencies []CurrencyInfo `json:"currencies"`
	FetchedAt  string         `json:"fetched_at"`
	Source     string         `json:"source"`
}

// ConvertResponse is the result of one conversion.
type ConvertResponse struct {
	Amount        float64 `json:"amount"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Result        float64 `json:"result"`
	EffectiveRate float64 `json:"effective_rate"`
}

// HistoryEntryResponse is one ledger line.
type HistoryEntryResponse struct {
	ID            int64   `json:"id"`
	Amount        float64 `json:"amount"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Result        float64 `json:"result"`
	EffectiveRate float64 `json:"rate"`
	Date          string  `json:"date"`
}

// DefaultsResponse carries the heuristic's suggested initial pair.
type DefaultsResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}

func sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/internal/domain/ports"
	"geo-currency-converter/internal/metrics"
	"geo-currency-converter/pkg/logger"
	"geo-currency-converter/pkg/utils"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

type Handler struct {
	service ports.ConversionService
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewHandler(service ports.ConversionService, log *logger.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		log:     log,
		metrics: metrics,
	}
}

type conversionView struct {
	RequestID string `json:"request_id"`
	model.ConversionResult
	Display displayView `json:"display"`
	Summary string      `json:"summary"`
}

type displayView struct {
	Amount    string `json:"amount"`
	Converted string `json:"converted"`
}

func newConversionView(outcome model.ConversionOutcome) conversionView {
	result := *outcome.Result
	display := displayView{
		Amount:    utils.FormatAmount(result.OriginalAmount),
		Converted: utils.FormatAmount(result.ConvertedAmount),
	}

	return conversionView{
		RequestID:        outcome.RequestID,
		ConversionResult: result,
		Display:          display,
		Summary: fmt.Sprintf(
			"Detected IP: %s\nDetected Country: %s\nLocal Currency: %s\nAmount: %s %s\nConverted: %s %s",
			result.IP,
			result.CountryCode,
			result.SourceCurrency,
			display.Amount,
			result.SourceCurrency,
			display.Converted,
			result.TargetCurrency,
		),
	}
}

func (h *Handler) ConvertCurrencyHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.ConversionRequestsTotal.Inc()

	amount := r.URL.Query().Get("amount")
	to := r.URL.Query().Get("to")

	select {
	case outcome := <-h.service.SubmitInput(r.Context(), amount, to):
		category := model.CategoryNone
		if outcome.Failure != nil {
			category = outcome.Failure.Category
		}
		h.metrics.ConversionOutcomesTotal.WithLabelValues(string(outcome.State), string(category)).Inc()

		if outcome.Succeeded() {
			h.sendSuccessResponse(w, newConversionView(outcome))
			return
		}
		h.handleFailedOutcome(w, outcome)
	case <-r.Context().Done():
		h.log.Warn("Client disconnected before conversion finished", "error", r.Context().Err())
	}
}

func (h *Handler) SupportedCurrenciesHandler(w http.ResponseWriter, r *http.Request) {
	h.sendSuccessResponse(w, map[string]interface{}{
		"currencies": model.SupportedCurrencies,
	})
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	response := Response{
		Success: false,
		Error:   message,
		Code:    code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}

func (h *Handler) handleFailedOutcome(w http.ResponseWriter, outcome model.ConversionOutcome) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"
	code := ""

	if outcome.Failure != nil {
		message = outcome.Failure.Message
		code = string(outcome.Failure.Category)

		switch outcome.Failure.Category {
		case model.CategoryValidation, model.CategoryUnsupportedCurrency:
			statusCode = http.StatusBadRequest
		case model.CategoryGeolocationUnavailable, model.CategoryGeolocationParse, model.CategoryConversionFailed:
			statusCode = http.StatusBadGateway
		}
	}

	h.log.Error("Conversion request failed", "request_id", outcome.RequestID, "code", code, "status_code", statusCode)
	h.sendErrorResponse(w, statusCode, code, message)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/internal/metrics"
	"geo-currency-converter/pkg/logger"
)

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, req model.ConversionRequest) model.ConversionOutcome {
	args := m.Called(ctx, req)
	return args.Get(0).(model.ConversionOutcome)
}

func (m *MockConversionService) Submit(ctx context.Context, req model.ConversionRequest) <-chan model.ConversionOutcome {
	args := m.Called(ctx, req)
	return deliver(args.Get(0).(model.ConversionOutcome))
}

func (m *MockConversionService) SubmitInput(ctx context.Context, amountText, targetText string) <-chan model.ConversionOutcome {
	args := m.Called(ctx, amountText, targetText)
	return deliver(args.Get(0).(model.ConversionOutcome))
}

func deliver(outcome model.ConversionOutcome) <-chan model.ConversionOutcome {
	ch := make(chan model.ConversionOutcome, 1)
	ch <- outcome
	close(ch)
	return ch
}

func setupHandler() (*Handler, *MockConversionService, *metrics.Metrics) {
	svc := new(MockConversionService)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return NewHandler(svc, logger.NewNop(), m), svc, m
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestConvertCurrencyHandler_Success(t *testing.T) {
	handler, svc, m := setupHandler()

	svc.On("SubmitInput", mock.Anything, "1000", "usd").Return(model.NewSuccessOutcome("req-1", model.ConversionResult{
		SourceCurrency:  model.JPY,
		TargetCurrency:  model.USD,
		IP:              "8.8.8.8",
		CountryCode:     "JP",
		OriginalAmount:  1000,
		ConvertedAmount: 6.7,
	})).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount=1000&to=usd", nil)
	rec := httptest.NewRecorder()
	handler.ConvertCurrencyHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "req-1", data["request_id"])
	assert.Equal(t, "JPY", data["source_currency"])
	assert.Equal(t, "USD", data["target_currency"])
	assert.Equal(t, map[string]interface{}{"amount": "1,000.00", "converted": "6.70"}, data["display"])
	assert.Equal(t,
		"Detected IP: 8.8.8.8\nDetected Country: JP\nLocal Currency: JPY\nAmount: 1,000.00 JPY\nConverted: 6.70 USD",
		data["summary"],
	)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionRequestsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionOutcomesTotal.WithLabelValues("done", "")))
	svc.AssertExpectations(t)
}

func TestConvertCurrencyHandler_Failures(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"validation", model.ErrValidation, http.StatusBadRequest, "validation_error"},
		{"unsupported currency", model.ErrUnsupportedCurrency, http.StatusBadRequest, "unsupported_currency"},
		{"geolocation down", &model.StatusError{Err: model.ErrGeolocationUnavailable, StatusCode: 500}, http.StatusBadGateway, "geolocation_unavailable"},
		{"geolocation parse", model.ErrGeolocationParse, http.StatusBadGateway, "geolocation_parse_error"},
		{"conversion failed", model.ErrConversionFailed, http.StatusBadGateway, "conversion_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, svc, m := setupHandler()
			outcome := model.NewFailedOutcome("req-2", tt.err)
			svc.On("SubmitInput", mock.Anything, "5", "EUR").Return(outcome).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount=5&to=EUR", nil)
			rec := httptest.NewRecorder()
			handler.ConvertCurrencyHandler(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, outcome.Failure.Message, resp.Error)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionOutcomesTotal.WithLabelValues("failed", tt.expectedCode)))
		})
	}
}

// blockingService never finishes a conversion.
type blockingService struct {
	called bool
}

func (b *blockingService) Convert(context.Context, model.ConversionRequest) model.ConversionOutcome {
	select {}
}

func (b *blockingService) Submit(context.Context, model.ConversionRequest) <-chan model.ConversionOutcome {
	return make(chan model.ConversionOutcome)
}

func (b *blockingService) SubmitInput(context.Context, string, string) <-chan model.ConversionOutcome {
	b.called = true
	return make(chan model.ConversionOutcome)
}

func TestConvertCurrencyHandler_ClientGone(t *testing.T) {
	svc := &blockingService{}
	handler := NewHandler(svc, logger.NewNop(), metrics.NewMetrics(prometheus.NewRegistry()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/convert?amount=1&to=USD", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ConvertCurrencyHandler(rec, req)

	assert.True(t, svc.called)
	assert.Empty(t, rec.Body.String())
}

func TestSupportedCurrenciesHandler(t *testing.T) {
	handler, _, _ := setupHandler()

	rec := httptest.NewRecorder()
	handler.SupportedCurrenciesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"data":{"currencies":["USD","EUR","GBP","JPY","CAD","AUD","SGD","CNY","INR"]}}`,
		rec.Body.String(),
	)
}

func TestRouter_Routes(t *testing.T) {
	handler, svc, _ := setupHandler()
	svc.On("SubmitInput", mock.Anything, "", "").Return(model.NewFailedOutcome("req-3", model.ErrValidation)).Once()

	registry := prometheus.NewRegistry()
	routes := NewRouter(handler, logger.NewNop(), metrics.NewMetrics(registry), registry).SetupRoutes()

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/currencies", http.StatusOK},
		{http.MethodGet, "/api/v1/convert", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/convert", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodGet, "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.expectedStatus, rec.Code, "%s %s", tt.method, tt.path)
	}

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/pkg/logger"
)

// ExchangeAPI talks to an exchangerate-api.com style v6 endpoint.
// It holds no state besides its configuration and is safe for reuse.
type ExchangeAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

type exchangerateAPIResponse struct {
	Result          string             `json:"result"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// NewExchangeAPI builds a client for baseURL. The client sets no timeout of its own.
func NewExchangeAPI(baseURL, apiKey string, log *logger.Logger) *ExchangeAPI {
	return &ExchangeAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        log,
	}
}

func (e *ExchangeAPI) Convert(ctx context.Context, amount float64, from, to model.Currency) (float64, error) {
	if from == to {
		return amount, nil
	}

	if !to.IsSupported() {
		return 0, fmt.Errorf("%w: %q", model.ErrUnsupportedCurrency, to)
	}

	quote, err := e.FetchQuote(ctx, from)
	if err != nil {
		return 0, err
	}

	rate, err := quote.RateFor(to)
	if err != nil {
		return 0, err
	}

	return amount * rate, nil
}

func (e *ExchangeAPI) FetchQuote(ctx context.Context, base model.Currency) (model.RateQuote, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", e.baseURL, e.apiKey, base)

	e.log.Debug("Fetching latest rates", "base", base, "url", e.redact(url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.RateQuote{}, fmt.Errorf("%w: failed to create request: %v", model.ErrConversionFailed, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return model.RateQuote{}, &model.StatusError{
			Err: fmt.Errorf("%w: failed to send request: %v", model.ErrConversionFailed, e.redactErr(err)),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.RateQuote{}, &model.StatusError{Err: model.ErrConversionFailed, StatusCode: resp.StatusCode}
	}

	var apiResp exchangerateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return model.RateQuote{}, fmt.Errorf("%w: failed to decode response: %v", model.ErrConversionFailed, err)
	}

	if apiResp.Result != string(model.QuoteSuccess) {
		return model.RateQuote{}, fmt.Errorf("%w: API reported result %q", model.ErrConversionFailed, apiResp.Result)
	}

	return model.NewRateQuote(model.QuoteSuccess, model.Currency(apiResp.BaseCode), apiResp.ConversionRates), nil
}

// redact keeps the API key out of logs and error messages.
func (e *ExchangeAPI) redact(s string) string {
	if e.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, e.apiKey, "***")
}

func (e *ExchangeAPI) redactErr(err error) string {
	return e.redact(err.Error())
}

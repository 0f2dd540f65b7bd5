package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/pkg/logger"
)

// CountryAPI resolves the caller through an api.country.is compatible service,
// which infers the IP from the inbound connection.
type CountryAPI struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

type countryAPIResponse struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
}

func NewCountryAPI(baseURL string, log *logger.Logger) *CountryAPI {
	return &CountryAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        log,
	}
}

func (c *CountryAPI) LookupCaller(ctx context.Context) (model.GeoResult, error) {
	url := c.baseURL + "/"

	c.log.Debug("Looking up caller location", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.GeoResult{}, &model.StatusError{
			Err: fmt.Errorf("%w: failed to create request: %v", model.ErrGeolocationUnavailable, err),
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.GeoResult{}, &model.StatusError{
			Err: fmt.Errorf("%w: failed to send request: %v", model.ErrGeolocationUnavailable, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.GeoResult{}, &model.StatusError{Err: model.ErrGeolocationUnavailable, StatusCode: resp.StatusCode}
	}

	var apiResp countryAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return model.GeoResult{}, fmt.Errorf("%w: %v", model.ErrGeolocationParse, err)
	}

	if apiResp.IP == "" || apiResp.Country == "" {
		return model.GeoResult{}, fmt.Errorf("%w: response is missing ip or country", model.ErrGeolocationParse)
	}

	return model.GeoResult{
		IP:          apiResp.IP,
		CountryCode: apiResp.Country,
	}, nil
}

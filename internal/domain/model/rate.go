package model

import "fmt"

type QuoteStatus string

const (
	QuoteSuccess QuoteStatus = "success"
	QuoteFailure QuoteStatus = "failure"
)

// RateQuote holds the rates of every supported currency relative to BaseCurrency.
// The rates are fixed at construction.
type RateQuote struct {
	Status       QuoteStatus
	BaseCurrency Currency
	rates        map[Currency]float64
}

// NewRateQuote keeps only the supported currencies out of the raw code->rate map.
func NewRateQuote(status QuoteStatus, base Currency, raw map[string]float64) RateQuote {
	rates := make(map[Currency]float64, len(SupportedCurrencies))
	for _, c := range SupportedCurrencies {
		if rate, ok := raw[c.rateKey()]; ok {
			rates[c] = rate
		}
	}
	return RateQuote{
		Status:       status,
		BaseCurrency: base,
		rates:        rates,
	}
}

// rateKey is the code the rate service files c under.
func (c Currency) rateKey() string {
	return string(c)
}

// RateFor extracts the rate of c relative to the quote's base currency.
func (q RateQuote) RateFor(c Currency) (float64, error) {
	if !c.IsSupported() {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, c)
	}
	if q.Status != QuoteSuccess {
		return 0, fmt.Errorf("%w: quote for %s has status %q", ErrConversionFailed, q.BaseCurrency, q.Status)
	}
	rate, ok := q.rates[c]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no usable %s rate in quote for %s", ErrConversionFailed, c, q.BaseCurrency)
	}
	return rate, nil
}

package model

import (
	"fmt"
	"strings"
)

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	SGD Currency = "SGD"
	CNY Currency = "CNY"
	INR Currency = "INR"
)

// SupportedCurrencies is the fixed set a conversion can target, in display order.
var SupportedCurrencies = []Currency{USD, EUR, GBP, JPY, CAD, AUD, SGD, CNY, INR}

// DefaultCurrency is assumed for any country missing from countryCurrencies.
const DefaultCurrency = USD

var countryCurrencies = map[string]Currency{
	"US": USD,
	"DE": EUR,
	"FR": EUR,
	"IN": INR,
	"JP": JPY,
	"GB": GBP,
	"CA": CAD,
	"AU": AUD,
	"SG": SGD,
	"CN": CNY,
}

// CurrencyForCountry returns the home currency of a two-letter country code.
// It never fails: unmapped codes resolve to DefaultCurrency.
func CurrencyForCountry(countryCode string) Currency {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if currency, ok := countryCurrencies[code]; ok {
		return currency
	}
	return DefaultCurrency
}

func (c Currency) IsSupported() bool {
	for _, supportedCurrency := range SupportedCurrencies {
		if c == supportedCurrency {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes user input and checks it against SupportedCurrencies.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
	return c, nil
}

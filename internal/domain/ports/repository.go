package ports

import (
	"context"

	"geo-currency-converter/internal/domain/model"
)

// GeoLocator resolves the public IP and country of the connection it is called from.
type GeoLocator interface {
	LookupCaller(ctx context.Context) (model.GeoResult, error)
}

// RateConverter converts amounts using a remote exchange-rate source.
type RateConverter interface {
	FetchQuote(ctx context.Context, base model.Currency) (model.RateQuote, error)
	Convert(ctx context.Context, amount float64, from, to model.Currency) (float64, error)
}

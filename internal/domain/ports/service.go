package ports

import (
	"context"

	"geo-currency-converter/internal/domain/model"
)

// ConversionService runs the locate-then-convert pipeline for the presentation layer.
// Submit and SubmitInput never block; each returned channel yields exactly one outcome
// and is then closed.
type ConversionService interface {
	Convert(ctx context.Context, request model.ConversionRequest) model.ConversionOutcome
	Submit(ctx context.Context, request model.ConversionRequest) <-chan model.ConversionOutcome
	SubmitInput(ctx context.Context, amountText, targetText string) <-chan model.ConversionOutcome
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/internal/domain/ports"
	"geo-currency-converter/pkg/logger"
)

// StateObserver is told about every state change of a conversion.
type StateObserver func(requestID string, from, to model.ConversionState)

type Option func(*Converter)

// WithStateObserver registers o. It is called from the goroutine running the conversion.
func WithStateObserver(o StateObserver) Option {
	return func(c *Converter) {
		c.observer = o
	}
}

// Converter locates the caller, derives their home currency and converts into the
// requested target. The two upstream calls are strictly sequential.
type Converter struct {
	locator  ports.GeoLocator
	rates    ports.RateConverter
	log      *logger.Logger
	observer StateObserver
}

func NewConverter(locator ports.GeoLocator, rates ports.RateConverter, log *logger.Logger, opts ...Option) *Converter {
	c := &Converter{
		locator: locator,
		rates:   rates,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs the conversion in the background. Cancelling ctx afterwards does not
// stop it; the returned channel always receives one outcome and is then closed.
func (s *Converter) Submit(ctx context.Context, request model.ConversionRequest) <-chan model.ConversionOutcome {
	out := make(chan model.ConversionOutcome, 1)
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(out)
		out <- s.Convert(ctx, request)
	}()

	return out
}

// SubmitInput parses raw user input and submits it. Input that does not parse
// fails straight away without touching the network.
func (s *Converter) SubmitInput(ctx context.Context, amountText, targetText string) <-chan model.ConversionOutcome {
	request, err := model.NewConversionRequest(amountText, targetText)
	if err != nil {
		out := make(chan model.ConversionOutcome, 1)
		out <- s.begin().fail(err)
		close(out)
		return out
	}
	return s.Submit(ctx, request)
}

// Convert runs the whole pipeline on the calling goroutine.
func (s *Converter) Convert(ctx context.Context, request model.ConversionRequest) (outcome model.ConversionOutcome) {
	run := s.begin()

	defer func() {
		if r := recover(); r != nil {
			outcome = run.fail(fmt.Errorf("%w: unexpected error: %v", model.ErrConversionFailed, r))
		}
	}()

	if err := request.Validate(); err != nil {
		return run.fail(err)
	}

	run.moveTo(model.StateResolving)
	geo, err := s.locator.LookupCaller(ctx)
	if err != nil {
		return run.fail(err)
	}

	source := model.CurrencyForCountry(geo.CountryCode)
	run.log = run.log.With("ip", geo.IP, "country", geo.CountryCode, "source", source)

	run.moveTo(model.StateConverting)
	converted, err := s.rates.Convert(ctx, request.Amount, source, request.TargetCurrency)
	if err != nil {
		return run.fail(err)
	}

	run.moveTo(model.StateDone)
	run.log.Info("Conversion completed",
		"target", request.TargetCurrency,
		"amount", request.Amount,
		"converted_amount", converted,
	)

	return model.NewSuccessOutcome(run.id, model.ConversionResult{
		SourceCurrency:  source,
		TargetCurrency:  request.TargetCurrency,
		IP:              geo.IP,
		CountryCode:     geo.CountryCode,
		OriginalAmount:  request.Amount,
		ConvertedAmount: converted,
	})
}

func (s *Converter) begin() *conversionRun {
	id := uuid.NewString()
	return &conversionRun{
		id:       id,
		state:    model.StateIdle,
		log:      s.log.With("request_id", id),
		observer: s.observer,
	}
}

// conversionRun tracks the state of a single conversion.
type conversionRun struct {
	id       string
	state    model.ConversionState
	log      *logger.Logger
	observer StateObserver
}

func (r *conversionRun) moveTo(next model.ConversionState) {
	if !model.CanTransition(r.state, next) {
		panic(fmt.Sprintf("illegal conversion transition %s -> %s", r.state, next))
	}
	prev := r.state
	r.state = next
	r.log.Debug("Conversion state changed", "from", prev, "to", next)
	if r.observer != nil {
		r.observer(r.id, prev, next)
	}
}

func (r *conversionRun) fail(err error) model.ConversionOutcome {
	r.log.Error("Conversion failed", "state", r.state, "category", model.CategoryOf(err), "error", err)
	if !r.state.IsTerminal() {
		r.moveTo(model.StateFailed)
	}
	return model.NewFailedOutcome(r.id, err)
}

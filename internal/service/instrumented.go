package service

import (
	"context"
	"time"

	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/internal/domain/ports"
	"geo-currency-converter/internal/metrics"
	"geo-currency-converter/pkg/logger"
)

const (
	upstreamGeolocation  = "geolocation"
	upstreamExchangeRate = "exchange_rate"
)

// instrumentedLocator decorates a ports.GeoLocator with logging and metrics
type instrumentedLocator struct {
	next    ports.GeoLocator
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewInstrumentedLocator(next ports.GeoLocator, log *logger.Logger, m *metrics.Metrics) ports.GeoLocator {
	return &instrumentedLocator{
		next:    next,
		log:     log,
		metrics: m,
	}
}

func (l *instrumentedLocator) LookupCaller(ctx context.Context) (geo model.GeoResult, err error) {
	defer func(begin time.Time) {
		observeUpstream(l.metrics, upstreamGeolocation, begin, err)
		l.log.Info("Upstream call",
			"method", "lookup_caller",
			"ip", geo.IP,
			"country", geo.CountryCode,
			"took", time.Since(begin),
			"error", err,
		)
	}(time.Now())
	return l.next.LookupCaller(ctx)
}

// instrumentedRates decorates a ports.RateConverter with logging and metrics
type instrumentedRates struct {
	next    ports.RateConverter
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewInstrumentedConverter(next ports.RateConverter, log *logger.Logger, m *metrics.Metrics) ports.RateConverter {
	return &instrumentedRates{
		next:    next,
		log:     log,
		metrics: m,
	}
}

func (r *instrumentedRates) FetchQuote(ctx context.Context, base model.Currency) (quote model.RateQuote, err error) {
	defer func(begin time.Time) {
		observeUpstream(r.metrics, upstreamExchangeRate, begin, err)
		r.log.Info("Upstream call",
			"method", "fetch_quote",
			"base", base,
			"took", time.Since(begin),
			"error", err,
		)
	}(time.Now())
	return r.next.FetchQuote(ctx, base)
}

func (r *instrumentedRates) Convert(ctx context.Context, amount float64, from, to model.Currency) (converted float64, err error) {
	// Same-currency conversions never reach the rate service.
	if from == to {
		return r.next.Convert(ctx, amount, from, to)
	}

	defer func(begin time.Time) {
		observeUpstream(r.metrics, upstreamExchangeRate, begin, err)
		r.log.Info("Upstream call",
			"method", "convert",
			"from", from,
			"to", to,
			"amount", amount,
			"converted_amount", converted,
			"took", time.Since(begin),
			"error", err,
		)
	}(time.Now())
	return r.next.Convert(ctx, amount, from, to)
}

func observeUpstream(m *metrics.Metrics, upstream string, begin time.Time, err error) {
	result := "ok"
	if err != nil {
		result = string(model.CategoryOf(err))
	}
	m.UpstreamRequestsTotal.WithLabelValues(upstream, result).Inc()
	m.UpstreamRequestDuration.WithLabelValues(upstream).Observe(time.Since(begin).Seconds())
}

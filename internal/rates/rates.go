// Package rates fetches the session's exchange rate table. Conversion is
// advisory, so a stale or approximate rate beats blocking the search flow:
// every failure path returns the static fallback table.
package rates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"gameprice-tracker/internal/config"
	"gameprice-tracker/internal/constants"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/metrics"
)

// BaseCurrency anchors every rate in the table (its own rate is 1).
const BaseCurrency = "USD"

type transport interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

type Client struct {
	url       string
	transport transport
	metrics   *metrics.Registry
	logger    zerolog.Logger
}

func New(cfg *config.Config, m *metrics.Registry, logger zerolog.Logger) *Client {
	return &Client{
		url: cfg.ExchangeRateURL,
		transport: &fasthttp.Client{
			ReadTimeout:  constants.RatesTimeout,
			WriteTimeout: constants.RatesTimeout,
		},
		metrics: m,
		logger:  logger,
	}
}

// Fallback rates, refreshed by hand occasionally. Covers every currency the
// converter can be asked about.
var fallbackRates = domain.ExchangeRates{
	"USD": 1,
	"SGD": 1.35,
	"TRY": 32.5,
	"IDR": 16200,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 155,
}

// Fallback returns a copy of the static rate table.
func Fallback() domain.ExchangeRates {
	out := make(domain.ExchangeRates, len(fallbackRates))
	for code, rate := range fallbackRates {
		out[code] = rate
	}
	return out
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Fetch performs one request for the USD-anchored rate table. It never
// fails outward; any problem is logged and the fallback table is returned.
func (c *Client) Fetch(ctx context.Context) domain.ExchangeRates {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.transport.DoDeadline(req, resp, deadline)
	} else {
		err = c.transport.DoDeadline(req, resp, time.Now().Add(constants.RatesTimeout))
	}
	if err != nil {
		return c.fallback("exchange rate request failed", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode()).Msg("exchange rate endpoint returned non-success status, using fallback rates")
		c.metrics.RateFallbacks.Inc()
		return Fallback()
	}

	var parsed ratesResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return c.fallback("exchange rate payload is malformed", err)
	}
	if len(parsed.Rates) == 0 {
		c.logger.Warn().Msg("exchange rate payload contained no rates, using fallback rates")
		c.metrics.RateFallbacks.Inc()
		return Fallback()
	}

	c.logger.Info().Int("currencies", len(parsed.Rates)).Msg("exchange rates refreshed")
	return domain.ExchangeRates(parsed.Rates)
}

func (c *Client) fallback(msg string, err error) domain.ExchangeRates {
	c.logger.Warn().Err(err).Msg(msg + ", using fallback rates")
	c.metrics.RateFallbacks.Inc()
	return Fallback()
}

// Package ai issues the schema-constrained price search against the Gemini
// structured-output API. This is the mandatory source: a missing credential
// or a malformed response is terminal, while rate-limit and overload
// signals are retried with exponential backoff.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"

	"gameprice-tracker/internal/config"
	"gameprice-tracker/internal/constants"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/metrics"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

type transport interface {
	Do(req *fasthttp.Request, resp *fasthttp.Response) error
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

type Client struct {
	apiKey   string
	model    string
	endpoint string

	// maxAttempts includes the first try; baseDelay doubles before each
	// retry.
	maxAttempts uint64
	baseDelay   time.Duration

	transport transport
	metrics   *metrics.Registry
	logger    zerolog.Logger
}

func New(cfg *config.Config, m *metrics.Registry, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:      cfg.GeminiAPIKey,
		model:       cfg.GeminiModel,
		endpoint:    defaultEndpoint,
		maxAttempts: constants.RetryMaxAttempts,
		baseDelay:   constants.RetryBaseDelay,
		transport: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.PriceProviderTimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		metrics: m,
		logger:  logger,
	}
}

// FetchPrices resolves the canonical title, a short description, and a
// per-region price list for query. Only rate-limit (429) and overload (503)
// responses are retried; after the attempt budget the last error surfaces.
func (c *Client) FetchPrices(ctx context.Context, query string, regionCodes []string) (domain.GameData, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.GameData{}, domain.ErrMissingCredential
	}

	body, err := json.Marshal(buildRequest(query, regionCodes))
	if err != nil {
		return domain.GameData{}, fmt.Errorf("failed to encode provider request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)

	var result domain.GameData
	attempt := 0
	backoff := retry.WithMaxRetries(c.maxAttempts-1, retry.NewExponential(c.baseDelay))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		data, err := c.generate(ctx, url, body)
		if err != nil {
			var pe *domain.ProviderError
			if errors.As(err, &pe) && pe.Transient() {
				c.logger.Warn().Err(err).Int("attempt", attempt).Msg("transient provider error, backing off")
				c.metrics.ProviderRetries.Inc()
				return retry.RetryableError(err)
			}
			return err
		}
		result = data
		return nil
	})
	if err != nil {
		c.logger.Error().Err(err).Int("attempts", attempt).Str("query", query).Msg("price fetch failed")
		return domain.GameData{}, err
	}

	c.logger.Debug().Int("attempts", attempt).Int("prices", len(result.Prices)).Msg("price fetch completed")
	return result, nil
}

func (c *Client) generate(ctx context.Context, url string, body []byte) (domain.GameData, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.transport.DoDeadline(req, resp, deadline)
	} else {
		err = c.transport.Do(req, resp)
	}
	if err != nil {
		return domain.GameData{}, fmt.Errorf("provider request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return domain.GameData{}, &domain.ProviderError{
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(resp.Body()),
		}
	}

	return parseResponse(resp.Body())
}

func errorMessage(body []byte) string {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)
	if apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return apiErr.Error.Status
}

// Package metadata looks up a game's canonical title and cover art in the
// RAWG catalog. It is an enrichment source, not a dependency: every failure
// path collapses to an empty result and nothing is ever propagated.
package metadata

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"

	"gameprice-tracker/internal/config"
	"gameprice-tracker/internal/constants"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/metrics"
)

const defaultEndpoint = "https://api.rawg.io/api/games"

type transport interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

type Client struct {
	apiKey    string
	endpoint  string
	transport transport
	metrics   *metrics.Registry
	logger    zerolog.Logger
}

func New(cfg *config.Config, m *metrics.Registry, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:   cfg.RAWGAPIKey,
		endpoint: defaultEndpoint,
		transport: &fasthttp.Client{
			ReadTimeout:  constants.MetadataTimeout,
			WriteTimeout: constants.MetadataTimeout,
		},
		metrics: m,
		logger:  logger,
	}
}

// Fetch returns the first catalog match's name and representative image.
// No credential configured is a degraded mode, not an error.
func (c *Client) Fetch(ctx context.Context, query string) domain.GameMetadata {
	if c.apiKey == "" {
		c.logger.Debug().Msg("no metadata credential configured, skipping lookup")
		return domain.GameMetadata{}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.URI().QueryArgs().Set("key", c.apiKey)
	req.URI().QueryArgs().Set("search", query)
	req.URI().QueryArgs().Set("page_size", "1")
	req.Header.SetMethod(fasthttp.MethodGet)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.transport.DoDeadline(req, resp, deadline)
	} else {
		err = c.transport.DoDeadline(req, resp, time.Now().Add(constants.MetadataTimeout))
	}
	if err != nil {
		return c.miss("metadata request failed", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode()).Str("query", query).Msg("metadata lookup returned non-success status")
		c.metrics.MetadataMisses.Inc()
		return domain.GameMetadata{}
	}

	first := gjson.GetBytes(resp.Body(), "results.0")
	if !first.Exists() {
		c.logger.Debug().Str("query", query).Msg("metadata lookup found no results")
		c.metrics.MetadataMisses.Inc()
		return domain.GameMetadata{}
	}

	return domain.GameMetadata{
		Title:         first.Get("name").String(),
		CoverImageURL: first.Get("background_image").String(),
	}
}

func (c *Client) miss(msg string, err error) domain.GameMetadata {
	c.logger.Debug().Err(err).Msg(msg)
	c.metrics.MetadataMisses.Inc()
	return domain.GameMetadata{}
}

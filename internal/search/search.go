// Package search reconciles the two price-search sources: the generative
// provider (authoritative for pricing and narrative content) and the game
// catalog (authoritative for canonical identity, when it has an answer).
package search

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gameprice-tracker/internal/constants"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/history"
	"gameprice-tracker/internal/metrics"
)

type MetadataFetcher interface {
	Fetch(ctx context.Context, query string) domain.GameMetadata
}

type PriceFetcher interface {
	FetchPrices(ctx context.Context, query string, regionCodes []string) (domain.GameData, error)
}

type Service struct {
	metadata MetadataFetcher
	prices   PriceFetcher
	history  *history.Store
	metrics  *metrics.Registry
	logger   zerolog.Logger
}

func NewService(metadata MetadataFetcher, prices PriceFetcher, historyStore *history.Store, m *metrics.Registry, logger zerolog.Logger) *Service {
	return &Service{
		metadata: metadata,
		prices:   prices,
		history:  historyStore,
		metrics:  m,
		logger:   logger,
	}
}

// Search runs the metadata and price fetches concurrently, merges them by
// precedence, and cleans the price list. The metadata fetch cannot fail, so
// the only failure modes are an empty region selection and the price
// fetcher's terminal errors. An empty cleaned price list is a valid result:
// the game was found but has no live price.
func (s *Service) Search(ctx context.Context, query string, regionCodes []string) (domain.GameData, error) {
	if len(regionCodes) == 0 {
		return domain.GameData{}, domain.ErrNoRegions
	}

	ctx, cancel := context.WithTimeout(ctx, constants.SearchTimeout)
	defer cancel()

	searchID, _ := gonanoid.New()
	log := s.logger.With().Str("search_id", searchID).Str("query", query).Logger()
	start := time.Now()
	s.metrics.SearchesTotal.Inc()

	var meta domain.GameMetadata
	var priced domain.GameData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta = s.metadata.Fetch(gctx, query)
		return nil
	})
	g.Go(func() error {
		var err error
		priced, err = s.prices.FetchPrices(gctx, query, regionCodes)
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.SearchFailures.Inc()
		log.Error().Err(err).Msg("price search failed")
		return domain.GameData{}, err
	}

	result := Merge(priced, meta)
	result.Prices = CleanPrices(result.Prices, regionCodes)

	s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Str("title", result.Title).
		Int("priced_regions", len(result.Prices)).
		Dur("duration", time.Since(start)).
		Msg("price search completed")

	if len(result.Prices) > 0 {
		s.history.Record(ctx, result.Title, result.Prices, time.Now().Format(constants.DayFormat))
	}

	return result, nil
}

// Merge overlays present metadata fields onto the provider result. The
// provider owns description unconditionally; the catalog's title and cover
// art win only when non-empty.
func Merge(base domain.GameData, meta domain.GameMetadata) domain.GameData {
	if meta.Title != "" {
		base.Title = meta.Title
	}
	if meta.CoverImageURL != "" {
		base.CoverImageURL = meta.CoverImageURL
	}
	return base
}

// CleanPrices restricts the list to the requested regions, drops entries
// with a non-positive amount (no listing in that region, not a price point)
// and normalizes an absent or lesser original price to the sale price so a
// discount is never invented. Running it on an already-cleaned list is a
// no-op.
func CleanPrices(prices []domain.PriceInfo, regionCodes []string) []domain.PriceInfo {
	requested := make(map[string]struct{}, len(regionCodes))
	for _, code := range regionCodes {
		requested[code] = struct{}{}
	}

	out := make([]domain.PriceInfo, 0, len(prices))
	for _, p := range prices {
		if _, ok := requested[p.RegionCode]; !ok {
			continue
		}
		if p.Amount <= 0 {
			continue
		}
		if p.OriginalAmount < p.Amount {
			p.OriginalAmount = p.Amount
		}
		out = append(out, p)
	}
	return out
}

// Package history keeps a per-(game, region) time series of observed
// prices, one point per calendar day. History is best-effort telemetry:
// read and write failures degrade to "no history" and never surface.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"gameprice-tracker/internal/constants"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/metrics"
	"gameprice-tracker/internal/storage"
)

type Store struct {
	kv      storage.KV
	metrics *metrics.Registry
	logger  zerolog.Logger
}

func NewStore(kv storage.KV, m *metrics.Registry, logger zerolog.Logger) *Store {
	return &Store{kv: kv, metrics: m, logger: logger}
}

// NormalizeTitle maps a display title to its history lookup key.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Record appends today's prices to each region's series, overwriting the
// tail point when it already carries today's date (a same-day re-search
// replaces, not accumulates). The whole document is persisted once per
// batch.
func (s *Store) Record(ctx context.Context, title string, prices []domain.PriceInfo, today string) {
	key := NormalizeTitle(title)
	if key == "" || len(prices) == 0 {
		return
	}

	doc := s.load(ctx)
	byRegion := doc[key]
	if byRegion == nil {
		byRegion = make(map[string][]domain.HistoryPoint)
	}

	for _, p := range prices {
		if p.Amount <= 0 {
			continue
		}
		series := byRegion[p.RegionCode]
		if n := len(series); n > 0 && series[n-1].Date == today {
			series[n-1].Amount = p.Amount
		} else {
			series = append(series, domain.HistoryPoint{Date: today, Amount: p.Amount})
		}
		byRegion[p.RegionCode] = series
	}
	doc[key] = byRegion

	body, err := json.Marshal(doc)
	if err != nil {
		s.metrics.HistoryWriteFailures.Inc()
		s.logger.Warn().Err(err).Msg("failed to encode price history document")
		return
	}
	if err := s.kv.Set(ctx, constants.HistoryDocumentKey, body); err != nil {
		s.metrics.HistoryWriteFailures.Inc()
		s.logger.Warn().Err(err).Msg("failed to persist price history")
	}
}

// Query returns the recorded series for a game in one region, oldest first.
// Absent games, regions, or an unreadable store all yield an empty slice.
func (s *Store) Query(ctx context.Context, title, regionCode string) []domain.HistoryPoint {
	series := s.load(ctx)[NormalizeTitle(title)][regionCode]
	out := make([]domain.HistoryPoint, len(series))
	copy(out, series)
	return out
}

func (s *Store) load(ctx context.Context) domain.HistoryDocument {
	body, err := s.kv.Get(ctx, constants.HistoryDocumentKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Msg("failed to read price history, treating as empty")
		}
		return domain.HistoryDocument{}
	}

	var doc domain.HistoryDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		s.logger.Warn().Err(err).Msg("price history document is corrupted, treating as empty")
		return domain.HistoryDocument{}
	}
	if doc == nil {
		doc = domain.HistoryDocument{}
	}
	return doc
}

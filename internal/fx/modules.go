package fx

import (
	"context"

	"go.uber.org/fx"

	"gameprice-tracker/internal/ai"
	"gameprice-tracker/internal/config"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/history"
	"gameprice-tracker/internal/logger"
	"gameprice-tracker/internal/metadata"
	"gameprice-tracker/internal/metrics"
	"gameprice-tracker/internal/rates"
	"gameprice-tracker/internal/search"
	"gameprice-tracker/internal/server"
	"gameprice-tracker/internal/storage"
)

func ProvideKV(s *storage.SQLite) storage.KV {
	return s
}

func ProvideMetadataFetcher(c *metadata.Client) search.MetadataFetcher {
	return c
}

func ProvidePriceFetcher(c *ai.Client) search.PriceFetcher {
	return c
}

// ProvideRates refreshes the rate table once per session; consumers treat
// the snapshot as read-only.
func ProvideRates(c *rates.Client) domain.ExchangeRates {
	return c.Fetch(context.Background())
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(metrics.NewRegistry),
	// storage
	fx.Provide(storage.NewSQLite),
	fx.Provide(ProvideKV),
	// providers
	fx.Provide(ai.New),
	fx.Provide(metadata.New),
	fx.Provide(rates.New),
	fx.Provide(ProvideRates),
	// core
	fx.Provide(history.NewStore),
	fx.Provide(ProvideMetadataFetcher),
	fx.Provide(ProvidePriceFetcher),
	fx.Provide(search.NewService),
	// http
	fx.Provide(server.New),
)

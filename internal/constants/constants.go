package constants

import "time"

const (
	// PriceProviderTimeout bounds a single generateContent attempt; the
	// provider can take a while to produce structured output.
	PriceProviderTimeout = 60 * time.Second
	MetadataTimeout      = 10 * time.Second
	RatesTimeout         = 10 * time.Second

	// SearchTimeout covers the whole search: up to three provider attempts
	// plus 6s of cumulative backoff.
	SearchTimeout = 3 * time.Minute
)

const (
	// RetryMaxAttempts is the total attempt budget for the price provider,
	// including the first try.
	RetryMaxAttempts = 3
	// RetryBaseDelay is the backoff before the first retry; it doubles on
	// each subsequent retry (2s, 4s).
	RetryBaseDelay = 2 * time.Second
)

const (
	HistoryDocumentKey = "price_history"
	DayFormat          = "2006-01-02"
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

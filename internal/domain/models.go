package domain

// Region is a PlayStation storefront territory.
type Region struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"defaultCurrency"`
}

// PriceInfo is one region's price for a game. Amount is the current sale
// price. OriginalAmount may be zero in raw provider output; after cleaning
// it is always >= Amount.
type PriceInfo struct {
	Region         string  `json:"region"`
	RegionCode     string  `json:"regionCode"`
	Currency       string  `json:"currency"`
	Amount         float64 `json:"amount"`
	OriginalAmount float64 `json:"originalAmount"`
}

// GameData is the result of one price search. Created fresh per search and
// not mutated after the reconciler returns it.
type GameData struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	CoverImageURL string      `json:"coverImageUrl,omitempty"`
	Prices        []PriceInfo `json:"prices"`
}

// GameMetadata is the partial result of a catalog lookup. Either field may
// be empty; empty means the catalog had no answer.
type GameMetadata struct {
	Title         string
	CoverImageURL string
}

// ExchangeRates maps a currency code to its rate relative to the base
// currency (the base's own rate is 1). Consumers treat it as a read-only
// snapshot.
type ExchangeRates map[string]float64

// HistoryPoint is one recorded price on a calendar day ("2006-01-02").
type HistoryPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// HistoryDocument is the persisted shape of the whole history store:
// normalized title -> region code -> chronological points.
type HistoryDocument map[string]map[string][]HistoryPoint

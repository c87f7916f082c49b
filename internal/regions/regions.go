// Package regions holds the static registry of supported storefront
// territories.
package regions

import "gameprice-tracker/internal/domain"

var registry = []domain.Region{
	{Code: "US", Name: "United States", DefaultCurrency: "USD"},
	{Code: "SG", Name: "Singapore", DefaultCurrency: "SGD"},
	{Code: "TR", Name: "Turkey", DefaultCurrency: "TRY"},
	{Code: "ID", Name: "Indonesia", DefaultCurrency: "IDR"},
}

// List returns all supported regions in display order.
func List() []domain.Region {
	out := make([]domain.Region, len(registry))
	copy(out, registry)
	return out
}

// Find looks a region up by code.
func Find(code string) (domain.Region, bool) {
	for _, r := range registry {
		if r.Code == code {
			return r, true
		}
	}
	return domain.Region{}, false
}

// IsSupported reports whether code names a supported region.
func IsSupported(code string) bool {
	_, ok := Find(code)
	return ok
}

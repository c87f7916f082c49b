package domain

import (
	"errors"
	"fmt"
)

// ErrNoRegions is returned when a search is requested with an empty region
// selection. Raised before any network activity.
var ErrNoRegions = errors.New("at least one region must be selected")

// ErrMissingCredential is returned when the price provider credential is not
// configured. The price provider is mandatory, so this is terminal.
var ErrMissingCredential = errors.New("price provider credential is not configured (set GEMINI_API_KEY)")

// SchemaError reports a provider response that is empty or does not conform
// to the expected schema. Never retried.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("provider response failed schema validation: %s", e.Reason)
}

// ProviderError reports a non-success response from the price provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider returned HTTP %d", e.StatusCode)
}

// Transient reports whether the error is a self-correcting back-pressure
// signal (rate limit or overload) worth retrying. Everything else will not
// resolve by waiting.
func (e *ProviderError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode == 503
}

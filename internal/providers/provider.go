package providers

import (
	"context"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/filter"
	"github.com/jotajotaz/bcn-flights/internal/models"
)

// Query is one leg lookup: a city pair, a calendar date, and the time window
// the listings must satisfy.
type Query struct {
	Origin      string
	Destination string
	Date        time.Time
	Window      filter.Window
}

// Provider supplies non-stop fare listings for a leg lookup, already
// window-filtered, sorted ascending by price, and capped.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.FareListing, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}

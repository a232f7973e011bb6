package contract

import (
	"context"

	profilex "github.com/nycscout/agent/agent/profile"
)

// Embedder turns a natural-language query into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RestaurantSearcher runs a similarity search against the restaurant index.
type RestaurantSearcher interface {
	Match(ctx context.Context, embedding []float32, threshold float64, count int) ([]RestaurantRecord, error)
}

// Retriever resolves search criteria into restaurant cards. Implementations
// must always return a usable list; backend failures are absorbed into a
// fallback, never propagated.
type Retriever interface {
	Search(ctx context.Context, profile profilex.TasteProfile, criteria SearchCriteria) []Restaurant
}

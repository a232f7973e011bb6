// Package retrieval resolves search_restaurants criteria through the
// embedding and similarity-search collaborators, falling back to a fixed
// local dataset whenever the backend cannot answer.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/nycscout/agent/agent/contract"
	profilex "github.com/nycscout/agent/agent/profile"
)

const (
	// Loose threshold so sparse index data still matches.
	matchThreshold = 0.2
	matchCount     = 5

	defaultQuery = "best restaurants in NYC"
)

// Adapter is the Retriever implementation backed by a vector index.
type Adapter struct {
	embedder contractx.Embedder
	searcher contractx.RestaurantSearcher
}

var _ contractx.Retriever = (*Adapter)(nil)

func New(embedder contractx.Embedder, searcher contractx.RestaurantSearcher) (*Adapter, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if searcher == nil {
		return nil, errors.New("restaurant searcher is required")
	}
	return &Adapter{embedder: embedder, searcher: searcher}, nil
}

// Search never fails: transport errors and empty result sets both degrade to
// the fallback dataset so the conversation can keep moving.
func (a *Adapter) Search(ctx context.Context, _ profilex.TasteProfile, criteria contractx.SearchCriteria) []contractx.Restaurant {
	query := buildSemanticQuery(criteria)
	log.Debug().Str("query", query).Msg("retrieval: semantic query built")

	embedding, err := a.embedder.Embed(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("retrieval: embedding failed, using fallback dataset")
		return FallbackRestaurants()
	}

	records, err := a.searcher.Match(ctx, embedding, matchThreshold, matchCount)
	if err != nil {
		log.Warn().Err(err).Msg("retrieval: similarity search failed, using fallback dataset")
		return FallbackRestaurants()
	}
	if len(records) == 0 {
		log.Debug().Msg("retrieval: no semantic matches, using fallback dataset")
		return FallbackRestaurants()
	}

	results := make([]contractx.Restaurant, 0, len(records))
	for _, rec := range records {
		results = append(results, mapRecord(rec))
	}
	return results
}

// buildSemanticQuery concatenates criteria phrases in a fixed order so equal
// criteria always embed identically.
func buildSemanticQuery(criteria contractx.SearchCriteria) string {
	var b strings.Builder

	if criteria.Cuisine != "" {
		fmt.Fprintf(&b, "best %s food ", criteria.Cuisine)
	}
	if criteria.Neighborhood != "" {
		fmt.Fprintf(&b, "in %s ", criteria.Neighborhood)
	}
	if len(criteria.Vibe) > 0 {
		fmt.Fprintf(&b, "with %s vibe ", strings.Join(criteria.Vibe, " "))
	}
	if criteria.IsViral {
		b.WriteString("trending viral spot ")
	}

	query := strings.TrimSpace(b.String())
	if query == "" {
		return defaultQuery
	}
	return query
}

// mapRecord fills documented defaults for optional columns the index does not
// carry for every row.
func mapRecord(rec contractx.RestaurantRecord) contractx.Restaurant {
	r := contractx.Restaurant{
		Name:          rec.Name,
		Neighborhood:  rec.Neighborhood,
		Cuisine:       rec.Cuisine,
		Price:         rec.PriceTier,
		Rating:        rec.Rating,
		Vibe:          rec.Vibes,
		IsViral:       rec.IsViral,
		SignatureDish: rec.SignatureDish,
		WhyForYou:     rec.Description,
		ProTip:        rec.ProTip,
		WaitTime:      rec.WaitTimeTypical,
		BestTime:      rec.BestTimeToGo,
	}

	if r.Neighborhood == "" {
		r.Neighborhood = "NYC"
	}
	if r.Cuisine == "" {
		r.Cuisine = "Various"
	}
	if r.Price == "" {
		r.Price = "$$"
	}
	if r.Rating == 0 {
		r.Rating = 4.5
	}
	if len(r.Vibe) == 0 {
		if rec.Cuisine != "" {
			r.Vibe = []string{rec.Cuisine}
		} else {
			r.Vibe = []string{"Good Vibes"}
		}
	}
	if r.ProTip == "" {
		r.ProTip = "Check recent reviews for wait times."
	}
	if r.WaitTime == "" {
		r.WaitTime = "Unknown"
	}
	if r.BestTime == "" {
		r.BestTime = "Early evening"
	}
	if r.Coordinates == nil {
		r.Coordinates = &contractx.Coordinates{Lat: 40.73, Lng: -73.99}
	}
	return r
}

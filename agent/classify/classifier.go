// Package classify routes a raw model reply to the UI: either plain prose or
// one of the structured payload shapes the model is prompted to emit inside a
// fenced JSON block. Classification is by field presence, not an explicit
// type tag, and that field set is the contract shared with the prompt.
package classify

import (
	"encoding/json"
	"regexp"

	"github.com/rs/zerolog/log"

	contractx "github.com/nycscout/agent/agent/contract"
)

// Kind discriminates the classified payload variants.
type Kind string

const (
	KindRecommendations Kind = "recommendations"
	KindWeeklyPicks     Kind = "weekly_picks"
	KindItinerary       Kind = "itinerary"
)

// Payload is the tagged variant produced by a successful classification.
// Exactly one of the data fields matching Kind is set.
type Payload struct {
	Kind            Kind
	Recommendations []contractx.Restaurant
	WeeklyPicks     *contractx.WeeklyPicks
	Itinerary       *contractx.Itinerary
}

// Result carries what the UI should render: DisplayText is emptied only when
// a recognized structured payload replaces it.
type Result struct {
	DisplayText string
	Structured  *Payload
}

var fencedJSON = regexp.MustCompile("```json\\n((?s).*?)\\n```")

// Classify inspects raw reply text for the first fenced JSON block and
// shape-sniffs its contents. Any parse failure or unknown shape degrades to
// plain text; user-visible content is never discarded on error.
func Classify(raw string) Result {
	match := fencedJSON.FindStringSubmatch(raw)
	if match == nil {
		return Result{DisplayText: raw}
	}

	block := []byte(match[1])

	var probe any
	if err := json.Unmarshal(block, &probe); err != nil {
		log.Warn().Err(err).Msg("reply contains a fenced json block that does not parse")
		return Result{DisplayText: raw}
	}

	switch v := probe.(type) {
	case []any:
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				if _, ok := first["name"]; ok {
					var recs []contractx.Restaurant
					if err := json.Unmarshal(block, &recs); err == nil {
						return Result{Structured: &Payload{Kind: KindRecommendations, Recommendations: recs}}
					}
				}
			}
		}
	case map[string]any:
		_, hasNewSpots := v["new_spots"]
		_, hasHiddenGem := v["hidden_gem"]
		if hasNewSpots && hasHiddenGem {
			var picks contractx.WeeklyPicks
			if err := json.Unmarshal(block, &picks); err == nil {
				return Result{Structured: &Payload{Kind: KindWeeklyPicks, WeeklyPicks: &picks}}
			}
		}

		_, hasStops := v["stops"]
		_, hasTitle := v["title"]
		if hasStops && hasTitle {
			var it contractx.Itinerary
			if err := json.Unmarshal(block, &it); err == nil {
				return Result{Structured: &Payload{Kind: KindItinerary, Itinerary: &it}}
			}
		}
	}

	// Parsed but matched no known shape: leave the text untouched.
	return Result{DisplayText: raw}
}

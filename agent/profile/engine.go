package profile

import "time"

// Update types a signal bundle may carry.
const (
	UpdateImageUpload            = "image_upload"
	UpdateTextQuery              = "text_query"
	UpdateRecommendationFeedback = "recommendation_feedback"
	UpdateExplicitPreference     = "explicit_preference"
)

// Feedback kinds attached to a recommendation.
const (
	FeedbackClicked  = "clicked"
	FeedbackSaved    = "saved"
	FeedbackIgnored  = "ignored"
	FeedbackRejected = "rejected"
)

// Image-derived evidence scores double the text-derived cuisine score; vibes
// are the noisiest inferred category and score lowest.
const (
	scoreImageCuisine    = 20
	scoreImageDish       = 20
	scoreImageVibe       = 15
	scoreTextCuisine     = 10
	scoreTextDish        = 15
	scoreTextVibe        = 8
	budgetConfidenceStep = 10
)

// Signals is one bundle of inferred preference events, usually the arguments
// of an update_taste_profile tool call. Any subset of the optional fields may
// be present; each present field applies its own rule.
type Signals struct {
	UpdateType         string   `json:"update_type"`
	CuisineSignal      string   `json:"cuisine_signal,omitempty"`
	DishSignal         string   `json:"dish_signal,omitempty"`
	VibeSignals        []string `json:"vibe_signals,omitempty"`
	FashionSignal      string   `json:"fashion_signal,omitempty"`
	NeighborhoodSignal string   `json:"neighborhood_signal,omitempty"`
	PriceSignal        string   `json:"price_signal,omitempty"`
	DietarySignals     []string `json:"dietary_signals,omitempty"`
	Description        string   `json:"description,omitempty"`
	FeedbackRestaurant string   `json:"feedback_restaurant,omitempty"`
	FeedbackType       string   `json:"feedback_type,omitempty"`
}

// Apply folds one signal bundle into the profile and returns the resulting
// snapshot. It is pure and total: the input snapshot is never mutated, and
// missing or unrecognized fields are no-ops rather than errors, so a confused
// model can never corrupt the conversation.
func Apply(p TasteProfile, s Signals, now time.Time) TasteProfile {
	out := p.clone()

	ts := now.UTC()
	if ts.Before(out.ProfileMetadata.LastUpdated) {
		ts = out.ProfileMetadata.LastUpdated
	}
	out.ProfileMetadata.LastUpdated = ts
	out.ProfileMetadata.TotalInteractions++

	if s.UpdateType == UpdateImageUpload {
		applyImageUpload(&out, s, ts)
	}

	if s.CuisineSignal != "" {
		bump(&out.CuisineIntelligence.Favorites, s.CuisineSignal, scoreTextCuisine)
		out.CuisineIntelligence.CuisineHistory = appendUnique(out.CuisineIntelligence.CuisineHistory, s.CuisineSignal)
		out.CuisineIntelligence.NeverTried = removeFirst(out.CuisineIntelligence.NeverTried, s.CuisineSignal)
	}

	if s.DishSignal != "" {
		bump(&out.CuisineIntelligence.DishPreferences, s.DishSignal, scoreTextDish)
	}

	for _, vibe := range s.VibeSignals {
		bump(&out.VibePreferences.FavoriteVibes, vibe, scoreTextVibe)
	}

	if s.NeighborhoodSignal != "" {
		out.PracticalPreferences.Neighborhoods.Frequented = appendUnique(
			out.PracticalPreferences.Neighborhoods.Frequented, s.NeighborhoodSignal)
	}

	if s.PriceSignal != "" {
		out.PracticalPreferences.Budget.ComfortLevel = s.PriceSignal
		out.PracticalPreferences.Budget.Confidence += budgetConfidenceStep
	}

	if s.FeedbackType != "" && s.FeedbackRestaurant != "" {
		applyFeedback(&out, s.FeedbackRestaurant, s.FeedbackType)
	}

	return out
}

func applyImageUpload(p *TasteProfile, s Signals, ts time.Time) {
	p.ProfileMetadata.TotalImagesAnalyzed++

	p.InteractionHistory.ImagesUploaded = append(p.InteractionHistory.ImagesUploaded, ImageUpload{
		Description: imageDescription(s),
		Timestamp:   ts,
	})

	if s.CuisineSignal != "" {
		bump(&p.CuisineIntelligence.Favorites, s.CuisineSignal, scoreImageCuisine)
	}
	if s.DishSignal != "" {
		bump(&p.CuisineIntelligence.DishPreferences, s.DishSignal, scoreImageDish)
	}
	for _, vibe := range s.VibeSignals {
		bump(&p.VibePreferences.FavoriteVibes, vibe, scoreImageVibe)
	}
	if s.FashionSignal != "" {
		p.VibePreferences.FashionAesthetic = appendUnique(p.VibePreferences.FashionAesthetic, s.FashionSignal)
	}
}

func applyFeedback(p *TasteProfile, restaurant, kind string) {
	p.ProfileMetadata.TotalRecommendationsGiven++
	p.WeeklyTracking.SuggestedThisWeek = appendUnique(p.WeeklyTracking.SuggestedThisWeek, restaurant)

	// Saved and rejected are history, not current disposition: a restaurant
	// may legitimately end up in both lists over a session.
	switch kind {
	case FeedbackSaved, FeedbackClicked:
		p.InteractionHistory.RestaurantsSaved = appendUnique(p.InteractionHistory.RestaurantsSaved, restaurant)
	case FeedbackRejected:
		p.InteractionHistory.RestaurantsRejected = appendUnique(p.InteractionHistory.RestaurantsRejected, restaurant)
	}
}

func imageDescription(s Signals) string {
	if s.Description != "" {
		return s.Description
	}
	switch {
	case s.CuisineSignal != "":
		return "Analyzed food"
	case s.FashionSignal != "":
		return "Analyzed outfit"
	default:
		return "Analyzed image"
	}
}

// bump adds delta to m[key], creating the map and the entry lazily.
func bump(m *map[string]int, key string, delta int) {
	if *m == nil {
		*m = make(map[string]int, 4)
	}
	(*m)[key] += delta
}

// appendUnique keeps the list an order-preserving set.
func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func removeFirst(list []string, v string) []string {
	for i, existing := range list {
		if existing == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

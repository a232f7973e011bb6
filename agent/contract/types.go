package contract

// Coordinates is a WGS84 point for map rendering.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Restaurant is the card-level shape shared between retrieval results and
// structured model output. Field names are part of the model-facing contract
// and must match the JSON the model is prompted to emit.
type Restaurant struct {
	Name            string       `json:"name"`
	Neighborhood    string       `json:"neighborhood"`
	Cuisine         string       `json:"cuisine"`
	Price           string       `json:"price"`
	Rating          float64      `json:"rating,omitempty"`
	Vibe            []string     `json:"vibe"`
	IsViral         bool         `json:"is_viral,omitempty"`
	SignatureDish   string       `json:"signature_dish,omitempty"`
	WhyForYou       string       `json:"why_for_you,omitempty"`
	ProTip          string       `json:"pro_tip,omitempty"`
	WaitTime        string       `json:"wait_time,omitempty"`
	BestTime        string       `json:"best_time,omitempty"`
	IsAdventurePick bool         `json:"is_adventure_pick,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
}

// WeeklyPicks is the weekly digest: exactly three new spots plus one hidden
// gem, one dessert pick, and one adventure pick.
type WeeklyPicks struct {
	GeneratedDate string       `json:"generated_date"`
	NewSpots      []Restaurant `json:"new_spots"`
	HiddenGem     Restaurant   `json:"hidden_gem"`
	DessertOfWeek Restaurant   `json:"dessert_of_week"`
	Adventure     Restaurant   `json:"adventure"`
}

// ItineraryStop is either a visit or a walking transition. There is no
// explicit tag; a transition is recognized by a non-empty walking time.
type ItineraryStop struct {
	StopNumber         int    `json:"stop_number,omitempty"`
	Time               string `json:"time,omitempty"`
	Name               string `json:"name,omitempty"`
	WalkingTime        string `json:"walking_time,omitempty"`
	WalkingDescription string `json:"walking_description,omitempty"`
	Type               string `json:"type,omitempty"`
	WhatToGet          string `json:"what_to_get,omitempty"`
	WhyHere            string `json:"why_here,omitempty"`
	Budget             string `json:"budget,omitempty"`
	Duration           string `json:"duration,omitempty"`
}

// IsTransition reports whether the stop is a walking segment between visits.
func (s ItineraryStop) IsTransition() bool {
	return s.WalkingTime != ""
}

// Itinerary is an ordered multi-stop plan.
type Itinerary struct {
	Title             string          `json:"title"`
	Duration          string          `json:"duration"`
	TotalCostEstimate string          `json:"total_cost_estimate"`
	Neighborhoods     []string        `json:"neighborhoods"`
	Stops             []ItineraryStop `json:"stops"`
	Tips              []string        `json:"tips"`
}

// SearchCriteria carries the arguments of a search_restaurants tool call.
// All fields are optional.
type SearchCriteria struct {
	Cuisine      string   `json:"cuisine,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Vibe         []string `json:"vibe,omitempty"`
	IsViral      bool     `json:"is_viral,omitempty"`
	PriceRange   string   `json:"price_range,omitempty"`
}

// RestaurantRecord is one row returned by the similarity-search backend.
// Optional columns may be zero-valued; the retrieval adapter substitutes
// defaults when mapping to Restaurant.
type RestaurantRecord struct {
	Name            string   `json:"name"`
	Neighborhood    string   `json:"neighborhood"`
	Cuisine         string   `json:"cuisine"`
	PriceTier       string   `json:"price_tier"`
	Rating          float64  `json:"rating"`
	Vibes           []string `json:"vibes"`
	IsViral         bool     `json:"is_viral"`
	SignatureDish   string   `json:"signature_dish"`
	Description     string   `json:"description"`
	ProTip          string   `json:"pro_tip"`
	WaitTimeTypical string   `json:"wait_time_typical"`
	BestTimeToGo    string   `json:"best_time_to_go"`
	Similarity      float64  `json:"similarity"`
}

package profile

import "time"

// TasteProfile is the per-session preference model. It is a value: updates go
// through Apply, which returns a fresh snapshot and never touches its input,
// so a snapshot handed to a reader stays stable while the next turn runs.
type TasteProfile struct {
	ProfileMetadata      ProfileMetadata      `json:"profile_metadata"`
	CuisineIntelligence  CuisineIntelligence  `json:"cuisine_intelligence"`
	FlavorProfile        FlavorProfile        `json:"flavor_profile"`
	DietaryInformation   DietaryInformation   `json:"dietary_information"`
	VibePreferences      VibePreferences      `json:"vibe_preferences"`
	PracticalPreferences PracticalPreferences `json:"practical_preferences"`
	InteractionHistory   InteractionHistory   `json:"interaction_history"`
	WeeklyTracking       WeeklyTracking       `json:"weekly_tracking"`
	InferredPersona      InferredPersona      `json:"inferred_persona"`
}

type ProfileMetadata struct {
	SessionID                 string    `json:"session_id"`
	CreatedAt                 time.Time `json:"created_at"`
	LastUpdated               time.Time `json:"last_updated"`
	TotalInteractions         int       `json:"total_interactions"`
	TotalImagesAnalyzed       int       `json:"total_images_analyzed"`
	TotalRecommendationsGiven int       `json:"total_recommendations_given"`
}

type CuisineIntelligence struct {
	Favorites       map[string]int `json:"favorites"`
	DishPreferences map[string]int `json:"dish_preferences"`
	Dislikes        map[string]int `json:"dislikes"`
	NeverTried      []string       `json:"never_tried"`
	CuriousAbout    []string       `json:"curious_about"`
	CuisineHistory  []string       `json:"cuisine_history"`
}

type FlavorSignal struct {
	Level      string   `json:"level,omitempty"`
	Preference string   `json:"preference,omitempty"`
	Confidence int      `json:"confidence"`
	DataPoints []string `json:"data_points"`
}

type FlavorProfile struct {
	SpiceTolerance          FlavorSignal `json:"spice_tolerance"`
	Sweetness               FlavorSignal `json:"sweetness"`
	SavoryUmami             FlavorSignal `json:"savory_umami"`
	TexturePreferences      []string     `json:"texture_preferences"`
	TemperaturePreferences  []string     `json:"temperature_preferences"`
	CookingStylePreferences []string     `json:"cooking_style_preferences"`
}

type DietaryInformation struct {
	Restrictions []string `json:"restrictions"`
	Allergies    []string `json:"allergies"`
	Avoidances   []string `json:"avoidances"`
	Preferences  []string `json:"preferences"`
	HealthFocus  string   `json:"health_focus"`
}

type VibePreferences struct {
	FavoriteVibes    map[string]int `json:"favorite_vibes"`
	DislikedVibes    []string       `json:"disliked_vibes"`
	FashionAesthetic []string       `json:"fashion_aesthetic"`
}

type Budget struct {
	ComfortLevel       string `json:"comfort_level"`
	MaxSpecialOccasion string `json:"max_special_occasion"`
	TypicalMeal        string `json:"typical_meal"`
	Confidence         int    `json:"confidence"`
}

type Neighborhoods struct {
	Favorites           []string `json:"favorites"`
	Frequented          []string `json:"frequented"`
	Avoided             []string `json:"avoided"`
	HomeArea            string   `json:"home_area"`
	ExplorationInterest []string `json:"exploration_interest"`
}

type WaitTolerance struct {
	Level            string   `json:"level"`
	WillingToReserve string   `json:"willing_to_reserve"`
	DataPoints       []string `json:"data_points"`
}

type PracticalPreferences struct {
	Budget        Budget        `json:"budget"`
	WaitTolerance WaitTolerance `json:"wait_tolerance"`
	Neighborhoods Neighborhoods `json:"neighborhoods"`
}

type ImageUpload struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type InteractionHistory struct {
	ImagesUploaded      []ImageUpload `json:"images_uploaded"`
	RestaurantsSaved    []string      `json:"restaurants_saved"`
	RestaurantsRejected []string      `json:"restaurants_rejected"`
}

type WeeklyTracking struct {
	CurrentWeekStart    time.Time `json:"current_week_start"`
	SuggestedThisWeek   []string  `json:"suggested_this_week"`
	WeeklyPicksGiven    bool      `json:"weekly_picks_generated"`
	LastWeeklyPicksDate string    `json:"last_weekly_picks_date"`
}

type InferredPersona struct {
	FoodieLevel       string `json:"foodie_level"`
	SocialDiningStyle string `json:"social_dining_style"`
	DiscoveryStyle    string `json:"discovery_style"`
	PrimaryUseCase    string `json:"primary_use_case"`
}

// Cuisines the profile starts out flagging as untried; a cuisine signal
// removes its entry once.
var seedNeverTried = []string{
	"Ethiopian", "Georgian", "Peruvian", "Filipino",
	"Scandinavian", "Turkish", "Malaysian", "Burmese",
}

const valueUnknown = "unknown"

// NewProfile returns the seeded initial snapshot for a session.
func NewProfile(sessionID string, now time.Time) TasteProfile {
	now = now.UTC()
	return TasteProfile{
		ProfileMetadata: ProfileMetadata{
			SessionID:   sessionID,
			CreatedAt:   now,
			LastUpdated: now,
		},
		CuisineIntelligence: CuisineIntelligence{
			NeverTried: append([]string(nil), seedNeverTried...),
		},
		FlavorProfile: FlavorProfile{
			SpiceTolerance: FlavorSignal{Level: valueUnknown},
			Sweetness:      FlavorSignal{Preference: valueUnknown},
			SavoryUmami:    FlavorSignal{Preference: valueUnknown},
		},
		DietaryInformation: DietaryInformation{HealthFocus: valueUnknown},
		PracticalPreferences: PracticalPreferences{
			Budget:        Budget{ComfortLevel: valueUnknown},
			WaitTolerance: WaitTolerance{Level: valueUnknown, WillingToReserve: valueUnknown},
			Neighborhoods: Neighborhoods{HomeArea: valueUnknown},
		},
		WeeklyTracking: WeeklyTracking{CurrentWeekStart: now},
		InferredPersona: InferredPersona{
			FoodieLevel:       valueUnknown,
			SocialDiningStyle: valueUnknown,
			DiscoveryStyle:    valueUnknown,
			PrimaryUseCase:    valueUnknown,
		},
	}
}

// clone deep-copies every map and slice the update engine may write to, so a
// returned snapshot shares no mutable state with its predecessor.
func (p TasteProfile) clone() TasteProfile {
	out := p

	out.CuisineIntelligence.Favorites = cloneScores(p.CuisineIntelligence.Favorites)
	out.CuisineIntelligence.DishPreferences = cloneScores(p.CuisineIntelligence.DishPreferences)
	out.CuisineIntelligence.Dislikes = cloneScores(p.CuisineIntelligence.Dislikes)
	out.CuisineIntelligence.NeverTried = cloneList(p.CuisineIntelligence.NeverTried)
	out.CuisineIntelligence.CuriousAbout = cloneList(p.CuisineIntelligence.CuriousAbout)
	out.CuisineIntelligence.CuisineHistory = cloneList(p.CuisineIntelligence.CuisineHistory)

	out.FlavorProfile.SpiceTolerance.DataPoints = cloneList(p.FlavorProfile.SpiceTolerance.DataPoints)
	out.FlavorProfile.Sweetness.DataPoints = cloneList(p.FlavorProfile.Sweetness.DataPoints)
	out.FlavorProfile.SavoryUmami.DataPoints = cloneList(p.FlavorProfile.SavoryUmami.DataPoints)
	out.FlavorProfile.TexturePreferences = cloneList(p.FlavorProfile.TexturePreferences)
	out.FlavorProfile.TemperaturePreferences = cloneList(p.FlavorProfile.TemperaturePreferences)
	out.FlavorProfile.CookingStylePreferences = cloneList(p.FlavorProfile.CookingStylePreferences)

	out.DietaryInformation.Restrictions = cloneList(p.DietaryInformation.Restrictions)
	out.DietaryInformation.Allergies = cloneList(p.DietaryInformation.Allergies)
	out.DietaryInformation.Avoidances = cloneList(p.DietaryInformation.Avoidances)
	out.DietaryInformation.Preferences = cloneList(p.DietaryInformation.Preferences)

	out.VibePreferences.FavoriteVibes = cloneScores(p.VibePreferences.FavoriteVibes)
	out.VibePreferences.DislikedVibes = cloneList(p.VibePreferences.DislikedVibes)
	out.VibePreferences.FashionAesthetic = cloneList(p.VibePreferences.FashionAesthetic)

	out.PracticalPreferences.WaitTolerance.DataPoints = cloneList(p.PracticalPreferences.WaitTolerance.DataPoints)
	out.PracticalPreferences.Neighborhoods.Favorites = cloneList(p.PracticalPreferences.Neighborhoods.Favorites)
	out.PracticalPreferences.Neighborhoods.Frequented = cloneList(p.PracticalPreferences.Neighborhoods.Frequented)
	out.PracticalPreferences.Neighborhoods.Avoided = cloneList(p.PracticalPreferences.Neighborhoods.Avoided)
	out.PracticalPreferences.Neighborhoods.ExplorationInterest = cloneList(p.PracticalPreferences.Neighborhoods.ExplorationInterest)

	out.InteractionHistory.ImagesUploaded = append([]ImageUpload(nil), p.InteractionHistory.ImagesUploaded...)
	out.InteractionHistory.RestaurantsSaved = cloneList(p.InteractionHistory.RestaurantsSaved)
	out.InteractionHistory.RestaurantsRejected = cloneList(p.InteractionHistory.RestaurantsRejected)

	out.WeeklyTracking.SuggestedThisWeek = cloneList(p.WeeklyTracking.SuggestedThisWeek)

	return out
}

func cloneScores(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneList(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

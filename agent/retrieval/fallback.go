package retrieval

import contractx "github.com/nycscout/agent/agent/contract"

// Fixed dataset served when the index is offline or returns nothing. Order is
// deterministic; callers get a fresh copy so the seed stays immutable.
var fallbackRestaurants = []contractx.Restaurant{
	{
		Name:          "L'Artusi",
		Neighborhood:  "West Village",
		Cuisine:       "Italian",
		Price:         "$$$",
		Rating:        4.7,
		Vibe:          []string{"romantic", "lively", "upscale casual", "date night"},
		SignatureDish: "Roasted Mushroom Garganelli",
		WhyForYou:     "A quintessential West Village pasta destination that perfectly balances energy and elegance.",
		ProTip:        "Walk-in seats at the chef's counter are often available if you arrive right at 5pm.",
		WaitTime:      "Reservation required",
		BestTime:      "5:00 PM or 10:00 PM",
		Coordinates:   &contractx.Coordinates{Lat: 40.7338, Lng: -74.0051},
	},
	{
		Name:          "Win Son",
		Neighborhood:  "East Williamsburg",
		Cuisine:       "Taiwanese-American",
		Price:         "$$",
		Rating:        4.5,
		Vibe:          []string{"cool", "loud", "trendy", "casual"},
		SignatureDish: "Fly's Head with Pork & Chives",
		WhyForYou:     "Bold flavors and a high-energy atmosphere that captures the modern Brooklyn dining scene.",
		ProTip:        "Put your name down and grab a donut at their bakery across the street while you wait.",
		WaitTime:      "45-90 min",
		BestTime:      "Late night (after 9pm)",
		Coordinates:   &contractx.Coordinates{Lat: 40.7072, Lng: -73.9406},
	},
	{
		Name:          "Double Chicken Please",
		Neighborhood:  "Lower East Side",
		Cuisine:       "Cocktails/Sandwiches",
		Price:         "$$",
		Rating:        4.8,
		Vibe:          []string{"industrial", "vibrant", "innovative", "viral"},
		SignatureDish: "Hot Honey Chicken Sandwich",
		WhyForYou:     "Voted one of the world's best bars, offering incredible food in a design-forward space.",
		ProTip:        "The front room (Free Coop) is walk-in only and serves the famous sandwiches.",
		WaitTime:      "60+ min",
		BestTime:      "Weekdays 5pm",
		Coordinates:   &contractx.Coordinates{Lat: 40.7186, Lng: -73.9916},
	},
	{
		Name:          "Rubirosa",
		Neighborhood:  "Nolita",
		Cuisine:       "Italian/Pizza",
		Price:         "$$",
		Rating:        4.6,
		Vibe:          []string{"cozy", "dimly lit", "classic", "family friendly"},
		SignatureDish: "Tie-Dye Pizza",
		WhyForYou:     "A cozy, classic NYC red-sauce joint famous for its thin crust pizza.",
		ProTip:        "The vodka sauce pizza is non-negotiable.",
		WaitTime:      "30-60 min",
		BestTime:      "Lunch or late night",
		Coordinates:   &contractx.Coordinates{Lat: 40.7227, Lng: -73.996},
	},
	{
		Name:          "Kiki's",
		Neighborhood:  "Dimes Square",
		Cuisine:       "Greek",
		Price:         "$$",
		Rating:        4.4,
		Vibe:          []string{"rustic", "trendy", "lively", "low-key"},
		SignatureDish: "Grilled Octopus",
		WhyForYou:     "Effortlessly cool vibe with great prices and authentic food. A local favorite.",
		ProTip:        "There is no sign outside. Look for the Chinese sign from the previous tenant.",
		WaitTime:      "30-45 min",
		BestTime:      "Pre-7pm",
		Coordinates:   &contractx.Coordinates{Lat: 40.7145, Lng: -73.9915},
	},
}

// FallbackRestaurants returns the fixed offline dataset.
func FallbackRestaurants() []contractx.Restaurant {
	out := make([]contractx.Restaurant, len(fallbackRestaurants))
	copy(out, fallbackRestaurants)
	return out
}

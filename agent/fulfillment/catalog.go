package fulfillment

import contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"

// Catalog is the static mock inventory the agent answers from.
type Catalog struct {
	Itineraries []Itinerary
	Cabs        []contractx.Cab
	Hotels      []contractx.Hotel
	Restaurants []contractx.Restaurant
}

type Itinerary struct {
	Destination   string
	Days          []contractx.DayPlan
	EstimatedCost int
	BestTime      string
}

func DefaultCatalog() Catalog {
	return Catalog{
		Itineraries: []Itinerary{
			{
				Destination: "Paris",
				Days: []contractx.DayPlan{
					{Day: 1, Activities: []string{"Visit Eiffel Tower", "Seine River Cruise", "Louvre Museum"}},
					{Day: 2, Activities: []string{"Notre Dame Cathedral", "Montmartre District", "Arc de Triomphe"}},
					{Day: 3, Activities: []string{"Versailles Palace", "Champs-Élysées Shopping", "Evening at Sacré-Cœur"}},
				},
				EstimatedCost: 1200,
				BestTime:      "Spring (April-June) or Fall (September-November)",
			},
			{
				Destination: "Tokyo",
				Days: []contractx.DayPlan{
					{Day: 1, Activities: []string{"Senso-ji Temple", "Tokyo Skytree", "Traditional Sushi Experience"}},
					{Day: 2, Activities: []string{"Shibuya Crossing", "Harajuku District", "Meiji Shrine"}},
					{Day: 3, Activities: []string{"Tsukiji Fish Market", "Imperial Palace", "Ginza Shopping"}},
				},
				EstimatedCost: 1500,
				BestTime:      "Spring (March-May) for cherry blossoms",
			},
		},
		Cabs: []contractx.Cab{
			{ID: "uber_001", Driver: "John Smith", Car: "Honda City", ETAMinutes: 5, Fare: 250, Rating: 4.8},
			{ID: "ola_002", Driver: "Raj Kumar", Car: "Maruti Swift", ETAMinutes: 7, Fare: 220, Rating: 4.6},
			{ID: "uber_003", Driver: "Sarah Johnson", Car: "Toyota Camry", ETAMinutes: 3, Fare: 300, Rating: 4.9},
		},
		Hotels: []contractx.Hotel{
			{ID: "h001", Name: "Grand Palace Hotel", Rating: 5, Price: 8000, Amenities: []string{"Pool", "Spa", "Restaurant"}},
			{ID: "h002", Name: "Budget Inn", Rating: 3, Price: 2500, Amenities: []string{"WiFi", "AC"}},
			{ID: "h003", Name: "Luxury Suites", Rating: 4, Price: 5500, Amenities: []string{"Gym", "Restaurant", "Bar"}},
		},
		Restaurants: []contractx.Restaurant{
			{ID: "r001", Name: "Spice Garden", Cuisine: "Indian Vegetarian", Rating: 4.5, PriceRange: "₹₹"},
			{ID: "r002", Name: "Ocean Grill", Cuisine: "Continental Non-Veg", Rating: 4.7, PriceRange: "₹₹₹"},
			{ID: "r003", Name: "Green Leaf", Cuisine: "Pure Vegetarian", Rating: 4.3, PriceRange: "₹"},
		},
	}
}

// fallbackItinerary is used when no seeded destination matches.
func fallbackItinerary(destination string) Itinerary {
	return Itinerary{
		Destination: destination,
		Days: []contractx.DayPlan{
			{Day: 1, Activities: []string{"Explore city center", "Visit local landmarks", "Try local cuisine"}},
			{Day: 2, Activities: []string{"Cultural sites tour", "Shopping districts", "Evening entertainment"}},
			{Day: 3, Activities: []string{"Nature/parks visit", "Museum tours", "Local experiences"}},
		},
		EstimatedCost: 1000,
		BestTime:      "Check local weather and season recommendations",
	}
}

package fulfillment

import (
	"fmt"
	"math"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
	slotx "github.com/tanpawarit/Chative-Booking-Engine/agent/slot"
)

const availabilityAvailable = "Available"

func (a *Agent) travel(answers contractx.Answers) (any, error) {
	v, err := required(answers, "destination", "start_date", "end_date", "interests")
	if err != nil {
		return nil, err
	}
	destination, start, end, interests := v[0], v[1], v[2], v[3]

	itinerary, ok := a.findItinerary(destination)
	if !ok {
		itinerary = fallbackItinerary(destination)
	}
	return &contractx.TravelOffer{
		Destination:   itinerary.Destination,
		Days:          cloneDays(itinerary.Days),
		EstimatedCost: itinerary.EstimatedCost,
		BestTime:      itinerary.BestTime,
		TravelDates:   fmt.Sprintf("%s to %s", start, end),
		Interests:     interests,
	}, nil
}

// findItinerary matches when the seeded destination contains the requested
// one, ignoring case.
func (a *Agent) findItinerary(destination string) (Itinerary, bool) {
	needle := strings.ToLower(strings.TrimSpace(destination))
	for _, it := range a.catalog.Itineraries {
		if strings.Contains(strings.ToLower(it.Destination), needle) {
			return it, true
		}
	}
	return Itinerary{}, false
}

func (a *Agent) cab(answers contractx.Answers) (any, error) {
	v, err := required(answers, "pickup", "drop", "time")
	if err != nil {
		return nil, err
	}
	pickup, drop, at := v[0], v[1], v[2]

	cabs := make([]contractx.Cab, 0, len(a.catalog.Cabs))
	for _, c := range a.catalog.Cabs {
		c.Pickup = pickup
		c.Drop = drop
		c.ScheduledTime = at
		cabs = append(cabs, c)
	}
	return &contractx.CabOffer{
		Cabs:          cabs,
		Route:         fmt.Sprintf("%s → %s", pickup, drop),
		ScheduledTime: at,
	}, nil
}

func (a *Agent) hotel(answers contractx.Answers) (any, error) {
	v, err := required(answers, "city", "check_in", "check_out", "guests")
	if err != nil {
		return nil, err
	}
	city, checkIn, checkOut, guests := v[0], v[1], v[2], v[3]

	nights, err := stayDuration(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	hotels := make([]contractx.Hotel, 0, len(a.catalog.Hotels))
	for _, h := range a.catalog.Hotels {
		h.Amenities = append([]string(nil), h.Amenities...)
		h.City = city
		h.CheckIn = checkIn
		h.CheckOut = checkOut
		h.Guests = guests
		h.Availability = availabilityAvailable
		hotels = append(hotels, h)
	}
	return &contractx.HotelOffer{
		Hotels:       hotels,
		City:         city,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       guests,
		StayDuration: nights,
	}, nil
}

// stayDuration is the absolute elapsed time in whole days, rounded up.
func stayDuration(checkIn, checkOut string) (int, error) {
	start, err := slotx.ParseDate(checkIn)
	if err != nil {
		return 0, fmt.Errorf("invalid check_in %q: %w", checkIn, err)
	}
	end, err := slotx.ParseDate(checkOut)
	if err != nil {
		return 0, fmt.Errorf("invalid check_out %q: %w", checkOut, err)
	}
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(24*time.Hour))), nil
}

func (a *Agent) restaurant(answers contractx.Answers) (any, error) {
	v, err := required(answers, "city", "date", "people", "preference")
	if err != nil {
		return nil, err
	}
	city, date, people, preference := v[0], v[1], v[2], v[3]

	vegOnly := strings.Contains(strings.ToLower(preference), "veg")
	restaurants := make([]contractx.Restaurant, 0, len(a.catalog.Restaurants))
	for _, r := range a.catalog.Restaurants {
		if vegOnly && !strings.Contains(strings.ToLower(r.Cuisine), "vegetarian") {
			continue
		}
		r.City = city
		r.ReservationDate = date
		r.PartySize = people
		r.Availability = availabilityAvailable
		restaurants = append(restaurants, r)
	}
	return &contractx.RestaurantOffer{
		Restaurants:     restaurants,
		City:            city,
		ReservationDate: date,
		PartySize:       people,
		Preference:      preference,
	}, nil
}

func cloneDays(days []contractx.DayPlan) []contractx.DayPlan {
	out := make([]contractx.DayPlan, len(days))
	for i, d := range days {
		out[i] = contractx.DayPlan{Day: d.Day, Activities: append([]string(nil), d.Activities...)}
	}
	return out
}

package message

import (
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

func TestComposeHotelSuccess(t *testing.T) {
	t.Parallel()

	c := MustNew()
	msg := c.Compose(contractx.ServiceHotel, contractx.FulfillmentResult{
		Success:   true,
		Reference: "HTL_1718400000000",
		Data: &contractx.HotelOffer{
			City:         "Mumbai",
			CheckIn:      "2024-06-15",
			CheckOut:     "2024-06-17",
			Guests:       "2",
			StayDuration: 2,
			Hotels: []contractx.Hotel{
				{Name: "Grand Palace Hotel", Rating: 5, Price: 8000, Amenities: []string{"Pool", "Spa"}},
			},
		},
	})

	for _, want := range []string{
		"great hotel options in Mumbai",
		"Check-in: 2024-06-15 | Check-out: 2024-06-17",
		"Stay Duration: 2 days",
		"Booking Reference: HTL_1718400000000",
		"Grand Palace Hotel | 5⭐ | ₹8,000/night | Amenities: Pool, Spa",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposePluralizesStayDuration(t *testing.T) {
	t.Parallel()

	c := MustNew()
	for nights, want := range map[int]string{1: "Stay Duration: 1 day", 3: "Stay Duration: 3 days"} {
		msg := c.Compose(contractx.ServiceHotel, contractx.FulfillmentResult{
			Success:   true,
			Reference: "HTL_1",
			Data:      &contractx.HotelOffer{City: "Goa", StayDuration: nights},
		})
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposeTravelSuccess(t *testing.T) {
	t.Parallel()

	msg := MustNew().Compose(contractx.ServiceTravel, contractx.FulfillmentResult{
		Success:   true,
		Reference: "TRV_1",
		Data: &contractx.TravelOffer{
			Destination:   "Paris",
			EstimatedCost: 1200,
			TravelDates:   "2024-06-15 to 2024-06-18",
			Interests:     "food",
			Days: []contractx.DayPlan{
				{Day: 1, Activities: []string{"Eiffel Tower", "Louvre"}},
				{Day: 2, Activities: []string{"Montmartre"}},
			},
		},
	})
	for _, want := range []string{
		"itinerary for Paris",
		"Estimated Cost: $1,200",
		"Day 1: Eiffel Tower, Louvre\nDay 2: Montmartre",
		"Booking Reference: TRV_1",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposeCabAndRestaurantSuccess(t *testing.T) {
	t.Parallel()

	c := MustNew()
	cab := c.Compose(contractx.ServiceCab, contractx.FulfillmentResult{
		Success:   true,
		Reference: "CAB_1",
		Data: &contractx.CabOffer{
			Route:         "A → B",
			ScheduledTime: "2024-06-15 14:30",
			Cabs:          []contractx.Cab{{Car: "Honda City", Driver: "John Smith", ETAMinutes: 5, Fare: 250, Rating: 4.8}},
		},
	})
	if !strings.Contains(cab, "🚙 Honda City - Driver: John Smith | ETA: 5 mins | Fare: ₹250 | Rating: 4.8⭐") {
		t.Fatalf("unexpected cab message:\n%s", cab)
	}

	empty := c.Compose(contractx.ServiceRestaurant, contractx.FulfillmentResult{
		Success:   true,
		Reference: "RST_1",
		Data:      &contractx.RestaurantOffer{City: "Delhi", Preference: "vegan"},
	})
	if !strings.Contains(empty, "No restaurants match") {
		t.Fatalf("unexpected restaurant message:\n%s", empty)
	}
}

func TestComposeFailure(t *testing.T) {
	t.Parallel()

	msg := MustNew().Compose(contractx.ServiceCab, contractx.FulfillmentResult{
		Success: false,
		Error:   "provider timeout",
	})
	if msg != "❌ Sorry, I couldn't find available cabs. provider timeout" {
		t.Fatalf("unexpected message: %q", msg)
	}

	blank := MustNew().Compose(contractx.ServiceHotel, contractx.FulfillmentResult{})
	if !strings.Contains(blank, "Unknown error") {
		t.Fatalf("unexpected message: %q", blank)
	}
}

func TestComposeFallsBackWithoutTemplate(t *testing.T) {
	t.Parallel()

	c := MustNew()
	ok := c.Compose(contractx.ServiceType("spa"), contractx.FulfillmentResult{Success: true, Reference: "SPA_1"})
	if !strings.HasPrefix(ok, "✅ Your spa request has been processed successfully!") || !strings.Contains(ok, "SPA_1") {
		t.Fatalf("unexpected fallback: %q", ok)
	}

	failed := c.Compose(contractx.ServiceType("spa"), contractx.FulfillmentResult{Error: "closed"})
	if failed != "❌ Sorry, there was an error processing your spa request: closed" {
		t.Fatalf("unexpected fallback: %q", failed)
	}
}

func TestComposeFallsBackOnMismatchedData(t *testing.T) {
	t.Parallel()

	msg := MustNew().Compose(contractx.ServiceTravel, contractx.FulfillmentResult{
		Success:   true,
		Reference: "TRV_9",
		Data:      &contractx.CabOffer{},
	})
	if !strings.HasPrefix(msg, "✅ Your travel request") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

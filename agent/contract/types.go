package contract

import (
	"fmt"
	"strings"
)

type ServiceType string

const (
	ServiceTravel     ServiceType = "travel"
	ServiceCab        ServiceType = "cab"
	ServiceHotel      ServiceType = "hotel"
	ServiceRestaurant ServiceType = "restaurant"
)

// ServiceTypes is the closed set, in display order.
var ServiceTypes = []ServiceType{ServiceTravel, ServiceCab, ServiceHotel, ServiceRestaurant}

// ParseServiceType accepts a label in any case, surrounded by any whitespace.
func ParseServiceType(label string) (ServiceType, error) {
	st := ServiceType(strings.ToLower(strings.TrimSpace(label)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownServiceType, label)
	}
	return st, nil
}

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTravel, ServiceCab, ServiceHotel, ServiceRestaurant:
		return true
	default:
		return false
	}
}

// ReferencePrefix is the three-letter prefix of booking references.
func (s ServiceType) ReferencePrefix() string {
	switch s {
	case ServiceTravel:
		return "TRV"
	case ServiceCab:
		return "CAB"
	case ServiceHotel:
		return "HTL"
	case ServiceRestaurant:
		return "RST"
	default:
		return ""
	}
}

type SlotType string

const (
	SlotString   SlotType = "string"
	SlotDate     SlotType = "date"
	SlotDateTime SlotType = "datetime"
	SlotNumber   SlotType = "number"
)

type SlotDefinition struct {
	Key    string   `json:"key"`
	Prompt string   `json:"prompt"`
	Type   SlotType `json:"type"`
}

// Answer is one collected slot value.
type Answer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Answers keeps collected values in slot order.
type Answers []Answer

func (a Answers) Get(key string) (string, bool) {
	for _, ans := range a {
		if ans.Key == key {
			return ans.Value, true
		}
	}
	return "", false
}

func (a Answers) Map() map[string]string {
	out := make(map[string]string, len(a))
	for _, ans := range a {
		out[ans.Key] = ans.Value
	}
	return out
}

/* ----------------------------- Fulfillment ------------------------------ */

type FulfillmentResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"booking_reference,omitempty"`
	// Data is one of *TravelOffer, *CabOffer, *HotelOffer, *RestaurantOffer.
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func FailedResult(format string, args ...any) FulfillmentResult {
	return FulfillmentResult{
		Success: false,
		Error:   fmt.Sprintf(format, args...),
	}
}

type DayPlan struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

type TravelOffer struct {
	Destination   string    `json:"destination"`
	Days          []DayPlan `json:"days"`
	EstimatedCost int       `json:"estimated_cost"`
	BestTime      string    `json:"best_time"`
	TravelDates   string    `json:"travel_dates"`
	Interests     string    `json:"interests"`
}

type Cab struct {
	ID            string  `json:"id"`
	Driver        string  `json:"driver"`
	Car           string  `json:"car"`
	ETAMinutes    int     `json:"eta"`
	Fare          int     `json:"fare"`
	Rating        float64 `json:"rating"`
	Pickup        string  `json:"pickup_location"`
	Drop          string  `json:"drop_location"`
	ScheduledTime string  `json:"scheduled_time"`
}

type CabOffer struct {
	Cabs          []Cab  `json:"available_cabs"`
	Route         string `json:"route"`
	ScheduledTime string `json:"scheduled_time"`
}

type Hotel struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Rating       int      `json:"rating"`
	Price        int      `json:"price"`
	Amenities    []string `json:"amenities"`
	City         string   `json:"city"`
	CheckIn      string   `json:"check_in"`
	CheckOut     string   `json:"check_out"`
	Guests       string   `json:"guests"`
	Availability string   `json:"availability"`
}

type HotelOffer struct {
	Hotels       []Hotel `json:"hotels"`
	City         string  `json:"city"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	Guests       string  `json:"guests"`
	StayDuration int     `json:"stay_duration"`
}

type Restaurant struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Cuisine         string  `json:"cuisine"`
	Rating          float64 `json:"rating"`
	PriceRange      string  `json:"price_range"`
	City            string  `json:"city"`
	ReservationDate string  `json:"reservation_date"`
	PartySize       string  `json:"party_size"`
	Availability    string  `json:"availability"`
}

type RestaurantOffer struct {
	Restaurants     []Restaurant `json:"restaurants"`
	City            string       `json:"city"`
	ReservationDate string       `json:"reservation_date"`
	PartySize       string       `json:"party_size"`
	Preference      string       `json:"preference"`
}

package slot

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

var _ contractx.SlotRegistry = Registry{}

// flows is never mutated after init; DefinitionsFor hands out copies.
var flows = map[contractx.ServiceType][]contractx.SlotDefinition{
	contractx.ServiceTravel: {
		{Key: "destination", Prompt: "Where would you like to travel?", Type: contractx.SlotString},
		{Key: "start_date", Prompt: "When would you like to start your trip? (YYYY-MM-DD)", Type: contractx.SlotDate},
		{Key: "end_date", Prompt: "When would you like to end your trip? (YYYY-MM-DD)", Type: contractx.SlotDate},
		{Key: "interests", Prompt: "What are your main interests? (e.g., culture, adventure, food, history)", Type: contractx.SlotString},
	},
	contractx.ServiceCab: {
		{Key: "pickup", Prompt: "What is your pickup location?", Type: contractx.SlotString},
		{Key: "drop", Prompt: "What is your destination?", Type: contractx.SlotString},
		{Key: "time", Prompt: "When do you need the cab? (YYYY-MM-DD HH:MM)", Type: contractx.SlotDateTime},
	},
	contractx.ServiceHotel: {
		{Key: "city", Prompt: "Which city are you looking for accommodation in?", Type: contractx.SlotString},
		{Key: "check_in", Prompt: "Check-in date? (YYYY-MM-DD)", Type: contractx.SlotDate},
		{Key: "check_out", Prompt: "Check-out date? (YYYY-MM-DD)", Type: contractx.SlotDate},
		{Key: "guests", Prompt: "How many guests?", Type: contractx.SlotNumber},
	},
	contractx.ServiceRestaurant: {
		{Key: "city", Prompt: "Which city are you looking for restaurants in?", Type: contractx.SlotString},
		{Key: "date", Prompt: "What date do you want to dine? (YYYY-MM-DD)", Type: contractx.SlotDate},
		{Key: "people", Prompt: "How many people will be dining?", Type: contractx.SlotNumber},
		{Key: "preference", Prompt: "Do you prefer vegetarian or non-vegetarian food?", Type: contractx.SlotString},
	},
}

// Registry is the static slot catalog. The zero value is ready to use and
// safe for concurrent lookups.
type Registry struct{}

func NewRegistry() Registry {
	return Registry{}
}

func (Registry) DefinitionsFor(serviceType contractx.ServiceType) ([]contractx.SlotDefinition, error) {
	return DefinitionsFor(serviceType)
}

func DefinitionsFor(serviceType contractx.ServiceType) ([]contractx.SlotDefinition, error) {
	defs, ok := flows[serviceType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownServiceType, serviceType)
	}
	return append([]contractx.SlotDefinition(nil), defs...), nil
}

// Services lists the service types that have a slot flow.
func Services() []contractx.ServiceType {
	out := make([]contractx.ServiceType, 0, len(contractx.ServiceTypes))
	for _, st := range contractx.ServiceTypes {
		if _, ok := flows[st]; ok {
			out = append(out, st)
		}
	}
	return out
}

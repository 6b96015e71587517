package tools

import (
	"context"
	"encoding/json"

	"github.com/tripstack/tripsearch/amadeus"
	"github.com/tripstack/tripsearch/format"
	"github.com/tripstack/tripsearch/log"
)

// FlightSearchRequest is the typed flight command. Codes are 3-letter
// IATA location codes; dates are YYYY-MM-DD.
type FlightSearchRequest struct {
	Origin        string  `json:"origin" validate:"required,len=3,alpha"`
	Destination   string  `json:"destination" validate:"required,len=3,alpha"`
	DepartureDate string  `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string  `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults        int     `json:"adults,omitempty" validate:"omitempty,min=1,max=9"`
	MaxPrice      float64 `json:"max_price" validate:"required,gt=0"`
	Max           int     `json:"max,omitempty" validate:"omitempty,min=1,max=50"`
}

// FlightSearchTool runs flight-offers searches against the inventory API.
type FlightSearchTool struct {
	Client *amadeus.Client
}

func NewFlightSearchTool(client *amadeus.Client) *FlightSearchTool {
	return &FlightSearchTool{Client: client}
}

func (t *FlightSearchTool) Name() string {
	return "flight_search"
}

func (t *FlightSearchTool) Description() string {
	return "Searches for flight offers. Arguments: origin (IATA code), destination (IATA code), departure_date (YYYY-MM-DD), return_date (optional), adults, max_price, max."
}

func (t *FlightSearchTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req FlightSearchRequest
	if err := decodeStrict(args, &req); err != nil {
		return "", err
	}
	if err := Validate(&req); err != nil {
		return "", err
	}

	log.Infof(ctx, "flight_search: %s -> %s on %s", req.Origin, req.Destination, req.DepartureDate)

	offers, err := t.Client.SearchFlights(ctx, amadeus.FlightCriteria{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Adults:        req.Adults,
		MaxPrice:      req.MaxPrice,
		Max:           req.Max,
	})
	if err != nil {
		return "", err
	}

	return format.Flights(offers), nil
}

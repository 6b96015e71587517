package tools

import (
	"context"
	"encoding/json"

	"github.com/tripstack/tripsearch/amadeus"
	"github.com/tripstack/tripsearch/format"
	"github.com/tripstack/tripsearch/log"
)

// HotelSearchRequest is the typed hotel command. Ratings filter on star
// categories; price_range is "min-max" or a single ceiling.
type HotelSearchRequest struct {
	CityCode     string `json:"city_code" validate:"required,len=3,alpha"`
	Ratings      []int  `json:"ratings,omitempty" validate:"omitempty,dive,min=1,max=5"`
	Adults       int    `json:"adults,omitempty" validate:"omitempty,min=1,max=9"`
	CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	// Check-out strictly after check-in is enforced by HotelCriteria.Validate
	CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	PriceRange   string `json:"price_range,omitempty"`
}

// HotelSearchTool runs the two-phase hotel search.
type HotelSearchTool struct {
	Client *amadeus.Client
}

func NewHotelSearchTool(client *amadeus.Client) *HotelSearchTool {
	return &HotelSearchTool{Client: client}
}

func (t *HotelSearchTool) Name() string {
	return "hotel_search"
}

func (t *HotelSearchTool) Description() string {
	return "Searches for hotel stays. Arguments: city_code (IATA code), ratings (1-5), adults, check_in_date, check_out_date (YYYY-MM-DD), price_range."
}

func (t *HotelSearchTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req HotelSearchRequest
	if err := decodeStrict(args, &req); err != nil {
		return "", err
	}
	if err := Validate(&req); err != nil {
		return "", err
	}

	log.Infof(ctx, "hotel_search: %s from %s to %s", req.CityCode, req.CheckInDate, req.CheckOutDate)

	hotels, err := t.Client.SearchHotels(ctx, amadeus.HotelCriteria{
		CityCode:     req.CityCode,
		Ratings:      req.Ratings,
		Adults:       req.Adults,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		PriceRange:   req.PriceRange,
	})
	if err != nil {
		return "", err
	}

	return format.Hotels(hotels), nil
}

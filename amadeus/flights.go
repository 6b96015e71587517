package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FlightCriteria describes a single flight-offers search. Location codes
// are 3-letter IATA codes, dates are ISO-8601 calendar dates.
type FlightCriteria struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string // optional, one-way when empty
	Adults        int    // defaults to 1
	MaxPrice      float64
	Max           int // result cap, defaults to the client flight limit
}

// Validate checks the criteria invariants before any network call
func (fc *FlightCriteria) Validate() error {
	if len(fc.Origin) != 3 {
		return fmt.Errorf("origin must be a 3-letter location code, got %q", fc.Origin)
	}
	if len(fc.Destination) != 3 {
		return fmt.Errorf("destination must be a 3-letter location code, got %q", fc.Destination)
	}
	if _, err := time.Parse("2006-01-02", fc.DepartureDate); err != nil {
		return fmt.Errorf("departure date must be YYYY-MM-DD, got %q", fc.DepartureDate)
	}
	if fc.ReturnDate != "" {
		if _, err := time.Parse("2006-01-02", fc.ReturnDate); err != nil {
			return fmt.Errorf("return date must be YYYY-MM-DD, got %q", fc.ReturnDate)
		}
	}
	if fc.MaxPrice <= 0 {
		return fmt.Errorf("max price must be positive, got %v", fc.MaxPrice)
	}
	return nil
}

type FlightSearchResponse struct {
	Data []FlightOffer `json:"data"`
}

// FlightOffer is a priced itinerary returned by the upstream search,
// kept in source order.
type FlightOffer struct {
	ID          string      `json:"id"`
	OneWay      bool        `json:"oneWay"`
	Itineraries []Itinerary `json:"itineraries"`
	Price       Price       `json:"price"`
}

// Itinerary is one directional leg (outbound or inbound)
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Segment is a single scheduled flight between two stations
type Segment struct {
	Departure   FlightEndPoint `json:"departure"`
	Arrival     FlightEndPoint `json:"arrival"`
	CarrierCode string         `json:"carrierCode"`
	Number      string         `json:"number"`
}

type FlightEndPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type Price struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
	Base     string `json:"base,omitempty"`
}

// SearchFlights runs one flight-offers search. A zero-offer result is
// returned as an empty slice with a nil error, so callers can tell "no
// offers" apart from a failed request.
func (c *Client) SearchFlights(ctx context.Context, criteria FlightCriteria) ([]FlightOffer, error) {
	criteria.Origin = strings.ToUpper(strings.TrimSpace(criteria.Origin))
	criteria.Destination = strings.ToUpper(strings.TrimSpace(criteria.Destination))
	if criteria.Adults <= 0 {
		criteria.Adults = 1
	}
	if criteria.Max <= 0 {
		criteria.Max = c.Limits.Flight
	}

	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", criteria.Origin)
	params.Set("destinationLocationCode", criteria.Destination)
	params.Set("departureDate", criteria.DepartureDate)
	params.Set("adults", strconv.Itoa(criteria.Adults))
	params.Set("maxPrice", strconv.FormatFloat(criteria.MaxPrice, 'f', -1, 64))
	params.Set("max", strconv.Itoa(criteria.Max))
	// Omitting returnDate means one-way; an empty value is not the same
	// thing and must never be sent.
	if criteria.ReturnDate != "" {
		params.Set("returnDate", criteria.ReturnDate)
	}

	resp, err := c.doRequest(ctx, familyFlights, "/v2/shopping/flight-offers?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newSearchError(resp)
	}

	var searchResp FlightSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}

	if searchResp.Data == nil {
		return []FlightOffer{}, nil
	}
	return searchResp.Data, nil
}

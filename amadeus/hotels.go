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

	"github.com/tripstack/tripsearch/log"
)

// HotelCriteria describes a two-phase hotel search: city + rating filter
// to candidate ids, then per-hotel offer availability.
type HotelCriteria struct {
	CityCode     string
	Ratings      []int // subset of 1..5
	Adults       int
	CheckInDate  string
	CheckOutDate string
	PriceRange   string // "200-300" or a single ceiling like "300"
	Currency     string // defaults to USD
}

// Validate checks the criteria invariants before any network call
func (hc *HotelCriteria) Validate() error {
	if len(hc.CityCode) != 3 {
		return fmt.Errorf("city code must be a 3-letter location code, got %q", hc.CityCode)
	}
	for _, r := range hc.Ratings {
		if r < 1 || r > 5 {
			return fmt.Errorf("rating must be between 1 and 5, got %d", r)
		}
	}
	checkIn, err := time.Parse("2006-01-02", hc.CheckInDate)
	if err != nil {
		return fmt.Errorf("check-in date must be YYYY-MM-DD, got %q", hc.CheckInDate)
	}
	checkOut, err := time.Parse("2006-01-02", hc.CheckOutDate)
	if err != nil {
		return fmt.Errorf("check-out date must be YYYY-MM-DD, got %q", hc.CheckOutDate)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("check-out date %s must be after check-in date %s", hc.CheckOutDate, hc.CheckInDate)
	}
	return nil
}

// HotelListResponse is the response from /v1/reference-data/locations/hotels/by-city
type HotelListResponse struct {
	Data []struct {
		Name    string `json:"name"`
		HotelId string `json:"hotelId"`
	} `json:"data"`
}

type HotelSearchResponse struct {
	Data []HotelOffers `json:"data"`
}

// HotelOffers is one hotel together with its available room offers
type HotelOffers struct {
	Hotel     HotelInfo   `json:"hotel"`
	Available bool        `json:"available"`
	Offers    []RoomOffer `json:"offers"`
}

type HotelInfo struct {
	HotelId  string `json:"hotelId"`
	Name     string `json:"name"`
	CityCode string `json:"cityCode"`
}

type RoomOffer struct {
	ID           string     `json:"id"`
	CheckInDate  string     `json:"checkInDate"`
	CheckOutDate string     `json:"checkOutDate"`
	Room         HotelRoom  `json:"room"`
	Price        HotelPrice `json:"price"`
}

type HotelRoom struct {
	Type          string `json:"type"`
	TypeEstimated struct {
		Category string `json:"category"`
		Beds     int    `json:"beds"`
		BedType  string `json:"bedType"`
	} `json:"typeEstimated"`
	Description struct {
		Text string `json:"text"`
		Lang string `json:"lang"`
	} `json:"description"`
}

type HotelPrice struct {
	Currency string `json:"currency"`
	Base     string `json:"base"`
	Total    string `json:"total"`
}

// ListHotels resolves a city + star-rating filter to a bounded list of
// candidate hotel ids. Fails fast on upstream errors; candidate lists
// are reference data and go through the cache.
func (c *Client) ListHotels(ctx context.Context, cityCode string, ratings []int) ([]string, error) {
	cityCode = strings.ToUpper(strings.TrimSpace(cityCode))

	if ids, found := c.Cache.GetCandidates(ctx, cityCode, ratings); found {
		log.Debugf(ctx, "ListHotels: cache hit for %s", cityCode)
		return c.capCandidates(ids), nil
	}

	params := url.Values{}
	params.Set("cityCode", cityCode)
	if len(ratings) > 0 {
		strs := make([]string, len(ratings))
		for i, r := range ratings {
			strs[i] = strconv.Itoa(r)
		}
		params.Set("ratings", strings.Join(strs, ","))
	}

	resp, err := c.doRequest(ctx, familyHotelList, "/v1/reference-data/locations/hotels/by-city?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newSearchError(resp)
	}

	var listResp HotelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(listResp.Data))
	for _, h := range listResp.Data {
		ids = append(ids, h.HotelId)
	}

	if err := c.Cache.SetCandidates(ctx, cityCode, ratings, ids); err != nil {
		log.Warnf(ctx, "ListHotels: failed to cache candidates for %s: %v", cityCode, err)
	}

	return c.capCandidates(ids), nil
}

func (c *Client) capCandidates(ids []string) []string {
	if c.Limits.Hotel > 0 && len(ids) > c.Limits.Hotel {
		return ids[:c.Limits.Hotel]
	}
	return ids
}

// SearchHotelOffers queries availability for each candidate id in turn.
// The upstream availability endpoint is queried one hotel at a time:
// batched multi-hotel queries are unreliable for availability freshness,
// and a single bad id must not poison the whole batch. One unavailable
// or failing hotel is skipped and the loop continues; output order is
// always the candidate order.
func (c *Client) SearchHotelOffers(ctx context.Context, hotelIDs []string, criteria HotelCriteria) ([]HotelOffers, error) {
	if criteria.Adults <= 0 {
		criteria.Adults = 1
	}
	if criteria.Currency == "" {
		criteria.Currency = "USD"
	}

	results := make([]HotelOffers, 0, len(hotelIDs))
	for _, id := range hotelIDs {
		offers, err := c.fetchHotelOffers(ctx, id, criteria)
		if err != nil {
			log.Warnf(ctx, "SearchHotelOffers: skipping hotel %s: %v", id, err)
			continue
		}
		for _, h := range offers {
			if len(h.Offers) == 0 {
				continue
			}
			results = append(results, h)
		}
	}

	return results, nil
}

func (c *Client) fetchHotelOffers(ctx context.Context, hotelID string, criteria HotelCriteria) ([]HotelOffers, error) {
	params := url.Values{}
	params.Set("hotelIds", hotelID)
	params.Set("adults", strconv.Itoa(criteria.Adults))
	params.Set("checkInDate", criteria.CheckInDate)
	params.Set("checkOutDate", criteria.CheckOutDate)
	params.Set("currency", criteria.Currency)
	if criteria.PriceRange != "" {
		params.Set("priceRange", criteria.PriceRange)
	}

	resp, err := c.doRequest(ctx, familyHotelOffers, "/v3/shopping/hotel-offers?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newSearchError(resp)
	}

	var searchResp HotelSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}

	return searchResp.Data, nil
}

// SearchHotels runs the full two-phase protocol: candidate listing, then
// per-hotel offer availability.
func (c *Client) SearchHotels(ctx context.Context, criteria HotelCriteria) ([]HotelOffers, error) {
	criteria.CityCode = strings.ToUpper(strings.TrimSpace(criteria.CityCode))
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	ids, err := c.ListHotels(ctx, criteria.CityCode, criteria.Ratings)
	if err != nil {
		return nil, err
	}

	return c.SearchHotelOffers(ctx, ids, criteria)
}

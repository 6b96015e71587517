package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flightServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", tokenHandler)
	mux.HandleFunc("/v2/shopping/flight-offers", handler)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestSearchFlightsQueryParams(t *testing.T) {
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "DEN", q.Get("originLocationCode"))
		assert.Equal(t, "MCO", q.Get("destinationLocationCode"))
		assert.Equal(t, "2025-11-20", q.Get("departureDate"))
		assert.Equal(t, "1", q.Get("adults"))
		assert.Equal(t, "600", q.Get("maxPrice"))
		assert.Equal(t, "10", q.Get("max"))
		// One-way: returnDate must be absent, not empty
		assert.False(t, q.Has("returnDate"))
		w.Write([]byte(`{"data": []}`))
	})

	client := newTestClient(t, ts.URL)
	_, err := client.SearchFlights(context.Background(), FlightCriteria{
		Origin:        "den",
		Destination:   " mco ",
		DepartureDate: "2025-11-20",
		MaxPrice:      600,
	})
	require.NoError(t, err)
}

func TestSearchFlightsRoundTripSendsReturnDate(t *testing.T) {
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-11-27", r.URL.Query().Get("returnDate"))
		w.Write([]byte(`{"data": []}`))
	})

	client := newTestClient(t, ts.URL)
	_, err := client.SearchFlights(context.Background(), FlightCriteria{
		Origin:        "DEN",
		Destination:   "MCO",
		DepartureDate: "2025-11-20",
		ReturnDate:    "2025-11-27",
		MaxPrice:      600,
	})
	require.NoError(t, err)
}

func TestSearchFlightsPreservesUpstreamOrder(t *testing.T) {
	// Upstream order is not guaranteed price-ascending; it must be kept
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "1", "price": {"total": "899.00", "currency": "USD"}},
			{"id": "2", "price": {"total": "550.00", "currency": "USD"}},
			{"id": "3", "price": {"total": "610.00", "currency": "USD"}}
		]}`))
	})

	client := newTestClient(t, ts.URL)
	offers, err := client.SearchFlights(context.Background(), FlightCriteria{
		Origin:        "DEN",
		Destination:   "MCO",
		DepartureDate: "2025-11-20",
		MaxPrice:      1000,
	})
	require.NoError(t, err)
	require.Len(t, offers, 3)
	assert.Equal(t, "899.00", offers[0].Price.Total)
	assert.Equal(t, "550.00", offers[1].Price.Total)
	assert.Equal(t, "610.00", offers[2].Price.Total)
}

func TestSearchFlightsEmptyResultIsSuccess(t *testing.T) {
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})

	client := newTestClient(t, ts.URL)
	offers, err := client.SearchFlights(context.Background(), FlightCriteria{
		Origin:        "DEN",
		Destination:   "MCO",
		DepartureDate: "2025-11-20",
		MaxPrice:      600,
	})
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestSearchFlightsUpstreamErrorEnvelope(t *testing.T) {
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"detail": "Date/Time is in the past"}]}`))
	})

	client := newTestClient(t, ts.URL)
	_, err := client.SearchFlights(context.Background(), FlightCriteria{
		Origin:        "DEN",
		Destination:   "MCO",
		DepartureDate: "2020-01-01",
		MaxPrice:      600,
	})

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, http.StatusBadRequest, searchErr.Status)
	assert.Equal(t, "Date/Time is in the past", searchErr.Detail)
}

func TestSearchFlightsUpstreamErrorRawBody(t *testing.T) {
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})

	client := newTestClient(t, ts.URL)
	_, err := client.SearchFlights(context.Background(), FlightCriteria{
		Origin:        "DEN",
		Destination:   "MCO",
		DepartureDate: "2025-11-20",
		MaxPrice:      600,
	})

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, http.StatusInternalServerError, searchErr.Status)
	assert.Equal(t, "upstream exploded", searchErr.Detail)
}

func TestSearchFlightsInvalidCriteria(t *testing.T) {
	ts := flightServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected for invalid criteria")
	})

	client := newTestClient(t, ts.URL)

	cases := []FlightCriteria{
		{Origin: "DENVER", Destination: "MCO", DepartureDate: "2025-11-20", MaxPrice: 600},
		{Origin: "DEN", Destination: "MCO", DepartureDate: "11/20/2025", MaxPrice: 600},
		{Origin: "DEN", Destination: "MCO", DepartureDate: "2025-11-20", MaxPrice: 0},
		{Origin: "DEN", Destination: "MCO", DepartureDate: "2025-11-20", ReturnDate: "soon", MaxPrice: 600},
	}
	for _, criteria := range cases {
		_, err := client.SearchFlights(context.Background(), criteria)
		assert.Error(t, err)
	}
}

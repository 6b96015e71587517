package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripstack/tripsearch/amadeus"
	"github.com/tripstack/tripsearch/bridge"
	"github.com/tripstack/tripsearch/tools"
)

func upstreamStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "tok", "expires_in": 1800, "token_type": "Bearer"}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{
			"id": "1",
			"price": {"total": "550.00", "currency": "USD"},
			"itineraries": [{"segments": [{
				"carrierCode": "DL", "number": "123",
				"departure": {"iataCode": "DEN", "at": "2025-11-20T08:15:00"},
				"arrival": {"iataCode": "MCO", "at": "2025-11-20T13:58:00"}
			}]}]
		}]}`))
	})
	mux.HandleFunc("/v1/reference-data/locations/hotels/by-city", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestServer(t *testing.T, runner *bridge.Runner) *echo.Echo {
	t.Helper()

	upstream := upstreamStub(t)
	client, err := amadeus.NewClient("id", "secret", false, 10, 5, 30)
	require.NoError(t, err)
	client.BaseURL = upstream.URL

	registry := tools.NewRegistry()
	registry.Register(tools.NewFlightSearchTool(client))
	registry.Register(tools.NewHotelSearchTool(client))

	if runner == nil {
		runner = bridge.NewRunner("true", nil, time.Second)
	}

	e := echo.New()
	New(registry, runner).RegisterRoutes(e)
	return e
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestFlightSearchEndpoint(t *testing.T) {
	e := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search",
		strings.NewReader(`{"origin": "DEN", "destination": "MCO", "departure_date": "2025-11-20", "max_price": 600}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Option 1")
	assert.Contains(t, rec.Body.String(), "Total Price: 550.00")
}

func TestFlightSearchEndpointRejectsBadPayload(t *testing.T) {
	e := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search",
		strings.NewReader(`{"origin": "DENVER"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestFlightSearchEndpointUpstreamUnreachable(t *testing.T) {
	// Grab a port that is guaranteed to refuse connections
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	client, err := amadeus.NewClient("id", "secret", false, 10, 5, 30)
	require.NoError(t, err)
	client.BaseURL = deadURL

	registry := tools.NewRegistry()
	registry.Register(tools.NewFlightSearchTool(client))

	e := echo.New()
	New(registry, bridge.NewRunner("true", nil, time.Second)).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search",
		strings.NewReader(`{"origin": "DEN", "destination": "MCO", "departure_date": "2025-11-20", "max_price": 600}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// A dead upstream is the gateway's fault, not the caller's
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHotelSearchEndpointNoResults(t *testing.T) {
	e := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hotels/search",
		strings.NewReader(`{"city_code": "PAR", "check_in_date": "2025-11-05", "check_out_date": "2025-11-10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Zero candidates is a success with the explicit sentinel, not an error
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No available hotels found.")
}

func TestPlanEndpoint(t *testing.T) {
	runner := bridge.NewRunner("sh", []string{"-c",
		`read line; echo "` + bridge.DefaultMarker + `"; echo "Day 1: fly out"`}, 5*time.Second)
	e := newTestServer(t, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan",
		strings.NewReader(`{"origin": "BOS", "destination": "Berlin", "departure_date": "2025-12-22", "nights": 7, "budget": "3000"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), bridge.DefaultMarker)
	assert.Contains(t, rec.Body.String(), "Day 1: fly out")
}

func TestPlanEndpointWorkflowFailure(t *testing.T) {
	runner := bridge.NewRunner("sh", []string{"-c", "exit 2"}, 5*time.Second)
	e := newTestServer(t, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan",
		strings.NewReader(`{"departure_date": "2025-12-22"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestPlanEndpointTimeout(t *testing.T) {
	runner := bridge.NewRunner("sh", []string{"-c", "sleep 5"}, 100*time.Millisecond)
	e := newTestServer(t, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan",
		strings.NewReader(`{"departure_date": "2025-12-22"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestPlanEndpointRequiresDepartureDate(t *testing.T) {
	e := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Package amadeus implements the upstream inventory clients: the OAuth2
// client-credentials exchange, the flight-offers search, and the
// two-phase hotel search.
package amadeus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tripstack/tripsearch/cache"
	"github.com/tripstack/tripsearch/log"
	"github.com/tripstack/tripsearch/ratelimit"
)

const (
	BaseURLTest       = "https://test.api.amadeus.com"
	BaseURLProduction = "https://api.amadeus.com"
)

// Endpoint families for rate limiting
const (
	familyAuth        = "auth"
	familyFlights     = "flights"
	familyHotelList   = "hotel-list"
	familyHotelOffers = "hotel-offers"
)

// Client is the Amadeus API client. Each client owns its own token and
// keeps no cross-request cache of offers. One client is shared across
// request goroutines, so the token is guarded by mu.
type Client struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	HTTPClient   *http.Client
	Limiter      *ratelimit.EndpointLimiter
	Cache        cache.Cache
	Limits       struct {
		Flight int
		Hotel  int
	}

	mu    sync.Mutex
	Token *AuthToken
}

// AuthToken represents the OAuth2 token response
type AuthToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Expiry      time.Time
}

// NewClient creates a new Amadeus client
func NewClient(clientID, clientSecret string, isProduction bool, flightLimit, hotelLimit, timeout int) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, &AuthenticationError{Reason: "client id and secret are required"}
	}

	baseURL := BaseURLTest
	if isProduction {
		baseURL = BaseURLProduction
	}

	c := &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      baseURL,
		HTTPClient:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
		Limiter:      ratelimit.NewEndpointLimiterWithDefaults(),
		Cache:        cache.NewNoOpCache(),
	}
	c.Limits.Flight = flightLimit
	c.Limits.Hotel = hotelLimit

	return c, nil
}

// Authenticate exchanges the client credentials for a bearer token.
// One outbound call, no retry; a failure is terminal for the caller.
//
// The token carries its expiry (minus a 10 second buffer) and doRequest
// refreshes it transparently, so a long-lived client never presents a
// stale token.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticate(ctx)
}

// authenticate performs the exchange. Caller must hold mu.
func (c *Client) authenticate(ctx context.Context) error {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/security/oauth2/token", strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := c.Limiter.Wait(ctx, familyAuth); err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &AuthenticationError{Status: resp.StatusCode, Reason: strings.TrimSpace(string(body))}
	}

	var token AuthToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return &AuthenticationError{Status: resp.StatusCode, Reason: "malformed token response: " + err.Error()}
	}
	if token.AccessToken == "" {
		return &AuthenticationError{Status: resp.StatusCode, Reason: "token response missing access_token"}
	}

	token.Expiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - 10*time.Second)
	c.Token = &token

	return nil
}

// bearerToken returns a valid access token, re-authenticating when the
// current one is missing or expired. Holding mu across the check and the
// refresh single-flights the exchange: concurrent callers with a stale
// token wait for one refresh instead of each issuing their own.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Token == nil || time.Now().After(c.Token.Expiry) {
		if err := c.authenticate(ctx); err != nil {
			return "", err
		}
	}
	return c.Token.AccessToken, nil
}

// doRequest performs an authenticated GET against an endpoint, refreshing
// the token when missing or expired.
func (c *Client) doRequest(ctx context.Context, family, endpoint string) (*http.Response, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if err := c.Limiter.Wait(ctx, family); err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf(ctx, "Amadeus API request failed: %v", err)
		return nil, err
	}

	return resp, nil
}

// Package server exposes the search pipeline and the planning bridge
// over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tripstack/tripsearch/amadeus"
	"github.com/tripstack/tripsearch/bridge"
	reqcontext "github.com/tripstack/tripsearch/context"
	"github.com/tripstack/tripsearch/log"
	"github.com/tripstack/tripsearch/tools"
)

type Server struct {
	registry *tools.Registry
	runner   *bridge.Runner
}

func New(registry *tools.Registry, runner *bridge.Runner) *Server {
	return &Server{
		registry: registry,
		runner:   runner,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(requestContext)

	api := e.Group("/api/v1")
	api.POST("/flights/search", s.search("flight_search"))
	api.POST("/hotels/search", s.search("hotel_search"))
	api.POST("/plan", s.plan)

	e.GET("/health", health)
}

// requestContext threads the request ID into the context so every log
// line downstream carries it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = reqcontext.NewRequestID()
		}
		ctx := reqcontext.WithRequestID(c.Request().Context(), requestID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

type searchResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// search dispatches the raw JSON body as a typed command. The command
// layer does strict decoding and schema validation.
func (s *Server) search(command string) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		}

		ctx := c.Request().Context()
		result, err := s.registry.Execute(ctx, command, json.RawMessage(body))
		if err != nil {
			log.Errorf(ctx, "%s failed: %v", command, err)
			return c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusOK, searchResponse{Result: result})
	}
}

// PlanRequest mirrors the original trip-planning form fields.
type PlanRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	Nights        int    `json:"nights" validate:"omitempty,min=1,max=90"`
	Budget        string `json:"budget"`
}

// plan composes the natural-language request and hands it to the
// planning workflow through the bridge. The itinerary comes back as
// plain text; when the workflow emitted no marker the raw output is
// shown as-is.
func (s *Server) plan(c echo.Context) error {
	req := PlanRequest{
		Origin:      "DEN",
		Destination: "Rome, Italy",
		Nights:      7,
		Budget:      "4000",
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if err := tools.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	userRequest := fmt.Sprintf(
		"I want to leave %s and go to %s for %d nights starting %s. I don't want to spend more than %s on flights and hotels.",
		req.Origin, req.Destination, req.Nights, req.DepartureDate, req.Budget)

	ctx := c.Request().Context()
	log.Infof(ctx, "plan: %s", userRequest)

	itinerary, err := s.runner.Run(ctx, userRequest)
	if err != nil {
		log.Errorf(ctx, "plan failed: %v", err)
		return c.JSON(statusFor(err), errorResponse{Error: err.Error()})
	}

	return c.String(http.StatusOK, itinerary)
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps pipeline errors onto HTTP statuses. Transport failures
// reaching the upstream (connection refused, DNS, client-side timeout)
// surface as net.Error and are the upstream's fault, not the caller's.
// Anything not recognized is treated as a caller error, since the
// command layer rejects bad input before any upstream call.
func statusFor(err error) int {
	var authErr *amadeus.AuthenticationError
	var searchErr *amadeus.SearchError
	var orchErr *bridge.OrchestrationError
	var timeoutErr *bridge.OrchestrationTimeout
	var netErr net.Error

	switch {
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &orchErr), errors.As(err, &authErr), errors.As(err, &searchErr):
		return http.StatusBadGateway
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/middleware"
	"github.com/nfrund/mqbind/internal/publisher"
	"github.com/nfrund/mqbind/internal/topology"
)

// DescriptorResponse is the JSON form of an event descriptor.
type DescriptorResponse struct {
	Name          string   `json:"name"`
	Exchange      string   `json:"exchange"`
	RoutingKey    string   `json:"routing_key"`
	Description   string   `json:"description,omitempty"`
	PayloadType   string   `json:"payload_type,omitempty"`
	PayloadFields []string `json:"payload_fields,omitempty"`
}

// CatalogResponse lists the events of the service.
type CatalogResponse struct {
	Service  string               `json:"service"`
	Produced []DescriptorResponse `json:"produced"`
	Consumed []DescriptorResponse `json:"consumed"`
}

// PublishResponse acknowledges a publish request.
type PublishResponse struct {
	Event      string `json:"event"`
	Exchange   string `json:"exchange"`
	RoutingKey string `json:"routing_key"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newDescriptorResponse(d *events.Descriptor) DescriptorResponse {
	return DescriptorResponse{
		Name:          d.DisplayName(),
		Exchange:      d.Exchange(),
		RoutingKey:    d.RoutingKey(),
		Description:   d.Description(),
		PayloadType:   d.PayloadType(),
		PayloadFields: d.PayloadFields(),
	}
}

func descriptorResponses(list []*events.Descriptor) []DescriptorResponse {
	result := make([]DescriptorResponse, 0, len(list))
	for _, d := range list {
		if d == nil {
			continue
		}
		result = append(result, newDescriptorResponse(d))
	}
	return result
}

// catalogGet handles GET /catalog.
func (s *Server) catalogGet(c echo.Context) error {
	return c.JSON(http.StatusOK, CatalogResponse{
		Service:  s.identity.String(),
		Produced: descriptorResponses(s.catalog.Produced()),
		Consumed: descriptorResponses(s.catalog.Consumed()),
	})
}

// topologyGet handles GET /topology. It returns the topology the service
// declares at startup without contacting the broker.
func (s *Server) topologyGet(c echo.Context) error {
	topo, err := topology.Plan(s.catalog, s.identity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, topo)
}

// eventPost handles POST /events/:name. The request body is published as the
// payload of the named catalog event.
func (s *Server) eventPost(c echo.Context) error {
	name := c.Param("name")
	logger := middleware.FromContext(c.Request().Context())

	event, ok := s.catalog.Get(name)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown event: " + name})
	}

	var payload json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		logger.Debug("Rejected publish request body", "event", name, "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be a JSON document"})
	}

	if err := s.publisher.Publish(c.Request().Context(), event, payload); err != nil {
		switch {
		case publisher.IsValidation(err):
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		case publisher.IsTransport(err):
			return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		default:
			return err
		}
	}

	logger.Info("Event published", "event", name)
	return c.JSON(http.StatusAccepted, PublishResponse{
		Event:      event.DisplayName(),
		Exchange:   event.Exchange(),
		RoutingKey: event.RoutingKey(),
	})
}

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"inventory-lab/internal/domain"
	"inventory-lab/internal/events"
	"inventory-lab/internal/gql"
	"inventory-lab/internal/service"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	inventory     *service.InventoryService
	healthService *service.HealthService
	hub           *events.Hub
	graph         *gql.Handler
}

func NewHandler(inv *service.InventoryService, health *service.HealthService, hub *events.Hub, graph *gql.Handler) *Handler {
	return &Handler{
		inventory:     inv,
		healthService: health,
		hub:           hub,
		graph:         graph,
	}
}

// --- Devices ---

func (h *Handler) HandleListDevices(c echo.Context) error {
	devices, err := h.inventory.ListDevices(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, devices)
}

func (h *Handler) HandleGetDevice(c echo.Context) error {
	device, err := h.inventory.GetDevice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, device)
}

func (h *Handler) HandleCreateDevice(c echo.Context) error {
	var req domain.Device
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	device, err := h.inventory.CreateDevice(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, device)
}

func (h *Handler) HandleDeleteDevice(c echo.Context) error {
	if err := h.inventory.DeleteDevice(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "device deleted"})
}

// --- Sites ---

func (h *Handler) HandleListSites(c echo.Context) error {
	sites, err := h.inventory.ListSites(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sites)
}

func (h *Handler) HandleGetSite(c echo.Context) error {
	site, err := h.inventory.GetSite(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, site)
}

func (h *Handler) HandleCreateSite(c echo.Context) error {
	var req domain.Site
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	site, err := h.inventory.CreateSite(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, site)
}

func (h *Handler) HandleDeleteSite(c echo.Context) error {
	if err := h.inventory.DeleteSite(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "site deleted"})
}

// --- Tags ---

func (h *Handler) HandleListTags(c echo.Context) error {
	tags, err := h.inventory.ListTags(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *Handler) HandleGetTag(c echo.Context) error {
	tag, err := h.inventory.GetTag(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *Handler) HandleCreateTag(c echo.Context) error {
	var req domain.Tag
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	tag, err := h.inventory.CreateTag(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *Handler) HandleDeleteTag(c echo.Context) error {
	if err := h.inventory.DeleteTag(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "tag deleted"})
}

// --- Countries ---

func (h *Handler) HandleListCountries(c echo.Context) error {
	countries, err := h.inventory.ListCountries(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, countries)
}

func (h *Handler) HandleGetCountry(c echo.Context) error {
	country, err := h.inventory.GetCountry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, country)
}

func (h *Handler) HandleCreateCountry(c echo.Context) error {
	var req domain.Country
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	country, err := h.inventory.CreateCountry(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, country)
}

func (h *Handler) HandleDeleteCountry(c echo.Context) error {
	if err := h.inventory.DeleteCountry(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "country deleted"})
}

// --- Schemas ---

// HandleGraphQLSchema prints the SDL of the schema /graphql is serving.
func (h *Handler) HandleGraphQLSchema(c echo.Context) error {
	return c.String(http.StatusOK, h.graph.SDL())
}

var modelsSchema = jsonschema.Reflect(&domain.AllModels{})

func (h *Handler) HandleJSONSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, modelsSchema)
}

func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	body := map[string]any{"error": err.Error()}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
		if details := domain.FieldErrors(err); len(details) > 0 {
			body["details"] = details
		}
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrTagsDisabled):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyExists):
		status = http.StatusConflict
	default:
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	return c.JSON(status, body)
}

package api

import (
	"github.com/labstack/echo/v4"
)

type RouteOptions struct {
	// JSONSchema exposes GET /jsonschema.
	JSONSchema bool
}

// RegisterRoutes registers every lab route on e.
func RegisterRoutes(e *echo.Echo, h *Handler, opts RouteOptions) {
	g := e.Group("/api")

	resource(g, "/devices", h.HandleListDevices, h.HandleCreateDevice, h.HandleGetDevice, h.HandleDeleteDevice)
	resource(g, "/sites", h.HandleListSites, h.HandleCreateSite, h.HandleGetSite, h.HandleDeleteSite)
	resource(g, "/countries", h.HandleListCountries, h.HandleCreateCountry, h.HandleGetCountry, h.HandleDeleteCountry)
	if h.inventory.TagsEnabled() {
		resource(g, "/tags", h.HandleListTags, h.HandleCreateTag, h.HandleGetTag, h.HandleDeleteTag)
	}

	g.GET("/health", h.HandleHealthCheck)

	e.POST("/graphql", echo.WrapHandler(h.graph))
	e.GET("/schema.graphql", h.HandleGraphQLSchema)
	if opts.JSONSchema {
		e.GET("/jsonschema", h.HandleJSONSchema)
	}

	e.GET("/ws/events", h.HandleEvents)
}

// resource registers list and create with and without the trailing slash,
// plus get and delete by id.
func resource(g *echo.Group, path string, list, create, get, del echo.HandlerFunc) {
	g.GET(path, list)
	g.GET(path+"/", list)
	g.POST(path, create)
	g.POST(path+"/", create)
	g.GET(path+"/:id", get)
	g.DELETE(path+"/:id", del)
}

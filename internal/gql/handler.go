package gql

import (
	"context"
	"fmt"
	"net/http"

	"inventory-lab/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Handler serves POST /graphql and remembers the SDL it was built from.
type Handler struct {
	schema *graphql.Schema
	relay  *relay.Handler
	sdl    string
}

func NewHandler(svc *service.InventoryService) (*Handler, error) {
	sdl := SDL(svc.TagsEnabled())
	schema, err := graphql.ParseSchema(sdl, NewResolver(svc), graphql.MaxDepth(8))
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return &Handler{
		schema: schema,
		relay:  &relay.Handler{Schema: schema},
		sdl:    sdl,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.relay.ServeHTTP(w, r)
}

// SDL is the schema text served at /schema.graphql.
func (h *Handler) SDL() string {
	return h.sdl
}

// Exec runs a query in-process.
func (h *Handler) Exec(ctx context.Context, query string, variables map[string]any) *graphql.Response {
	return h.schema.Exec(ctx, query, "", variables)
}

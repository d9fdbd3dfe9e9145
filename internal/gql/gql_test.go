package gql

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"inventory-lab/internal/repository"
	"inventory-lab/internal/service"
)

func newTestHandler(t *testing.T, tags bool) *Handler {
	t.Helper()
	repo, err := repository.NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "gql.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(context.Background()) })

	h, err := NewHandler(service.NewInventoryService(repo, service.WithTags(tags)))
	require.NoError(t, err)
	return h
}

func loadSDL(t *testing.T, tags bool) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: SDL(tags)})
	require.NoError(t, err)
	return schema
}

func TestSDLWithTags(t *testing.T) {
	schema := loadSDL(t, true)

	require.NotNil(t, schema.Types["Tag"])
	assert.NotNil(t, schema.Types["Device"].Fields.ForName("tags"))
	assert.NotNil(t, schema.Types["DeviceInput"].Fields.ForName("tags"))
	assert.NotNil(t, schema.Query.Fields.ForName("tags"))
	assert.NotNil(t, schema.Mutation.Fields.ForName("createTag"))
}

func TestSDLWithoutTags(t *testing.T) {
	schema := loadSDL(t, false)

	assert.Nil(t, schema.Types["Tag"])
	assert.Nil(t, schema.Types["TagInput"])
	assert.Nil(t, schema.Types["Device"].Fields.ForName("tags"))
	assert.Nil(t, schema.Query.Fields.ForName("tags"))
	assert.Nil(t, schema.Mutation.Fields.ForName("createTag"))
}

func TestCreateDeviceMutation(t *testing.T) {
	h := newTestHandler(t, true)
	ctx := context.Background()

	resp := h.Exec(ctx, `
		mutation($input: DeviceInput!) {
			createDevice(input: $input) { id name status site { name address } tags { name color } }
		}`,
		map[string]any{"input": map[string]any{
			"name":   "edge-1",
			"status": "MAINTENANCE",
			"site":   map[string]any{"name": "hq", "label": "HQ", "address": "123 Wall Street"},
			"tags":   []any{map[string]any{"name": "tag1", "color": "red"}},
		}})
	require.Empty(t, resp.Errors)

	var data struct {
		CreateDevice struct {
			ID     string
			Name   string
			Status string
			Site   struct{ Name, Address string }
			Tags   []struct{ Name, Color string }
		}
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.NotEmpty(t, data.CreateDevice.ID)
	assert.Equal(t, "MAINTENANCE", data.CreateDevice.Status)
	assert.Equal(t, "123 Wall Street", data.CreateDevice.Site.Address)
	require.Len(t, data.CreateDevice.Tags, 1)
	assert.Equal(t, "red", data.CreateDevice.Tags[0].Color)

	resp = h.Exec(ctx, `{ devices { name status tags { name } } sites { name } tags { name } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t,
		`{"devices":[{"name":"edge-1","status":"MAINTENANCE","tags":[{"name":"tag1"}]}],"sites":[{"name":"hq"}],"tags":[{"name":"tag1"}]}`,
		string(resp.Data))
}

func TestDeviceQueryDefaultsAndMissing(t *testing.T) {
	h := newTestHandler(t, true)
	ctx := context.Background()

	resp := h.Exec(ctx, `mutation { createDevice(input: {name: "edge-2"}) { status tags { name } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"createDevice":{"status":"ACTIVE","tags":[]}}`, string(resp.Data))

	resp = h.Exec(ctx, `{ device(id: "missing") { name } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"device":null}`, string(resp.Data))
}

func TestCreateCountryMutation(t *testing.T) {
	h := newTestHandler(t, false)

	resp := h.Exec(context.Background(),
		`mutation { createCountry(input: {name: "fr", label: "France", continent: EUROPE}) { name continent } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"createCountry":{"name":"fr","continent":"EUROPE"}}`, string(resp.Data))
}

func TestInvalidTagNameIsAnError(t *testing.T) {
	h := newTestHandler(t, true)

	resp := h.Exec(context.Background(), `mutation { createTag(input: {name: "Bad Name"}) { id } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "invalid input")
}

func TestTagsQueryRejectedWhenDisabled(t *testing.T) {
	h := newTestHandler(t, false)

	resp := h.Exec(context.Background(), `{ devices { tags { name } } }`, nil)
	assert.NotEmpty(t, resp.Errors)
}

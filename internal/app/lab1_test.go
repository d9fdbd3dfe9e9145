package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"inventory-lab/internal/api"
	"inventory-lab/internal/config"
	"inventory-lab/internal/domain"
	"inventory-lab/internal/repository"
)

func newLab1TestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := NewLab1(context.Background(), config.Lab1Config{DBPath: filepath.Join(t.TempDir(), "lab1.db")})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = strings.NewReader(s)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestLab1DeviceLifecycle(t *testing.T) {
	ts := newLab1TestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sites/", map[string]any{
		"name": "site-1", "label": "site-1", "address": "123 Wall Street",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var site domain.Site
	require.NoError(t, json.Unmarshal(body, &site))

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/devices/", map[string]any{
		"name": "device-1", "manufacturer": "cisco", "site_id": site.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var device domain.Device
	require.NoError(t, json.Unmarshal(body, &device))
	assert.Equal(t, domain.DeviceStatusActive, device.Status)
	assert.Equal(t, site.ID, device.SiteID)
	assert.Empty(t, device.Tags)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/devices/"+device.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"tags":[]`)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/devices", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/devices/"+device.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/devices/"+device.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLab1ErrorMapping(t *testing.T) {
	ts := newLab1TestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/devices/", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/tags/", map[string]any{"name": "Not-Valid"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "name: tagname")

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/tags/", map[string]any{"name": "core"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/tags/", map[string]any{"name": "core"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/sites/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLab1TagDefaults(t *testing.T) {
	ts := newLab1TestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/tags/", map[string]any{"name": "edge"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tag domain.Tag
	require.NoError(t, json.Unmarshal(body, &tag))
	assert.Equal(t, domain.DefaultTagColor, tag.Color)
}

func TestLab1Schemas(t *testing.T) {
	ts := newLab1TestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/schema.graphql", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	schema, err := gqlparser.LoadSchema(&ast.Source{Input: string(body)})
	require.NoError(t, err)
	assert.NotNil(t, schema.Types["Device"].Fields.ForName("tags"))

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/jsonschema", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var js map[string]any
	require.NoError(t, json.Unmarshal(body, &js))
	defs, ok := js["$defs"].(map[string]any)
	require.True(t, ok, string(body))
	for _, name := range []string{"Device", "Tag", "Site", "Country"} {
		assert.Contains(t, defs, name)
	}
}

func TestLab1GraphQL(t *testing.T) {
	ts := newLab1TestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/graphql", map[string]any{
		"query": `mutation { createSite(input: {name: "hq", label: "HQ", address: "1 Main St"}) { name } }`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":{"createSite":{"name":"hq"}}}`, string(body))

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/sites/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"name":"hq"`)
}

func TestLab1HealthCheck(t *testing.T) {
	ts := newLab1TestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"lab":"lab1"`)
}

func TestLab1EventStream(t *testing.T) {
	ts := newLab1TestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/countries/", map[string]any{
		"name": "pt", "label": "Portugal", "continent": "europe",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev domain.ChangeEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, domain.CountryCreated, ev.Kind)
	assert.Equal(t, "pt", ev.Name)
}

func TestLab2WithoutTagsHidesTagRoutes(t *testing.T) {
	repo, err := repository.NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "lab2.db"))
	require.NoError(t, err)
	srv, err := build("lab2", "", repo, false, api.RouteOptions{})
	require.NoError(t, err)
	defer srv.Close()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/tags/", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/jsonschema", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/schema.graphql", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "tags:")
}

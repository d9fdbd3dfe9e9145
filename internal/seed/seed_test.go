package seed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-lab/internal/app"
	"inventory-lab/internal/config"
	"inventory-lab/internal/domain"
	"inventory-lab/internal/gql"
)

func TestDeviceName(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^device-[0-9a-f]{8}$`), DeviceName())
	assert.NotEqual(t, DeviceName(), DeviceName())
}

func TestTagsFor(t *testing.T) {
	names := func(tags []domain.Tag) []string {
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			out = append(out, tag.Name)
		}
		return out
	}

	if diff := cmp.Diff([]string{"tag1", "tag3", "tag5"}, names(TagsFor(0))); diff != "" {
		t.Errorf("even device tags (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tag2", "tag4", "tag6"}, names(TagsFor(3))); diff != "" {
		t.Errorf("odd device tags (-want +got):\n%s", diff)
	}
}

func TestLab1LoadIsIdempotentForSites(t *testing.T) {
	srv, err := app.NewLab1(context.Background(), config.Lab1Config{DBPath: filepath.Join(t.TempDir(), "lab1.db")})
	require.NoError(t, err)
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx := context.Background()
	first, err := LoadLab1(ctx, ts.URL, "site-1")
	require.NoError(t, err)
	second, err := LoadLab1(ctx, ts.URL, "site-1")
	require.NoError(t, err)

	assert.Equal(t, first.Site.ID, second.Site.ID)
	require.Len(t, first.Devices, 5)
	for _, d := range first.Devices {
		assert.Equal(t, first.Site.ID, d.SiteID)
		require.NotNil(t, d.Manufacturer)
		assert.Equal(t, "cisco", *d.Manufacturer)
	}

	client := NewClient(ts.URL)
	defer client.Close()
	var sites []domain.Site
	res, err := client.http.R().SetResult(&sites).Get("/api/sites/")
	require.NoError(t, check(res, err))
	assert.Len(t, sites, 1)

	var devices []domain.Device
	res, err = client.http.R().SetResult(&devices).Get("/api/devices/")
	require.NoError(t, check(res, err))
	assert.Len(t, devices, 10)
}

// fakeLab2 serves just enough of the Lab2 API to record what the seeder
// sends.
type fakeLab2 struct {
	mu        sync.Mutex
	sdl       string
	sites     []domain.Site
	tagPosts  []domain.Tag
	devices   []domain.Device
	failSites bool
}

func (f *fakeLab2) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.URL.Path == "/schema.graphql":
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(f.sdl))
	case r.URL.Path == "/api/sites/" && f.failSites:
		writeJSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
	case r.URL.Path == "/api/sites/" && r.Method == http.MethodGet:
		writeJSON(http.StatusOK, f.sites)
	case r.URL.Path == "/api/sites/" && r.Method == http.MethodPost:
		var s domain.Site
		json.NewDecoder(r.Body).Decode(&s)
		s.ID = "site-id"
		f.sites = append(f.sites, s)
		writeJSON(http.StatusCreated, s)
	case r.URL.Path == "/api/tags/" && r.Method == http.MethodGet:
		writeJSON(http.StatusOK, []domain.Tag{{ID: "t1", Name: "tag1", Color: "red"}})
	case r.URL.Path == "/api/tags/" && r.Method == http.MethodPost:
		var tag domain.Tag
		json.NewDecoder(r.Body).Decode(&tag)
		f.tagPosts = append(f.tagPosts, tag)
		writeJSON(http.StatusCreated, tag)
	case r.URL.Path == "/api/devices/" && r.Method == http.MethodPost:
		var d domain.Device
		json.NewDecoder(r.Body).Decode(&d)
		f.devices = append(f.devices, d)
		writeJSON(http.StatusCreated, d)
	default:
		writeJSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func TestLab2LoadSkipsTagsWhenUnsupported(t *testing.T) {
	fake := &fakeLab2{sdl: gql.SDL(false)}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	result, err := LoadLab2(context.Background(), ts.URL, "site-1", true)
	require.NoError(t, err)

	assert.False(t, result.TagsSupported)
	assert.Empty(t, fake.tagPosts)
	require.Len(t, fake.devices, 4)
	for _, d := range fake.devices {
		assert.Empty(t, d.Tags)
		require.NotNil(t, d.Site)
		assert.Equal(t, "site-1", d.Site.Name)
		assert.Equal(t, "123 Wall Street", d.Site.Address)
	}
}

func TestLab2LoadAssignsAlternatingTags(t *testing.T) {
	fake := &fakeLab2{sdl: gql.SDL(true)}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	result, err := LoadLab2(context.Background(), ts.URL, "site-1", true)
	require.NoError(t, err)
	assert.True(t, result.TagsSupported)

	// tag1 already exists on the lab.
	assert.Len(t, fake.tagPosts, 5)
	require.Len(t, fake.devices, 4)
	assert.Equal(t, "tag1", fake.devices[0].Tags[0].Name)
	assert.Equal(t, "tag2", fake.devices[1].Tags[0].Name)
	assert.Len(t, fake.devices[2].Tags, 3)
	assert.Len(t, fake.sites, 1)
}

func TestLab2LoadWithoutTagsFlag(t *testing.T) {
	fake := &fakeLab2{sdl: gql.SDL(true)}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	_, err := LoadLab2(context.Background(), ts.URL, "site-1", false)
	require.NoError(t, err)
	assert.Empty(t, fake.tagPosts)
	for _, d := range fake.devices {
		assert.Empty(t, d.Tags)
	}
}

func TestLoadAbortsOnErrorStatus(t *testing.T) {
	fake := &fakeLab2{sdl: gql.SDL(true), failSites: true}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	_, err := LoadLab2(context.Background(), ts.URL, "site-1", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Empty(t, fake.devices)
}

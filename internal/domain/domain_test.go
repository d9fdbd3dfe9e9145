package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagNameValidation(t *testing.T) {
	tests := []struct {
		name    string
		tagName string
		wantErr bool
	}{
		{"lowercase letters", "core", false},
		{"letters and digits", "tag1", false},
		{"digits only", "42", false},
		{"uppercase", "Core", true},
		{"dash", "core-router", true},
		{"space", "core router", true},
		{"underscore", "core_router", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := NewTag(tt.tagName)
			err := tag.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.NotEmpty(t, FieldErrors(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewDeviceDefaults(t *testing.T) {
	d := NewDevice("edge-1")

	assert.Equal(t, DeviceStatusActive, d.Status)
	require.NotNil(t, d.Tags)
	assert.Empty(t, d.Tags)
	assert.Nil(t, d.Manufacturer)
	require.NoError(t, d.Validate())
}

func TestDeviceDefaultsFromJSON(t *testing.T) {
	var d Device
	require.NoError(t, json.Unmarshal([]byte(`{"name":"edge-2","tags":[{"name":"core"}]}`), &d))
	d.ApplyDefaults()

	assert.Equal(t, DeviceStatusActive, d.Status)
	require.Len(t, d.Tags, 1)
	assert.Equal(t, DefaultTagColor, d.Tags[0].Color)

	out, err := json.Marshal(NewDevice("edge-3"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"edge-3","status":"active","tags":[]}`, string(out))
}

func TestDeviceRejectsUnknownStatus(t *testing.T) {
	d := NewDevice("edge-4")
	d.Status = "retired"

	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, FieldErrors(err), "status: oneof=active maintenance")
}

func TestDeviceRejectsInvalidNestedTag(t *testing.T) {
	d := NewDevice("edge-5")
	d.Tags = append(d.Tags, NewTag("Bad Tag"))

	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, FieldErrors(err), "tags[0].name: tagname")
}

func TestCountryContinent(t *testing.T) {
	c := Country{Location: Location{Name: "fr", Label: "France"}, Continent: ContinentEurope}
	require.NoError(t, c.Validate())

	c.Continent = "oceania"
	require.Error(t, c.Validate())
}

func TestSiteRequiresAddress(t *testing.T) {
	s := Site{Location: Location{Name: "site-1", Label: "site-1"}}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, FieldErrors(err), "address: required")
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}

package domain

import "regexp"

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#FFFFFF"

// TagNamePattern restricts tag names to lowercase letters and digits.
var TagNamePattern = regexp.MustCompile(`^[a-z0-9]+$`)

type Tag struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required,tagname" jsonschema:"pattern=^[a-z0-9]+$"`
	Color       string  `json:"color" jsonschema:"default=#FFFFFF,description=Color of the tag"`
	Description *string `json:"description,omitempty"`
}

// NewTag builds a tag with the default color.
func NewTag(name string) Tag {
	return Tag{Name: name, Color: DefaultTagColor}
}

func (t *Tag) ApplyDefaults() {
	if t.Color == "" {
		t.Color = DefaultTagColor
	}
}

func (t *Tag) Validate() error {
	return validate.Struct(t)
}

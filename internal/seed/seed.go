package seed

import (
	"context"
	"log/slog"

	"inventory-lab/internal/domain"

	"github.com/google/uuid"
)

const (
	defaultAddress = "123 Wall Street"
	lab1Devices    = 5
	lab2Devices    = 4
	manufacturer   = "cisco"
)

// Palette is the tag set Lab2 seeding assigns to devices.
var Palette = []domain.Tag{
	{Name: "tag1", Color: "red"},
	{Name: "tag2", Color: "blue"},
	{Name: "tag3", Color: "yellow"},
	{Name: "tag4", Color: "orange"},
	{Name: "tag5", Color: "green"},
	{Name: "tag6", Color: "green"},
}

type Result struct {
	Site          *domain.Site
	Devices       []*domain.Device
	TagsSupported bool
}

// DeviceName returns "device-" plus the last 8 hex digits of a fresh UUID.
func DeviceName() string {
	id := uuid.New().String()
	return "device-" + id[len(id)-8:]
}

// LoadLab1 makes sure the site exists and adds five devices located there.
func LoadLab1(ctx context.Context, baseURL, siteName string) (*Result, error) {
	client := NewClient(baseURL)
	defer client.Close()

	site, err := client.EnsureSite(ctx, siteName)
	if err != nil {
		return nil, err
	}

	result := &Result{Site: site}
	for range lab1Devices {
		d := domain.NewDevice(DeviceName())
		m := manufacturer
		d.Manufacturer = &m
		d.SiteID = site.ID

		slog.Info("creating device", "name", d.Name, "site", site.Name)
		created, err := client.CreateDevice(ctx, d)
		if err != nil {
			return nil, err
		}
		result.Devices = append(result.Devices, created)
	}
	return result, nil
}

// LoadLab2 makes sure the site exists, loads the tag palette when asked and
// supported, and adds four devices that embed the site.
func LoadLab2(ctx context.Context, baseURL, siteName string, wantTags bool) (*Result, error) {
	client := NewClient(baseURL)
	defer client.Close()

	site, err := client.EnsureSite(ctx, siteName)
	if err != nil {
		return nil, err
	}

	supported, err := client.SupportsTags(ctx)
	if err != nil {
		return nil, err
	}
	useTags := wantTags && supported

	if useTags {
		if err := client.EnsureTags(ctx, Palette); err != nil {
			return nil, err
		}
	} else if wantTags {
		slog.Warn("no tags to load, tags are not implemented by this lab")
	}

	result := &Result{Site: site, TagsSupported: supported}
	for i := range lab2Devices {
		d := domain.NewDevice(DeviceName())
		embedded := siteBody(siteName)
		d.Site = &embedded
		if useTags {
			d.Tags = TagsFor(i)
		}

		slog.Info("creating device", "name", d.Name, "site", siteName, "tags", len(d.Tags))
		created, err := client.CreateDevice(ctx, d)
		if err != nil {
			return nil, err
		}
		result.Devices = append(result.Devices, created)
	}
	return result, nil
}

// TagsFor returns the palette entries at even indices for an even i and at
// odd indices for an odd i.
func TagsFor(i int) []domain.Tag {
	tags := make([]domain.Tag, 0, len(Palette)/2)
	for j := i % 2; j < len(Palette); j += 2 {
		tags = append(tags, Palette[j])
	}
	return tags
}

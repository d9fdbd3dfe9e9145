package service

import (
	"context"

	"inventory-lab/internal/domain"
)

// InventoryRepository is implemented by each lab's storage backend.
// Get* lookups return (nil, nil) when nothing matches.
type InventoryRepository interface {
	CreateSite(ctx context.Context, site *domain.Site) error
	ListSites(ctx context.Context) ([]*domain.Site, error)
	GetSiteByID(ctx context.Context, id string) (*domain.Site, error)
	GetSiteByName(ctx context.Context, name string) (*domain.Site, error)
	DeleteSite(ctx context.Context, id string) error

	CreateCountry(ctx context.Context, country *domain.Country) error
	ListCountries(ctx context.Context) ([]*domain.Country, error)
	GetCountryByID(ctx context.Context, id string) (*domain.Country, error)
	GetCountryByName(ctx context.Context, name string) (*domain.Country, error)
	DeleteCountry(ctx context.Context, id string) error

	CreateTag(ctx context.Context, tag *domain.Tag) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	GetTagByID(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	// CreateDevice stores the device and links it to device.SiteID and to
	// every tag in device.Tags, all of which must already exist.
	CreateDevice(ctx context.Context, device *domain.Device) error
	ListDevices(ctx context.Context) ([]*domain.Device, error)
	GetDeviceByID(ctx context.Context, id string) (*domain.Device, error)
	GetDeviceByName(ctx context.Context, name string) (*domain.Device, error)
	DeleteDevice(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ev domain.ChangeEvent)
}

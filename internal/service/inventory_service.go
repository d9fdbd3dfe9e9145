package service

import (
	"context"
	"fmt"
	"time"

	"inventory-lab/internal/domain"

	"github.com/google/uuid"
)

type InventoryService struct {
	repo        InventoryRepository
	publisher   EventPublisher
	tagsEnabled bool
	now         func() time.Time
}

type Option func(*InventoryService)

// WithPublisher sends change events to p after every successful write.
func WithPublisher(p EventPublisher) Option {
	return func(s *InventoryService) {
		s.publisher = p
	}
}

// WithTags toggles tag support. A lab without tags drops tags from device
// input and refuses tag operations.
func WithTags(enabled bool) Option {
	return func(s *InventoryService) {
		s.tagsEnabled = enabled
	}
}

func NewInventoryService(repo InventoryRepository, opts ...Option) *InventoryService {
	s := &InventoryService{
		repo:        repo,
		tagsEnabled: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InventoryService) TagsEnabled() bool {
	return s.tagsEnabled
}

// --- Sites ---

func (s *InventoryService) CreateSite(ctx context.Context, site domain.Site) (*domain.Site, error) {
	if err := site.Validate(); err != nil {
		return nil, invalid(err)
	}

	existing, err := s.repo.GetSiteByName(ctx, site.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up site %q: %w", site.Name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("site %q: %w", site.Name, ErrAlreadyExists)
	}

	site.ID = uuid.New().String()
	if err := s.repo.CreateSite(ctx, &site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	s.publish(domain.SiteCreated, site.ID, site.Name)
	return &site, nil
}

// EnsureSite returns the site with the same name, creating it when missing.
func (s *InventoryService) EnsureSite(ctx context.Context, site domain.Site) (*domain.Site, error) {
	existing, err := s.repo.GetSiteByName(ctx, site.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up site %q: %w", site.Name, err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.CreateSite(ctx, site)
}

func (s *InventoryService) ListSites(ctx context.Context) ([]*domain.Site, error) {
	sites, err := s.repo.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}

func (s *InventoryService) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	site, err := s.repo.GetSiteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get site %s: %w", id, err)
	}
	if site == nil {
		return nil, fmt.Errorf("site %s: %w", id, ErrNotFound)
	}
	return site, nil
}

func (s *InventoryService) DeleteSite(ctx context.Context, id string) error {
	site, err := s.GetSite(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSite(ctx, id); err != nil {
		return fmt.Errorf("failed to delete site %s: %w", id, err)
	}
	s.publish(domain.SiteDeleted, site.ID, site.Name)
	return nil
}

// --- Countries ---

func (s *InventoryService) CreateCountry(ctx context.Context, country domain.Country) (*domain.Country, error) {
	if err := country.Validate(); err != nil {
		return nil, invalid(err)
	}

	existing, err := s.repo.GetCountryByName(ctx, country.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up country %q: %w", country.Name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("country %q: %w", country.Name, ErrAlreadyExists)
	}

	country.ID = uuid.New().String()
	if err := s.repo.CreateCountry(ctx, &country); err != nil {
		return nil, fmt.Errorf("failed to create country: %w", err)
	}

	s.publish(domain.CountryCreated, country.ID, country.Name)
	return &country, nil
}

func (s *InventoryService) ListCountries(ctx context.Context) ([]*domain.Country, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

func (s *InventoryService) GetCountry(ctx context.Context, id string) (*domain.Country, error) {
	country, err := s.repo.GetCountryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get country %s: %w", id, err)
	}
	if country == nil {
		return nil, fmt.Errorf("country %s: %w", id, ErrNotFound)
	}
	return country, nil
}

func (s *InventoryService) DeleteCountry(ctx context.Context, id string) error {
	country, err := s.GetCountry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCountry(ctx, id); err != nil {
		return fmt.Errorf("failed to delete country %s: %w", id, err)
	}
	s.publish(domain.CountryDeleted, country.ID, country.Name)
	return nil
}

// --- Tags ---

func (s *InventoryService) CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error) {
	if !s.tagsEnabled {
		return nil, ErrTagsDisabled
	}

	tag.ApplyDefaults()
	if err := tag.Validate(); err != nil {
		return nil, invalid(err)
	}

	existing, err := s.repo.GetTagByName(ctx, tag.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag %q: %w", tag.Name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("tag %q: %w", tag.Name, ErrAlreadyExists)
	}

	tag.ID = uuid.New().String()
	if err := s.repo.CreateTag(ctx, &tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.publish(domain.TagCreated, tag.ID, tag.Name)
	return &tag, nil
}

// EnsureTag returns the tag with the same name, creating it when missing.
func (s *InventoryService) EnsureTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error) {
	if !s.tagsEnabled {
		return nil, ErrTagsDisabled
	}
	existing, err := s.repo.GetTagByName(ctx, tag.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag %q: %w", tag.Name, err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.CreateTag(ctx, tag)
}

func (s *InventoryService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	if !s.tagsEnabled {
		return nil, ErrTagsDisabled
	}
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *InventoryService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	if !s.tagsEnabled {
		return nil, ErrTagsDisabled
	}
	tag, err := s.repo.GetTagByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", id, err)
	}
	if tag == nil {
		return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	return tag, nil
}

func (s *InventoryService) DeleteTag(ctx context.Context, id string) error {
	tag, err := s.GetTag(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	s.publish(domain.TagDeleted, tag.ID, tag.Name)
	return nil
}

// --- Devices ---

// CreateDevice resolves the device's site and tags, creating any that are
// referenced by name only, then stores the device.
func (s *InventoryService) CreateDevice(ctx context.Context, device domain.Device) (*domain.Device, error) {
	if !s.tagsEnabled {
		device.Tags = nil
	}
	device.ApplyDefaults()
	if err := device.Validate(); err != nil {
		return nil, invalid(err)
	}

	existing, err := s.repo.GetDeviceByName(ctx, device.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up device %q: %w", device.Name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("device %q: %w", device.Name, ErrAlreadyExists)
	}

	switch {
	case device.SiteID != "":
		site, err := s.repo.GetSiteByID(ctx, device.SiteID)
		if err != nil {
			return nil, fmt.Errorf("failed to get site %s: %w", device.SiteID, err)
		}
		if site == nil {
			return nil, fmt.Errorf("%w: unknown site_id %s", ErrInvalidInput, device.SiteID)
		}
		device.Site = site
	case device.Site != nil:
		site, err := s.EnsureSite(ctx, *device.Site)
		if err != nil {
			return nil, err
		}
		device.SiteID = site.ID
		device.Site = site
	}

	tags := make([]domain.Tag, 0, len(device.Tags))
	for _, t := range device.Tags {
		stored, err := s.EnsureTag(ctx, t)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *stored)
	}
	device.Tags = tags

	device.ID = uuid.New().String()
	if err := s.repo.CreateDevice(ctx, &device); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	s.publish(domain.DeviceCreated, device.ID, device.Name)
	return &device, nil
}

func (s *InventoryService) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	for _, d := range devices {
		s.shape(d)
	}
	return devices, nil
}

func (s *InventoryService) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	device, err := s.repo.GetDeviceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get device %s: %w", id, err)
	}
	if device == nil {
		return nil, fmt.Errorf("device %s: %w", id, ErrNotFound)
	}
	s.shape(device)
	return device, nil
}

func (s *InventoryService) DeleteDevice(ctx context.Context, id string) error {
	device, err := s.GetDevice(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDevice(ctx, id); err != nil {
		return fmt.Errorf("failed to delete device %s: %w", id, err)
	}
	s.publish(domain.DeviceDeleted, device.ID, device.Name)
	return nil
}

// shape hides tags on labs that do not support them and guarantees a
// non-nil tag list otherwise.
func (s *InventoryService) shape(d *domain.Device) {
	if !s.tagsEnabled {
		d.Tags = []domain.Tag{}
		return
	}
	d.ApplyDefaults()
}

func (s *InventoryService) publish(kind domain.ChangeKind, id, name string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.ChangeEvent{Kind: kind, ID: id, Name: name, At: s.now().UTC()})
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

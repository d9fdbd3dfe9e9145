package repository

import (
	"time"

	"inventory-lab/internal/domain"
)

// GORM row types for the Lab1 schema. They stay private so the domain types
// carry no persistence tags.

type siteRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Label       string `gorm:"not null"`
	Description *string
	Address     string `gorm:"not null"`
	CreatedAt   time.Time
}

func (siteRecord) TableName() string { return "sites" }

func newSiteRecord(s *domain.Site) siteRecord {
	return siteRecord{
		ID:          s.ID,
		Name:        s.Name,
		Label:       s.Label,
		Description: s.Description,
		Address:     s.Address,
	}
}

func (r *siteRecord) toDomain() *domain.Site {
	return &domain.Site{
		ID: r.ID,
		Location: domain.Location{
			Name:        r.Name,
			Label:       r.Label,
			Description: r.Description,
		},
		Address: r.Address,
	}
}

type countryRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Label       string `gorm:"not null"`
	Description *string
	Continent   string `gorm:"not null"`
	CreatedAt   time.Time
}

func (countryRecord) TableName() string { return "countries" }

func newCountryRecord(c *domain.Country) countryRecord {
	return countryRecord{
		ID:          c.ID,
		Name:        c.Name,
		Label:       c.Label,
		Description: c.Description,
		Continent:   string(c.Continent),
	}
}

func (r *countryRecord) toDomain() *domain.Country {
	return &domain.Country{
		ID: r.ID,
		Location: domain.Location{
			Name:        r.Name,
			Label:       r.Label,
			Description: r.Description,
		},
		Continent: domain.Continent(r.Continent),
	}
}

type tagRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Color       string `gorm:"not null;default:'#FFFFFF'"`
	Description *string
}

func (tagRecord) TableName() string { return "tags" }

func newTagRecord(t *domain.Tag) tagRecord {
	return tagRecord{
		ID:          t.ID,
		Name:        t.Name,
		Color:       t.Color,
		Description: t.Description,
	}
}

func (r *tagRecord) toDomain() domain.Tag {
	return domain.Tag{
		ID:          r.ID,
		Name:        r.Name,
		Color:       r.Color,
		Description: r.Description,
	}
}

type deviceRecord struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex;not null"`
	Manufacturer *string
	Status       string  `gorm:"not null;default:'active'"`
	SiteID       *string `gorm:"index"`
	Site         *siteRecord
	Tags         []tagRecord `gorm:"many2many:device_tags;joinForeignKey:DeviceID;joinReferences:TagID"`
	CreatedAt    time.Time
}

func (deviceRecord) TableName() string { return "devices" }

func newDeviceRecord(d *domain.Device) deviceRecord {
	rec := deviceRecord{
		ID:           d.ID,
		Name:         d.Name,
		Manufacturer: d.Manufacturer,
		Status:       string(d.Status),
	}
	if d.SiteID != "" {
		siteID := d.SiteID
		rec.SiteID = &siteID
	}
	for i := range d.Tags {
		rec.Tags = append(rec.Tags, newTagRecord(&d.Tags[i]))
	}
	return rec
}

func (r *deviceRecord) toDomain() *domain.Device {
	d := &domain.Device{
		ID:           r.ID,
		Name:         r.Name,
		Manufacturer: r.Manufacturer,
		Status:       domain.DeviceStatus(r.Status),
		Tags:         make([]domain.Tag, 0, len(r.Tags)),
	}
	if r.SiteID != nil {
		d.SiteID = *r.SiteID
	}
	if r.Site != nil {
		d.Site = r.Site.toDomain()
	}
	for i := range r.Tags {
		d.Tags = append(d.Tags, r.Tags[i].toDomain())
	}
	return d
}

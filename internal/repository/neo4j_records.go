package repository

import (
	"inventory-lab/internal/domain"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func siteFromRecord(record *neo4j.Record) *domain.Site {
	return &domain.Site{
		ID: getStringFromRecord(record, "id"),
		Location: domain.Location{
			Name:        getStringFromRecord(record, "name"),
			Label:       getStringFromRecord(record, "label"),
			Description: getOptionalStringFromRecord(record, "description"),
		},
		Address: getStringFromRecord(record, "address"),
	}
}

func countryFromRecord(record *neo4j.Record) *domain.Country {
	return &domain.Country{
		ID: getStringFromRecord(record, "id"),
		Location: domain.Location{
			Name:        getStringFromRecord(record, "name"),
			Label:       getStringFromRecord(record, "label"),
			Description: getOptionalStringFromRecord(record, "description"),
		},
		Continent: domain.Continent(getStringFromRecord(record, "continent")),
	}
}

func tagFromRecord(record *neo4j.Record) *domain.Tag {
	return &domain.Tag{
		ID:          getStringFromRecord(record, "id"),
		Name:        getStringFromRecord(record, "name"),
		Color:       getStringFromRecord(record, "color"),
		Description: getOptionalStringFromRecord(record, "description"),
	}
}

func deviceFromRecord(record *neo4j.Record) *domain.Device {
	d := &domain.Device{
		ID:           getStringFromRecord(record, "id"),
		Name:         getStringFromRecord(record, "name"),
		Manufacturer: getOptionalStringFromRecord(record, "manufacturer"),
		Status:       domain.DeviceStatus(getStringFromRecord(record, "status")),
		Tags:         []domain.Tag{},
	}

	if val, ok := record.Get("site"); ok {
		if m, ok := val.(map[string]any); ok {
			d.Site = &domain.Site{
				ID: mapString(m, "id"),
				Location: domain.Location{
					Name:        mapString(m, "name"),
					Label:       mapString(m, "label"),
					Description: mapOptionalString(m, "description"),
				},
				Address: mapString(m, "address"),
			}
			d.SiteID = d.Site.ID
		}
	}

	if val, ok := record.Get("tags"); ok {
		if list, ok := val.([]any); ok {
			for _, item := range list {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				d.Tags = append(d.Tags, domain.Tag{
					ID:          mapString(m, "id"),
					Name:        mapString(m, "name"),
					Color:       mapString(m, "color"),
					Description: mapOptionalString(m, "description"),
				})
			}
		}
	}
	return d
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getOptionalStringFromRecord(record *neo4j.Record, key string) *string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if str, ok := val.(string); ok {
		return &str
	}
	return nil
}

func mapString(m map[string]any, key string) string {
	if str, ok := m[key].(string); ok {
		return str
	}
	return ""
}

func mapOptionalString(m map[string]any, key string) *string {
	if str, ok := m[key].(string); ok {
		return &str
	}
	return nil
}

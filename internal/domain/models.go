package domain

import "time"

// AllModels groups every record so a single JSON Schema can describe them.
type AllModels struct {
	Device  Device  `json:"device"`
	Tag     Tag     `json:"tag"`
	Site    Site    `json:"site"`
	Country Country `json:"country"`
}

type ChangeKind string

const (
	DeviceCreated  ChangeKind = "device.created"
	DeviceDeleted  ChangeKind = "device.deleted"
	SiteCreated    ChangeKind = "site.created"
	SiteDeleted    ChangeKind = "site.deleted"
	TagCreated     ChangeKind = "tag.created"
	TagDeleted     ChangeKind = "tag.deleted"
	CountryCreated ChangeKind = "country.created"
	CountryDeleted ChangeKind = "country.deleted"
)

// ChangeEvent is broadcast after every successful write.
type ChangeEvent struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id"`
	Name string     `json:"name,omitempty"`
	At   time.Time  `json:"at"`
}

package domain

type DeviceStatus string

const (
	DeviceStatusActive      DeviceStatus = "active"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
)

// Device is the primary inventory record.
//
// A device points at its site either through SiteID or through an embedded
// Site; the embedded form is resolved by name when the device is created.
type Device struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name" validate:"required"`
	Manufacturer *string      `json:"manufacturer,omitempty"`
	Status       DeviceStatus `json:"status" validate:"oneof=active maintenance" jsonschema:"enum=active,enum=maintenance,default=active"`
	Tags         []Tag        `json:"tags" validate:"dive"`

	SiteID string `json:"site_id,omitempty"`
	Site   *Site  `json:"site,omitempty"`
}

// NewDevice returns a device with the default status and an empty tag list.
func NewDevice(name string) Device {
	d := Device{Name: name}
	d.ApplyDefaults()
	return d
}

// ApplyDefaults fills the fields a client may leave out.
func (d *Device) ApplyDefaults() {
	if d.Status == "" {
		d.Status = DeviceStatusActive
	}
	if d.Tags == nil {
		d.Tags = []Tag{}
	}
	for i := range d.Tags {
		d.Tags[i].ApplyDefaults()
	}
}

func (d *Device) Validate() error {
	return validate.Struct(d)
}

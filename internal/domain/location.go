package domain

type Continent string

const (
	ContinentEurope  Continent = "europe"
	ContinentAsia    Continent = "asia"
	ContinentAmerica Continent = "america"
	ContinentAfrica  Continent = "africa"
)

// Continents lists the accepted continent values in declaration order.
var Continents = []Continent{ContinentEurope, ContinentAsia, ContinentAmerica, ContinentAfrica}

// Location is the common shape of every geographic container.
type Location struct {
	Name        string  `json:"name" validate:"required" jsonschema:"title=Name"`
	Label       string  `json:"label" validate:"required" jsonschema:"title=Label"`
	Description *string `json:"description,omitempty" jsonschema:"title=Description"`
}

type Country struct {
	ID string `json:"id,omitempty"`
	Location
	Continent Continent `json:"continent" validate:"required,oneof=europe asia america africa" jsonschema:"enum=europe,enum=asia,enum=america,enum=africa"`
}

func (c *Country) Validate() error {
	return validate.Struct(c)
}

type Site struct {
	ID string `json:"id,omitempty"`
	Location
	Address string `json:"address" validate:"required" jsonschema:"title=Address"`
}

func (s *Site) Validate() error {
	return validate.Struct(s)
}

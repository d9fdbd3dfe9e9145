package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inventory-lab/internal/domain"
	"inventory-lab/internal/service"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// Neo4jOptions locates and authenticates against a Neo4j server.
type Neo4jOptions struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jRepository is the Lab2 store. Devices, sites, tags and countries are
// nodes; a device points at its site with LOCATED_AT and at its tags with
// TAGGED.
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ service.InventoryRepository = (*Neo4jRepository)(nil)

// NewNeo4jRepository builds the driver. It does not contact the server; use
// VerifyConnectivity for that.
func NewNeo4jRepository(opts Neo4jOptions) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Neo4jRepository{driver: driver, database: opts.Database}, nil
}

func (r *Neo4jRepository) VerifyConnectivity(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

func (r *Neo4jRepository) Ping(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var constraints = []string{
	"CREATE CONSTRAINT device_id IF NOT EXISTS FOR (n:Device) REQUIRE n.id IS UNIQUE",
	"CREATE CONSTRAINT device_name IF NOT EXISTS FOR (n:Device) REQUIRE n.name IS UNIQUE",
	"CREATE CONSTRAINT site_id IF NOT EXISTS FOR (n:Site) REQUIRE n.id IS UNIQUE",
	"CREATE CONSTRAINT site_name IF NOT EXISTS FOR (n:Site) REQUIRE n.name IS UNIQUE",
	"CREATE CONSTRAINT tag_id IF NOT EXISTS FOR (n:Tag) REQUIRE n.id IS UNIQUE",
	"CREATE CONSTRAINT tag_name IF NOT EXISTS FOR (n:Tag) REQUIRE n.name IS UNIQUE",
	"CREATE CONSTRAINT country_id IF NOT EXISTS FOR (n:Country) REQUIRE n.id IS UNIQUE",
	"CREATE CONSTRAINT country_name IF NOT EXISTS FOR (n:Country) REQUIRE n.name IS UNIQUE",
}

// EnsureConstraints creates the uniqueness constraints. It is idempotent.
func (r *Neo4jRepository) EnsureConstraints(ctx context.Context) error {
	for _, c := range constraints {
		if err := r.write(ctx, c, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	slog.Info("neo4j constraints ready", "count", len(constraints))
	return nil
}

// --- Sites ---

func (r *Neo4jRepository) CreateSite(ctx context.Context, site *domain.Site) error {
	query := `
		CREATE (s:Site {id: $id, name: $name, label: $label, description: $description, address: $address})`
	return r.write(ctx, query, map[string]any{
		"id":          site.ID,
		"name":        site.Name,
		"label":       site.Label,
		"description": optional(site.Description),
		"address":     site.Address,
	})
}

const siteProjection = `s.id AS id, s.name AS name, s.label AS label, s.description AS description, s.address AS address`

func (r *Neo4jRepository) ListSites(ctx context.Context) ([]*domain.Site, error) {
	records, err := r.read(ctx, "MATCH (s:Site) RETURN "+siteProjection+" ORDER BY s.name", nil)
	if err != nil {
		return nil, err
	}
	sites := make([]*domain.Site, 0, len(records))
	for _, rec := range records {
		sites = append(sites, siteFromRecord(rec))
	}
	return sites, nil
}

func (r *Neo4jRepository) GetSiteByID(ctx context.Context, id string) (*domain.Site, error) {
	return r.findSite(ctx, "MATCH (s:Site {id: $value}) RETURN "+siteProjection, id)
}

func (r *Neo4jRepository) GetSiteByName(ctx context.Context, name string) (*domain.Site, error) {
	return r.findSite(ctx, "MATCH (s:Site {name: $value}) RETURN "+siteProjection, name)
}

func (r *Neo4jRepository) findSite(ctx context.Context, query, value string) (*domain.Site, error) {
	records, err := r.read(ctx, query, map[string]any{"value": value})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return siteFromRecord(records[0]), nil
}

func (r *Neo4jRepository) DeleteSite(ctx context.Context, id string) error {
	return r.write(ctx, "MATCH (s:Site {id: $id}) DETACH DELETE s", map[string]any{"id": id})
}

// --- Countries ---

func (r *Neo4jRepository) CreateCountry(ctx context.Context, country *domain.Country) error {
	query := `
		CREATE (c:Country {id: $id, name: $name, label: $label, description: $description, continent: $continent})`
	return r.write(ctx, query, map[string]any{
		"id":          country.ID,
		"name":        country.Name,
		"label":       country.Label,
		"description": optional(country.Description),
		"continent":   string(country.Continent),
	})
}

const countryProjection = `c.id AS id, c.name AS name, c.label AS label, c.description AS description, c.continent AS continent`

func (r *Neo4jRepository) ListCountries(ctx context.Context) ([]*domain.Country, error) {
	records, err := r.read(ctx, "MATCH (c:Country) RETURN "+countryProjection+" ORDER BY c.name", nil)
	if err != nil {
		return nil, err
	}
	countries := make([]*domain.Country, 0, len(records))
	for _, rec := range records {
		countries = append(countries, countryFromRecord(rec))
	}
	return countries, nil
}

func (r *Neo4jRepository) GetCountryByID(ctx context.Context, id string) (*domain.Country, error) {
	return r.findCountry(ctx, "MATCH (c:Country {id: $value}) RETURN "+countryProjection, id)
}

func (r *Neo4jRepository) GetCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	return r.findCountry(ctx, "MATCH (c:Country {name: $value}) RETURN "+countryProjection, name)
}

func (r *Neo4jRepository) findCountry(ctx context.Context, query, value string) (*domain.Country, error) {
	records, err := r.read(ctx, query, map[string]any{"value": value})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return countryFromRecord(records[0]), nil
}

func (r *Neo4jRepository) DeleteCountry(ctx context.Context, id string) error {
	return r.write(ctx, "MATCH (c:Country {id: $id}) DETACH DELETE c", map[string]any{"id": id})
}

// --- Tags ---

func (r *Neo4jRepository) CreateTag(ctx context.Context, tag *domain.Tag) error {
	query := `
		CREATE (t:Tag {id: $id, name: $name, color: $color, description: $description})`
	return r.write(ctx, query, map[string]any{
		"id":          tag.ID,
		"name":        tag.Name,
		"color":       tag.Color,
		"description": optional(tag.Description),
	})
}

const tagProjection = `t.id AS id, t.name AS name, t.color AS color, t.description AS description`

func (r *Neo4jRepository) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	records, err := r.read(ctx, "MATCH (t:Tag) RETURN "+tagProjection+" ORDER BY t.name", nil)
	if err != nil {
		return nil, err
	}
	tags := make([]*domain.Tag, 0, len(records))
	for _, rec := range records {
		tags = append(tags, tagFromRecord(rec))
	}
	return tags, nil
}

func (r *Neo4jRepository) GetTagByID(ctx context.Context, id string) (*domain.Tag, error) {
	return r.findTag(ctx, "MATCH (t:Tag {id: $value}) RETURN "+tagProjection, id)
}

func (r *Neo4jRepository) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.findTag(ctx, "MATCH (t:Tag {name: $value}) RETURN "+tagProjection, name)
}

func (r *Neo4jRepository) findTag(ctx context.Context, query, value string) (*domain.Tag, error) {
	records, err := r.read(ctx, query, map[string]any{"value": value})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return tagFromRecord(records[0]), nil
}

func (r *Neo4jRepository) DeleteTag(ctx context.Context, id string) error {
	return r.write(ctx, "MATCH (t:Tag {id: $id}) DETACH DELETE t", map[string]any{"id": id})
}

// --- Devices ---

// CreateDevice writes the device node and its relationships in one
// transaction.
func (r *Neo4jRepository) CreateDevice(ctx context.Context, device *domain.Device) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: r.database})
	defer session.Close(ctx)

	tagIDs := make([]string, 0, len(device.Tags))
	for _, t := range device.Tags {
		tagIDs = append(tagIDs, t.ID)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		steps := []struct {
			query  string
			params map[string]any
			skip   bool
		}{
			{
				query: `CREATE (d:Device {id: $id, name: $name, manufacturer: $manufacturer, status: $status})`,
				params: map[string]any{
					"id":           device.ID,
					"name":         device.Name,
					"manufacturer": optional(device.Manufacturer),
					"status":       string(device.Status),
				},
			},
			{
				query: `
					MATCH (d:Device {id: $id}), (s:Site {id: $siteID})
					MERGE (d)-[:LOCATED_AT]->(s)`,
				params: map[string]any{"id": device.ID, "siteID": device.SiteID},
				skip:   device.SiteID == "",
			},
			{
				query: `
					MATCH (d:Device {id: $id})
					UNWIND $tagIDs AS tagID
					MATCH (t:Tag {id: tagID})
					MERGE (d)-[:TAGGED]->(t)`,
				params: map[string]any{"id": device.ID, "tagIDs": tagIDs},
				skip:   len(tagIDs) == 0,
			},
		}
		for _, step := range steps {
			if step.skip {
				continue
			}
			result, err := tx.Run(ctx, step.query, step.params)
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return translateNeo4j(err)
}

const deviceQuery = `
	MATCH (d:Device)
	%s
	OPTIONAL MATCH (d)-[:LOCATED_AT]->(s:Site)
	OPTIONAL MATCH (d)-[:TAGGED]->(t:Tag)
	WITH d, s, t ORDER BY t.name
	WITH d, s, collect(t {.id, .name, .color, .description}) AS tags
	RETURN d.id AS id, d.name AS name, d.manufacturer AS manufacturer, d.status AS status,
	       s {.id, .name, .label, .description, .address} AS site, tags
	ORDER BY d.name`

func (r *Neo4jRepository) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	records, err := r.read(ctx, fmt.Sprintf(deviceQuery, ""), nil)
	if err != nil {
		return nil, err
	}
	devices := make([]*domain.Device, 0, len(records))
	for _, rec := range records {
		devices = append(devices, deviceFromRecord(rec))
	}
	return devices, nil
}

func (r *Neo4jRepository) GetDeviceByID(ctx context.Context, id string) (*domain.Device, error) {
	return r.findDevice(ctx, "WHERE d.id = $value", id)
}

func (r *Neo4jRepository) GetDeviceByName(ctx context.Context, name string) (*domain.Device, error) {
	return r.findDevice(ctx, "WHERE d.name = $value", name)
}

func (r *Neo4jRepository) findDevice(ctx context.Context, where, value string) (*domain.Device, error) {
	records, err := r.read(ctx, fmt.Sprintf(deviceQuery, where), map[string]any{"value": value})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return deviceFromRecord(records[0]), nil
}

func (r *Neo4jRepository) DeleteDevice(ctx context.Context, id string) error {
	return r.write(ctx, "MATCH (d:Device {id: $id}) DETACH DELETE d", map[string]any{"id": id})
}

// --- Session helpers ---

func (r *Neo4jRepository) read(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead, DatabaseName: r.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

func (r *Neo4jRepository) write(ctx context.Context, query string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: r.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return translateNeo4j(err)
	}
	_, err = result.Consume(ctx)
	return translateNeo4j(err)
}

func translateNeo4j(err error) error {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) && neoErr.Code == constraintViolation {
		return fmt.Errorf("%w: %w", service.ErrAlreadyExists, err)
	}
	return err
}

// optional turns a nil pointer into a Cypher null.
func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

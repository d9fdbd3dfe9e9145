package gql

import (
	"context"
	"errors"
	"strings"

	"inventory-lab/internal/domain"
	"inventory-lab/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	svc *service.InventoryService
}

func NewResolver(svc *service.InventoryService) *Resolver {
	return &Resolver{svc: svc}
}

// --- Query ---

func (r *Resolver) Devices(ctx context.Context) ([]*deviceResolver, error) {
	devices, err := r.svc.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*deviceResolver, 0, len(devices))
	for _, d := range devices {
		out = append(out, &deviceResolver{d: d})
	}
	return out, nil
}

func (r *Resolver) Device(ctx context.Context, args struct{ ID graphql.ID }) (*deviceResolver, error) {
	d, err := r.svc.GetDevice(ctx, string(args.ID))
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deviceResolver{d: d}, nil
}

func (r *Resolver) Sites(ctx context.Context) ([]*siteResolver, error) {
	sites, err := r.svc.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*siteResolver, 0, len(sites))
	for _, s := range sites {
		out = append(out, &siteResolver{s: s})
	}
	return out, nil
}

func (r *Resolver) Site(ctx context.Context, args struct{ ID graphql.ID }) (*siteResolver, error) {
	s, err := r.svc.GetSite(ctx, string(args.ID))
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &siteResolver{s: s}, nil
}

func (r *Resolver) Countries(ctx context.Context) ([]*countryResolver, error) {
	countries, err := r.svc.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*countryResolver, 0, len(countries))
	for _, c := range countries {
		out = append(out, &countryResolver{c: c})
	}
	return out, nil
}

func (r *Resolver) Tags(ctx context.Context) ([]*tagResolver, error) {
	tags, err := r.svc.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*tagResolver, 0, len(tags))
	for _, t := range tags {
		out = append(out, &tagResolver{t: *t})
	}
	return out, nil
}

// --- Mutation ---

type siteInput struct {
	Name        string
	Label       string
	Description *string
	Address     string
}

func (in siteInput) toDomain() domain.Site {
	return domain.Site{
		Location: domain.Location{Name: in.Name, Label: in.Label, Description: in.Description},
		Address:  in.Address,
	}
}

type countryInput struct {
	Name        string
	Label       string
	Description *string
	Continent   string
}

type tagInput struct {
	Name        string
	Color       *string
	Description *string
}

type deviceInput struct {
	Name         string
	Manufacturer *string
	Status       *string
	SiteID       *graphql.ID
	Site         *siteInput
	Tags         *[]tagInput
}

func (r *Resolver) CreateDevice(ctx context.Context, args struct{ Input deviceInput }) (*deviceResolver, error) {
	in := args.Input
	d := domain.NewDevice(in.Name)
	d.Manufacturer = in.Manufacturer
	if in.Status != nil {
		d.Status = domain.DeviceStatus(strings.ToLower(*in.Status))
	}
	if in.SiteID != nil {
		d.SiteID = string(*in.SiteID)
	}
	if in.Site != nil {
		site := in.Site.toDomain()
		d.Site = &site
	}
	if in.Tags != nil {
		for _, t := range *in.Tags {
			d.Tags = append(d.Tags, t.toDomain())
		}
	}

	created, err := r.svc.CreateDevice(ctx, d)
	if err != nil {
		return nil, err
	}
	return &deviceResolver{d: created}, nil
}

func (r *Resolver) CreateSite(ctx context.Context, args struct{ Input siteInput }) (*siteResolver, error) {
	s, err := r.svc.CreateSite(ctx, args.Input.toDomain())
	if err != nil {
		return nil, err
	}
	return &siteResolver{s: s}, nil
}

func (r *Resolver) CreateCountry(ctx context.Context, args struct{ Input countryInput }) (*countryResolver, error) {
	in := args.Input
	c, err := r.svc.CreateCountry(ctx, domain.Country{
		Location:  domain.Location{Name: in.Name, Label: in.Label, Description: in.Description},
		Continent: domain.Continent(strings.ToLower(in.Continent)),
	})
	if err != nil {
		return nil, err
	}
	return &countryResolver{c: c}, nil
}

func (r *Resolver) CreateTag(ctx context.Context, args struct{ Input tagInput }) (*tagResolver, error) {
	t, err := r.svc.CreateTag(ctx, args.Input.toDomain())
	if err != nil {
		return nil, err
	}
	return &tagResolver{t: *t}, nil
}

func (in tagInput) toDomain() domain.Tag {
	t := domain.NewTag(in.Name)
	if in.Color != nil {
		t.Color = *in.Color
	}
	t.Description = in.Description
	return t
}

// --- Object resolvers ---

type deviceResolver struct {
	d *domain.Device
}

func (r *deviceResolver) ID() graphql.ID        { return graphql.ID(r.d.ID) }
func (r *deviceResolver) Name() string          { return r.d.Name }
func (r *deviceResolver) Manufacturer() *string { return r.d.Manufacturer }
func (r *deviceResolver) Status() string        { return strings.ToUpper(string(r.d.Status)) }

func (r *deviceResolver) Site() *siteResolver {
	if r.d.Site == nil {
		return nil
	}
	return &siteResolver{s: r.d.Site}
}

func (r *deviceResolver) Tags() []*tagResolver {
	out := make([]*tagResolver, 0, len(r.d.Tags))
	for _, t := range r.d.Tags {
		out = append(out, &tagResolver{t: t})
	}
	return out
}

type siteResolver struct {
	s *domain.Site
}

func (r *siteResolver) ID() graphql.ID       { return graphql.ID(r.s.ID) }
func (r *siteResolver) Name() string         { return r.s.Name }
func (r *siteResolver) Label() string        { return r.s.Label }
func (r *siteResolver) Description() *string { return r.s.Description }
func (r *siteResolver) Address() string      { return r.s.Address }

type countryResolver struct {
	c *domain.Country
}

func (r *countryResolver) ID() graphql.ID       { return graphql.ID(r.c.ID) }
func (r *countryResolver) Name() string         { return r.c.Name }
func (r *countryResolver) Label() string        { return r.c.Label }
func (r *countryResolver) Description() *string { return r.c.Description }
func (r *countryResolver) Continent() string    { return strings.ToUpper(string(r.c.Continent)) }

type tagResolver struct {
	t domain.Tag
}

func (r *tagResolver) ID() graphql.ID       { return graphql.ID(r.t.ID) }
func (r *tagResolver) Name() string         { return r.t.Name }
func (r *tagResolver) Color() string        { return r.t.Color }
func (r *tagResolver) Description() *string { return r.t.Description }

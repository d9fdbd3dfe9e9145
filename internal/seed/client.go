// Package seed loads sample inventory into a running lab over HTTP.
package seed

import (
	"context"
	"fmt"
	"strings"

	"inventory-lab/internal/domain"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"resty.dev/v3"
)

// Client talks to the REST API of one lab.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

func (c *Client) Close() error {
	return c.http.Close()
}

// EnsureSite returns the site named name, creating it when missing.
func (c *Client) EnsureSite(ctx context.Context, name string) (*domain.Site, error) {
	var sites []domain.Site
	res, err := c.http.R().SetContext(ctx).SetResult(&sites).Get("/api/sites/")
	if err := check(res, err); err != nil {
		return nil, err
	}
	for i := range sites {
		if sites[i].Name == name {
			return &sites[i], nil
		}
	}

	var created domain.Site
	res, err = c.http.R().SetContext(ctx).
		SetBody(siteBody(name)).
		SetResult(&created).
		Post("/api/sites/")
	if err := check(res, err); err != nil {
		return nil, err
	}
	return &created, nil
}

// EnsureTags creates every tag in palette that the lab does not have yet.
func (c *Client) EnsureTags(ctx context.Context, palette []domain.Tag) error {
	var existing []domain.Tag
	res, err := c.http.R().SetContext(ctx).SetResult(&existing).Get("/api/tags/")
	if err := check(res, err); err != nil {
		return err
	}
	found := make(map[string]bool, len(existing))
	for _, t := range existing {
		found[t.Name] = true
	}

	for _, t := range palette {
		if found[t.Name] {
			continue
		}
		res, err := c.http.R().SetContext(ctx).SetBody(t).Post("/api/tags/")
		if err := check(res, err); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) CreateDevice(ctx context.Context, device domain.Device) (*domain.Device, error) {
	var created domain.Device
	res, err := c.http.R().SetContext(ctx).
		SetBody(device).
		SetResult(&created).
		Post("/api/devices/")
	if err := check(res, err); err != nil {
		return nil, err
	}
	return &created, nil
}

// SupportsTags reports whether the lab's GraphQL schema gives Device a tags
// field.
func (c *Client) SupportsTags(ctx context.Context) (bool, error) {
	res, err := c.http.R().SetContext(ctx).Get("/schema.graphql")
	if err := check(res, err); err != nil {
		return false, err
	}

	schema, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: res.String()})
	if gqlErr != nil {
		return false, fmt.Errorf("failed to parse lab schema: %w", gqlErr)
	}
	device := schema.Types["Device"]
	return device != nil && device.Fields.ForName("tags") != nil, nil
}

func siteBody(name string) domain.Site {
	return domain.Site{
		Location: domain.Location{Name: name, Label: name},
		Address:  defaultAddress,
	}
}

// check turns a transport error or a non-2xx response into an error.
func check(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("%s %s: status %d: %s",
			res.Request.Method, res.Request.URL, res.StatusCode(), strings.TrimSpace(res.String()))
	}
	return nil
}

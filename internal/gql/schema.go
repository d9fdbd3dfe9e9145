// Package gql serves the inventory over GraphQL.
package gql

import (
	"bytes"
	"text/template"
)

var schemaTemplate = template.Must(template.New("schema").Parse(`schema {
  query: Query
  mutation: Mutation
}

enum DeviceStatus {
  ACTIVE
  MAINTENANCE
}

enum Continent {
  EUROPE
  ASIA
  AMERICA
  AFRICA
}

type Site {
  id: ID!
  name: String!
  label: String!
  description: String
  address: String!
}

type Country {
  id: ID!
  name: String!
  label: String!
  description: String
  continent: Continent!
}
{{- if .Tags}}

type Tag {
  id: ID!
  name: String!
  color: String!
  description: String
}
{{- end}}

type Device {
  id: ID!
  name: String!
  manufacturer: String
  status: DeviceStatus!
  site: Site
{{- if .Tags}}
  tags: [Tag!]!
{{- end}}
}

input SiteInput {
  name: String!
  label: String!
  description: String
  address: String!
}

input CountryInput {
  name: String!
  label: String!
  description: String
  continent: Continent!
}
{{- if .Tags}}

input TagInput {
  name: String!
  color: String
  description: String
}
{{- end}}

input DeviceInput {
  name: String!
  manufacturer: String
  status: DeviceStatus
  siteId: ID
  site: SiteInput
{{- if .Tags}}
  tags: [TagInput!]
{{- end}}
}

type Query {
  devices: [Device!]!
  device(id: ID!): Device
  sites: [Site!]!
  site(id: ID!): Site
  countries: [Country!]!
{{- if .Tags}}
  tags: [Tag!]!
{{- end}}
}

type Mutation {
  createDevice(input: DeviceInput!): Device!
  createSite(input: SiteInput!): Site!
  createCountry(input: CountryInput!): Country!
{{- if .Tags}}
  createTag(input: TagInput!): Tag!
{{- end}}
}
`))

// SDL renders the schema. Without tags the Tag type and every field that
// refers to it are left out.
func SDL(tags bool) string {
	var buf bytes.Buffer
	if err := schemaTemplate.Execute(&buf, struct{ Tags bool }{tags}); err != nil {
		panic(err)
	}
	return buf.String()
}

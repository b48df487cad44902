package models

import (
	"slices"
	"strings"

	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/errors"
)

// Entry is a named model in the catalog.
type Entry struct {
	Name        string
	Description string
	Builder     model.Builder
}

var catalog = []Entry{
	{
		Name:        "page-load",
		Description: "Server-rendered page load over slow 3G: monolith, SSR service, CDN, hydration",
		Builder:     PageLoad(),
	},
	{
		Name:        "fan-out",
		Description: "API gateway fanning out to three backends with jittered latency",
		Builder:     FanOut(),
	},
	{
		Name:        "retrying-client",
		Description: "Client that times out on a slow replica and retries against another",
		Builder:     RetryingClient(),
	},
	{
		Name:        "graphql",
		Description: "GraphQL query resolved inside the monolith behind a load balancer",
		Builder:     GraphQL(),
	},
}

// Catalog returns all built-in models in display order.
func Catalog() []Entry {
	return slices.Clone(catalog)
}

// Names returns the catalog model names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the catalog entry called name.
func Lookup(name string) (Entry, error) {
	for _, e := range catalog {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, errors.New(errors.ErrCodeModelNotFound, "unknown model %q (available: %s)", name, strings.Join(Names(), ", "))
}

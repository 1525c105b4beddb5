package provider

import (
	"context"

	"github.com/skillsenselab/pivotkit/timespan"
)

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// EntityBinding ties a query parameter to an entity type's query value.
type EntityBinding struct {
	// EntityType is an entity type name ("Host", "IpAddress", ...).
	EntityType string
	// Param is the query parameter the entity's query value is bound to.
	Param string
}

// QueryDef describes one query a data provider exposes. Queries with
// entity bindings become pivot functions on those entities.
type QueryDef struct {
	Name        string
	Description string
	// Container overrides the pivot container; empty means the provider's
	// environment name.
	Container string
	Entities  []EntityBinding
}

// QueryRequest carries a query invocation to a data provider.
type QueryRequest struct {
	Query    string
	Params   map[string]string
	Timespan timespan.TimeSpan
}

// QueryResult is the outcome of a data provider query.
type QueryResult struct {
	Provider string
	Query    string
	Rows     []map[string]any
}

// DataProvider executes queries against a data source. Providers are
// deduplicated by environment name during discovery.
type DataProvider interface {
	Provider
	// Environment identifies the data environment this provider serves
	// (e.g. "MSSentinel", "Splunk"). One provider per environment.
	Environment() string
	// Queries lists the queries this provider exposes.
	Queries() []QueryDef
	// Exec runs a query.
	Exec(ctx context.Context, req QueryRequest) (*QueryResult, error)
}

// TIResult is one provider's verdict on an indicator of compromise.
type TIResult struct {
	Provider string
	IoC      string
	Severity string
	Details  map[string]any
}

// TIProvider looks up indicators of compromise against a
// threat-intelligence source.
type TIProvider interface {
	Provider
	// LookupIoC looks up one indicator within a time range.
	LookupIoC(ctx context.Context, ioc string, ts timespan.TimeSpan) ([]TIResult, error)
}

package pivotreg

import (
	"context"

	"github.com/skillsenselab/pivotkit/timespan"
)

// Handler is the function shape a declarative pivot definition binds to.
// Params carries the entity attribute under the definition's param name;
// ts is the environment's current window, read at call time.
type Handler func(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error)

// PivotHandler is the interface alternative to a bare Handler. Namespace
// objects implementing it can be referenced by func_ref.
type PivotHandler interface {
	RunPivot(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error)
}

// EntityRef binds a definition to one entity type.
type EntityRef struct {
	// Entity is an entity type name ("IpAddress", "Host", ...).
	Entity string `yaml:"entity" validate:"required"`
	// Param is the parameter name the entity's query value is passed under.
	Param string `yaml:"param" validate:"required"`
}

// Definition is one declarative pivot definition.
type Definition struct {
	Description string `yaml:"description" validate:"required"`
	// FuncRef is the namespace key of the Handler or PivotHandler to run.
	FuncRef string `yaml:"func_ref" validate:"required"`
	// Container overrides the default container unless force_container is set.
	Container string      `yaml:"container"`
	Entities  []EntityRef `yaml:"entities" validate:"required,min=1,dive"`
}

// File is the root document of a pivot definition file.
type File struct {
	PivotProviders map[string]Definition `yaml:"pivot_providers"`
}

// Options control how definitions are registered.
type Options struct {
	// DefContainer is the container for definitions without one. Defaults
	// to "other".
	DefContainer string
	// ForceContainer applies DefContainer even when a definition carries
	// its own container name.
	ForceContainer bool
	// Source tags registered pivots so an environment can replace its own
	// registrations on re-construction.
	Source string
}

// applyDefaults fills unset option values.
func (o Options) applyDefaults() Options {
	if o.DefContainer == "" {
		o.DefContainer = "other"
	}
	if o.Source == "" {
		o.Source = "pivotreg"
	}
	return o
}

package pivotreg

import (
	"context"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/skillsenselab/pivotkit/entity"
	"github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/logger"
	"github.com/skillsenselab/pivotkit/timespan"
	"github.com/skillsenselab/pivotkit/validation"
)

// Load reads and parses a pivot definition file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("cannot read pivot definition file "+path, err)
	}
	return Parse(data)
}

// Parse decodes a pivot definition document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.ConfigError("cannot parse pivot definition file", err)
	}
	return &f, nil
}

// Register attaches every definition in the file to the entity registry,
// resolving handlers against the namespace. Definitions are processed in
// sorted key order. The first unknown entity or unresolvable handler
// aborts registration; earlier definitions stay registered.
func Register(reg *entity.Registry, f *File, namespace map[string]any, opts Options) error {
	opts = opts.applyDefaults()
	log := logger.WithComponent("pivotreg")

	keys := make([]string, 0, len(f.PivotProviders))
	for key := range f.PivotProviders {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		def := f.PivotProviders[key]
		if err := validation.Struct(def); err != nil {
			return errors.InvalidDefinition(key, err.Error()).WithCause(err)
		}

		handler, err := resolveHandler(def.FuncRef, namespace)
		if err != nil {
			return err
		}

		containerName := def.Container
		if containerName == "" || opts.ForceContainer {
			containerName = opts.DefContainer
		}

		for _, ref := range def.Entities {
			p := entity.Pivot{
				Name:        key,
				Container:   containerName,
				Source:      opts.Source,
				Description: def.Description,
				Run:         pivotFunc(handler, ref.Param),
			}
			if err := reg.Register(ref.Entity, p); err != nil {
				return err
			}
		}

		log.Debug("Declarative pivot registered", map[string]interface{}{
			logger.FieldPivot:     key,
			logger.FieldContainer: containerName,
			"func_ref":            def.FuncRef,
		})
	}
	return nil
}

// RegisterPivots loads a definition file from an arbitrary path and
// registers its pivots against the namespace. This is the re-registration
// entry point usable independently of a pivot environment.
func RegisterPivots(path string, reg *entity.Registry, namespace map[string]any, defContainer string, forceContainer bool) error {
	f, err := Load(path)
	if err != nil {
		return err
	}
	return Register(reg, f, namespace, Options{
		DefContainer:   defContainer,
		ForceContainer: forceContainer,
		Source:         "file:" + path,
	})
}

// resolveHandler looks a func_ref up in the namespace and adapts it to a
// Handler.
func resolveHandler(funcRef string, namespace map[string]any) (Handler, error) {
	v, exists := namespace[funcRef]
	if !exists {
		return nil, errors.HandlerNotFound(funcRef)
	}

	switch h := v.(type) {
	case Handler:
		return h, nil
	case func(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error):
		return h, nil
	case PivotHandler:
		return h.RunPivot, nil
	}
	return nil, errors.HandlerNotFound(funcRef).
		WithDetail("reason", "namespace value is not a pivot handler")
}

// pivotFunc binds a handler to the entity parameter name.
func pivotFunc(handler Handler, param string) entity.PivotFunc {
	return func(ctx context.Context, e entity.Entity, ts timespan.TimeSpan) (any, error) {
		return handler(ctx, map[string]string{param: e.QueryValue()}, ts)
	}
}

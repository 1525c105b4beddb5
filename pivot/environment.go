package pivot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/skillsenselab/pivotkit/config"
	"github.com/skillsenselab/pivotkit/entity"
	"github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/logger"
	"github.com/skillsenselab/pivotkit/observability"
	"github.com/skillsenselab/pivotkit/pivotreg"
	"github.com/skillsenselab/pivotkit/provider"
	"github.com/skillsenselab/pivotkit/resources"
	"github.com/skillsenselab/pivotkit/timeedit"
	"github.com/skillsenselab/pivotkit/timespan"
)

const meterName = "github.com/skillsenselab/pivotkit/pivot"

// iocEntityTypes are the entity types a TI lookup pivot attaches to.
var iocEntityTypes = []string{
	entity.TypeIPAddress, entity.TypeURL, entity.TypeDNS, entity.TypeFileHash,
}

// Environment holds the pivot registry, the discovered providers, and the
// shared query window. Construct with New; an Environment is safe for
// concurrent use afterwards.
type Environment struct {
	cfg       *config.Config
	registry  *entity.Registry
	providers map[string]provider.Provider
	window    *timespan.QueryWindow
	metrics   *observability.Metrics
	log       *logger.Logger

	mu     sync.Mutex
	editor *timeedit.Editor
}

type options struct {
	namespace map[string]any
	explicit  []any
	span      *timespan.TimeSpan
	cfg       *config.Config
}

// Option configures environment construction.
type Option func(*options)

// WithNamespace supplies the discovery namespace: provider instances and
// pivot handlers keyed by name.
func WithNamespace(ns map[string]any) Option {
	return func(o *options) { o.namespace = ns }
}

// WithProviders supplies providers directly. They override namespace
// providers of the same environment; later entries win.
func WithProviders(providers ...any) Option {
	return func(o *options) { o.explicit = append(o.explicit, providers...) }
}

// WithTimespan starts the environment with an explicit window instead of
// the default rolling one.
func WithTimespan(ts timespan.TimeSpan) Option {
	return func(o *options) { o.span = &ts }
}

// WithConfig supplies the environment configuration. Absent, defaults are
// applied without reading any file.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// New builds a pivot environment: it installs the query window, discovers
// providers, attaches data-query and TI pivots, and registers the embedded
// declarative pivots. A definition referencing an unknown entity type fails
// construction.
func New(opts ...Option) (*Environment, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	window, err := buildWindow(cfg, o.span)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewMetrics(observability.Meter(meterName))
	if err != nil {
		return nil, errors.Internal(err)
	}

	env := &Environment{
		cfg:       cfg,
		registry:  entity.NewRegistry(),
		providers: provider.Discover(o.namespace, o.explicit),
		window:    window,
		metrics:   metrics,
		log:       logger.WithComponent("pivot"),
	}

	if err := env.attachQueryPivots(); err != nil {
		return nil, err
	}
	if err := env.attachTIPivots(); err != nil {
		return nil, err
	}
	if err := env.registerBuiltinPivots(o.namespace); err != nil {
		return nil, err
	}

	env.log.Info("pivot environment ready", logger.Fields(
		"providers", len(env.providers),
		"entity_types", len(env.registry.Types()),
	))
	return env, nil
}

func buildWindow(cfg *config.Config, span *timespan.TimeSpan) (*timespan.QueryWindow, error) {
	if span != nil {
		return timespan.NewExplicitWindow(*span)
	}
	unit, err := timespan.ParseUnit(cfg.Window.Unit)
	if err != nil {
		return nil, err
	}
	return timespan.NewRollingWindow(unit, cfg.Window.Before, cfg.Window.After), nil
}

// attachQueryPivots turns every entity-bound query of every data provider
// into a pivot. A binding against an unknown entity type is skipped with a
// warning; provider queries come from remote catalogs and one bad entry
// must not take the whole provider down.
func (env *Environment) attachQueryPivots() error {
	for _, key := range env.providerKeys() {
		dp, ok := env.providers[key].(provider.DataProvider)
		if !ok {
			continue
		}

		source := "provider:" + dp.Environment()
		for _, def := range dp.Queries() {
			for _, binding := range def.Entities {
				if !env.registry.HasType(binding.EntityType) {
					env.log.Warn("Query binds unknown entity type, skipping", map[string]interface{}{
						logger.FieldProvider: dp.Name(),
						logger.FieldEntity:   binding.EntityType,
						"query":              def.Name,
					})
					continue
				}

				containerName := def.Container
				if containerName == "" {
					containerName = dp.Environment()
				}

				p := entity.Pivot{
					Name:        def.Name,
					Container:   containerName,
					Source:      source,
					Description: def.Description,
					Run:         queryPivotFunc(dp, def.Name, binding.Param),
				}
				if err := env.registry.Register(binding.EntityType, p); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// queryPivotFunc binds a provider query to the entity's query value.
func queryPivotFunc(dp provider.DataProvider, query, param string) entity.PivotFunc {
	return func(ctx context.Context, e entity.Entity, ts timespan.TimeSpan) (any, error) {
		if !dp.IsAvailable(ctx) {
			return nil, errors.ProviderUnavailable(dp.Name())
		}
		res, err := dp.Exec(ctx, provider.QueryRequest{
			Query:    query,
			Params:   map[string]string{param: e.QueryValue()},
			Timespan: ts,
		})
		if err != nil {
			return nil, errors.QueryFailed(dp.Name(), query, err)
		}
		return res, nil
	}
}

// attachTIPivots registers a lookup_ioc pivot on every IoC-capable entity
// type, backed by the environment's resolved TI provider.
func (env *Environment) attachTIPivots() error {
	tp, ok := env.providers[provider.TILookupName].(provider.TIProvider)
	if !ok {
		return errors.ProviderNotFound(provider.TILookupName)
	}

	run := func(ctx context.Context, e entity.Entity, ts timespan.TimeSpan) (any, error) {
		results, err := tp.LookupIoC(ctx, e.QueryValue(), ts)
		if err != nil {
			return nil, err
		}
		return results, nil
	}

	for _, entityType := range iocEntityTypes {
		p := entity.Pivot{
			Name:        "lookup_ioc",
			Container:   env.cfg.Containers.TI,
			Source:      "ti",
			Description: "Look the entity up in the configured threat intelligence providers",
			Run:         run,
		}
		if err := env.registry.Register(entityType, p); err != nil {
			return err
		}
	}
	return nil
}

// registerBuiltinPivots registers the embedded declarative pivots. The
// handler namespace is the builtins overlaid with the user namespace, so
// users can shadow a builtin by reusing its key.
func (env *Environment) registerBuiltinPivots(namespace map[string]any) error {
	f, err := pivotreg.Parse(resources.PivotRegistry)
	if err != nil {
		return err
	}

	merged := Builtins()
	for key, v := range namespace {
		merged[key] = v
	}

	return pivotreg.Register(env.registry, f, merged, pivotreg.Options{
		DefContainer: env.cfg.Containers.Default,
		Source:       "builtin",
	})
}

func (env *Environment) providerKeys() []string {
	keys := make([]string, 0, len(env.providers))
	for key := range env.providers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Registry returns the entity pivot registry.
func (env *Environment) Registry() *entity.Registry { return env.registry }

// Window returns the shared query window.
func (env *Environment) Window() *timespan.QueryWindow { return env.window }

// Timespan returns the current query window span.
func (env *Environment) Timespan() timespan.TimeSpan { return env.window.Timespan() }

// Start returns the current window start time.
func (env *Environment) Start() time.Time { return env.window.Start() }

// End returns the current window end time.
func (env *Environment) End() time.Time { return env.window.End() }

// SetTimespan replaces the shared window with an explicit span. Every pivot
// registered so far picks the change up on its next run.
func (env *Environment) SetTimespan(ts timespan.TimeSpan) error {
	return env.window.SetTimespan(ts)
}

// Provider returns the provider registered under key ("TILookup" or a data
// provider environment name).
func (env *Environment) Provider(key string) (provider.Provider, bool) {
	p, exists := env.providers[key]
	return p, exists
}

// Providers returns a copy of the provider map.
func (env *Environment) Providers() map[string]provider.Provider {
	out := make(map[string]provider.Provider, len(env.providers))
	for key, p := range env.providers {
		out[key] = p
	}
	return out
}

// PivotInfo describes one registered pivot for browsing.
type PivotInfo struct {
	Entity      string `json:"entity"`
	Container   string `json:"container"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// BrowsePivots lists every registered pivot, ordered by entity type, then
// container, then registration order.
func (env *Environment) BrowsePivots() []PivotInfo {
	var infos []PivotInfo
	for _, entityType := range env.registry.Types() {
		for _, p := range env.registry.Pivots(entityType) {
			infos = append(infos, PivotInfo{
				Entity:      entityType,
				Container:   p.Container,
				Name:        p.Name,
				Description: p.Description,
				Source:      p.Source,
			})
		}
	}
	return infos
}

// EditWindow starts the HTTP window editor on the configured address and
// returns it. Repeated calls return the running editor.
func (env *Environment) EditWindow(ctx context.Context) (*timeedit.Editor, error) {
	env.mu.Lock()
	defer env.mu.Unlock()

	if env.editor != nil {
		return env.editor, nil
	}

	editor := timeedit.New(env.cfg.Editor.Addr, env.window)
	if err := editor.Start(ctx); err != nil {
		return nil, err
	}
	env.editor = editor
	return editor, nil
}

// StopEditor shuts the window editor down if one is running.
func (env *Environment) StopEditor(ctx context.Context) error {
	env.mu.Lock()
	defer env.mu.Unlock()

	if env.editor == nil {
		return nil
	}
	err := env.editor.Stop(ctx)
	env.editor = nil
	return err
}

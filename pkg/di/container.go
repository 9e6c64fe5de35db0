package di

import (
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/goliatone/go-entity-cache/cache"
	"github.com/goliatone/go-entity-cache/entitycache"
	"github.com/goliatone/go-entity-cache/internal/cacheinfra"
	"github.com/goliatone/go-entity-cache/stats"
)

// Container provides dependency injection for the cache components. It
// resolves the store from the configured driver name, manages the singleton
// stats tracker and logger, and memoizes one manager per entity type so all
// call sites share the same hit and miss accounting.
type Container struct {
	store    cache.Store
	tracker  *stats.Tracker
	logger   *zap.Logger
	config   cache.Config
	entities map[string]cache.Config
	managers *xsync.MapOf[string, any]
}

// Option customizes container construction.
type Option func(*containerOptions)

type containerOptions struct {
	logger    *zap.Logger
	store     cache.Store
	memoryCfg cacheinfra.MemoryConfig
	redisCfg  cacheinfra.RedisConfig
	entities  map[string]cache.Config
}

// WithLogger sets the logger handed to the tracker and every manager the
// container creates. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *containerOptions) {
		o.logger = logger
	}
}

// WithStore bypasses driver resolution and uses the given store directly.
// Useful for tests and for stores the container does not know how to build.
func WithStore(store cache.Store) Option {
	return func(o *containerOptions) {
		o.store = store
	}
}

// WithMemoryConfig overrides the in-process store settings used when the
// configured driver is "memory".
func WithMemoryConfig(cfg cacheinfra.MemoryConfig) Option {
	return func(o *containerOptions) {
		o.memoryCfg = cfg
	}
}

// WithRedisConfig overrides the Redis settings used when the configured
// driver is "redis".
func WithRedisConfig(cfg cacheinfra.RedisConfig) Option {
	return func(o *containerOptions) {
		o.redisCfg = cfg
	}
}

// WithEntityConfigs supplies per-entity-type configuration overrides, keyed
// by type name as reported by Manager.TypeName. Typically loaded through
// cache.LoadConfigs.
func WithEntityConfigs(configs map[string]cache.Config) Option {
	return func(o *containerOptions) {
		o.entities = configs
	}
}

// NewContainer creates a DI container from the given base configuration.
// The store is resolved from config.DriverName unless WithStore is given.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	options := containerOptions{
		logger:    zap.NewNop(),
		memoryCfg: cacheinfra.DefaultMemoryConfig(),
		redisCfg:  cacheinfra.DefaultRedisConfig(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	store := options.store
	if store == nil {
		var err error
		store, err = resolveStore(config.DriverName, options)
		if err != nil {
			return nil, err
		}
	}

	tracker := stats.New(store, config.KeyPrefix, stats.WithLogger(options.logger))

	return &Container{
		store:    store,
		tracker:  tracker,
		logger:   options.logger,
		config:   config,
		entities: options.entities,
		managers: xsync.NewMapOf[string, any](),
	}, nil
}

// NewContainerWithDefaults creates a container using default configuration,
// which resolves the in-process memory store.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// NewContainerFromFile creates a container whose per-entity configurations
// come from a YAML file in the cache.LoadConfigs layout. The base
// configuration stays at config; entity sections override it per type.
func NewContainerFromFile(config cache.Config, path string, opts ...Option) (*Container, error) {
	entities, err := cache.LoadConfigs(path)
	if err != nil {
		return nil, err
	}
	return NewContainer(config, append(opts, WithEntityConfigs(entities))...)
}

func resolveStore(driver string, options containerOptions) (cache.Store, error) {
	switch driver {
	case cache.DriverMemory:
		return cacheinfra.NewMemoryStore(options.memoryCfg)
	case cache.DriverRedis:
		return cacheinfra.NewRedisStore(options.redisCfg)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

// Store returns the singleton store instance.
func (c *Container) Store() cache.Store {
	return c.store
}

// Tracker returns the singleton stats tracker instance.
func (c *Container) Tracker() *stats.Tracker {
	return c.tracker
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns a copy of the base configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// ConfigFor returns the effective configuration for an entity type name:
// the per-type override when one was supplied, the base config otherwise.
// Driver and key prefix always come from the base config because the
// container holds a single store and a single stats namespace.
func (c *Container) ConfigFor(typeName string) cache.Config {
	override, ok := c.entities[typeName]
	if !ok {
		return c.config
	}
	override.DriverName = c.config.DriverName
	override.KeyPrefix = c.config.KeyPrefix
	return override
}

// NewManager returns the manager for entity type T, creating and caching it
// on first use. All callers for the same type share one manager so its
// counters aggregate in one place.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: NewManager[*User](container, userSource)
func NewManager[T entitycache.Entity](c *Container, source entitycache.Source[T], opts ...entitycache.Option[T]) (*entitycache.Manager[T], error) {
	key := typeKey[T]()

	if existing, ok := c.managers.Load(key); ok {
		if manager, ok := existing.(*entitycache.Manager[T]); ok {
			return manager, nil
		}
	}

	opts = append([]entitycache.Option[T]{entitycache.WithLogger[T](c.logger)}, opts...)
	manager, err := entitycache.New[T](c.store, source, c.tracker, c.ConfigFor(key), opts...)
	if err != nil {
		return nil, err
	}

	// Two racing callers may both construct; the first store wins and both
	// end up holding the same instance.
	actual, _ := c.managers.LoadOrStore(key, manager)
	if winner, ok := actual.(*entitycache.Manager[T]); ok {
		return winner, nil
	}
	return manager, nil
}

// typeKey names T the same way Manager.TypeName does, so per-entity config
// sections and the manager registry agree on keys.
func typeKey[T entitycache.Entity]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface || t.PkgPath() == "" || t.Name() == "" {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

package cache

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Driver names accepted by Config.DriverName.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config carries the per-entity-type cache settings. It is plain value input
// supplied by the caller; nothing in this module reads ambient process-wide
// configuration.
type Config struct {
	// TTL is the base time-to-live handed to the tracker's adaptive TTL
	// policy on every write.
	TTL time.Duration `yaml:"ttl"`

	// KeyPrefix namespaces every key this configuration produces. It is
	// normalized to snake_case before use.
	KeyPrefix string `yaml:"key_prefix"`

	// AutoInvalidate controls whether the persistence layer should call
	// Invalidate after saves and deletes.
	AutoInvalidate bool `yaml:"auto_invalidate"`

	// CacheRelationships includes relation payloads in cached entries for
	// entities that expose them.
	CacheRelationships bool `yaml:"cache_relationships"`

	// DriverName selects the store flavor when resolving through the DI
	// container. Direct Manager construction ignores it.
	DriverName string `yaml:"driver"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL:            5 * time.Minute,
		KeyPrefix:      "entity_cache",
		AutoInvalidate: true,
		DriverName:     DriverMemory,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.KeyPrefix, validation.Required, validation.Length(1, 64)),
		validation.Field(&c.DriverName, validation.Required, validation.In(DriverMemory, DriverRedis)),
	)
}

// configFile is the YAML layout for LoadConfigs: shared defaults plus
// per-entity-type overrides keyed by type name.
type configFile struct {
	Defaults Config            `yaml:"defaults"`
	Entities map[string]Config `yaml:"entities"`
}

// LoadConfigs reads per-entity cache settings from a YAML file, expanding
// environment variables before parsing. Zero-valued fields in an entity
// section inherit from the defaults section; an absent defaults section
// inherits from DefaultConfig.
func LoadConfigs(path string) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	f := configFile{Defaults: DefaultConfig()}
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("parse cache config: %w", err)
	}

	configs := make(map[string]Config, len(f.Entities))
	for name, cfg := range f.Entities {
		merged := mergeConfig(f.Defaults, cfg)
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("cache config for %q: %w", name, err)
		}
		configs[name] = merged
	}
	return configs, nil
}

// mergeConfig fills zero fields of override from base. Booleans cannot be
// distinguished from "unset" in YAML, so AutoInvalidate and
// CacheRelationships always come from the entity section.
func mergeConfig(base, override Config) Config {
	merged := override
	if merged.TTL == 0 {
		merged.TTL = base.TTL
	}
	if merged.KeyPrefix == "" {
		merged.KeyPrefix = base.KeyPrefix
	}
	if merged.DriverName == "" {
		merged.DriverName = base.DriverName
	}
	return merged
}

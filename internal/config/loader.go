package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"busgraph.opentransit.org/internal/feed"
	"busgraph.opentransit.org/internal/network"
)

const (
	DefaultPort    = 4000
	DefaultTimeout = 120
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, os.LookupEnv)
}

// Parse decodes a YAML document, then applies overrides found through lookup.
func Parse(data []byte, lookup LookupFunc) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding config: %v", network.ErrConfiguration, err)
	}

	if lookup != nil {
		if err := applyEnv(&cfg, lookup); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Network.EdgeMode == "" {
		cfg.Network.EdgeMode = string(network.EdgeModeCollapse)
	}
	if cfg.Feed.TimeoutSeconds == 0 {
		cfg.Feed.TimeoutSeconds = DefaultTimeout
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks struct tags. Failures are reported as network.ErrConfiguration.
func (cfg *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			messages := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				messages = append(messages, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", network.ErrConfiguration, strings.Join(messages, "; "))
		}
		return fmt.Errorf("%w: %v", network.ErrConfiguration, err)
	}
	return nil
}

// ZoneTableOptions converts the feed section to loader options.
func (cfg *Config) ZoneTableOptions() feed.ZoneTableOptions {
	opts := feed.DefaultZoneTableOptions()
	if cfg.Feed.ZoneSeparator != "" {
		opts.Separator, _ = utf8.DecodeRuneInString(cfg.Feed.ZoneSeparator)
	}
	if cfg.Feed.StopColumn != "" {
		opts.StopColumn = cfg.Feed.StopColumn
	}
	if cfg.Feed.ZoneColumn != "" {
		opts.ZoneColumn = cfg.Feed.ZoneColumn
	}
	return opts
}

// PipelineOptions converts the network and merge sections to pipeline options.
func (cfg *Config) PipelineOptions() network.Options {
	return network.Options{
		TargetZone:  cfg.Network.TargetZone,
		EdgeMode:    network.EdgeMode(cfg.Network.EdgeMode),
		Workers:     cfg.Network.Workers,
		MergeByName: cfg.Merge.ByName,
		MergeNames:  cfg.Merge.Names,
	}
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	stringVars := map[string]*string{
		"BUSGRAPH_GTFS":        &cfg.Feed.GTFS,
		"BUSGRAPH_ZONE_TABLE":  &cfg.Feed.ZoneTable,
		"BUSGRAPH_TARGET_ZONE": &cfg.Network.TargetZone,
		"BUSGRAPH_EDGE_MODE":   &cfg.Network.EdgeMode,
		"BUSGRAPH_GEOJSON":     &cfg.Export.GeoJSON,
		"BUSGRAPH_CSV":         &cfg.Export.CSV,
		"BUSGRAPH_SQLITE":      &cfg.Export.SQLite,
		"BUSGRAPH_ENV":         &cfg.Server.Env,
		"BUSGRAPH_LOG_LEVEL":   &cfg.Log.Level,
		"BUSGRAPH_LOG_FORMAT":  &cfg.Log.Format,
	}
	for key, target := range stringVars {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}

	intVars := map[string]*int{
		"BUSGRAPH_WORKERS": &cfg.Network.Workers,
		"BUSGRAPH_PORT":    &cfg.Server.Port,
	}
	for key, target := range intVars {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", network.ErrConfiguration, key, value)
		}
		*target = n
	}

	if value, ok := lookup("BUSGRAPH_MERGE_BY_NAME"); ok && value != "" {
		byName, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: BUSGRAPH_MERGE_BY_NAME must be a boolean, got %q", network.ErrConfiguration, value)
		}
		cfg.Merge.ByName = byName
	}
	return nil
}

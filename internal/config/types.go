package config

// FeedConfig locates the schedule feed and the zone lookup table.
type FeedConfig struct {
	GTFS string `yaml:"gtfs" validate:"required"`
	// ZoneTable is optional; stop zone_id values are used when it is empty.
	ZoneTable      string `yaml:"zoneTable"`
	ZoneSeparator  string `yaml:"zoneSeparator" validate:"omitempty,len=1"`
	StopColumn     string `yaml:"stopColumn"`
	ZoneColumn     string `yaml:"zoneColumn"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" validate:"gte=0"`
}

// NetworkConfig drives graph construction.
type NetworkConfig struct {
	TargetZone string `yaml:"targetZone" validate:"required"`
	EdgeMode   string `yaml:"edgeMode" validate:"omitempty,oneof=collapse multigraph"`
	Workers    int    `yaml:"workers" validate:"gte=0,lte=64"`
}

// MergeConfig lists the node merges applied after the graph is built.
type MergeConfig struct {
	ByName bool     `yaml:"byName"`
	Names  []string `yaml:"names" validate:"dive,required"`
}

// ExportConfig names the outputs written at the end of a run. Empty paths are skipped.
type ExportConfig struct {
	GeoJSON string `yaml:"geojson"`
	CSV     string `yaml:"csv"`
	SQLite  string `yaml:"sqlite"`
}

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int    `yaml:"port" validate:"gt=0,lte=65535"`
	Env  string `yaml:"env" validate:"omitempty,oneof=development staging production"`
	// APIKeys, when set, must be passed as ?key= on every request.
	APIKeys []string `yaml:"apiKeys" validate:"dive,required"`
	// RateLimit is the number of requests per second allowed per client. Zero disables limiting.
	RateLimit int `yaml:"rateLimit" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// Config is the root configuration structure
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Network NetworkConfig `yaml:"network"`
	Merge   MergeConfig   `yaml:"merge"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

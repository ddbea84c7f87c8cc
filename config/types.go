package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// LoggingConfig selects log level and output format
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// DrawingConfig holds the defaults applied to drawing requests that leave a field empty.
// Zero values mean "no default".
type DrawingConfig struct {
	UnitLength        float64 `yaml:"unit_length" validate:"gte=0"`
	TrackSpacing      float64 `yaml:"track_spacing" validate:"gte=0"`
	LabelPadding      float64 `yaml:"label_padding" validate:"gte=0"`
	BandHeight        float64 `yaml:"band_height" validate:"gte=0"`
	PositionAxisMode  string  `yaml:"position_axis_mode" validate:"omitempty,oneof=Auto Linear Logarithmic Square SquareRoot Uniform"`
	PositionAxisScale float64 `yaml:"position_axis_scale" validate:"gte=0"`
	TimeAxisMode      string  `yaml:"time_axis_mode" validate:"omitempty,oneof=Auto Linear Logarithmic Square SquareRoot Uniform"`
	TimeAxisScale     float64 `yaml:"time_axis_scale" validate:"gte=0"`
	Workers           int     `yaml:"workers" validate:"gte=0"`
}

// CacheConfig bounds the rendered diagram memo. An explicit zero disables it.
type CacheConfig struct {
	MaxEntries *int `yaml:"max_entries" validate:"omitempty,gte=0"`
}

// Entries returns the configured size, or DefaultMaxEntries when unset
func (c CacheConfig) Entries() int {
	if c.MaxEntries == nil {
		return DefaultMaxEntries
	}
	return *c.MaxEntries
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Drawing DrawingConfig `yaml:"drawing"`
	Cache   CacheConfig   `yaml:"cache"`
}

// Package config handles configuration loading using viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"firestige.xyz/tabula/internal/log"
)

// Config is the tool's static configuration. All fields have working
// defaults; a config file only overrides them.
type Config struct {
	Output  OutputConfig     `mapstructure:"output"`
	Summary SummaryConfig    `mapstructure:"summary"`
	Log     log.LoggerConfig `mapstructure:"log"`
}

// OutputConfig controls table rendering.
type OutputConfig struct {
	// Separator between row fields. Free-text summary fields are not
	// escaped, so the separator must not occur in them.
	Separator string `mapstructure:"separator"`
	// TimeFormat for the timestamp column, in Go reference-time layout.
	TimeFormat string `mapstructure:"time_format"`
	// MaxPayloadBytes caps the payload hex column; 0 = unlimited.
	MaxPayloadBytes int `mapstructure:"max_payload_bytes"`
}

// SummaryConfig selects the protocol summary engine.
type SummaryConfig struct {
	Engine string `mapstructure:"engine"` // currently only "gopacket"
}

// EngineGoPacket is the built-in summary engine.
const EngineGoPacket = "gopacket"

// Load reads the configuration file at path. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.separator", "|")
	v.SetDefault("output.time_format", "2006-01-02 15:04:05.000000")
	v.SetDefault("output.max_payload_bytes", 0)
	v.SetDefault("summary.engine", EngineGoPacket)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pattern", "%time [%level] %field%msg\n")
	v.SetDefault("log.time", "2006-01-02 15:04:05")
}

func (c *Config) validate() error {
	if c.Output.Separator == "" {
		return fmt.Errorf("output.separator must not be empty")
	}
	if c.Output.MaxPayloadBytes < 0 {
		return fmt.Errorf("output.max_payload_bytes must not be negative")
	}
	if c.Summary.Engine != EngineGoPacket {
		return fmt.Errorf("unknown summary.engine %q", c.Summary.Engine)
	}
	return nil
}

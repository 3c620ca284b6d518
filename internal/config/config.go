package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pinbox/pinbox/internal/keygen"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort           = 8080
	DefaultTTL                = 10 * time.Minute
	DefaultReapInterval       = 10 * time.Second
	DefaultKeyLength          = keygen.DefaultLength
	DefaultMaxPayloadBytes    = 3000
	DefaultMaxGenerateRetries = 8
	DefaultShards             = 16
	DefaultStatsInterval      = 5 * time.Second
)

// Config holds the configuration parsed from the `server:` section of the
// config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the pin exchange, /metrics and /ws/stats listen
	// on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Pins controls pin shape, retention and submission limits.
	Pins PinConfig `yaml:"pins"`

	// Stats controls the WebSocket stats stream.
	Stats StatsConfig `yaml:"stats"`
}

// PinConfig controls pin issuance and entry retention.
type PinConfig struct {
	// TTL is how long an entry remains live after creation. Default: 10m.
	// Hot-reloadable.
	TTL time.Duration `yaml:"ttl"`

	// ReapInterval is the cadence of the background expiry sweep.
	// Default: 10s.
	ReapInterval time.Duration `yaml:"reap_interval"`

	// KeyLength is the number of symbols in a pin. Default: 4.
	KeyLength int `yaml:"key_length"`

	// Alphabet is the symbol set pins are drawn from. Default: 0-9A-Z.
	Alphabet string `yaml:"alphabet"`

	// MaxPayloadBytes is the submission size ceiling. Default: 3000.
	// Hot-reloadable.
	MaxPayloadBytes int `yaml:"max_payload_bytes"`

	// MaxGenerateRetries bounds the unique-pin retry loop. Default: 8.
	MaxGenerateRetries int `yaml:"max_generate_retries"`

	// Shards is the number of store shards. Default: 16.
	Shards int `yaml:"shards"`
}

// StatsConfig controls the WebSocket stats broadcast.
type StatsConfig struct {
	// Interval between broadcasts to connected clients. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

// Default returns a Config populated entirely with default values, used
// when the server runs without a config file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Pins: PinConfig{
				TTL:                DefaultTTL,
				ReapInterval:       DefaultReapInterval,
				KeyLength:          DefaultKeyLength,
				Alphabet:           keygen.DefaultAlphabet,
				MaxPayloadBytes:    DefaultMaxPayloadBytes,
				MaxGenerateRetries: DefaultMaxGenerateRetries,
				Shards:             DefaultShards,
			},
			Stats: StatsConfig{
				Interval: DefaultStatsInterval,
			},
		},
	}
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.Pins.TTL <= 0 {
		return fmt.Errorf("server.pins.ttl must be positive")
	}
	if s.Pins.ReapInterval <= 0 {
		return fmt.Errorf("server.pins.reap_interval must be positive")
	}
	if s.Pins.KeyLength < 1 || s.Pins.KeyLength > 32 {
		return fmt.Errorf("server.pins.key_length %d is out of range [1, 32]", s.Pins.KeyLength)
	}
	if len(s.Pins.Alphabet) < 1 || len(s.Pins.Alphabet) > 256 {
		return fmt.Errorf("server.pins.alphabet length %d is out of range [1, 256]", len(s.Pins.Alphabet))
	}
	if s.Pins.MaxPayloadBytes < 1 {
		return fmt.Errorf("server.pins.max_payload_bytes must be positive")
	}
	if s.Pins.MaxGenerateRetries < 1 || s.Pins.MaxGenerateRetries > 1000 {
		return fmt.Errorf("server.pins.max_generate_retries %d is out of range [1, 1000]", s.Pins.MaxGenerateRetries)
	}
	if s.Pins.Shards < 1 {
		return fmt.Errorf("server.pins.shards must be positive")
	}
	if s.Stats.Interval <= 0 {
		return fmt.Errorf("server.stats.interval must be positive")
	}
	return nil
}

package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the sharecard CLI configuration, loaded from a TOML file.
type Config struct {
	App     AppConfig     `toml:"app"`
	Service ServiceConfig `toml:"service"`
	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
}

// AppConfig configures export output.
type AppConfig struct {
	// Name prefixes exported filenames.
	Name string `toml:"name"`

	// OutputDir is where exported cards are saved.
	OutputDir string `toml:"output_dir"`

	// Font is an explicit TTF path; empty means system font discovery.
	Font string `toml:"font"`
}

// ServiceConfig configures the activity service connection.
type ServiceConfig struct {
	// URL is the activity service base URL used by export and share.
	URL string `toml:"url"`

	// Listen is the bind address used by the serve command.
	Listen string `toml:"listen"`
}

// CacheConfig configures the local response and artifact caches.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	TTLHours int    `toml:"ttl_hours"`
}

// RedisConfig configures the optional Redis artifact cache backend.
// An empty Addr keeps the file backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the serve command's store. An empty URI uses the
// in-memory store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// TTL returns the HTTP cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:      appName,
			OutputDir: ".",
		},
		Service: ServiceConfig{
			URL:    "http://localhost:8480",
			Listen: ":8480",
		},
		Cache: CacheConfig{
			TTLHours: 24,
		},
		Mongo: MongoConfig{
			Database: appName,
		},
	}
}

// LoadConfig reads configuration from path, layering it over the defaults.
// An empty path uses the default location; a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG config location
// (~/.config/sharecard/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/gbooks/pkg/book"
	"github.com/rubiojr/gbooks/pkg/googlebooks"
	"github.com/rubiojr/gbooks/pkg/version"
)

//go:embed config.toml.sample
var configTemplate string

const (
	appName = "gbooks"

	// DefaultOutput is the CSV file written when none is given.
	DefaultOutput = "output.csv"

	// maxResultsLimit is the largest page size the volumes API accepts.
	maxResultsLimit = 40
)

type Config struct {
	StorageDir string     `toml:"storage_dir"`
	Output     string     `toml:"output"`
	History    *bool      `toml:"history,omitempty"`
	API        APIConfig  `toml:"api"`
	Sort       SortConfig `toml:"sort"`
}

type APIConfig struct {
	BaseURL    string   `toml:"base_url"`
	Timeout    Duration `toml:"timeout"`
	UserAgent  string   `toml:"user_agent"`
	MaxResults int      `toml:"max_results"`
	APIKey     string   `toml:"api_key"`
}

type SortConfig struct {
	PriceOrder string `toml:"price_order"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// GetDefaultConfig returns the configuration used when no file exists.
func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	cfg := &Config{StorageDir: storageDir}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfig reads configPath. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.History == nil {
		enabled := true
		c.History = &enabled
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = googlebooks.DefaultBaseURL
	}
	if c.API.Timeout.Duration == 0 {
		c.API.Timeout = Duration{googlebooks.DefaultTimeout}
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = version.UserAgent()
	}
	if c.Sort.PriceOrder == "" {
		c.Sort.PriceOrder = string(book.PriceByAmount)
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.API.MaxResults < 0 || c.API.MaxResults > maxResultsLimit {
		return fmt.Errorf("api.max_results must be between 0 and %d, got %d", maxResultsLimit, c.API.MaxResults)
	}
	if c.API.Timeout.Duration < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if _, err := book.ParsePriceOrder(c.Sort.PriceOrder); err != nil {
		return fmt.Errorf("sort.price_order: %w", err)
	}
	return nil
}

// HistoryEnabled reports whether searches are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// PriceOrder returns the configured price ordering.
func (c *Config) PriceOrder() book.PriceOrder {
	order, err := book.ParsePriceOrder(c.Sort.PriceOrder)
	if err != nil {
		return book.PriceByAmount
	}
	return order
}

// HistoryPath is the history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.StorageDir, "history.db")
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(c.generateConfigTemplate()), 0644)
}

func (c *Config) generateConfigTemplate() string {
	if c.StorageDir == "" {
		return configTemplate
	}
	return strings.Replace(configTemplate, "/home/user/.local/share/gbooks", c.StorageDir, 1)
}

// GetDefaultStorageDir returns $XDG_DATA_HOME/gbooks, falling back to
// ~/.local/share/gbooks. The directory is not created.
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, appName), nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/gbooks, falling back to
// ~/.config/gbooks.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, appName), nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Reports     ReportsConfig     `toml:"reports"`
	Dedupe      DedupeConfig      `toml:"dedupe"`
	Importer    ImporterConfig    `toml:"importer"`
}

// CredentialsConfig contains service credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains the OAuth 2.0 client for the YouTube Data API and the
// path where the granted token is persisted between runs.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenPath    string `toml:"token_path"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig contains search-cache database settings. An empty path
// disables the cache.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ReportsConfig controls where report artifacts are written.
type ReportsConfig struct {
	Dir string `toml:"dir"`
}

// DedupeConfig holds the duplicate-detection thresholds.
type DedupeConfig struct {
	TitleThreshold  float64 `toml:"title_threshold"`
	ArtistThreshold float64 `toml:"artist_threshold"`
}

// ImporterConfig holds import-flow settings: the match acceptance threshold,
// the pacing interval between remote searches, and the destination playlist.
type ImporterConfig struct {
	AcceptanceThreshold float64 `toml:"acceptance_threshold"`
	SearchIntervalMS    int     `toml:"search_interval_ms"`
	PlaylistTitle       string  `toml:"playlist_title"`
	PlaylistDescription string  `toml:"playlist_description"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration back to path as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the
// embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads a .env file when present and overlays credential overrides
// from the environment onto the config. Environment values win over the file
// so CI and one-off runs never need to edit config.toml.
func ApplyEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("YTSWEEP_CLIENT_ID"); v != "" {
		config.Credentials.Google.ClientID = v
	}
	if v := os.Getenv("YTSWEEP_CLIENT_SECRET"); v != "" {
		config.Credentials.Google.ClientSecret = v
	}
	if v := os.Getenv("YTSWEEP_TOKEN_PATH"); v != "" {
		config.Credentials.Google.TokenPath = v
	}
}

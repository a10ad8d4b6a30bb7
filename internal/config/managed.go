package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	EnvAPIEndpoint = "SPOT_API_ENDPOINT"
	EnvAPIKey      = "SPOT_API_KEY"
	EnvAPIEncoding = "SPOT_API_ENCODING"
	EnvAccessToken = "SPOT_ACCESS_TOKEN"
	EnvConfigFile  = "SPOT_CONFIG"
)

// managedFile mirrors the managed app configuration pushed to devices.
type managedFile struct {
	APIEndpoint    string `toml:"api_endpoint"`
	APIKey         string `toml:"api_key"`
	APIEncoding    string `toml:"api_encoding"`
	GoogleClientID string `toml:"google_client_id"`
}

// Overrides are values supplied on the command line. Empty fields are ignored.
type Overrides struct {
	ConfigPath  string
	EnvFile     string
	APIEndpoint string
	APIKey      string
	Encoding    string
}

// DefaultConfigPath returns "$XDG_CONFIG_HOME/spot-cli/config.toml" or equivalent.
func DefaultConfigPath() string {
	dir, err := userConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, serviceName, "config.toml")
}

// LoadManaged reads the managed config file at path. A missing file yields a
// zero config, not an error.
func LoadManaged(path string) (APIConfig, error) {
	var cfg APIConfig
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var raw managedFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	enc, err := ParseEncoding(raw.APIEncoding)
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(raw.APIEndpoint)
	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	cfg.Encoding = enc
	cfg.GoogleClientID = strings.TrimSpace(raw.GoogleClientID)
	return cfg, nil
}

// Resolve builds the API config from the managed file, an optional .env file,
// the environment and finally the overrides, each layer winning over the last.
// The access token is not resolved here; it comes from the keychain.
func Resolve(o Overrides) (APIConfig, error) {
	path := o.ConfigPath
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := LoadManaged(path)
	if err != nil {
		return APIConfig{}, err
	}

	if o.EnvFile != "" {
		vars, err := godotenv.Read(o.EnvFile)
		if err != nil {
			return APIConfig{}, fmt.Errorf("failed to read env file %q: %w", o.EnvFile, err)
		}
		if err := applyVars(&cfg, vars); err != nil {
			return APIConfig{}, err
		}
	}

	env := map[string]string{
		EnvAPIEndpoint: os.Getenv(EnvAPIEndpoint),
		EnvAPIKey:      os.Getenv(EnvAPIKey),
		EnvAPIEncoding: os.Getenv(EnvAPIEncoding),
		EnvAccessToken: os.Getenv(EnvAccessToken),
	}
	if err := applyVars(&cfg, env); err != nil {
		return APIConfig{}, err
	}

	if v := strings.TrimSpace(o.APIEndpoint); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(o.APIKey); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(o.Encoding); v != "" {
		enc, err := ParseEncoding(v)
		if err != nil {
			return APIConfig{}, err
		}
		cfg.Encoding = enc
	}
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingURL
	}

	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)
	return cfg, nil
}

func applyVars(cfg *APIConfig, vars map[string]string) error {
	if v := strings.TrimSpace(vars[EnvAPIEndpoint]); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(vars[EnvAPIKey]); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(vars[EnvAccessToken]); v != "" {
		cfg.AccessToken = v
	}
	if v := strings.TrimSpace(vars[EnvAPIEncoding]); v != "" {
		enc, err := ParseEncoding(v)
		if err != nil {
			return err
		}
		cfg.Encoding = enc
	}
	return nil
}

// NormalizeBaseURL ensures a path-style endpoint ends in "/" so method names can
// be appended. Query-style endpoints ("...?method=") are returned as is.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" || strings.HasSuffix(baseURL, "/") || strings.Contains(baseURL, "?") {
		return baseURL
	}
	return baseURL + "/"
}

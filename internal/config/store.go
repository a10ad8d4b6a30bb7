package config

import (
	"fmt"
	"strings"
	"sync"
)

// Keys understood by Store.Get and Store.Set.
const (
	KeyAPIEndpoint    = "apiEndpoint"
	KeyAPIKey         = "apiKey"
	KeyAccessToken    = "apiAccessToken"
	KeyAPIEncoding    = "apiEncoding"
	KeyGoogleClientID = "googleClientId"
)

// Encoding selects how simple request parameters are sent.
type Encoding string

const (
	// EncodingURL sends parameters in the query string (GET) or a form body (POST).
	EncodingURL Encoding = "url"
	// EncodingJSON sends POST parameters as a JSON object.
	EncodingJSON Encoding = "json"
)

// ParseEncoding parses an encoding name. Empty input yields EncodingURL.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EncodingURL):
		return EncodingURL, nil
	case string(EncodingJSON):
		return EncodingJSON, nil
	default:
		return EncodingURL, fmt.Errorf("invalid encoding %q (use 'url' or 'json')", s)
	}
}

// APIConfig holds the values every Spot request is built from.
type APIConfig struct {
	BaseURL        string   `json:"base_url"`
	APIKey         string   `json:"api_key"`
	AccessToken    string   `json:"-"`
	Encoding       Encoding `json:"encoding"`
	GoogleClientID string   `json:"google_client_id,omitempty"`
}

// Store is the in-memory config store shared by a client and the login flow.
// The access token may change between requests; readers must not cache it.
type Store struct {
	mu  sync.RWMutex
	cfg APIConfig
}

// NewStore returns a Store seeded with cfg.
func NewStore(cfg APIConfig) *Store {
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingURL
	}
	return &Store{cfg: cfg}
}

// Get returns the value for key, or false when it is unset.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	switch key {
	case KeyAPIEndpoint:
		v = s.cfg.BaseURL
	case KeyAPIKey:
		v = s.cfg.APIKey
	case KeyAccessToken:
		v = s.cfg.AccessToken
	case KeyAPIEncoding:
		v = string(s.cfg.Encoding)
	case KeyGoogleClientID:
		v = s.cfg.GoogleClientID
	}
	return v, v != ""
}

// Set stores value under key. Unknown keys are ignored.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case KeyAPIEndpoint:
		s.cfg.BaseURL = value
	case KeyAPIKey:
		s.cfg.APIKey = value
	case KeyAccessToken:
		s.cfg.AccessToken = value
	case KeyAPIEncoding:
		s.cfg.Encoding = Encoding(value)
	case KeyGoogleClientID:
		s.cfg.GoogleClientID = value
	}
}

// SetAccessToken replaces the access token used by subsequent requests.
func (s *Store) SetAccessToken(token string) {
	s.Set(KeyAccessToken, token)
}

// ClearAccessToken drops the access token.
func (s *Store) ClearAccessToken() {
	s.Set(KeyAccessToken, "")
}

// Snapshot returns a copy of the current config.
func (s *Store) Snapshot() APIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

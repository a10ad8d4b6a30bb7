package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/cache"
	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/validation"
)

type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("spot-cli/%s", version),
	}
}

// resolve layers the managed config, --env-file, SPOT_* variables and the
// global flags.
func (f *clientFactory) resolve() (config.APIConfig, error) {
	return config.Resolve(config.Overrides{
		ConfigPath:  flags.ConfigFile,
		EnvFile:     flags.EnvFile,
		APIEndpoint: flags.APIEndpoint,
		APIKey:      flags.APIKey,
		Encoding:    flags.Encoding,
	})
}

// client builds an API client. With requireToken the stored access token
// must exist; otherwise a missing token just leaves auth_token off requests.
func (f *clientFactory) client(requireToken bool) (*api.Client, error) {
	cfg, err := f.resolve()
	if err != nil {
		return nil, &api.ConfigurationError{Reason: err.Error()}
	}
	if cfg.BaseURL != "" {
		if err := validation.ValidateEndpointURL(cfg.BaseURL); err != nil {
			return nil, &api.ConfigurationError{Field: "api endpoint", Reason: err.Error()}
		}
	}

	if cfg.AccessToken == "" {
		token, err := config.LoadToken(config.DefaultAccount)
		switch {
		case err == nil:
			cfg.AccessToken = token
		case requireToken:
			return nil, err
		case !errors.Is(err, config.ErrNotLoggedIn):
			slog.Debug("keychain unavailable", "error", err)
		}
	}

	client := api.New(config.NewStore(cfg))
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	return client, nil
}

// getClient creates an API client that signs requests when a token is stored.
func getClient() (*api.Client, error) {
	return newClientFactory().client(false)
}

// getLoginClient creates an API client for a token exchange. Any stored
// token is left off the request.
func getLoginClient() (*api.Client, error) {
	client, err := newClientFactory().client(false)
	if err != nil {
		return nil, err
	}
	client.Store.ClearAccessToken()
	return client, nil
}

// getAuthedClient creates an API client and fails when no token is stored.
func getAuthedClient() (*api.Client, error) {
	return newClientFactory().client(true)
}

// openCache returns the cache entry for key, scoped to the client's endpoint
// and signed-in user. Cache failures degrade to no caching.
func openCache(client *api.Client, key string) cache.Cache {
	cfg := client.Store.Snapshot()
	c, err := cache.Open(key, cfg.BaseURL, cfg.AccessToken)
	if err != nil {
		slog.Debug("cache unavailable", "key", key, "error", err)
		return nil
	}
	return c
}

// signOut forgets the rejected token: keychain, in-memory store and the
// caches scoped to it.
func signOut(ctx context.Context, client *api.Client) {
	for _, key := range []string{cacheKeyProfile, cacheKeyAlbums} {
		if c := openCache(client, key); c != nil {
			c.Clear()
		}
	}
	client.Store.ClearAccessToken()
	if err := config.DeleteToken(config.DefaultAccount); err != nil {
		slog.DebugContext(ctx, "failed to delete token", "error", err)
	}
}

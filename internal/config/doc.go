// Package config resolves Spot API settings and stores the access token.
//
// Settings come from the managed config file, an optional .env file, the
// environment and command-line overrides. The access token lives in the OS
// keychain and is loaded into a Store shared with the API client.
package config

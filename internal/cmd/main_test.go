package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/thinkglobalschool/spot-cli/internal/config"
)

func TestMain(m *testing.M) {
	// Keep a developer's SPOT_OUTPUT or real keychain out of the tests.
	_ = os.Setenv(envOutput, "text")

	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}

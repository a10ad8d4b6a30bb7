package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"golang.org/x/term"
)

const (
	envKeyringBackend  = "SPOT_KEYRING_BACKEND"
	envKeyringPassword = "SPOT_KEYRING_PASSWORD"
	envCredentialsDir  = "SPOT_CREDENTIALS_DIR"
)

// backend is the keychain selection requested through SPOT_KEYRING_BACKEND.
type backend string

const (
	backendAuto   backend = "auto"
	backendFile   backend = "file"
	backendSystem backend = "system"
)

// backendFromEnv reads SPOT_KEYRING_BACKEND. Unknown values mean auto.
func backendFromEnv() backend {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case "file":
		return backendFile
	case "system", "os", "native":
		return backendSystem
	default:
		return backendAuto
	}
}

// forcesFile reports whether b must use the encrypted file backend. Auto does
// so on Linux without a session bus, where no secret service can answer.
func (b backend) forcesFile(goos, dbusAddr string) bool {
	switch b {
	case backendFile:
		return true
	case backendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	default:
		return false
	}
}

// openKeyring is replaced in tests through SetOpenKeyring.
var openKeyring = keyring.Open

var userConfigDir = os.UserConfigDir

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// SetOpenKeyring replaces the keyring opener and returns a func restoring it.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

func keyringConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}

	b := backendFromEnv()
	if b == backendSystem {
		return cfg
	}
	// auto keeps the file backend configured so keyring.Open can fall back to it
	cfg.FileDir = credentialsDir()
	cfg.FilePasswordFunc = filePassword
	if b.forcesFile(runtime.GOOS, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

// credentialsDir is SPOT_CREDENTIALS_DIR/keyring, else
// <user config dir>/spot-cli/keyring, else a temp dir.
func credentialsDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		} else {
			base = filepath.Join(os.TempDir(), serviceName)
		}
	}
	return filepath.Join(base, "keyring")
}

// filePassword unlocks the file backend from SPOT_KEYRING_PASSWORD, or by
// prompting when a terminal is attached.
func filePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinIsTerminal() {
		return "", fmt.Errorf("set %s to use the file keychain without a terminal", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

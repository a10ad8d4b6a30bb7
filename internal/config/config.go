package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "spot-cli"

// DefaultAccount is the keychain account the access token is stored under.
const DefaultAccount = "spotUser"

// ErrNotLoggedIn is returned when no access token is stored.
var ErrNotLoggedIn = errors.New("not logged in to Spot - run 'spot auth login' first")

// tokenRecord is the keychain item payload.
type tokenRecord struct {
	Token string `json:"spot_access_token"`
}

func accountKey(account string) string {
	if account = strings.TrimSpace(account); account != "" {
		return account
	}
	return DefaultAccount
}

func withKeyring(fn func(keyring.Keyring) error) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("open keychain: %w", err)
	}
	return fn(ring)
}

// SaveToken stores the access token for account in the OS keychain.
func SaveToken(account, token string) error {
	data, err := json.Marshal(tokenRecord{Token: token})
	if err != nil {
		return err
	}
	return withKeyring(func(ring keyring.Keyring) error {
		err := ring.Set(keyring.Item{
			Key:   accountKey(account),
			Label: serviceName + " access token",
			Data:  data,
		})
		if err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		return nil
	})
}

// LoadToken returns the access token for account, or ErrNotLoggedIn.
func LoadToken(account string) (string, error) {
	var rec tokenRecord
	err := withKeyring(func(ring keyring.Keyring) error {
		item, err := ring.Get(accountKey(account))
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotLoggedIn
		}
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if err := json.Unmarshal(item.Data, &rec); err != nil {
			return fmt.Errorf("decode token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if rec.Token == "" {
		return "", ErrNotLoggedIn
	}
	return rec.Token, nil
}

// DeleteToken removes the access token for account. A missing token is not
// an error.
func DeleteToken(account string) error {
	return withKeyring(func(ring keyring.Keyring) error {
		err := ring.Remove(accountKey(account))
		if err == nil || errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove token: %w", err)
	})
}

// HasToken reports whether an access token is stored for account.
func HasToken(account string) bool {
	_, err := LoadToken(account)
	return err == nil
}

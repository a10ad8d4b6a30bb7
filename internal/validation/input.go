package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Input limits
const (
	MaxUsernameLength = 128
	MaxEmailLength    = 320 // RFC 5321
	MaxTitleLength    = 255
	MaxURLLength      = 2048
)

// ValidateUsername requires a non-blank username within MaxUsernameLength.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if n := utf8.RuneCountInString(username); n > MaxUsernameLength {
		return fmt.Errorf("username exceeds maximum length of %d characters (got %d)", MaxUsernameLength, n)
	}
	return nil
}

// ValidateEmailFormat validates a required email address.
func ValidateEmailFormat(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// ValidateWireText checks a wire post is non-empty. Length is left to Spot.
func ValidateWireText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("wire text is required")
	}
	return nil
}

// ValidateTitle checks an optional title length.
func ValidateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters (got %d)", MaxTitleLength, n)
	}
	return nil
}

// TruncateTitle shortens a derived title to MaxTitleLength runes.
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	return strings.TrimSpace(string([]rune(title)[:MaxTitleLength]))
}

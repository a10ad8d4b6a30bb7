// Package outfmt renders command results as text or JSON.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/thinkglobalschool/spot-cli/internal/filter"
)

// Mode is an output format.
type Mode string

const (
	Text Mode = "text"
	JSON Mode = "json"
)

func (m Mode) String() string { return string(m) }

// Parse parses an output mode name; empty means Text.
func Parse(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", Text:
		return Text, nil
	case JSON:
		return JSON, nil
	default:
		return Text, fmt.Errorf("invalid output format: %q (use 'text' or 'json')", s)
	}
}

// settings is what a command's context carries about output.
type settings struct {
	mode  Mode
	query string
}

type contextKey struct{}

func fromContext(ctx context.Context) settings {
	if s, ok := ctx.Value(contextKey{}).(settings); ok {
		return s
	}
	return settings{mode: Text}
}

// WithMode sets the output mode, keeping any query already set.
func WithMode(ctx context.Context, mode Mode) context.Context {
	s := fromContext(ctx)
	s.mode = mode
	return context.WithValue(ctx, contextKey{}, s)
}

// WithQuery sets the jq expression applied to JSON output.
func WithQuery(ctx context.Context, query string) context.Context {
	s := fromContext(ctx)
	s.query = query
	return context.WithValue(ctx, contextKey{}, s)
}

func ModeFromContext(ctx context.Context) Mode { return fromContext(ctx).mode }

func GetQuery(ctx context.Context) string { return fromContext(ctx).query }

func IsJSON(ctx context.Context) bool { return ModeFromContext(ctx) == JSON }

// WriteJSON writes v indented by two spaces, newline terminated.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFiltered writes v as JSON after applying query, if any. v is
// round-tripped through JSON first so the filter sees plain maps and slices.
func WriteJSONFiltered(w io.Writer, v any, query string) error {
	if strings.TrimSpace(query) == "" {
		return WriteJSON(w, v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	result, err := filter.ApplyFromJSON(data, query)
	if err != nil {
		return err
	}
	return WriteJSON(w, result)
}

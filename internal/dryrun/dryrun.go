// Package dryrun previews Spot posts without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/debug"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview is a request that would have been sent.
type Preview struct {
	Method     api.Method        `json:"method"`
	HTTPMethod string            `json:"http_method"`
	URL        string            `json:"url"`
	Params     map[string]string `json:"params"`
	Files      []string          `json:"files,omitempty"`
}

// FromRequest builds a preview of req with credentials masked.
func FromRequest(req *api.Request, files ...string) *Preview {
	return &Preview{
		Method:     req.Method,
		HTTPMethod: req.HTTPMethod,
		URL:        req.URL,
		Params:     debug.Redact(req.Params, api.ParamAPIKey, api.ParamAuthToken, "password"),
		Files:      files,
	}
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s %s\n", p.HTTPMethod, p.URL)

	keys := make([]string, 0, len(p.Params))
	for k := range p.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Params[k])
	}
	for _, f := range p.Files {
		_, _ = fmt.Fprintf(w, "  file: %s\n", f)
	}
}

// WriteAll outputs several previews followed by a closing note.
func WriteAll(w io.Writer, previews []*Preview) {
	for _, p := range previews {
		p.Write(w)
	}
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// Package cmd provides test utilities for the spot CLI commands.
//
// Commands run against an httptest server standing in for Spot. Each route is
// registered by HTTP method and path; Spot paths are "/api/<method name>":
//
//	handler := newRouteHandler().
//	    On("GET", "/api/user.get_profile", spotResponse(`{"status":0,"result":{"name":"Jeff"}}`))
//	env := setupTestEnvWithHandler(t, handler)
//	env.login(t, "tok")
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"profile", "-o", "json"}); err != nil {
//	        t.Fatalf("profile failed: %v", err)
//	    }
//	})
//
// Requests the server saw are available from handler.Requests(), with
// parameters decoded from the query string, a form body, a JSON body or a
// multipart body alike.
package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/thinkglobalschool/spot-cli/internal/config"
)

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

// withStdin replaces os.Stdin with input for the duration of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(input), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = old
		_ = f.Close()
	})
}

// testEnv gives access to the fake Spot server and the test keyring.
type testEnv struct {
	server *httptest.Server
	ring   keyring.Keyring
	home   string
}

// setupTestEnvWithHandler starts handler as the Spot API and points the CLI at it.
//
// The function:
//   - sets SPOT_API_ENDPOINT to "<server>/api/" and SPOT_API_KEY to "test-key"
//   - allows the loopback endpoint via SPOT_ALLOW_PRIVATE
//   - isolates config, cache and keychain in a temp dir and an in-memory keyring
//   - restores everything on cleanup
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv(config.EnvConfigFile, filepath.Join(home, "missing.toml"))
	t.Setenv(config.EnvAPIEndpoint, server.URL+"/api/")
	t.Setenv(config.EnvAPIKey, "test-key")
	t.Setenv(config.EnvAPIEncoding, "")
	t.Setenv(config.EnvAccessToken, "")
	t.Setenv("SPOT_ALLOW_PRIVATE", "1")
	t.Setenv("SPOT_NO_CACHE", "")
	t.Setenv("SPOT_CACHE_REDIS_URL", "")
	t.Setenv(envOutput, "text")

	ring := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)

	return &testEnv{server: server, ring: ring, home: home}
}

// login stores token in the test keychain.
func (e *testEnv) login(t *testing.T, token string) {
	t.Helper()
	if err := config.SaveToken(config.DefaultAccount, token); err != nil {
		t.Fatalf("save token: %v", err)
	}
}

// storedToken returns the token in the test keychain, or "".
func (e *testEnv) storedToken() string {
	token, _ := config.LoadToken(config.DefaultAccount)
	return token
}

// spotResponse returns a handler answering 200 with a Spot envelope body.
func spotResponse(body string) http.HandlerFunc {
	return jsonResponse(http.StatusOK, body)
}

// jsonResponse creates an http.HandlerFunc that returns a JSON response with the given status and body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// capturedRequest is one request the fake server received.
type capturedRequest struct {
	Method string
	Path   string
	Params url.Values
	Files  []string
}

// routeHandler routes requests by "METHOD PATH" and records what it saw.
// Unknown routes get 404.
type routeHandler struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []capturedRequest
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for the given HTTP method and path.
func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

// Requests returns a copy of the recorded requests.
func (rh *routeHandler) Requests() []capturedRequest {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return append([]capturedRequest(nil), rh.requests...)
}

// RequestsTo returns the recorded requests for one path.
func (rh *routeHandler) RequestsTo(path string) []capturedRequest {
	var out []capturedRequest
	for _, r := range rh.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	captured := capturedRequest{Method: r.Method, Path: r.URL.Path, Params: url.Values{}}
	for k, v := range r.URL.Query() {
		captured.Params[k] = v
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				captured.Params[k] = v
			}
			for _, headers := range r.MultipartForm.File {
				for _, h := range headers {
					captured.Files = append(captured.Files, h.Filename)
				}
			}
		}
	case "application/json":
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for k, v := range body {
				captured.Params.Set(k, v)
			}
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err == nil {
			for k, v := range r.PostForm {
				captured.Params[k] = v
			}
		}
	}

	rh.mu.Lock()
	rh.requests = append(rh.requests, captured)
	rh.mu.Unlock()

	if handler, ok := rh.routes[r.Method+" "+r.URL.Path]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}

// decodeJSON unmarshals command output into v, failing the test on error.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
}

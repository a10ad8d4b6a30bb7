package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/debug"
	"github.com/thinkglobalschool/spot-cli/internal/formdata"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "spot-cli"

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 10 << 20
)

// Parameters injected into every request.
const (
	ParamAPIKey    = "api_key"
	ParamAuthToken = "auth_token"
)

// redactedParams are masked in debug logs.
var redactedParams = []string{ParamAPIKey, ParamAuthToken, "password"}

// Client is the Spot API client.
//
// The client reads the endpoint, API key and access token from its Store at
// the start of every Build, so a token set after login applies to the next
// request without recreating the client. Nothing is retried.
type Client struct {
	Store     *config.Store
	HTTP      *http.Client
	UserAgent string
}

// Compile-time interface implementation checks
var _ Requester = (*Client)(nil)

// New creates a new Spot API client reading its settings from store.
func New(store *config.Store) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	return &Client{
		Store:     store,
		UserAgent: DefaultUserAgent,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// Build composes the request for method. The base parameters api_key and,
// when a token is stored, auth_token are merged with extra; extra wins on
// collision. Build performs no I/O.
func (c *Client) Build(method Method, extra map[string]string) (*Request, error) {
	if !method.Valid() {
		return nil, &ConfigurationError{Field: "method", Reason: fmt.Sprintf("%q is not a known Spot method", method)}
	}
	if c.Store == nil {
		return nil, &ConfigurationError{Reason: "no configuration loaded"}
	}

	cfg := c.Store.Snapshot()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, &ConfigurationError{Field: "api endpoint", Reason: "is not set"}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigurationError{Field: "api key", Reason: "is not set"}
	}

	params := make(map[string]string, len(extra)+2)
	params[ParamAPIKey] = cfg.APIKey
	if cfg.AccessToken != "" {
		params[ParamAuthToken] = cfg.AccessToken
	}
	for k, v := range extra {
		params[k] = v
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = config.EncodingURL
	}

	return &Request{
		HTTPMethod: method.HTTPMethod(),
		Method:     method,
		URL:        cfg.BaseURL + method.String(),
		Params:     params,
		Encoding:   encoding,
	}, nil
}

// SendSimple performs req and parses the response envelope. GET parameters
// go in the query string; POST parameters go in a form body, or a JSON body
// when the request uses JSON encoding. The envelope status is not checked.
func (c *Client) SendSimple(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}

	target := req.URL
	var body []byte
	var contentType string

	switch {
	case req.HTTPMethod == http.MethodGet:
		u, err := withQuery(req.URL, req.Params)
		if err != nil {
			return nil, &ConfigurationError{Field: "api endpoint", Reason: err.Error()}
		}
		target = u
	case req.Encoding == config.EncodingJSON:
		data, err := json.Marshal(req.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = data
		contentType = "application/json"
	default:
		body = []byte(formValues(req.Params).Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	return c.execute(ctx, req, req.HTTPMethod, target, body, contentType)
}

// SendMultipart posts body to the request URL. The request parameters are
// expected to already be encoded in body as form fields.
func (c *Client) SendMultipart(ctx context.Context, req *Request, body *formdata.Body) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if body == nil {
		return nil, errors.New("nil multipart body")
	}
	return c.execute(ctx, req, http.MethodPost, req.URL, body.Data, body.ContentType())
}

// call builds and sends a simple request and turns a failing envelope into
// an APIError.
func (c *Client) call(ctx context.Context, method Method, extra map[string]string) (*Response, error) {
	req, err := c.Build(method, extra)
	if err != nil {
		return nil, err
	}
	resp, err := c.SendSimple(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, &APIError{Method: method, Status: resp.Status, Message: resp.Message}
	}
	return resp, nil
}

func (c *Client) execute(ctx context.Context, req *Request, httpMethod, target string, body []byte, contentType string) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, httpMethod, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method, "url", req.URL, "error", err)
		}
		return nil, newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Code: TransportFailed, Description: "failed to read response", Err: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete",
			"method", req.Method,
			"http_method", httpMethod,
			"url", req.URL,
			"params", debug.Redact(req.Params, redactedParams...),
			"status", resp.StatusCode,
			"bytes", len(respBody),
			"duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Code:        TransportHTTPStatus,
			Description: fmt.Sprintf("server answered %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			StatusCode:  resp.StatusCode,
		}
	}

	var envelope Response
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &TransportError{
			Code:        TransportBadResponse,
			Description: "response is not a Spot API envelope",
			StatusCode:  resp.StatusCode,
			Err:         err,
		}
	}
	return &envelope, nil
}

func formValues(params map[string]string) url.Values {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return values
}

// withQuery adds params to the query of rawURL, keeping any query the
// endpoint already has.
func withQuery(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

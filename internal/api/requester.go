package api

import (
	"context"

	"github.com/thinkglobalschool/spot-cli/internal/formdata"
)

// RequestBuilder composes requests without performing I/O.
type RequestBuilder interface {
	Build(method Method, extra map[string]string) (*Request, error)
}

// Transport executes built requests and parses the response envelope.
// Implementations perform exactly one HTTP call per invocation.
type Transport interface {
	SendSimple(ctx context.Context, req *Request) (*Response, error)
	SendMultipart(ctx context.Context, req *Request, body *formdata.Body) (*Response, error)
}

// Requester combines RequestBuilder and Transport. Services depend on it so
// tests can swap either half.
type Requester interface {
	RequestBuilder
	Transport
}

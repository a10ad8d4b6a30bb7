package api

import "context"

// Ping checks that the endpoint answers with a valid envelope.
func (s UtilService) Ping(ctx context.Context) (*Response, error) {
	return s.call(ctx, MethodPing, nil)
}

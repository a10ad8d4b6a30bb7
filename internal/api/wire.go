package api

import "context"

// Post publishes a short text post to the wire.
func (s WireService) Post(ctx context.Context, text string) (*Response, error) {
	return s.call(ctx, MethodWirePost, map[string]string{"text": text})
}

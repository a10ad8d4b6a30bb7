package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// List lists the signed-in user's photo albums. Unlike other methods,
// albums.list only succeeds with status 0.
func (s AlbumsService) List(ctx context.Context) ([]Album, error) {
	req, err := s.Build(MethodAlbumsList, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.SendSimple(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status != 0 {
		return nil, &APIError{Method: MethodAlbumsList, Status: resp.Status, Message: resp.Message}
	}

	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return []Album{}, nil
	}
	var albums []Album
	if err := json.Unmarshal(resp.Result, &albums); err != nil {
		return nil, fmt.Errorf("unexpected albums format: %w", err)
	}
	return albums, nil
}

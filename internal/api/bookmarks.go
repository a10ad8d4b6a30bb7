package api

import "context"

// BookmarkPost is a bookmark to share.
type BookmarkPost struct {
	Title       string
	URL         string
	Description string
	Tags        []string
}

// Params returns the bookmark.post parameters for b.
func (b BookmarkPost) Params() map[string]string {
	params := map[string]string{
		"title": b.Title,
		"url":   b.URL,
	}
	if b.Description != "" {
		params["description"] = b.Description
	}
	if len(b.Tags) > 0 {
		params["tags"] = JoinTags(b.Tags)
	}
	return params
}

// Post shares a bookmark.
func (s BookmarksService) Post(ctx context.Context, b BookmarkPost) (*Response, error) {
	return s.call(ctx, MethodBookmarkPost, b.Params())
}

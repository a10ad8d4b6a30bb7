package api

import (
	"context"
	"strings"

	"github.com/thinkglobalschool/spot-cli/internal/formdata"
)

// PhotoUpload is one file of a photo batch.
type PhotoUpload struct {
	Batch       string
	Album       string
	Description string
	Tags        string
	File        formdata.File
}

// Fields returns the form fields sent alongside the file.
func (u PhotoUpload) Fields() map[string]string {
	album := u.Album
	if album == "" {
		album = NoAlbum
	}
	return map[string]string{
		"batch":       u.Batch,
		"album":       album,
		"description": u.Description,
		"tags":        u.Tags,
	}
}

// Upload sends one file of a batch as multipart/form-data.
func (s PhotosService) Upload(ctx context.Context, up PhotoUpload) (*Response, error) {
	req, err := s.Build(MethodPhotosPost, up.Fields())
	if err != nil {
		return nil, err
	}
	body, err := formdata.Encode(req.Params, []formdata.File{up.File})
	if err != nil {
		return nil, err
	}
	resp, err := s.SendMultipart(ctx, req, body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, &APIError{Method: MethodPhotosPost, Status: resp.Status, Message: resp.Message}
	}
	return resp, nil
}

// Finalize closes a batch once every upload in it has succeeded.
func (s PhotosService) Finalize(ctx context.Context, batch, album string) (*Response, error) {
	if album == "" {
		album = NoAlbum
	}
	return s.call(ctx, MethodPhotosFinalize, map[string]string{
		"batch": batch,
		"album": album,
	})
}

// JoinTags joins tags the way Spot expects them, separated by ", ".
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ", ")
}

// SplitTags parses a comma separated tag list.
func SplitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Package formdata encodes multipart/form-data bodies for Spot photo uploads.
package formdata

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FileField is the form field name Spot expects attachments under.
const FileField = "file"

const maxBoundaryAttempts = 8

// newBoundary is replaceable in tests.
var newBoundary = func() string {
	return "spot-" + uuid.NewString()
}

// File is one attachment.
type File struct {
	Field       string // defaults to FileField
	Filename    string
	ContentType string
	Data        []byte
}

// Body is an encoded multipart payload.
type Body struct {
	Data     []byte
	Boundary string
}

// ContentType returns the header value matching the body's boundary.
func (b *Body) ContentType() string {
	return "multipart/form-data; boundary=" + b.Boundary
}

// AttachmentUnreadableError reports a local attachment that could not be read.
type AttachmentUnreadableError struct {
	Path string
	Err  error
}

func (e *AttachmentUnreadableError) Error() string {
	return fmt.Sprintf("attachment %q is unreadable: %v", e.Path, e.Err)
}

func (e *AttachmentUnreadableError) Unwrap() error {
	return e.Err
}

// IsAttachmentUnreadable reports whether err is an AttachmentUnreadableError.
func IsAttachmentUnreadable(err error) bool {
	var e *AttachmentUnreadableError
	return errors.As(err, &e)
}

// ReadFile loads an attachment from disk.
func ReadFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, &AttachmentUnreadableError{Path: path, Err: err}
	}
	if info.IsDir() {
		return File{}, &AttachmentUnreadableError{Path: path, Err: errors.New("is a directory")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, &AttachmentUnreadableError{Path: path, Err: err}
	}
	name := filepath.Base(path)
	return File{
		Field:       FileField,
		Filename:    name,
		ContentType: ContentTypeFor(name),
		Data:        data,
	}, nil
}

// ContentTypeFor guesses a content type from the filename extension.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "image/" + strings.TrimPrefix(ext, ".")
}

// Encode writes every file, in order, followed by the fields sorted by key and
// a closing boundary. The boundary is random and never occurs in any part.
func Encode(fields map[string]string, files []File) (*Body, error) {
	boundary, err := pickBoundary(fields, files)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	if err := writer.SetBoundary(boundary); err != nil {
		return nil, fmt.Errorf("failed to set boundary: %w", err)
	}

	for _, f := range files {
		field := f.Field
		if field == "" {
			field = FileField
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = ContentTypeFor(f.Filename)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(f.Filename)))
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %s: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write file content %s: %w", f.Filename, err)
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writer.WriteField(k, fields[k]); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &Body{Data: buf.Bytes(), Boundary: boundary}, nil
}

func pickBoundary(fields map[string]string, files []File) (string, error) {
	for i := 0; i < maxBoundaryAttempts; i++ {
		b := newBoundary()
		if !collides(b, fields, files) {
			return b, nil
		}
	}
	return "", errors.New("could not pick a multipart boundary absent from the content")
}

func collides(boundary string, fields map[string]string, files []File) bool {
	marker := []byte(boundary)
	for _, f := range files {
		if bytes.Contains(f.Data, marker) || strings.Contains(f.Filename, boundary) {
			return true
		}
	}
	for k, v := range fields {
		if strings.Contains(k, boundary) || strings.Contains(v, boundary) {
			return true
		}
	}
	return false
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

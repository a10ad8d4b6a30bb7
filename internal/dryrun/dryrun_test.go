package dryrun

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/debug"
)

func TestWithDryRun(t *testing.T) {
	assert.False(t, IsEnabled(context.Background()))
	assert.True(t, IsEnabled(WithDryRun(context.Background(), true)))
	assert.False(t, IsEnabled(WithDryRun(context.Background(), false)))
}

func TestFromRequestMasksCredentials(t *testing.T) {
	req := &api.Request{
		HTTPMethod: "POST",
		Method:     api.MethodWirePost,
		URL:        "https://spot.example.com/api/thewire.post",
		Params: map[string]string{
			api.ParamAPIKey:    "key",
			api.ParamAuthToken: "tok",
			"text":             "hello",
		},
	}

	p := FromRequest(req)

	assert.Equal(t, debug.RedactedValue, p.Params[api.ParamAPIKey])
	assert.Equal(t, debug.RedactedValue, p.Params[api.ParamAuthToken])
	assert.Equal(t, "hello", p.Params["text"])
	assert.Equal(t, "tok", req.Params[api.ParamAuthToken], "request is not modified")
}

func TestWriteAll(t *testing.T) {
	p := &Preview{
		HTTPMethod: "POST",
		URL:        "https://spot.example.com/api/photos.post",
		Params:     map[string]string{"batch": "1", "album": "0"},
		Files:      []string{"a.jpg"},
	}

	var buf bytes.Buffer
	WriteAll(&buf, []*Preview{p})

	want := "[DRY-RUN] Would POST https://spot.example.com/api/photos.post\n" +
		"  album: 0\n" +
		"  batch: 1\n" +
		"  file: a.jpg\n" +
		"No changes made (dry-run mode)\n"
	assert.Equal(t, want, buf.String())
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/formdata"
	"github.com/thinkglobalschool/spot-cli/internal/upload"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"handled", &handledError{err: errors.New("x"), exitCode: exitAPI}, exitAPI},
		{"handled without code", &handledError{err: config.ErrNotLoggedIn}, exitAuth},
		{"not logged in", fmt.Errorf("wrap: %w", config.ErrNotLoggedIn), exitAuth},
		{"signed out", &api.APIError{Method: api.MethodGetProfile, Status: api.StatusSignedOut}, exitAuth},
		{"rejected", &api.APIError{Method: api.MethodWirePost, Status: -1}, exitAPI},
		{"configuration", &api.ConfigurationError{Field: "api key", Reason: "is not set"}, exitConfig},
		{"unreachable", &api.TransportError{Code: api.TransportUnreachable}, exitNetwork},
		{"timeout", &api.TransportError{Code: api.TransportTimeout}, exitNetwork},
		{"http status", &api.TransportError{Code: api.TransportHTTPStatus, StatusCode: 502}, exitNetwork},
		{"attachment", &formdata.AttachmentUnreadableError{Path: "a.jpg", Err: os.ErrNotExist}, exitUsage},
		{"no attachments", upload.ErrNoAttachments, exitUsage},
		{"upload wraps api error", &upload.UploadError{Filename: "a.jpg", Err: &api.APIError{Method: api.MethodPhotosPost, Status: -1}}, exitAPI},
		{"unknown command", errors.New(`unknown command "foo" for "spot"`), exitUsage},
		{"missing args", errors.New("requires at least 1 arg(s), only received 0"), exitUsage},
		{"generic", errors.New("boom"), exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

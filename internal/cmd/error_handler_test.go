package cmd

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/formdata"
	"github.com/thinkglobalschool/spot-cli/internal/upload"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{"nil", nil, nil},
		{"not logged in", config.ErrNotLoggedIn, []string{"Not logged in", "spot auth login", "SPOT_ACCESS_TOKEN"}},
		{
			"configuration",
			&api.ConfigurationError{Field: "api endpoint", Reason: "is not set"},
			[]string{"Configuration error: api endpoint is not set", "SPOT_API_ENDPOINT"},
		},
		{
			"attachment",
			&formdata.AttachmentUnreadableError{Path: "beach.jpg", Err: os.ErrNotExist},
			[]string{"Cannot read attachment beach.jpg", "Nothing was uploaded"},
		},
		{
			"upload",
			&upload.UploadError{Batch: "1700000000", Filename: "a.jpg", Err: errors.New("boom")},
			[]string{"Upload of a.jpg failed", "not finalized"},
		},
		{
			"finalize",
			&upload.FinalizeError{Batch: "1700000000", Err: errors.New("boom")},
			[]string{"batch 1700000000 could not be finalized"},
		},
		{
			"signed out",
			&api.APIError{Method: api.MethodGetProfile, Status: api.StatusSignedOut, Message: "bad token"},
			[]string{"signed out", "spot auth login"},
		},
		{
			"rejected",
			&api.APIError{Method: api.MethodWirePost, Status: -1, Message: "Wire post failed"},
			[]string{"Spot rejected thewire.post (status -1): Wire post failed"},
		},
		{
			"timeout",
			&api.TransportError{Code: api.TransportTimeout, Description: "request timed out"},
			[]string{"request timed out", "--timeout"},
		},
		{
			"bad response",
			&api.TransportError{Code: api.TransportHTTPStatus, Description: "HTTP 502", StatusCode: 502},
			[]string{"HTTP 502", "spot config show", "--debug"},
		},
		{
			"unreachable",
			&api.TransportError{Code: api.TransportUnreachable, Description: "connection refused"},
			[]string{"connection refused", "spot ping"},
		},
		{"no attachments", upload.ErrNoAttachments, []string{"No photos given"}},
		{"generic", errors.New("boom"), []string{"Error: boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)
			if tt.contains == nil {
				assert.Empty(t, got)
				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/formdata"
	"github.com/thinkglobalschool/spot-cli/internal/upload"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var cfgErr *api.ConfigurationError
	var apiErr *api.APIError
	var tErr *api.TransportError
	var upErr *upload.UploadError
	var finErr *upload.FinalizeError
	var attErr *formdata.AttachmentUnreadableError

	switch {
	case errors.Is(err, config.ErrNotLoggedIn):
		msg.WriteString("Not logged in.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: spot auth login --username <name>\n")
		msg.WriteString("  - Or set SPOT_ACCESS_TOKEN\n")

	case errors.As(err, &cfgErr):
		fmt.Fprintf(&msg, "Configuration error: %s\n\n", strings.TrimPrefix(cfgErr.Error(), "configuration error: "))
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Set SPOT_API_ENDPOINT and SPOT_API_KEY, or pass --api-endpoint and --api-key\n")
		msg.WriteString("  - Check the managed config: spot config show\n")

	case errors.As(err, &attErr):
		fmt.Fprintf(&msg, "Cannot read attachment %s: %v\n\n", attErr.Path, attErr.Err)
		msg.WriteString("Nothing was uploaded.\n")

	case errors.As(err, &upErr):
		fmt.Fprintf(&msg, "Upload of %s failed: %v\n\n", upErr.Filename, upErr.Err)
		msg.WriteString("The batch was not finalized; post all photos again.\n")

	case errors.As(err, &finErr):
		fmt.Fprintf(&msg, "Photos were uploaded but batch %s could not be finalized: %v\n", finErr.Batch, finErr.Err)

	case errors.As(err, &apiErr) && apiErr.SignOut():
		msg.WriteString("Incorrect login credentials: you have been signed out.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: spot auth login\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "Spot rejected %s (status %d): %s\n", apiErr.Method, apiErr.Status, apiErr.Message)

	case errors.As(err, &tErr):
		fmt.Fprintf(&msg, "%s\n\n", tErr.Error())
		msg.WriteString("Suggestions:\n")
		switch tErr.Code {
		case api.TransportTimeout:
			msg.WriteString("  - Retry, or raise --timeout\n")
		case api.TransportHTTPStatus, api.TransportBadResponse:
			msg.WriteString("  - Check that the API endpoint points at a Spot server: spot config show\n")
			msg.WriteString("  - Use --debug to see the request\n")
		default:
			msg.WriteString("  - Check your network connection\n")
			msg.WriteString("  - Verify the endpoint: spot ping\n")
		}

	case errors.Is(err, upload.ErrNoAttachments):
		msg.WriteString("No photos given.\n\nUsage: spot photos post <file>...\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

package cmd

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/dryrun"
	"github.com/thinkglobalschool/spot-cli/internal/iocontext"
	"github.com/thinkglobalschool/spot-cli/internal/validation"
)

type postResult struct {
	Posted bool            `json:"posted"`
	Method api.Method      `json:"method"`
	Result json.RawMessage `json:"result,omitempty"`
}

func newWireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wire [text...]",
		Short: "Post a status update to the wire",
		Long:  "Post a short status update. With no arguments the text is read from stdin.",
		Example: strings.TrimSpace(`
  spot wire "Science fair starts at 10"
  echo "Field trip tomorrow" | spot wire
`),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				line, err := iocontext.GetIO(cmd.Context()).ReadLine("")
				if err != nil && !errors.Is(err, iocontext.ErrNoInput) {
					return err
				}
				text = strings.TrimSpace(line)
			}
			if err := validation.ValidateWireText(text); err != nil {
				return err
			}

			client, err := getAuthedClient()
			if err != nil {
				return err
			}
			if isDryRun(cmd) {
				req, err := client.Build(api.MethodWirePost, map[string]string{"text": text})
				if err != nil {
					return err
				}
				return writePreviews(cmd, dryrun.FromRequest(req))
			}
			resp, err := client.Wire().Post(cmd.Context(), text)
			if err != nil {
				if api.IsSignOutError(err) {
					signOut(cmd.Context(), client)
				}
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, postResult{Posted: true, Method: api.MethodWirePost, Result: resp.Result})
			}
			printText(cmd, "Posted to the wire")
			return nil
		}),
	}
}

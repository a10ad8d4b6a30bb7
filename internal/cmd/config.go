package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/config"
)

type configView struct {
	ConfigFile     string          `json:"config_file,omitempty"`
	Endpoint       string          `json:"endpoint"`
	APIKey         string          `json:"api_key"`
	Encoding       config.Encoding `json:"encoding"`
	GoogleClientID string          `json:"google_client_id,omitempty"`
	LoggedIn       bool            `json:"logged_in"`
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the settings requests are built from",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := newClientFactory().resolve()
			if err != nil {
				return err
			}

			path := flags.ConfigFile
			if path == "" {
				path = config.DefaultConfigPath()
			}
			view := configView{
				ConfigFile:     path,
				Endpoint:       cfg.BaseURL,
				APIKey:         maskSecret(cfg.APIKey),
				Encoding:       cfg.Encoding,
				GoogleClientID: cfg.GoogleClientID,
				LoggedIn:       cfg.AccessToken != "" || config.HasToken(config.DefaultAccount),
			}

			if isJSON(cmd) {
				return printJSON(cmd, view)
			}
			f := formatter(cmd)
			f.StartTable([]string{"SETTING", "VALUE"})
			f.Row("config file", view.ConfigFile)
			f.Row("api endpoint", displayEndpoint(view.Endpoint))
			f.Row("api key", view.APIKey)
			f.Row("encoding", string(view.Encoding))
			if view.GoogleClientID != "" {
				f.Row("google client id", view.GoogleClientID)
			}
			if view.LoggedIn {
				f.Row("logged in", "yes")
			} else {
				f.Row("logged in", "no")
			}
			return f.EndTable()
		}),
	}
}

// maskSecret keeps the last four characters of a secret.
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}

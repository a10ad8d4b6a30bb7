package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/config"
	"github.com/thinkglobalschool/spot-cli/internal/iocontext"
	"github.com/thinkglobalschool/spot-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to Spot and manage the stored access token",
		Long:  "Exchange credentials for a Spot access token, stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthGoogleCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

type loginResult struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Endpoint string `json:"endpoint"`
}

func newAuthLoginCmd() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Spot username and password",
		Long: strings.TrimSpace(`
Exchange a Spot username and password for an access token and save it to the
OS keychain. The password is prompted for when --password is not given; it is
read from stdin when stdin is not a terminal.
`),
		Example: strings.TrimSpace(`
  spot auth login --username jeff
  echo "$SPOT_PASSWORD" | spot auth login --username jeff
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ioStreams := iocontext.GetIO(cmd.Context())

			var err error
			if strings.TrimSpace(username) == "" {
				if username, err = ioStreams.ReadLine("Username: "); err != nil {
					return fmt.Errorf("--username is required: %w", err)
				}
			}
			if err := validation.ValidateUsername(username); err != nil {
				return err
			}
			if password == "" {
				if password, err = ioStreams.ReadSecret("Password: "); err != nil {
					return fmt.Errorf("--password is required: %w", err)
				}
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			client, err := getLoginClient()
			if err != nil {
				return err
			}
			token, err := client.Auth().Password(cmd.Context(), strings.TrimSpace(username), password)
			if err != nil {
				return err
			}
			if err := config.SaveToken(config.DefaultAccount, token); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, loginResult{
					LoggedIn: true,
					Username: strings.TrimSpace(username),
					Endpoint: client.Store.Snapshot().BaseURL,
				})
			}
			printText(cmd, "Logged in as %s", strings.TrimSpace(username))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Spot username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Spot password (prompted when omitted)")

	return cmd
}

func newAuthGoogleCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "google",
		Short: "Sign in with a Google account email",
		Long: strings.TrimSpace(`
Exchange a Google-verified email address for a Spot access token. Spot must
trust the email for the configured API key.
`),
		Example: "  spot auth google --email jeff@example.com",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateEmailFormat(email); err != nil {
				return err
			}
			email = strings.TrimSpace(email)

			client, err := getLoginClient()
			if err != nil {
				return err
			}
			token, err := client.Auth().ExternalToken(cmd.Context(), email)
			if err != nil {
				return err
			}
			if err := config.SaveToken(config.DefaultAccount, token); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, loginResult{
					LoggedIn: true,
					Email:    email,
					Endpoint: client.Store.Snapshot().BaseURL,
				})
			}
			printText(cmd, "Logged in as %s", email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Google account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

type authStatus struct {
	LoggedIn bool   `json:"logged_in"`
	Source   string `json:"source,omitempty"`
	Endpoint string `json:"endpoint"`
	Verified *bool  `json:"verified,omitempty"`
	Name     string `json:"name,omitempty"`
}

func newAuthStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether an access token is stored",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			factory := newClientFactory()
			cfg, err := factory.resolve()
			if err != nil {
				return err
			}

			status := authStatus{Endpoint: cfg.BaseURL}
			switch {
			case cfg.AccessToken != "":
				status.LoggedIn, status.Source = true, config.EnvAccessToken
			case config.HasToken(config.DefaultAccount):
				status.LoggedIn, status.Source = true, "keychain"
			}

			if check && status.LoggedIn {
				client, err := factory.client(true)
				if err != nil {
					return err
				}
				profile, err := client.Profile().Get(cmd.Context())
				verified := err == nil
				status.Verified = &verified
				switch {
				case err == nil:
					status.Name = profile.Name
				case api.IsSignOutError(err):
					signOut(cmd.Context(), client)
					status.LoggedIn = false
				default:
					return err
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, status)
			}
			if !status.LoggedIn {
				printText(cmd, "Not logged in (endpoint %s)", displayEndpoint(status.Endpoint))
				return nil
			}
			printText(cmd, "Logged in via %s (endpoint %s)", status.Source, displayEndpoint(status.Endpoint))
			if status.Name != "" {
				printText(cmd, "Signed in as %s", status.Name)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", false, "Verify the token against the server")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if client, err := getClient(); err == nil {
				signOut(cmd.Context(), client)
			} else if err := config.DeleteToken(config.DefaultAccount); err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]bool{"logged_in": false})
			}
			printText(cmd, "Logged out")
			return nil
		}),
	}
}

func displayEndpoint(endpoint string) string {
	if endpoint == "" {
		return "not configured"
	}
	return endpoint
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
)

const cacheKeyProfile = "profile"

func newProfileCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getAuthedClient()
			if err != nil {
				return err
			}

			profile, err := loadProfile(cmd, client, refresh)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, profile)
			}
			f := formatter(cmd)
			f.StartTable([]string{"FIELD", "VALUE"})
			f.Row("Name", profile.Name)
			f.Row("Username", profile.Username)
			f.Row("Email", profile.Email)
			if profile.Picture != "" {
				f.Row("Picture", profile.Picture)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the profile cache")

	return cmd
}

// loadProfile serves the profile from cache when possible. A sign-out answer
// drops the stored token.
func loadProfile(cmd *cobra.Command, client *api.Client, refresh bool) (*api.Profile, error) {
	c := openCache(client, cacheKeyProfile)
	if c != nil && !refresh {
		var cached api.Profile
		if c.Get(&cached) {
			return &cached, nil
		}
	}

	profile, err := client.Profile().Get(cmd.Context())
	if err != nil {
		if api.IsSignOutError(err) {
			signOut(cmd.Context(), client)
		}
		return nil, err
	}
	if c != nil {
		c.Put(profile)
	}
	return profile, nil
}

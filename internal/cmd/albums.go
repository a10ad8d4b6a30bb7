package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
)

const cacheKeyAlbums = "albums"

func newAlbumsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "albums",
		Aliases: []string{"album"},
		Short:   "Work with photo albums",
	}
	cmd.AddCommand(newAlbumsListCmd())
	return cmd
}

func newAlbumsListCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your photo albums",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getAuthedClient()
			if err != nil {
				return err
			}
			albums, err := loadAlbums(cmd, client, refresh)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, albums)
			}
			f := formatter(cmd)
			if len(albums) == 0 {
				f.Empty("No albums found")
				return nil
			}
			f.StartTable([]string{"GUID", "TITLE"})
			for _, a := range albums {
				f.Row(a.GUID, a.Title)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the album cache")

	return cmd
}

// loadAlbums serves the album list from cache when possible.
func loadAlbums(cmd *cobra.Command, client *api.Client, refresh bool) ([]api.Album, error) {
	c := openCache(client, cacheKeyAlbums)
	if c != nil && !refresh {
		var cached []api.Album
		if c.Get(&cached) {
			return cached, nil
		}
	}

	albums, err := client.Albums().List(cmd.Context())
	if err != nil {
		if api.IsSignOutError(err) {
			signOut(cmd.Context(), client)
		}
		return nil, err
	}
	if c != nil {
		c.Put(albums)
	}
	return albums, nil
}

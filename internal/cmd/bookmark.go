package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/dryrun"
	"github.com/thinkglobalschool/spot-cli/internal/pagetitle"
	"github.com/thinkglobalschool/spot-cli/internal/validation"
)

func newBookmarkCmd() *cobra.Command {
	var (
		title       string
		description string
		tags        []string
		noFetch     bool
	)

	cmd := &cobra.Command{
		Use:   "bookmark <url>",
		Short: "Share a link as a Spot bookmark",
		Long: strings.TrimSpace(`
Share a link as a bookmark. Without --title the page is fetched and its
<title> is used, falling back to the URL itself.
`),
		Example: strings.TrimSpace(`
  spot bookmark https://example.com/science-fair
  spot bookmark https://example.com --title "Science fair" --tags science,events
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			link := strings.TrimSpace(args[0])
			if err := validation.ValidateBookmarkURL(link); err != nil {
				return err
			}

			client, err := getAuthedClient()
			if err != nil {
				return err
			}

			title = strings.TrimSpace(title)
			if err := validation.ValidateTitle(title); err != nil {
				return err
			}
			if title == "" && !noFetch {
				fetched, err := pagetitle.Fetch(cmd.Context(), nil, link)
				if err != nil {
					slog.Debug("page title lookup failed", "url", link, "error", err)
				}
				title = validation.TruncateTitle(fetched)
			}
			if title == "" {
				title = validation.TruncateTitle(link)
			}

			post := api.BookmarkPost{
				Title:       title,
				URL:         link,
				Description: description,
				Tags:        splitCommaList(tags),
			}
			if isDryRun(cmd) {
				req, err := client.Build(api.MethodBookmarkPost, post.Params())
				if err != nil {
					return err
				}
				return writePreviews(cmd, dryrun.FromRequest(req))
			}
			resp, err := client.Bookmarks().Post(cmd.Context(), post)
			if err != nil {
				if api.IsSignOutError(err) {
					signOut(cmd.Context(), client)
				}
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, postResult{Posted: true, Method: api.MethodBookmarkPost, Result: resp.Result})
			}
			printText(cmd, "Bookmarked %q", title)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Bookmark title (defaults to the page title)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Bookmark description")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().BoolVar(&noFetch, "no-fetch-title", false, "Do not fetch the page to find a title")

	return cmd
}

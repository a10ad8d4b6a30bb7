package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/dryrun"
	"github.com/thinkglobalschool/spot-cli/internal/resolve"
	"github.com/thinkglobalschool/spot-cli/internal/upload"
)

const defaultUploadConcurrency = 4

func newPhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "photos",
		Aliases: []string{"photo"},
		Short:   "Post photos",
	}
	cmd.AddCommand(newPhotosPostCmd())
	return cmd
}

type uploadView struct {
	Filename string `json:"filename"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

type photosPostView struct {
	Batch   string       `json:"batch"`
	Album   string       `json:"album"`
	State   string       `json:"state"`
	Uploads []uploadView `json:"uploads"`
}

func newPhotosPostView(r *upload.Result) photosPostView {
	view := photosPostView{
		Batch:   r.Batch,
		Album:   r.Album,
		State:   r.State.String(),
		Uploads: make([]uploadView, len(r.Uploads)),
	}
	for i, u := range r.Uploads {
		view.Uploads[i] = uploadView{Filename: u.Filename, OK: u.OK()}
		if u.Err != nil {
			view.Uploads[i].Error = u.Err.Error()
		}
	}
	return view
}

func newPhotosPostCmd() *cobra.Command {
	var (
		album       string
		description string
		tags        []string
		concurrency int64
		noPing      bool
	)

	cmd := &cobra.Command{
		Use:   "post <file>...",
		Short: "Upload photos as one batch",
		Long: strings.TrimSpace(`
Upload one or more photos as a single batch, then finalize the batch so Spot
publishes them together. Every file is read before anything is sent; if any
upload fails the batch is not finalized.

--album takes an album guid or a title, matched fuzzily against your albums.
`),
		Example: strings.TrimSpace(`
  spot photos post beach.jpg dunes.jpg --album "Field trip" --tags sun,sand
  spot photos post *.jpg --description "Science fair" --concurrency 2
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if concurrency < 0 {
				return errors.New("--concurrency must be >= 0")
			}

			client, err := getAuthedClient()
			if err != nil {
				return err
			}

			coord := upload.New(client.Photos())
			coord.Concurrency = concurrency
			coord.OnUpload = func(r upload.UploadResult) {
				if r.OK() {
					printStatus(cmd, "uploaded %s", r.Filename)
				} else {
					printStatus(cmd, "failed %s: %v", r.Filename, r.Err)
				}
			}
			coord.OnState = func(s upload.State) {
				if s == upload.Finalizing {
					printStatus(cmd, "finalizing batch")
				}
			}

			batch, err := coord.NewBatch(upload.PostRequest{
				Paths:       args,
				Description: description,
				Tags:        splitCommaList(tags),
			})
			if err != nil {
				return err
			}

			if !noPing {
				if _, err := client.Util().Ping(cmd.Context()); err != nil {
					return err
				}
			}

			albumID, err := resolveAlbum(cmd, client, album)
			if err != nil {
				return err
			}
			batch.Fields["album"] = albumID
			if isDryRun(cmd) {
				return previewBatch(cmd, client, batch)
			}

			result, err := coord.Run(cmd.Context(), batch)
			if err != nil {
				if api.IsSignOutError(err) {
					signOut(cmd.Context(), client)
				}
				if result != nil && isJSON(cmd) {
					_ = printJSON(cmd, newPhotosPostView(result))
				}
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, newPhotosPostView(result))
			}
			printText(cmd, "Posted %d photo(s) in batch %s", len(result.Uploads), result.Batch)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&album, "album", "a", "", "Album guid or title (default: no album)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description applied to every photo")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().Int64Var(&concurrency, "concurrency", defaultUploadConcurrency, "Maximum simultaneous uploads (0 = unlimited)")
	cmd.Flags().BoolVar(&noPing, "no-ping", false, "Skip the connectivity check before uploading")

	return cmd
}

// resolveAlbum turns an --album value into a guid, fetching the album list
// only when the value is not already "no album".
func resolveAlbum(cmd *cobra.Command, client *api.Client, album string) (string, error) {
	album = strings.TrimSpace(album)
	if album == "" || album == api.NoAlbum {
		return api.NoAlbum, nil
	}
	albums, err := loadAlbums(cmd, client, false)
	if err != nil {
		return "", err
	}
	return resolve.Album(album, albums)
}

// previewBatch prints every upload of batch and its finalize call.
func previewBatch(cmd *cobra.Command, builder api.RequestBuilder, batch *upload.Batch) error {
	album := batch.Fields["album"]
	previews := make([]*dryrun.Preview, 0, len(batch.Attachments)+1)
	for _, f := range batch.Attachments {
		up := api.PhotoUpload{
			Batch:       batch.ID,
			Album:       album,
			Description: batch.Fields["description"],
			Tags:        batch.Fields["tags"],
			File:        f,
		}
		req, err := builder.Build(api.MethodPhotosPost, up.Fields())
		if err != nil {
			return err
		}
		previews = append(previews, dryrun.FromRequest(req, f.Filename))
	}
	if album == "" {
		album = api.NoAlbum
	}
	req, err := builder.Build(api.MethodPhotosFinalize, map[string]string{"batch": batch.ID, "album": album})
	if err != nil {
		return err
	}
	previews = append(previews, dryrun.FromRequest(req))
	return writePreviews(cmd, previews...)
}

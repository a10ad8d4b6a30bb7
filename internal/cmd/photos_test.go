package cmd

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkglobalschool/spot-cli/internal/formdata"
	"github.com/thinkglobalschool/spot-cli/internal/upload"
)

func writePhotos(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("jpeg bytes "+name), 0o600))
	}
	return paths
}

func photoRoutes() *routeHandler {
	return newRouteHandler().
		On(http.MethodGet, "/api/util.ping", spotResponse(`{"status":0}`)).
		On(http.MethodPost, "/api/photos.post", spotResponse(`{"status":0,"result":"ok"}`)).
		On(http.MethodPost, "/api/photos.finalize.post", spotResponse(`{"status":0,"result":"done"}`)).
		On(http.MethodGet, "/api/albums.list",
			spotResponse(`{"status":0,"result":[{"guid":101,"title":"Field Trip"},{"guid":102,"title":"Science Fair"}]}`))
}

func TestPhotosPost(t *testing.T) {
	handler := photoRoutes()
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "beach.jpg", "dunes.png")

	args := append([]string{"photos", "post"}, paths...)
	args = append(args, "--album", "science", "--description", "Sand", "--tags", "sun,sand")

	var output string
	_ = captureStderr(t, func() {
		output = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), args))
		})
	})
	assert.Contains(t, output, "Posted 2 photo(s) in batch")

	uploads := handler.RequestsTo("/api/photos.post")
	require.Len(t, uploads, 2)
	var files []string
	for _, u := range uploads {
		files = append(files, u.Files...)
		assert.Equal(t, "102", u.Params.Get("album"))
		assert.Equal(t, "Sand", u.Params.Get("description"))
		assert.Equal(t, "sun, sand", u.Params.Get("tags"))
		assert.Equal(t, "tok", u.Params.Get("auth_token"))
		assert.Equal(t, "test-key", u.Params.Get("api_key"))
		assert.NotEmpty(t, u.Params.Get("batch"))
	}
	sort.Strings(files)
	assert.Equal(t, []string{"beach.jpg", "dunes.png"}, files)
	assert.Equal(t, uploads[0].Params.Get("batch"), uploads[1].Params.Get("batch"))

	finalize := handler.RequestsTo("/api/photos.finalize.post")
	require.Len(t, finalize, 1)
	assert.Equal(t, uploads[0].Params.Get("batch"), finalize[0].Params.Get("batch"))
	assert.Equal(t, "102", finalize[0].Params.Get("album"))
	assert.Len(t, handler.RequestsTo("/api/util.ping"), 1)
}

func TestPhotosPostNoAlbumSkipsAlbumList(t *testing.T) {
	handler := photoRoutes()
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "a.jpg")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"photos", "post", paths[0], "--no-ping", "-o", "json"}))
	})

	var got photosPostView
	decodeJSON(t, output, &got)
	assert.Equal(t, "0", got.Album)
	assert.Equal(t, upload.Completed.String(), got.State)
	require.Len(t, got.Uploads, 1)
	assert.True(t, got.Uploads[0].OK)
	assert.Empty(t, handler.RequestsTo("/api/albums.list"))
	assert.Empty(t, handler.RequestsTo("/api/util.ping"))
}

func TestPhotosPostUnreadableFileSendsNothing(t *testing.T) {
	handler := photoRoutes()
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "a.jpg")
	missing := filepath.Join(t.TempDir(), "missing.jpg")

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"photos", "post", paths[0], missing})
	})

	require.Error(t, err)
	assert.True(t, formdata.IsAttachmentUnreadable(err))
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "Nothing was uploaded")
	assert.Empty(t, handler.Requests())
}

func TestPhotosPostUploadFailureSkipsFinalize(t *testing.T) {
	handler := photoRoutes().On(http.MethodPost, "/api/photos.post", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			if _, header, err := r.FormFile(formdata.FileField); err == nil && header.Filename == "bad.jpg" {
				spotResponse(`{"status":-1,"message":"Upload failed"}`)(w, r)
				return
			}
		}
		spotResponse(`{"status":0}`)(w, r)
	})
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "good.jpg", "bad.jpg")

	var err error
	stderr := captureStderr(t, func() {
		_ = captureStdout(t, func() {
			err = Execute(context.Background(), append([]string{"photos", "post", "--no-ping"}, paths...))
		})
	})

	require.Error(t, err)
	var upErr *upload.UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "bad.jpg", upErr.Filename)
	assert.Equal(t, exitAPI, ExitCode(err))
	assert.Contains(t, stderr, "not finalized")
	assert.Len(t, handler.RequestsTo("/api/photos.post"), 2, "every upload is awaited")
	assert.Empty(t, handler.RequestsTo("/api/photos.finalize.post"))
}

func TestPhotosPostAmbiguousAlbum(t *testing.T) {
	handler := photoRoutes().On(http.MethodGet, "/api/albums.list",
		spotResponse(`{"status":0,"result":[{"guid":1,"title":"Trip A"},{"guid":2,"title":"Trip B"}]}`))
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "a.jpg")

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"photos", "post", paths[0], "--no-ping", "--album", "trip"})
	})

	require.Error(t, err)
	assert.Empty(t, handler.RequestsTo("/api/photos.post"))
}

func TestPhotosPostPingFailure(t *testing.T) {
	handler := photoRoutes().On(http.MethodGet, "/api/util.ping", jsonResponse(http.StatusServiceUnavailable, "down"))
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "a.jpg")

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"photos", "post", paths[0]})
	})

	require.Error(t, err)
	assert.Equal(t, exitNetwork, ExitCode(err))
	assert.Empty(t, handler.RequestsTo("/api/photos.post"))
}

func TestPhotosPostRequiresFiles(t *testing.T) {
	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"photos", "post"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestPhotosPostDryRun(t *testing.T) {
	handler := photoRoutes()
	env := setupTestEnvWithHandler(t, handler)
	env.login(t, "tok")
	paths := writePhotos(t, "a.jpg", "b.jpg")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), append([]string{"photos", "post", "--no-ping", "--dry-run"}, paths...)))
	})

	assert.Contains(t, output, "/api/photos.post")
	assert.Contains(t, output, "  file: a.jpg")
	assert.Contains(t, output, "  file: b.jpg")
	assert.Contains(t, output, "/api/photos.finalize.post")
	assert.Contains(t, output, "No changes made")
	assert.Empty(t, handler.Requests())
}

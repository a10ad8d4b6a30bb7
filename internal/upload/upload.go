// Package upload posts a set of photos to Spot as one batch.
//
// Every file is uploaded concurrently under a shared batch id. The batch is
// finalized only when every upload succeeded; otherwise the first upload
// error is reported and finalize is never called.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/formdata"
)

// ErrNoAttachments is returned when a post has nothing to upload.
var ErrNoAttachments = errors.New("no attachments to upload")

// PhotoAPI is the part of the Spot API a batch needs.
type PhotoAPI interface {
	Upload(ctx context.Context, up api.PhotoUpload) (*api.Response, error)
	Finalize(ctx context.Context, batch, album string) (*api.Response, error)
}

// State is the coordinator's progress through one post.
type State int

const (
	Idle State = iota
	Uploading
	AllSucceeded
	FirstFailed
	Finalizing
	Completed
	FinalizeFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case AllSucceeded:
		return "all_succeeded"
	case FirstFailed:
		return "first_failed"
	case Finalizing:
		return "finalizing"
	case Completed:
		return "completed"
	case FinalizeFailed:
		return "finalize_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == FirstFailed || s == Completed || s == FinalizeFailed
}

// Batch is one post-images operation. ID is shared by every upload and the
// finalize call.
type Batch struct {
	ID          string
	Attachments []formdata.File
	Fields      map[string]string
}

// PostRequest describes the photos to post. Paths are read from disk; Files
// are used as given and follow Paths in upload order.
type PostRequest struct {
	Paths       []string
	Files       []formdata.File
	Album       string
	Description string
	Tags        []string
}

// UploadResult is the outcome of one file's upload.
type UploadResult struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Err      error  `json:"-"`
}

// OK reports whether the upload succeeded.
func (r UploadResult) OK() bool {
	return r.Err == nil
}

// Result is the outcome of a post.
type Result struct {
	Batch   string         `json:"batch"`
	Album   string         `json:"album"`
	State   State          `json:"-"`
	Uploads []UploadResult `json:"uploads"`
}

// Failed returns the number of failed uploads.
func (r *Result) Failed() int {
	n := 0
	for _, u := range r.Uploads {
		if !u.OK() {
			n++
		}
	}
	return n
}

// UploadError is the first failed upload of a batch.
type UploadError struct {
	Batch    string
	Index    int
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed (batch %s): %v", e.Filename, e.Batch, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// FinalizeError reports a failed finalize call after every upload succeeded.
type FinalizeError struct {
	Batch string
	Err   error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("finalize of batch %s failed: %v", e.Batch, e.Err)
}

func (e *FinalizeError) Unwrap() error {
	return e.Err
}

// Coordinator runs batches against a PhotoAPI.
type Coordinator struct {
	API PhotoAPI

	// Concurrency bounds simultaneous uploads. Zero or less means unbounded.
	Concurrency int64

	// Now supplies the batch timestamp. Defaults to time.Now.
	Now func() time.Time

	// OnState, when set, is called on every state transition.
	OnState func(State)

	// OnUpload, when set, is called as each upload completes. Calls are
	// serialized.
	OnUpload func(UploadResult)
}

// New returns a Coordinator posting through photos.
func New(photos PhotoAPI) *Coordinator {
	return &Coordinator{API: photos}
}

// NewBatch reads every attachment and assigns a batch id. Any unreadable
// attachment aborts the whole batch before anything is sent.
func (c *Coordinator) NewBatch(req PostRequest) (*Batch, error) {
	files := make([]formdata.File, 0, len(req.Paths)+len(req.Files))
	for _, path := range req.Paths {
		f, err := formdata.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	files = append(files, req.Files...)
	if len(files) == 0 {
		return nil, ErrNoAttachments
	}

	album := req.Album
	if album == "" {
		album = api.NoAlbum
	}

	return &Batch{
		ID:          c.batchID(),
		Attachments: files,
		Fields: map[string]string{
			"album":       album,
			"description": req.Description,
			"tags":        api.JoinTags(req.Tags),
		},
	}, nil
}

// Post reads the attachments, uploads them as one batch and finalizes it.
func (c *Coordinator) Post(ctx context.Context, req PostRequest) (*Result, error) {
	batch, err := c.NewBatch(req)
	if err != nil {
		return nil, err
	}
	return c.Run(ctx, batch)
}

// Run uploads every attachment of batch concurrently, waits for all of them
// and finalizes the batch only when none failed. The returned Result is
// populated even when an error is returned.
func (c *Coordinator) Run(ctx context.Context, batch *Batch) (*Result, error) {
	if c.API == nil {
		return nil, errors.New("upload coordinator has no API")
	}
	if batch == nil || len(batch.Attachments) == 0 {
		return nil, ErrNoAttachments
	}

	album := batch.Fields["album"]
	if album == "" {
		album = api.NoAlbum
	}
	result := &Result{
		Batch:   batch.ID,
		Album:   album,
		State:   Idle,
		Uploads: make([]UploadResult, len(batch.Attachments)),
	}

	c.transition(result, Uploading)

	var sem *semaphore.Weighted
	if c.Concurrency > 0 {
		sem = semaphore.NewWeighted(c.Concurrency)
	}

	var mu sync.Mutex
	var g errgroup.Group

	for i, file := range batch.Attachments {
		i, file := i, file
		g.Go(func() error {
			err := c.uploadOne(ctx, sem, batch, album, file)

			res := UploadResult{Index: i, Filename: file.Filename, Err: err}
			mu.Lock()
			result.Uploads[i] = res
			if c.OnUpload != nil {
				c.OnUpload(res)
			}
			mu.Unlock()

			if err != nil {
				return &UploadError{Batch: batch.ID, Index: i, Filename: file.Filename, Err: err}
			}
			return nil
		})
	}

	// Wait returns the first error any upload returned, after all finished.
	if err := g.Wait(); err != nil {
		c.transition(result, FirstFailed)
		return result, err
	}
	c.transition(result, AllSucceeded)

	c.transition(result, Finalizing)
	if _, err := c.API.Finalize(ctx, batch.ID, album); err != nil {
		c.transition(result, FinalizeFailed)
		return result, &FinalizeError{Batch: batch.ID, Err: err}
	}
	c.transition(result, Completed)
	return result, nil
}

func (c *Coordinator) uploadOne(ctx context.Context, sem *semaphore.Weighted, batch *Batch, album string, file formdata.File) error {
	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer sem.Release(1)
	}

	_, err := c.API.Upload(ctx, api.PhotoUpload{
		Batch:       batch.ID,
		Album:       album,
		Description: batch.Fields["description"],
		Tags:        batch.Fields["tags"],
		File:        file,
	})
	return err
}

func (c *Coordinator) transition(result *Result, s State) {
	result.State = s
	if c.OnState != nil {
		c.OnState(s)
	}
}

func (c *Coordinator) batchID() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return strconv.FormatInt(now().Unix(), 10)
}

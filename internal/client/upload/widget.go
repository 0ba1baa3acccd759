// Package upload implements the résumé upload widget: client-side type and
// size checks, an optimistic preview, and a single multipart upload whose
// result is forwarded to the owner only if no newer selection superseded it.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/resumematch/internal/client/api"
	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/filex"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"github.com/dmitrijs2005/resumematch/internal/resumetext"
	"github.com/gabriel-vasile/mimetype"
)

// MaxSize is the largest file the widget accepts (5 MiB).
const MaxSize = 5 * 1024 * 1024

const (
	MsgInvalidType = "Please upload PDF or DOCX files only"
	MsgTooLarge    = "File size must be less than 5MB"
	MsgFailed      = "Failed to upload resume. Please try again."
)

var (
	ErrInvalidType = errors.New("file type not accepted")
	ErrTooLarge    = errors.New("file too large")
	// ErrSuperseded is returned to the caller whose upload finished after a
	// newer selection (or Remove) took over the widget.
	ErrSuperseded = errors.New("upload superseded by a newer selection")
)

var accepted = map[string]bool{
	resumetext.MIMEPDF:  true,
	resumetext.MIMEDOC:  true,
	resumetext.MIMEDOCX: true,
}

// byExtension resolves generic container types the sniffer reports when it
// cannot see deep enough into an OLE or ZIP file.
var byExtension = map[string]string{
	".pdf":  resumetext.MIMEPDF,
	".doc":  resumetext.MIMEDOC,
	".docx": resumetext.MIMEDOCX,
}

// sniffLen is how much of the file is handed to the content sniffer.
const sniffLen = 3072

// Uploader is the API surface the widget needs.
type Uploader interface {
	UploadResume(ctx context.Context, fileName string, content io.Reader) (string, error)
}

// File is a user-selected file. Open may be called more than once.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromPath describes the file at path.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Preview is the optimistic local view of an accepted file.
type Preview struct {
	Name string
	// Size is human readable, e.g. "1.50 MB".
	Size  string
	Bytes int64
	// Ext is the upper-cased file extension, e.g. "PDF".
	Ext   string
	MIME  string
	Words int // 0 when the text could not be extracted
}

// State is a snapshot of the widget.
type State struct {
	Preview   *Preview
	Resume    *models.ResumeRef
	Uploading bool
	Error     string
}

// Callbacks let the owning screen follow the widget. Any of them may be nil.
type Callbacks struct {
	OnPreview func(Preview)
	// OnUploaded receives the server's résumé id exactly once per upload.
	OnUploaded func(id, fileName string)
	// OnCleared runs when a previously forwarded id is withdrawn by a newer
	// selection or by Remove.
	OnCleared func()
}

type Widget struct {
	mu    sync.Mutex
	up    Uploader
	log   logging.Logger
	cb    Callbacks
	gen   uint64
	state State
}

func NewWidget(up Uploader, log logging.Logger, cb Callbacks) *Widget {
	return &Widget{up: up, log: log, cb: cb}
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.state
	if s.Preview != nil {
		p := *s.Preview
		s.Preview = &p
	}
	if s.Resume != nil {
		r := *s.Resume
		s.Resume = &r
	}
	return s
}

// SelectPath is Select for a file on disk.
func (w *Widget) SelectPath(ctx context.Context, path string) (*models.ResumeRef, error) {
	f, err := FromPath(path)
	if err != nil {
		return nil, err
	}
	return w.Select(ctx, f)
}

// Select validates f, shows its preview and uploads it. Validation failures
// (ErrInvalidType, ErrTooLarge) never reach the network and leave the
// current preview alone. Upload failures clear the preview and any
// forwarded reference. State().Error holds the message for the user.
func (w *Widget) Select(ctx context.Context, f File) (*models.ResumeRef, error) {
	mime, err := detect(f)
	if err != nil {
		return nil, w.reject(err, MsgFailed)
	}
	if !accepted[mime] {
		return nil, w.reject(ErrInvalidType, MsgInvalidType)
	}
	if f.Size > MaxSize {
		return nil, w.reject(ErrTooLarge, MsgTooLarge)
	}

	data, err := readAll(f)
	if err != nil {
		return nil, w.reject(err, MsgFailed)
	}

	preview := Preview{
		Name:  f.Name,
		Size:  fmt.Sprintf("%.2f MB", float64(f.Size)/(1024*1024)),
		Bytes: f.Size,
		Ext:   strings.ToUpper(strings.TrimPrefix(filepath.Ext(f.Name), ".")),
		MIME:  mime,
	}
	if n, ok := resumetext.Count(mime, data); ok {
		preview.Words = n
	}

	w.mu.Lock()
	w.gen++
	gen := w.gen
	hadRef := w.state.Resume != nil
	w.state = State{Preview: &preview, Uploading: true}
	w.mu.Unlock()

	if hadRef && w.cb.OnCleared != nil {
		w.cb.OnCleared()
	}
	if w.cb.OnPreview != nil {
		w.cb.OnPreview(preview)
	}

	id, upErr := w.up.UploadResume(ctx, f.Name, bytes.NewReader(data))
	if upErr == nil && id == "" {
		upErr = api.ErrEmptyID
	}

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		w.log.Info(ctx, "dropping stale upload response", "file", f.Name)
		return nil, ErrSuperseded
	}
	w.state.Uploading = false
	if upErr != nil {
		w.state = State{Error: failureMessage(upErr)}
		w.mu.Unlock()
		w.log.Warn(ctx, "resume upload failed", "file", f.Name, "error", upErr)
		return nil, upErr
	}
	ref := &models.ResumeRef{ID: id, FileName: f.Name}
	w.state.Resume = ref
	w.mu.Unlock()

	if w.cb.OnUploaded != nil {
		w.cb.OnUploaded(id, f.Name)
	}
	out := *ref
	return &out, nil
}

// Remove clears the preview, the forwarded reference and any error. An
// upload still in flight is superseded.
func (w *Widget) Remove() {
	w.mu.Lock()
	w.gen++
	hadRef := w.state.Resume != nil
	w.state = State{}
	w.mu.Unlock()

	if hadRef && w.cb.OnCleared != nil {
		w.cb.OnCleared()
	}
}

func (w *Widget) reject(err error, msg string) error {
	w.mu.Lock()
	w.state.Error = msg
	w.mu.Unlock()
	return err
}

func failureMessage(err error) string {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" && apiErr.Message != api.DefaultErrorMessage {
		return apiErr.Message
	}
	return MsgFailed
}

func detect(f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	head, err := filex.ReadHead(rc, sniffLen)
	if err != nil {
		return "", err
	}

	m := mimetype.Detect(head)
	for ; m != nil; m = m.Parent() {
		if accepted[m.String()] {
			return m.String(), nil
		}
		if m.Is("application/zip") || m.Is("application/x-ole-storage") {
			if byExt, ok := byExtension[strings.ToLower(filepath.Ext(f.Name))]; ok {
				return byExt, nil
			}
		}
	}
	return mimetype.Detect(head).String(), nil
}

func readAll(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxSize+1))
}

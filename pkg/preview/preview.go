package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nfnt/resize"

	"github.com/goliatone/go-userform/pkg/model"
)

// ErrEmptyBlob is returned when a blob has no bytes to preview.
var ErrEmptyBlob = errors.New("preview: blob is empty")

// Sink receives finished previews. form.Store implements it.
type Sink interface {
	SetPreview(preview string)
}

// Converter turns a blob into a displayable representation.
type Converter func(blob model.Blob) (string, error)

// Ingestor converts uploads into previews off the caller's goroutine. Each
// completed conversion replaces the sink's preview; when conversions overlap
// the last one to finish wins, whichever upload it belongs to.
type Ingestor struct {
	sink    Sink
	convert Converter
	logger  *log.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithThumbnail shrinks decodable images to fit within size x size pixels
// and re-encodes them as JPEG. Blobs that fail to decode produce no preview.
func WithThumbnail(size uint) Option {
	return func(i *Ingestor) {
		if size > 0 {
			i.convert = ThumbnailConverter(size)
		}
	}
}

// WithConverter replaces the conversion function.
func WithConverter(fn Converter) Option {
	return func(i *Ingestor) {
		if fn != nil {
			i.convert = fn
		}
	}
}

// WithLogger routes conversion failures to logger at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(i *Ingestor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New constructs an Ingestor posting previews to sink.
func New(sink Sink, options ...Option) *Ingestor {
	i := &Ingestor{
		sink:    sink,
		convert: DataURI,
		logger:  log.New(io.Discard),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Task tracks one conversion.
type Task struct {
	done    chan struct{}
	preview string
	err     error
}

func finished(preview string, err error) *Task {
	t := &Task{done: make(chan struct{}), preview: preview, err: err}
	close(t.done)
	return t
}

// Done is closed once the conversion finished and the sink was updated.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the conversion finishes or ctx is done. Cancelling ctx
// only stops the wait; the conversion still completes and posts its result.
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.preview, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Ingest starts converting blob. The returned task completes after the sink
// has been updated, or after a failed conversion left it untouched.
func (i *Ingestor) Ingest(blob model.Blob) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.preview, t.err = i.convert(blob)
		if t.err != nil {
			i.logger.Debug("preview conversion failed", "name", blob.Name, "size", blob.Size(), "error", t.err)
			return
		}
		if i.sink != nil {
			i.sink.SetPreview(t.preview)
		}
	}()
	return t
}

// IngestValue derives the preview from a field value. References are posted
// immediately; absent values leave the preview as is.
func (i *Ingestor) IngestValue(v model.Value) *Task {
	switch v.Kind() {
	case model.KindBlob:
		blob, _ := v.Blob()
		return i.Ingest(blob)
	case model.KindReference, model.KindText:
		ref := v.String()
		if ref != "" && i.sink != nil {
			i.sink.SetPreview(ref)
		}
		return finished(ref, nil)
	default:
		return finished("", nil)
	}
}

// DataURI encodes blob as a base64 data URI. The MIME type comes from the
// blob, falling back to content sniffing.
func DataURI(blob model.Blob) (string, error) {
	if len(blob.Data) == 0 {
		return "", ErrEmptyBlob
	}
	return encode(contentType(blob), blob.Data), nil
}

// ThumbnailConverter decodes the blob as an image and encodes a JPEG
// thumbnail bounded by size pixels on each side.
func ThumbnailConverter(size uint) Converter {
	return func(blob model.Blob) (string, error) {
		if len(blob.Data) == 0 {
			return "", ErrEmptyBlob
		}
		img, _, err := image.Decode(bytes.NewReader(blob.Data))
		if err != nil {
			return "", fmt.Errorf("preview: decode %s: %w", blob.Name, err)
		}
		thumb := resize.Thumbnail(size, size, img, resize.Lanczos3)
		buf := &bytes.Buffer{}
		if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
			return "", fmt.Errorf("preview: encode thumbnail: %w", err)
		}
		return encode("image/jpeg", buf.Bytes()), nil
	}
}

func contentType(blob model.Blob) string {
	if ct := strings.TrimSpace(blob.ContentType); ct != "" {
		return ct
	}
	return http.DetectContentType(blob.Data)
}

func encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

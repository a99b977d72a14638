package submit

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-userform/pkg/model"
)

// Encode renders a record as indented JSON. Blobs are summarised by name,
// content type and size.
func Encode(data model.FormValue) ([]byte, error) {
	out, err := json.MarshalIndent(data.Plain(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("submit: encode record: %w", err)
	}
	return out, nil
}

// LogSink reports the submitted record through logger.
func LogSink(logger *log.Logger) Sink {
	return func(_ context.Context, data model.FormValue) error {
		payload, err := Encode(data)
		if err != nil {
			return err
		}
		logger.Info("userData submit", "data", string(payload))
		return nil
	}
}

// WriterSink writes the encoded record to w followed by a newline.
func WriterSink(w io.Writer) Sink {
	return func(_ context.Context, data model.FormValue) error {
		payload, err := Encode(data)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(payload)); err != nil {
			return fmt.Errorf("submit: write record: %w", err)
		}
		return nil
	}
}

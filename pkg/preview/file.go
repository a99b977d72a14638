package preview

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-userform/pkg/model"
)

// LoadFile reads an upload from disk into a blob value. The content type is
// taken from the extension, falling back to content sniffing.
func LoadFile(path string) (model.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Value{}, fmt.Errorf("preview: read upload: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return model.BlobValue(filepath.Base(path), ct, data), nil
}

// IsExternal reports whether s names a remote or inline image (http, https
// or data URI) rather than a local path.
func IsExternal(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:")
}

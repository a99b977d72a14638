package testsupport

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/preview"
)

// AvatarURL is a reference image used by fixtures.
const AvatarURL = "https://cdn.example.com/avatar.png"

// PNG encodes a w x h image with a single red row so thumbnails have content.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png fixture: %v", err)
	}
	return buf.Bytes()
}

// WritePNG stores a small PNG under a temp dir and returns its path.
func WritePNG(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, PNG(t, 4, 4), 0o644); err != nil {
		t.Fatalf("write png fixture: %v", err)
	}
	return path
}

// ValidRecord returns the default record with the image set to AvatarURL,
// which passes every registration rule.
func ValidRecord() model.FormValue {
	values := form.DefaultValues()
	values["image"] = model.Reference(AvatarURL)
	return values
}

// WaitTask waits for a preview conversion with a bounded timeout.
func WaitTask(t *testing.T, task *preview.Task) (string, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return task.Wait(ctx)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

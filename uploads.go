package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// saveFrame persists an uploaded frame under dir and returns its path.
// Client-supplied names are reduced to their base name and prefixed with a
// nanosecond timestamp, so concurrent uploads can neither collide nor
// escape the uploads directory.
func saveFrame(dir string, src io.Reader, name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "frame"
	}
	framePath := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), base))

	out, err := os.Create(framePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return framePath, nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"minutemic/internal/ports"
)

// Directory saves recordings into a folder, the desktop equivalent of the
// browser download folder.
type Directory struct {
	dir string
}

func NewDirectory(dir string) *Directory {
	return &Directory{dir: dir}
}

func (d *Directory) Dir() string { return d.dir }

// Save encodes artifact into filename under the directory, or at filename
// itself when it is absolute. An existing file gets a numbered sibling.
func (d *Directory) Save(ctx context.Context, artifact ports.WAVEncoder, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.dir, filename)
		path = uniquePath(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".minutemic-*.wav.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := artifact.EncodeWAV(tmp); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move recording into place: %w", err)
	}
	return path, nil
}

func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

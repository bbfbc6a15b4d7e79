package nfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kennygrant/sanitize"

	"nfogen/internal/movie"
)

// Filename derives the output name from the sanitized title, falling back
// to the product id when sanitizing leaves nothing usable.
func Filename(rec *movie.Record) string {
	base := sanitize.BaseName(strings.TrimSpace(rec.Title))
	base = strings.Trim(base, " .-")
	if base == "" {
		base = rec.ProductID
	}
	if base == "" {
		base = "movie"
	}
	return base + ".nfo"
}

// WriteFile writes data to path atomically: a temporary file in the target
// directory is promoted by rename only after a complete, synced write, so a
// crash never leaves a partial output file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("promote temp file: %w", err)
	}
	return nil
}

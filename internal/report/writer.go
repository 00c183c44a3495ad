package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bplog/internal/core"
)

// Renderer turns a document into bytes.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// WriteFile renders doc to path. The file is written to a temporary sibling and
// renamed into place, so a failed render never leaves a truncated artifact.
func WriteFile(path string, r Renderer, doc Document) error {
	if err := writeFile(path, r, doc); err != nil {
		return &core.OutputError{Path: path, Err: err}
	}
	return nil
}

func writeFile(path string, r Renderer, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := r.Render(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

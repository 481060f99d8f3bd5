package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Persist writes the rendered document to dir atomically: the document is
// written to a temp file in the same directory and renamed into place, so
// either the whole file lands or the prior file is untouched. An existing
// file for the same month is overwritten.
func Persist(dir string, doc []byte, month time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir %s: %w", dir, err)
	}

	target := filepath.Join(dir, Filename(month))

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing report: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("renaming report into place: %w", err)
	}
	return target, nil
}

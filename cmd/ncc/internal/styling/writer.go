package styling

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// ExtractionError reports a failed asset write.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to write asset %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// WriteAssets writes each asset, skipping files that already hold the same
// bytes. It returns the number of files written.
func WriteAssets(assets []Asset) (int, error) {
	written := 0
	for _, a := range assets {
		existing, err := os.ReadFile(a.Path)
		if err == nil && bytes.Equal(existing, a.Data) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
			return written, &ExtractionError{Path: a.Path, Err: err}
		}
		if err := os.WriteFile(a.Path, a.Data, 0644); err != nil {
			return written, &ExtractionError{Path: a.Path, Err: err}
		}
		written++
	}
	return written, nil
}

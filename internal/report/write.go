package report

import (
	"fmt"
	"os"
)

const outputFileMode = 0644

// OutputError reports a destination that could not be created or written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// WriteFile persists the rendered document as UTF-8, overwriting any
// existing file at path (last-write-wins).
func WriteFile(text, path string) error {
	if err := os.WriteFile(path, []byte(text), outputFileMode); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}

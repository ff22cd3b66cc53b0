package export

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrNoContent is returned when Options.RequireContent is set and the log
// holds no user or assistant dialogue.
var ErrNoContent = errors.New("no conversation content found")

// NotFoundError reports a conversation log missing at the resolved path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversation file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return fs.ErrNotExist }

// WriteError reports a transcript that could not be written. No partial file
// is left at Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write transcript %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

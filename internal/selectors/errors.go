package selectors

import (
	"fmt"
	"path/filepath"

	"github.com/kuitang/pom-e2e/internal/errs"
)

// NotFoundError reports a key with no row in the backing table.
type NotFoundError struct {
	Key  string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("selector with key '%s' not found in %s", e.Key, tableName(e.Path))
}

// ErrorCode implements errs.Coder.
func (e *NotFoundError) ErrorCode() errs.Code {
	return errs.NotFound
}

// ResourceError reports a backing table that could not be read (Line == 0)
// or holds a malformed row (Line is the 1-based line number).
type ResourceError struct {
	Path string
	Line int
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", tableName(e.Path), e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", tableName(e.Path), e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// ErrorCode implements errs.Coder.
func (e *ResourceError) ErrorCode() errs.Code {
	if e.Line > 0 {
		return errs.InvalidArgument
	}
	return errs.Unavailable
}

func tableName(path string) string {
	if path == "" {
		return "selector table"
	}
	return filepath.Base(path)
}

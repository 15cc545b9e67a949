package opensearchDB

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// IndexError wraps a failed schema/index-administration call. Transient
// errors (engine unreachable, 5xx) are eligible for caller-level retry;
// permanent ones (mapping conflicts, other 4xx) abort the document.
type IndexError struct {
	Index     string
	Op        string
	Transient bool
	Err       error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %s: %v", e.Index, e.Op, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

type WriteErrorKind string

const (
	WriteTimeout    WriteErrorKind = "timeout"
	WriteConnection WriteErrorKind = "connection"
	WritePerItem    WriteErrorKind = "per_item"
)

// WriteError wraps a failed bulk call. Per-item failures are never raised as
// a WriteError, they stay inside BulkResult; this type is for call-level
// failures only.
type WriteError struct {
	Kind WriteErrorKind
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("bulk write %s: %v", e.Kind, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) Transient() bool {
	return e.Kind == WriteTimeout || e.Kind == WriteConnection
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package firestore

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind groups Firestore failures by how callers should react to them.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "other"
	}
}

// Error is a classified Firestore failure tagged with the operation that produced it.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a classified missing document or collection.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsUnavailable reports whether err is a classified backend outage worth retrying later.
func IsUnavailable(err error) bool { return kindOf(err) == KindUnavailable }

func kindOf(err error) Kind {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return KindOther
}

// WrapError tags err with op and a Kind derived from its gRPC status. Cancellation and
// deadline errors come back as the plain context errors.
func WrapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), status.Code(err) == codes.Canceled:
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded), status.Code(err) == codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}

	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op == "" {
			existing.Op = op
		}
		return err
	}
	return &Error{Op: op, Kind: classify(status.Code(err)), Err: err}
}

func classify(code codes.Code) Kind {
	switch code {
	case codes.NotFound:
		return KindNotFound
	case codes.Unavailable, codes.ResourceExhausted, codes.Internal, codes.Unauthenticated, codes.PermissionDenied:
		return KindUnavailable
	default:
		return KindOther
	}
}

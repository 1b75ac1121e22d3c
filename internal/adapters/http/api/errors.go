package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/fcleague/internal/adapters/media"
	"github.com/okian/fcleague/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeds the maximum")
)

// opError ties an error to the handler operation that produced it.
type opError struct {
	Op  string
	Err error
}

func (e *opError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *opError) Unwrap() error { return e.Err }

// Wrap adds the operation name to err. It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{Op: op, Err: err}
}

// NewKind builds an operation error of a sentinel kind with detail.
func NewKind(op string, kind error, detail string) error {
	if detail == "" {
		return Wrap(op, kind)
	}
	return Wrap(op, fmt.Errorf("%w: %s", kind, detail))
}

// classify maps an error to its HTTP status and machine-readable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, media.ErrDisabled):
		return http.StatusServiceUnavailable, "media_disabled"
	case errors.Is(err, model.ErrNotReady):
		return http.StatusConflict, "not_ready"
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

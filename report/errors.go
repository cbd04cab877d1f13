package report

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

var (
	// ErrUnsupportedInput matches every *UnsupportedInputError.
	ErrUnsupportedInput = errors.New("unsupported plot input")
	// ErrInvalidLayout matches every *InvalidLayoutError.
	ErrInvalidLayout = errors.New("invalid layout")
)

// UnsupportedInputError reports a value Plot cannot turn into an image,
// or a format the value cannot be encoded in.
type UnsupportedInputError struct {
	Type   string
	Reason string
	Err    error
}

func (e *UnsupportedInputError) Error() string {
	msg := "unsupported plot input " + e.Type
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnsupportedInputError) Is(target error) bool { return target == ErrUnsupportedInput }

func (e *UnsupportedInputError) Unwrap() error { return e.Err }

func unsupported(input any, reason string, err error) *UnsupportedInputError {
	return &UnsupportedInputError{Type: fmt.Sprintf("%T", input), Reason: reason, Err: err}
}

// InvalidLayoutError carries every bad layout parameter found.
type InvalidLayoutError struct {
	Errs field.ErrorList
}

func (e *InvalidLayoutError) Error() string {
	if len(e.Errs) == 0 {
		return ErrInvalidLayout.Error()
	}
	return "invalid layout: " + e.Errs.ToAggregate().Error()
}

func (e *InvalidLayoutError) Is(target error) bool { return target == ErrInvalidLayout }

func layoutError(errs field.ErrorList) error {
	if len(errs) == 0 {
		return nil
	}
	return &InvalidLayoutError{Errs: errs}
}

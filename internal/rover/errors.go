package rover

import (
	"errors"
	"fmt"

	"github.com/samvad-hq/rover-photos/pkg/loader"
)

var (
	// ErrNetwork matches failures reported by the loader. Those errors are
	// forwarded to callers unchanged.
	ErrNetwork = loader.ErrNetwork
	// ErrDecode matches responses whose bytes do not have the expected shape.
	ErrDecode = errors.New("decode error")
	// ErrInvalidName matches rover names that cannot form a locator.
	ErrInvalidName = errors.New("invalid rover name")
)

// NameError reports a rover name rejected before any load is started.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%v %q", ErrInvalidName, e.Name)
}

// Is lets errors.Is(err, ErrInvalidName) match any NameError.
func (e *NameError) Is(target error) bool { return target == ErrInvalidName }

// DecodeError reports a response body that could not be decoded.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func decodeErr(what string, err error) error {
	return &DecodeError{What: what, Err: err}
}

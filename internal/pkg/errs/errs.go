package errs

import (
	"fmt"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

// Mark ties err to a reference error for classification. The result keeps
// err's message and unwrap chain, and additionally matches markErr under
// errors.Is, so a specific error can carry a coarse sentinel without losing
// its own identity. Marks stack.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &marked{cause: err, mark: markErr}
}

type marked struct {
	cause error
	mark  error
}

func (e *marked) Error() string { return e.cause.Error() }

func (e *marked) Unwrap() error { return e.cause }

func (e *marked) Is(target error) bool {
	return e.mark == target || cr.Is(e.mark, target)
}

func (e *marked) Format(s fmt.State, verb rune) {
	if f, ok := e.cause.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprintf(s, fmt.FormatString(s, verb), e.cause)
}

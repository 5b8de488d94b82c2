package errs

import (
	"errors"
	"fmt"
	"log/slog"
)

// Wrap adds context and preserves the error chain (errors.Is/As works).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context and preserves the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

type statusCoder interface {
	HTTPStatus() int
}

type requestIdentifier interface {
	RequestID() string
}

// Loggable makes slog encode the error as structured fields.
// Usage: slog.Any("err", errs.Loggable(err))
func Loggable(err error) slog.LogValuer { return loggable{err: err} }

type loggable struct{ err error }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("message", l.err.Error()),
		slog.Any("chain", ErrorChainStrings(l.err)),
	}

	var coder statusCoder
	if errors.As(l.err, &coder) {
		attrs = append(attrs, slog.Int("status_code", coder.HTTPStatus()))
	}
	var identified requestIdentifier
	if errors.As(l.err, &identified) && identified.RequestID() != "" {
		attrs = append(attrs, slog.String("request_id", identified.RequestID()))
	}

	return slog.GroupValue(attrs...)
}

// ErrorChainStrings returns the unwrap chain as strings (outer -> inner).
// Joined errors contribute each branch in order.
func ErrorChainStrings(err error) []string {
	if err == nil {
		return nil
	}

	out := make([]string, 0, 8)
	var walk func(error)
	walk = func(e error) {
		for e != nil {
			out = append(out, e.Error())
			if joined, ok := e.(interface{ Unwrap() []error }); ok {
				for _, branch := range joined.Unwrap() {
					walk(branch)
				}
				return
			}
			e = errors.Unwrap(e)
		}
	}
	walk(err)
	return out
}

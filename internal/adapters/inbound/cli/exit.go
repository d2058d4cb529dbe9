package cli

import (
	"errors"
	"fmt"
)

const (
	ExitOK     = 0
	ExitStrict = 1
	ExitFatal  = 2
)

// StrictError reports a strict-mode audit with blocking findings. The
// report has already been printed when it is returned.
type StrictError struct {
	Critical int
	High     int
}

func (e *StrictError) Error() string {
	return fmt.Sprintf("strict mode: %d critical and %d high findings", e.Critical, e.High)
}

// IsStrictFailure reports whether err is a strict-mode audit failure.
func IsStrictFailure(err error) bool {
	var strictErr *StrictError
	return errors.As(err, &strictErr)
}

// ExitCode maps a command error onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsStrictFailure(err):
		return ExitStrict
	default:
		return ExitFatal
	}
}

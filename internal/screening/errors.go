package screening

import "fmt"

// ValidationError reports that a stage's required input is missing or empty.
// It is stage-fatal: the pipeline halts instead of proceeding with partial
// or default data.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid stage input: %s", e.Reason)
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

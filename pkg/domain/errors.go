package domain

import "fmt"

// FormatError reports malformed input: a bad case count, an input block
// that runs out before the promised number of cases, or a fixture whose
// declared count disagrees with its own input block. It is always fatal
// to the current run or fixture.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return e.Msg
}

// Formatf builds a FormatError from a format string.
func Formatf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// CaseError tags a failure raised inside user parse or solve code with
// the 1-based index of the case that produced it.
type CaseError struct {
	Index int
	Err   error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("case %d: %v", e.Index, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

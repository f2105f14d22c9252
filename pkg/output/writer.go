// Package output renders ordered results in the contest convention:
// one "Case #i: value" line per case.
package output

import (
	"fmt"
	"io"
)

// WriteCase renders one newline-terminated result line.
func WriteCase(w io.Writer, index int, value any) error {
	_, err := fmt.Fprintf(w, "Case #%d: %v\n", index, value)
	return err
}

// Write renders an already-ordered result sequence. results[0] is case 1.
func Write(w io.Writer, results []any) error {
	for i, value := range results {
		if err := WriteCase(w, i+1, value); err != nil {
			return err
		}
	}
	return nil
}

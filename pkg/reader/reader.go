// Package reader splits raw input text into an ordered sequence of cases.
//
// Input starts with a line holding the case count; the remaining lines are
// partitioned into that many segments by a Segmenter. The default segmenter
// consumes one line per case.
package reader

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/casegrid/pkg/domain"
)

// ErrExhausted is returned by segmenters when the input ends before a full
// case could be consumed. Read converts it into a FormatError that names
// the case that came up short.
var ErrExhausted = errors.New("input exhausted")

// Lines is a line-oriented cursor over raw input text.
type Lines struct {
	scanner *bufio.Scanner
	pushed  []string
}

// NewLines wraps r in a cursor. Lines are delivered without their
// terminating newline.
func NewLines(r io.Reader) *Lines {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Lines{scanner: scanner}
}

// Next returns the next line, or false when the input is exhausted.
func (l *Lines) Next() (string, bool) {
	if n := len(l.pushed); n > 0 {
		line := l.pushed[n-1]
		l.pushed = l.pushed[:n-1]
		return line, true
	}
	if !l.scanner.Scan() {
		return "", false
	}
	return l.scanner.Text(), true
}

// Unread makes line the next value returned by Next.
func (l *Lines) Unread(line string) {
	l.pushed = append(l.pushed, line)
}

// Read parses the case count from the first line of r and partitions the
// remaining lines into that many cases using seg. A nil seg means one line
// per case. The returned slice always has exactly count entries on success.
func Read(r io.Reader, seg Segmenter) ([]domain.Case, error) {
	return ReadLines(NewLines(r), seg)
}

// ReadLines is Read over an existing cursor.
func ReadLines(lines *Lines, seg Segmenter) ([]domain.Case, error) {
	if seg == nil {
		seg = SingleLine{}
	}

	first, ok := lines.Next()
	if !ok {
		return nil, domain.Formatf("empty input: expected a case count on the first line")
	}
	count, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || count < 1 {
		return nil, domain.Formatf("first line %q is not a positive case count", strings.TrimSpace(first))
	}

	cases := make([]domain.Case, 0, count)
	for i := 1; i <= count; i++ {
		text, err := seg.Segment(lines)
		if errors.Is(err, ErrExhausted) {
			return nil, domain.Formatf("input ended at case %d of %d", i, count)
		}
		if err != nil {
			return nil, domain.Formatf("case %d: %v", i, err)
		}
		cases = append(cases, domain.Case{Index: i, Text: text})
	}
	return cases, nil
}

package reader

import (
	"fmt"
	"strings"
)

// Segmenter decides how many input lines one case consumes and returns the
// case text. Implementations return ErrExhausted when the input runs out
// mid-case.
type Segmenter interface {
	Segment(lines *Lines) (string, error)
}

// SingleLine consumes one line per case, trimmed of surrounding whitespace.
type SingleLine struct{}

// Segment implements Segmenter.
func (SingleLine) Segment(lines *Lines) (string, error) {
	line, ok := lines.Next()
	if !ok {
		return "", ErrExhausted
	}
	return strings.TrimSpace(line), nil
}

// FixedLines returns a segmenter that consumes exactly n lines per case,
// joined by newlines. Interior blank lines are preserved verbatim.
func FixedLines(n int) Segmenter {
	return fixedLines(n)
}

type fixedLines int

func (f fixedLines) Segment(lines *Lines) (string, error) {
	if f < 1 {
		return "", fmt.Errorf("fixed segmenter needs at least 1 line per case, got %d", int(f))
	}
	segment := make([]string, 0, int(f))
	for i := 0; i < int(f); i++ {
		line, ok := lines.Next()
		if !ok {
			return "", ErrExhausted
		}
		segment = append(segment, line)
	}
	return strings.Join(segment, "\n"), nil
}

// Resolver segments variable-length cases: it consumes one header line,
// asks the function how many further lines the case spans based on that
// header, and returns the header plus those lines joined by newlines.
type Resolver func(header string) (int, error)

// Segment implements Segmenter.
func (r Resolver) Segment(lines *Lines) (string, error) {
	header, ok := lines.Next()
	if !ok {
		return "", ErrExhausted
	}
	header = strings.TrimSpace(header)

	rest, err := r(header)
	if err != nil {
		return "", err
	}
	if rest < 0 {
		return "", fmt.Errorf("resolver returned negative line count %d for header %q", rest, header)
	}

	segment := make([]string, 0, rest+1)
	segment = append(segment, header)
	for i := 0; i < rest; i++ {
		line, ok := lines.Next()
		if !ok {
			return "", ErrExhausted
		}
		segment = append(segment, line)
	}
	return strings.Join(segment, "\n"), nil
}

package domain

import "time"

// Case is one independent unit of work in a run.
// Index is 1-based; it is the number printed in the output line.
type Case struct {
	Index int
	Text  string
}

// Timing records how long one case spent in the user's callbacks.
// Timings are a side channel: collecting them never changes results.
type Timing struct {
	Index int
	Parse time.Duration
	Solve time.Duration
}

// Total is the combined parse and solve duration.
func (t Timing) Total() time.Duration {
	return t.Parse + t.Solve
}

/*
Package casegrid is a reusable driver for batch programs that follow the
contest I/O convention: input starts with a case count, and output is one
"Case #i: value" line per case.

A program supplies two domain callbacks, parse and solve; the driver owns
everything around them: case segmentation, sequential or pooled dispatch
with order-preserving recombination, output rendering, run-mode selection
and a fixture compiler that turns declarative input/output blocks into
executable tests.

# Usage

A minimal program is a solver pair and a Main call:

	package main

	import (
		"context"
		"strconv"
		"strings"

		"github.com/aretw0/casegrid"
		"github.com/aretw0/casegrid/pkg/ports"
	)

	func main() {
		casegrid.Main("sums", ports.SolverFuncs{
			SolveFunc: func(_ context.Context, _ int, parsed any) (any, error) {
				total := 0
				for _, f := range strings.Fields(parsed.(string)) {
					v, err := strconv.Atoi(f)
					if err != nil {
						return nil, err
					}
					total += v
				}
				return total, nil
			},
		})
	}

Running the program:

	sums                  # interactive: one ad hoc case per prompt
	sums -                # read stdin, write stdout
	sums in.txt out.txt   # file mode
	sums --test           # run the registered fixture suite
	sums -w 8 in.txt out  # solve with 8 workers

# Ordering

Concurrent dispatch writes results into a slot array indexed by case
number, never by completion order, so output for any input is identical
between sequential and pooled runs.
*/
package casegrid

package fixture

import (
	"context"
	"testing"

	"github.com/aretw0/casegrid/pkg/reader"
)

// Compile turns fixtures into subtests, one t.Run per fixture, so a
// program's test file is just a fixture list and a Compile call.
func Compile(t *testing.T, fixtures []Fixture, run Pipeline, seg reader.Segmenter) {
	t.Helper()
	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			if err := Check(context.Background(), f, run, seg); err != nil {
				t.Error(err)
			}
		})
	}
}

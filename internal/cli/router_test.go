package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		args []string
		test bool
		want Mode
	}{
		{name: "no args is interactive", args: nil, want: ModeInteractive},
		{name: "dash is stream", args: []string{"-"}, want: ModeStream},
		{name: "one file reads file writes stdout", args: []string{"in.txt"}, want: ModeFile},
		{name: "two files", args: []string{"in.txt", "out.txt"}, want: ModeFile},
		{name: "test flag wins", args: nil, test: true, want: ModeTest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Route(tt.args, tt.test, 1, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Mode)
		})
	}
}

func TestRoute_FileTargets(t *testing.T) {
	opts, err := Route([]string{"in.txt", "out.txt"}, false, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "in.txt", opts.Infile)
	assert.Equal(t, "out.txt", opts.Outfile)

	opts, err = Route([]string{"in.txt"}, false, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "in.txt", opts.Infile)
	assert.Empty(t, opts.Outfile, "missing output file means stdout")
}

func TestRoute_InteractiveRejectsPoolAndProfile(t *testing.T) {
	_, err := Route(nil, false, 4, false)
	assert.Error(t, err)

	_, err = Route(nil, false, 0, false)
	assert.Error(t, err, "0 means one worker per CPU, still concurrent")

	_, err = Route(nil, false, 1, true)
	assert.Error(t, err)
}

func TestRoute_TestRejectsPositionals(t *testing.T) {
	_, err := Route([]string{"in.txt"}, true, 1, false)
	assert.Error(t, err)
}

func TestNewCommand_PassesOptions(t *testing.T) {
	var got Options
	cmd := NewCommand("demo", "demo driver", func(_ context.Context, opts Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs([]string{"--workers", "3", "--profile", "in.txt", "out.txt"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, ModeFile, got.Mode)
	assert.Equal(t, 3, got.Workers)
	assert.True(t, got.Profile)
}

func TestNewCommand_TestMode(t *testing.T) {
	var got Options
	cmd := NewCommand("demo", "demo driver", func(_ context.Context, opts Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs([]string{"--test"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, ModeTest, got.Mode)
}

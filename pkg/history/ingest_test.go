package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseFilter_Matches(t *testing.T) {
	nf := DefaultNoiseFilter()

	tests := []struct {
		cmd  string
		want bool
	}{
		{"ls", true},
		{"  ls  ", true}, // whitespace trimmed before matching
		{"cd ..", true},
		{"cd ~/projects", true}, // prefix rule
		{"exit", true},
		{"ls -la /var/log", false},
		{"git status", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nf.Matches(tt.cmd), "command %q", tt.cmd)
	}
}

func TestNoiseFilter_Disabled(t *testing.T) {
	nf := DefaultNoiseFilter()
	nf.Disabled = true
	assert.False(t, nf.Matches("ls"))
}

func TestRecord_FiltersNoise(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Record(context.Background(), Entry{Command: "ls", Epoch: 1}, false, DefaultNoiseFilter())
	require.NoError(t, err)
	assert.True(t, res.Filtered)
	assert.False(t, res.Inserted)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.Entries)
}

func TestRecord_ForceBypassesFilter(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Record(context.Background(), Entry{Command: "ls", Epoch: 1}, true, DefaultNoiseFilter())
	require.NoError(t, err)
	assert.True(t, res.Inserted)
}

func TestRecord_DuplicateIsNoOpSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	e := Entry{Command: "git push", Epoch: 42, PPID: 9, Pwd: "/src", Salt: 5}

	first, err := s.Record(ctx, e, false, NoiseFilter{})
	require.NoError(t, err)
	assert.True(t, first.Inserted)

	// The shell hook firing twice for the same command must not duplicate.
	second, err := s.Record(ctx, e, false, NoiseFilter{})
	require.NoError(t, err)
	assert.False(t, second.Inserted)
	assert.False(t, second.Filtered)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Entries)
}

func TestRecord_CustomRules(t *testing.T) {
	s := newTestStore(t)
	nf := NoiseFilter{
		Exact:    []string{"secretcmd"},
		Prefixes: []string{"curl https://internal"},
	}

	res, err := s.Record(context.Background(), Entry{Command: "curl https://internal/api", Epoch: 1}, false, nf)
	require.NoError(t, err)
	assert.True(t, res.Filtered)

	res, err = s.Record(context.Background(), Entry{Command: "curl https://example.com", Epoch: 2}, false, nf)
	require.NoError(t, err)
	assert.True(t, res.Inserted)
}

package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dijkstracula/phenolphthalein/internal/env"
)

func s(atomic ...int32) env.State {
	return env.State{Atomic: atomic, NonAtomic: nil}
}

func TestObserveAccumulatesCounts(t *testing.T) {
	a := NewAggregator(PolicyReport, nil)

	_, err := a.Observe(s(1, 1), Accepted)
	require.NoError(t, err)
	_, err = a.Observe(s(1, 1), Accepted)
	require.NoError(t, err)
	_, err = a.Observe(s(0, 0), Rejected)
	require.NoError(t, err)

	assert.EqualValues(t, 3, a.Histogram().Total())
	entries := a.Histogram().Entries()
	assert.Len(t, entries, 2)
}

func TestObserveDetectsInconsistentClassification(t *testing.T) {
	a := NewAggregator(PolicyReport, nil)
	_, err := a.Observe(s(1, 1), Accepted)
	require.NoError(t, err)

	_, err = a.Observe(s(1, 1), Rejected)
	assert.ErrorIs(t, err, ErrInconsistentCheck)
}

func TestExitOnFailStopsOnRejected(t *testing.T) {
	a := NewAggregator(PolicyExitOnFail, nil)
	d, err := a.Observe(s(1), Accepted)
	require.NoError(t, err)
	assert.Equal(t, Continue, d)

	d, err = a.Observe(s(0), Rejected)
	require.NoError(t, err)
	assert.Equal(t, StopRejected, d)
}

func TestExitOnPassStopsOnAccepted(t *testing.T) {
	a := NewAggregator(PolicyExitOnPass, nil)
	d, err := a.Observe(s(0), Rejected)
	require.NoError(t, err)
	assert.Equal(t, Continue, d)

	d, err = a.Observe(s(1), Accepted)
	require.NoError(t, err)
	assert.Equal(t, StopAccepted, d)
}

func TestReportPolicyNeverStops(t *testing.T) {
	a := NewAggregator(PolicyReport, nil)
	for i := 0; i < 5; i++ {
		d, err := a.Observe(s(int32(i)), Accepted)
		require.NoError(t, err)
		assert.Equal(t, Continue, d)
	}
}

func TestParseCheckPolicy(t *testing.T) {
	cases := map[string]CheckPolicy{
		"disable":         PolicyDisable,
		"report":          PolicyReport,
		"exit-on-pass":    PolicyExitOnPass,
		"exit-on-fail":    PolicyExitOnFail,
		"exit-on-unknown": PolicyExitOnUnknown,
	}
	for in, want := range cases {
		got, err := ParseCheckPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCheckPolicy("bogus")
	assert.ErrorIs(t, err, ErrInvalidCheckPolicy)
}

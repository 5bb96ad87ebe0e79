package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() Manifest {
	return Manifest{
		NThreads:          2,
		AtomicInitials:    []int32{0, 0},
		AtomicNames:       []string{"x", "y"},
		NonAtomicInitials: []int32{0, 0},
		NonAtomicNames:    []string{"0:r0", "1:r0"},
	}
}

func TestNewSeedsInitialValues(t *testing.T) {
	e, err := New(testManifest())
	require.NoError(t, err)
	assert.EqualValues(t, 0, e.GetAtomic(0))
	assert.EqualValues(t, 0, e.GetAtomic(1))
	assert.EqualValues(t, 0, e.GetNonAtomic(0))
}

func TestValidateRejectsZeroThreads(t *testing.T) {
	m := testManifest()
	m.NThreads = 0
	_, err := New(m)
	assert.ErrorIs(t, err, ErrZeroThreads)
}

func TestValidateRejectsShapeMismatch(t *testing.T) {
	m := testManifest()
	m.AtomicNames = []string{"x"}
	_, err := New(m)
	assert.ErrorIs(t, err, ErrManifestShape)
}

// TestOutOfRangeAccessorsAreRejected pins the bounds-check polarity
// called out in spec.md §9: out-of-range accesses must be rejected (zero
// value / no-op), not the inverse.
func TestOutOfRangeAccessorsAreRejected(t *testing.T) {
	e, err := New(testManifest())
	require.NoError(t, err)

	assert.EqualValues(t, 0, e.GetAtomic(-1))
	assert.EqualValues(t, 0, e.GetAtomic(100))
	assert.EqualValues(t, 0, e.GetNonAtomic(-1))
	assert.EqualValues(t, 0, e.GetNonAtomic(100))

	e.SetAtomic(-1, 99)
	e.SetAtomic(100, 99)
	e.SetNonAtomic(-1, 99)
	e.SetNonAtomic(100, 99)
	assert.EqualValues(t, 0, e.GetAtomic(0))
	assert.EqualValues(t, 0, e.GetAtomic(1))

	// In-range accesses must still succeed.
	e.SetAtomic(0, 7)
	assert.EqualValues(t, 7, e.GetAtomic(0))
}

func TestReseedRestoresInitialValues(t *testing.T) {
	m := testManifest()
	m.AtomicInitials = []int32{7, 7}
	e, err := New(m)
	require.NoError(t, err)

	e.SetAtomic(0, 99)
	e.SetNonAtomic(0, 99)
	e.Reseed()

	assert.EqualValues(t, 7, e.GetAtomic(0))
	assert.EqualValues(t, 7, e.GetAtomic(1))
	assert.EqualValues(t, 0, e.GetNonAtomic(0))
}

func TestSnapshotReusesBuffer(t *testing.T) {
	e, err := New(testManifest())
	require.NoError(t, err)
	e.SetAtomic(0, 42)

	var buf State
	s1 := e.Snapshot(&buf)
	assert.EqualValues(t, 42, s1.Atomic[0])

	e.SetAtomic(0, 43)
	s2 := e.Snapshot(&s1)
	assert.EqualValues(t, 43, s2.Atomic[0])
}

func TestAcquireReleaseRefcount(t *testing.T) {
	e, err := New(testManifest())
	require.NoError(t, err)

	e2 := e.Acquire()
	assert.Same(t, e, e2)

	assert.False(t, e.Release(), "first release of two holders should not be last")
	assert.True(t, e.Release(), "second release should observe refcount reaching zero")
}

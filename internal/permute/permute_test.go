package permute

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertIsPermutation(t *testing.T, p []int, n int) {
	t.Helper()
	got := append([]int(nil), p...)
	sort.Ints(got)
	for i := 0; i < n; i++ {
		assert.Equal(t, i, got[i])
	}
}

func TestStaticIsIdentity(t *testing.T) {
	s := Static{}
	p := s.Permute(5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p)

	// Repeated calls must keep producing the identity order.
	p2 := s.Permute(5)
	assert.Equal(t, p, p2)
}

func TestRandomProducesAPermutation(t *testing.T) {
	r := NewRandom(1)
	for i := 0; i < 50; i++ {
		p := r.Permute(9)
		assertIsPermutation(t, p, 9)
	}
}

func TestRandomIsReproducibleFromSeed(t *testing.T) {
	a := NewRandom(42).Permute(20)
	b := NewRandom(42).Permute(20)
	assert.Equal(t, a, b)
}

// TestSingleThreadPermutersAgree pins P6: when n==1 static and random
// must produce identical (trivial) permutations.
func TestSingleThreadPermutersAgree(t *testing.T) {
	s := Static{}.Permute(1)
	r := NewRandom(7).Permute(1)
	assert.Equal(t, s, r)
	assert.Equal(t, []int{0}, s)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New("bogus", 0)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestNewConstructsBothKinds(t *testing.T) {
	p, err := New(StaticKind, 0)
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, p.Permute(3))

	p, err = New(RandomKind, 1)
	assert.NoError(t, err)
	assertIsPermutation(t, p.Permute(3), 3)
}

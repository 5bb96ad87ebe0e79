package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinModuleKnownNames(t *testing.T) {
	for _, name := range []string{"sb", "sb-always-pass", "sb-always-fail", "counter"} {
		mod, err := builtinModule(name)
		require.NoError(t, err)
		assert.NotNil(t, mod)
		assert.Greater(t, mod.Manifest().NThreads, 0)
	}
}

func TestBuiltinModuleUnknownName(t *testing.T) {
	_, err := builtinModule("bogus")
	assert.ErrorIs(t, err, errUnknownBuiltin)
}

func TestRunEndToEndSmallIterationCap(t *testing.T) {
	code := run([]string{"--builtin=sb", "--iterations=50", "--output-type=json"})
	assert.Equal(t, 0, code)
}

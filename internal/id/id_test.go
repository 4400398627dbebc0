package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_PrefixesID(t *testing.T) {
	got, err := Generate("cand")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "cand-"))

	// Default NanoID is 21 characters after the prefix and dash.
	require.Len(t, got, len("cand-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("note")
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	require.NotPanics(t, func() {
		id := MustGenerate("user")
		require.True(t, strings.HasPrefix(id, "user-"))
	})
}

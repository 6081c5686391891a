package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "kgpipe", rootCmd.Use)

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["chunk"], "chunk command registered")
	assert.True(t, names["canonicalize"], "canonicalize command registered")
	assert.True(t, names["version"], "version command registered")
}

func TestVersionCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "kgpipe version")
}

func TestChunkCommand_RequiresArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"chunk"})

	require.Error(t, rootCmd.Execute())
}

func TestCanonicalizeCommand_RequiresArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"canonicalize"})

	require.Error(t, rootCmd.Execute())
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopologyPath(t *testing.T) {
	t.Run("positional argument", func(t *testing.T) {
		cfg, exit, err := Parse([]string{"pipeline.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "pipeline.hcl", cfg.TopologyPath)
	})

	t.Run("long flag wins over positional", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-topology", "a.hcl", "b.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.TopologyPath)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-t", "a.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.TopologyPath)
	})
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseDefaults(t *testing.T) {
	cfg, _, err := Parse([]string{"pipeline.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ":8600", cfg.ListenAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.PolicyPath)
}

func TestParseRejectsInvalidLogOptions(t *testing.T) {
	_, _, err := Parse([]string{"-log-format", "xml", "pipeline.hcl"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"-log-level", "verbose", "pipeline.hcl"}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
}

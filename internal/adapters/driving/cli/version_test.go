package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "racg version test-version-1.0.0")
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	out, err := execute(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "racg version dev")
}

func TestVersionCmd_Long(t *testing.T) {
	out, err := execute(t, "", "version", "--long")

	require.NoError(t, err)
	assert.Contains(t, out, "racg version ")
	assert.Contains(t, out, "go:       go")
	assert.Contains(t, out, "revision: ")
}

func TestVersionCmd_SkipsWiring(t *testing.T) {
	assert.Equal(t, "true", versionCmd.Annotations[skipWireAnnotation])
}

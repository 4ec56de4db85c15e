package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetters(t *testing.T) {
	Set("1.2.3", "abc123", "ci")

	assert.Equal(t, "1.2.3", Version())
	assert.Equal(t, "abc123", Commit())
	assert.Equal(t, "ci", BuiltBy())
	assert.Equal(t, "1.2.3 (commit abc123, built by ci)", Get().String())
}

func TestEnrichOverwritesDefaults(t *testing.T) {
	Set("dev", "none", "unknown")
	Enrich()

	// ReadBuildInfo always knows the Go version.
	assert.NotEqual(t, "unknown", BuiltBy())
}

func TestEnrichPreservesExplicitValues(t *testing.T) {
	Set("v1.0.0", "deadbeef", "goreleaser")
	Enrich()

	assert.Equal(t, "deadbeef", Commit())
	assert.Equal(t, "goreleaser", BuiltBy())
}

package forge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRemote(t *testing.T) {
	cases := []struct {
		remote string
		owner  string
		repo   string
	}{
		{"git@github.com:owner/repo.git", "owner", "repo"},
		{"https://github.com/owner/repo", "owner", "repo"},
		{"https://github.com/owner/repo.git", "owner", "repo"},
		{"http://github.com/owner/repo", "owner", "repo"},
		{"ssh://git@github.com/owner/repo.git", "owner", "repo"},
		{"https://github.com/owner/repo/", "owner", "repo"},
	}
	for _, tc := range cases {
		owner, repo, err := ParseGitHubRemote(tc.remote)
		require.NoError(t, err, tc.remote)
		assert.Equal(t, tc.owner, owner, tc.remote)
		assert.Equal(t, tc.repo, repo, tc.remote)
	}
}

func TestParseGitHubRemoteRejectsInvalid(t *testing.T) {
	for _, remote := range []string{
		"",
		"not-a-valid-url",
		"git@gitlab.com:owner/repo.git",
		"https://github.com/owner",
	} {
		_, _, err := ParseGitHubRemote(remote)
		assert.Error(t, err, remote)
	}
}

func TestResolveTokenExplicit(t *testing.T) {
	tok, source, err := ResolveToken(context.Background(), "  abc123  ")
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
	assert.Equal(t, TokenSourceExplicit, source)
}

func TestResolveTokenEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")

	tok, source, err := ResolveToken(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
	assert.Equal(t, TokenSourceEnv, source)
}

package forge

import (
	"errors"
	"path"
	"strings"
)

// ParseGitHubRemote extracts owner and repository name from an origin
// URL. SSH (git@github.com:owner/repo.git), HTTPS and ssh:// forms are
// supported; anything else is rejected.
func ParseGitHubRemote(remote string) (owner, repo string, err error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", "", errors.New("empty remote URL")
	}

	for _, prefix := range []string{
		"git@github.com:",
		"ssh://git@github.com/",
		"https://github.com/",
		"http://github.com/",
	} {
		if strings.HasPrefix(remote, prefix) {
			return splitOwnerRepo(strings.TrimPrefix(remote, prefix))
		}
	}
	return "", "", errors.New("remote is not a github.com URL")
}

func splitOwnerRepo(p string) (string, string, error) {
	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	parts := strings.Split(p, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New("invalid github repo path")
	}
	return parts[0], path.Base(parts[1]), nil
}

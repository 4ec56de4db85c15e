package forge

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/branchsweep/branchsweep/internal/log"
	"github.com/branchsweep/branchsweep/internal/models"
)

// GitHub looks up pull requests through the GitHub REST API.
type GitHub struct {
	// Client is exported so tests can point BaseURL at a local server.
	Client *github.Client
	owner  string
	repo   string
}

// NewGitHub builds a provider for owner/repo. With an empty token the
// client is unauthenticated; lookups may then be rate limited, which
// callers fold to no-PR like any other lookup failure.
func NewGitHub(token, owner, repo string) *GitHub {
	transport := http.DefaultTransport
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	httpClient := &http.Client{Transport: transport}

	return &GitHub{
		Client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
	}
}

// Lookup resolves the PR status of a branch. When a branch has more
// than one PR (e.g. reopened after a merge), the most recently updated
// one wins. A PR closed without merging counts as no PR.
func (g *GitHub) Lookup(ctx context.Context, branch string) (models.PRStatus, *models.PRInfo, error) {
	opts := &github.PullRequestListOptions{
		State:     "all",
		Head:      g.owner + ":" + branch,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: 10,
		},
	}

	prs, _, err := g.Client.PullRequests.List(ctx, g.owner, g.repo, opts)
	if err != nil {
		return models.StatusUnknown, nil, classifyAPIError(branch, err)
	}

	for _, pr := range prs {
		if pr.GetHead().GetRef() != branch {
			continue
		}

		info := &models.PRInfo{
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			URL:    pr.GetHTMLURL(),
		}
		switch {
		case pr.MergedAt != nil:
			return models.StatusMerged, info, nil
		case pr.GetState() == "open":
			return models.StatusOpen, info, nil
		default:
			// Closed without merging.
			return models.StatusNoPR, nil, nil
		}
	}
	return models.StatusNoPR, nil, nil
}

func classifyAPIError(branch string, err error) error {
	switch typed := err.(type) {
	case *github.RateLimitError:
		return fmt.Errorf("lookup %s: rate limited until %s: %w", branch, typed.Rate.Reset, err)
	case *github.ErrorResponse:
		if typed.Response != nil && typed.Response.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("lookup %s: authentication failed: %w", branch, err)
		}
		return fmt.Errorf("lookup %s: %w", branch, err)
	default:
		log.Printf("github lookup %s: %v", branch, err)
		return fmt.Errorf("lookup %s: %w", branch, err)
	}
}

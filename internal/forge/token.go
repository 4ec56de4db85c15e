package forge

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// TokenSource records where the GitHub token came from.
type TokenSource string

const (
	TokenSourceExplicit TokenSource = "flag"
	TokenSourceEnv      TokenSource = "env:GITHUB_TOKEN"
	TokenSourceGHCLI    TokenSource = "gh"
	TokenSourceNone     TokenSource = "none"
)

// ResolveToken resolves a GitHub access token.
//
// Precedence:
//  1. provided (if non-empty)
//  2. GITHUB_TOKEN env var
//  3. GitHub CLI: `gh auth token`
//
// An empty token with a nil error means unauthenticated operation.
func ResolveToken(ctx context.Context, provided string) (string, TokenSource, error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, TokenSourceExplicit, nil
	}
	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env, TokenSourceEnv, nil
	}

	tok, err := tokenFromGitHubCLI(ctx)
	if err != nil {
		return "", TokenSourceNone, err
	}
	if tok != "" {
		return tok, TokenSourceGHCLI, nil
	}
	return "", TokenSourceNone, nil
}

func tokenFromGitHubCLI(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}

	// Keep this bounded so a broken gh config or credential helper
	// doesn't hang startup.
	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	out, err := exec.CommandContext(cmdCtx, "gh", "auth", "token").Output()
	if err != nil {
		// A missing login is not an error, just no token.
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

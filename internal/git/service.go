// Package git wraps the git commands branchsweep needs: branch
// enumeration, HEAD lookup, branch deletion and remote discovery.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/branchsweep/branchsweep/internal/log"
)

// Typed failures surfaced to callers. Deletion errors wrap these so
// the delete report can distinguish refusal from absence.
var (
	// ErrNotRepository means the working directory is not inside a git
	// repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrNotMerged means git refused to delete a branch with unmerged
	// commits and force was not requested.
	ErrNotMerged = errors.New("branch not fully merged")
	// ErrNotFound means the branch does not exist.
	ErrNotFound = errors.New("branch not found")
)

// LookupPath finds executables in PATH. Package variable so tests can
// stub it out.
var LookupPath = exec.LookPath

// Service runs git commands inside one repository.
type Service struct {
	dir string
}

// NewService returns a Service operating in dir ("" = process cwd).
func NewService(dir string) *Service {
	return &Service{dir: dir}
}

// runGit executes a git subcommand and returns trimmed stdout. Stderr
// is captured and carried in the returned error.
func (s *Service) runGit(ctx context.Context, args ...string) (string, error) {
	if _, err := LookupPath("git"); err != nil {
		return "", fmt.Errorf("git executable: %w", err)
	}

	log.Printf("git %s (cwd=%s)", strings.Join(args, " "), s.dir)
	// #nosec G204 -- arguments come from internal logic, never shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	if s.dir != "" {
		cmd.Dir = s.dir
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				return "", fmt.Errorf("git %s: %s", args[0], stderr)
			}
			return "", fmt.Errorf("git %s: exit %d", args[0], exitErr.ExitCode())
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// EnsureRepository reports ErrNotRepository when dir is not inside a
// git work tree.
func (s *Service) EnsureRepository(ctx context.Context) error {
	if _, err := s.runGit(ctx, "rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return nil
}

// GitDir returns the repository's .git directory as an absolute path.
func (s *Service) GitDir(ctx context.Context) (string, error) {
	out, err := s.runGit(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return out, nil
}

// ListLocalBranches returns all local branch names in for-each-ref
// order. That order is stable and is what the UI displays.
func (s *Service) ListLocalBranches(ctx context.Context) ([]string, error) {
	out, err := s.runGit(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	if out == "" {
		return nil, nil
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// CurrentBranch returns the checked-out branch name, or "" for a
// detached HEAD.
func (s *Service) CurrentBranch(ctx context.Context) (string, error) {
	out, err := s.runGit(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		// Detached HEAD: symbolic-ref exits non-zero with no output.
		if strings.Contains(err.Error(), "exit 1") {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// DeleteBranch removes a local branch. Errors wrap ErrNotMerged when
// git refuses an unmerged branch (and force is false) and ErrNotFound
// when the branch does not exist.
func (s *Service) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := s.runGit(ctx, "branch", flag, name); err != nil {
		return classifyDeleteError(name, err)
	}
	return nil
}

func classifyDeleteError(name string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not fully merged"):
		return fmt.Errorf("%q: %w", name, ErrNotMerged)
	case strings.Contains(msg, "not found"):
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	default:
		return err
	}
}

// RemoteURL returns the URL of the origin remote.
func (s *Service) RemoteURL(ctx context.Context) (string, error) {
	return s.runGit(ctx, "remote", "get-url", "origin")
}

// Package models defines the data objects shared across branchsweep packages.
package models

import "fmt"

// PRStatus is the resolved pull-request state for a local branch.
type PRStatus int

const (
	// StatusUnknown means no lookup has resolved for the branch yet.
	StatusUnknown PRStatus = iota
	// StatusOpen means the branch has an open pull request.
	StatusOpen
	// StatusMerged means the branch's pull request was merged.
	StatusMerged
	// StatusNoPR means no pull request exists for the branch, or the
	// lookup failed and was folded to this value.
	StatusNoPR
)

// Resolved reports whether the status is a terminal value.
func (s PRStatus) Resolved() bool {
	return s != StatusUnknown
}

func (s PRStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusMerged:
		return "merged"
	case StatusNoPR:
		return "no pr"
	default:
		return "..."
	}
}

// PRInfo captures the metadata of the pull request backing a status.
type PRInfo struct {
	Number int
	Title  string
	URL    string
}

// DeleteStatus is the per-branch outcome of a delete pass.
type DeleteStatus int

const (
	// DeleteNotAttempted means no delete pass touched the branch.
	DeleteNotAttempted DeleteStatus = iota
	// Deleted means the branch was removed.
	Deleted
	// DeleteFailed means git refused or failed the deletion.
	DeleteFailed
)

// DeleteResult reports one branch's outcome from a delete pass.
type DeleteResult struct {
	Branch string
	Status DeleteStatus
	Reason string
}

func (r DeleteResult) String() string {
	switch r.Status {
	case Deleted:
		return fmt.Sprintf("deleted %s", r.Branch)
	case DeleteFailed:
		return fmt.Sprintf("failed %s: %s", r.Branch, r.Reason)
	default:
		return fmt.Sprintf("skipped %s", r.Branch)
	}
}

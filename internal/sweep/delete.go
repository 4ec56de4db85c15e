package sweep

import (
	"context"
	"errors"

	"github.com/branchsweep/branchsweep/internal/git"
	"github.com/branchsweep/branchsweep/internal/log"
	"github.com/branchsweep/branchsweep/internal/models"
)

// BranchDeleter deletes one local branch. Satisfied by *git.Service.
type BranchDeleter interface {
	DeleteBranch(ctx context.Context, name string, force bool) error
}

// DeleteSelected deletes every branch in the table's current selection
// snapshot, sequentially, recording one result per name. A failure
// never stops the batch and nothing is rolled back. Protected and HEAD
// branches are re-checked here and refused even if a snapshot somehow
// contains one.
func DeleteSelected(ctx context.Context, deleter BranchDeleter, policy ProtectionPolicy, head string, table *Table, force bool) []models.DeleteResult {
	names := table.SelectedNames()
	results := make([]models.DeleteResult, 0, len(names))

	for _, name := range names {
		result := models.DeleteResult{Branch: name}
		switch {
		case policy.IsProtected(name, head):
			result.Status = models.DeleteFailed
			result.Reason = "refused: protected branch"
		default:
			if err := deleter.DeleteBranch(ctx, name, force); err != nil {
				result.Status = models.DeleteFailed
				result.Reason = deleteReason(err)
			} else {
				result.Status = models.Deleted
			}
		}
		log.Printf("delete %s: %s", name, result.String())
		table.ApplyOutcome(result)
		results = append(results, result)
	}
	return results
}

func deleteReason(err error) string {
	switch {
	case errors.Is(err, git.ErrNotMerged):
		return "not fully merged (re-run with force to override)"
	case errors.Is(err, git.ErrNotFound):
		return "branch no longer exists"
	default:
		return err.Error()
	}
}

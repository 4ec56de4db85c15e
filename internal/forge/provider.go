// Package forge resolves pull-request status for local branches.
package forge

import (
	"context"

	"github.com/branchsweep/branchsweep/internal/models"
)

// StatusProvider answers, per branch, whether a pull request exists
// and in what state. Implementations may be slow or fail; callers fold
// failures to models.StatusNoPR.
type StatusProvider interface {
	Lookup(ctx context.Context, branch string) (models.PRStatus, *models.PRInfo, error)
}

// Offline is a StatusProvider that never talks to the network. Every
// branch resolves to no PR, matching the tool's tokenless mode.
type Offline struct{}

// Lookup implements StatusProvider.
func (Offline) Lookup(context.Context, string) (models.PRStatus, *models.PRInfo, error) {
	return models.StatusNoPR, nil, nil
}

package sweep

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/branchsweep/branchsweep/internal/forge"
	"github.com/branchsweep/branchsweep/internal/log"
	"github.com/branchsweep/branchsweep/internal/models"
)

// Update is one streamed status arrival.
type Update struct {
	Index  int
	Name   string
	Status models.PRStatus
}

// Reconciler fans out one PR lookup per branch and merges results into
// the table as they arrive.
type Reconciler struct {
	table    *Table
	provider forge.StatusProvider
	limit    int
}

// NewReconciler builds a reconciler. limit caps concurrent lookups;
// 0 or less means one goroutine per branch with no cap.
func NewReconciler(table *Table, provider forge.StatusProvider, limit int) *Reconciler {
	return &Reconciler{table: table, provider: provider, limit: limit}
}

// Run launches the lookups and returns the update stream. The channel
// is buffered to the branch count so producers never block on a
// reader that has gone away; it closes once every lookup has resolved.
// Cancelling ctx abandons in-flight lookups. Run itself returns
// immediately: with a concurrency limit, group.Go blocks once the
// limit is reached, so the fan-out loop runs off the caller's
// goroutine.
//
// A lookup failure (missing auth, rate limit, network error) folds
// that one branch to no-PR and never delays or aborts the others.
func (r *Reconciler) Run(ctx context.Context) <-chan Update {
	rows := r.table.Rows()
	updates := make(chan Update, len(rows))

	go func() {
		defer close(updates)

		var group errgroup.Group
		if r.limit > 0 {
			group.SetLimit(r.limit)
		}

		for i, row := range rows {
			if row.Status.Resolved() {
				continue
			}
			index, name := i, row.Name
			group.Go(func() error {
				status, pr, err := r.provider.Lookup(ctx, name)
				if err != nil {
					if ctx.Err() != nil {
						// Abandoned by quit or refresh; the table is
						// already discarded.
						return nil
					}
					log.Printf("lookup %s: %v", name, err)
					status, pr = models.StatusNoPR, nil
				}
				if !status.Resolved() {
					status = models.StatusNoPR
				}
				r.table.ApplyStatus(name, status, pr)
				updates <- Update{Index: index, Name: name, Status: status}
				return nil
			})
		}
		_ = group.Wait()
	}()
	return updates
}

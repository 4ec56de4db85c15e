package main

import (
	"fmt"

	"github.com/fatih/color"
	urfavecli "github.com/urfave/cli/v2"

	"github.com/branchsweep/branchsweep/internal/log"
	"github.com/branchsweep/branchsweep/internal/models"
	"github.com/branchsweep/branchsweep/internal/sweep"
)

func listCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "list",
		Usage:  "Print branches and their PR status without the TUI",
		Action: runList,
	}
}

// runList resolves every branch status and prints one line per
// branch. Useful for scripts and non-interactive shells.
func runList(c *urfavecli.Context) error {
	cfg, gitSvc, provider, err := setup(c)
	if err != nil {
		_ = log.Close()
		return err
	}
	defer func() { _ = log.Close() }()

	head, err := gitSvc.CurrentBranch(c.Context)
	if err != nil {
		return err
	}
	names, err := gitSvc.ListLocalBranches(c.Context)
	if err != nil {
		return err
	}

	policy := sweep.NewProtectionPolicy(cfg.ProtectedBranches)
	candidates := policy.FilterCandidates(names, head)
	if len(candidates) == 0 {
		fmt.Println("no deletable branches")
		return nil
	}

	table := sweep.NewTable(candidates)
	updates := sweep.NewReconciler(table, provider, cfg.Concurrency).Run(c.Context)
	for range updates {
	}

	merged := color.New(color.FgGreen).SprintFunc()
	open := color.New(color.FgYellow).SprintFunc()
	muted := color.New(color.Faint).SprintFunc()

	for _, row := range table.Rows() {
		var status string
		switch row.Status {
		case models.StatusMerged:
			status = merged(row.Status.String())
		case models.StatusOpen:
			status = open(row.Status.String())
		default:
			status = muted(row.Status.String())
		}
		// Merged branches come back preselected; mark them.
		mark := " "
		if row.Selected {
			mark = merged("*")
		}
		line := fmt.Sprintf("%s %-40s %s", mark, row.Name, status)
		if row.PR != nil {
			line += muted(fmt.Sprintf("  #%d %s", row.PR.Number, row.PR.Title))
		}
		fmt.Println(line)
	}
	return nil
}

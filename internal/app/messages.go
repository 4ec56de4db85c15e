package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/branchsweep/branchsweep/internal/models"
	"github.com/branchsweep/branchsweep/internal/sweep"
)

type (
	// branchesLoadedMsg carries the branch scan result.
	branchesLoadedMsg struct {
		run        int
		head       string
		candidates []string
		err        error
	}

	// statusUpdateMsg is one streamed PR status arrival.
	statusUpdateMsg struct {
		run    int
		update sweep.Update
	}

	// reconcileDoneMsg fires when every lookup of a run has resolved.
	reconcileDoneMsg struct {
		run int
	}

	// resultsMsg carries the per-branch deletion outcomes.
	resultsMsg struct {
		results []models.DeleteResult
	}

	// refsWatchStartedMsg reports that the refs watcher is running and
	// an event wait should be armed.
	refsWatchStartedMsg struct{}

	// refsChangedMsg fires when the refs watcher sees branch activity.
	refsChangedMsg struct{}

	errMsg struct {
		err error
	}
)

// loadBranches scans local branches and the current HEAD.
func (m *Model) loadBranches() tea.Cmd {
	run := m.run
	return func() tea.Msg {
		head, err := m.source.CurrentBranch(m.ctx)
		if err != nil {
			return branchesLoadedMsg{run: run, err: err}
		}
		names, err := m.source.ListLocalBranches(m.ctx)
		if err != nil {
			return branchesLoadedMsg{run: run, err: err}
		}
		candidates := m.policy.FilterCandidates(names, head)
		return branchesLoadedMsg{run: run, head: head, candidates: candidates}
	}
}

// waitForUpdate arms a single read on the reconciler stream. The
// update loop re-arms it after each message so the channel drains
// exactly as fast as the UI consumes it.
func (m *Model) waitForUpdate() tea.Cmd {
	run := m.run
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return reconcileDoneMsg{run: run}
		}
		return statusUpdateMsg{run: run, update: update}
	}
}

// deleteSelected runs the batch deletion for the current table.
func (m *Model) deleteSelected() tea.Cmd {
	table := m.table
	head := m.head
	force := m.config.Force
	return func() tea.Msg {
		results := sweep.DeleteSelected(m.ctx, m.source, m.policy, head, table, force)
		return resultsMsg{results: results}
	}
}

// startRefsWatcher defers the git-dir resolution and watcher setup to
// the returned command so no subprocess runs on the update loop.
func (m *Model) startRefsWatcher() tea.Cmd {
	if !m.config.AutoRefresh {
		return nil
	}
	if m.watch == nil || m.watch.Started {
		return nil
	}
	return func() tea.Msg {
		gitDir, err := m.source.GitDir(m.ctx)
		if err != nil {
			m.debugf("refs watcher skipped: %v", err)
			return nil
		}
		started, err := m.watch.Start(gitDir)
		if err != nil {
			return errMsg{err: err}
		}
		if !started {
			return nil
		}
		return refsWatchStartedMsg{}
	}
}

func (m *Model) waitForRefsEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-events
		if !ok {
			return nil
		}
		return refsChangedMsg{}
	}
}

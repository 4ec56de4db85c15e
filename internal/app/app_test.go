package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchsweep/branchsweep/internal/config"
	"github.com/branchsweep/branchsweep/internal/forge"
	"github.com/branchsweep/branchsweep/internal/models"
)

type fakeSource struct {
	mu       sync.Mutex
	head     string
	branches []string
	deleted  []string
	failWith map[string]error

	gitDirCalls int
}

func (f *fakeSource) CurrentBranch(context.Context) (string, error) {
	return f.head, nil
}

func (f *fakeSource) ListLocalBranches(context.Context) ([]string, error) {
	return append([]string(nil), f.branches...), nil
}

func (f *fakeSource) DeleteBranch(_ context.Context, name string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failWith[name]; ok {
		return err
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeSource) GitDir(context.Context) (string, error) {
	f.mu.Lock()
	f.gitDirCalls++
	f.mu.Unlock()
	return "", errors.New("no git dir")
}

func (f *fakeSource) gitDirCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gitDirCalls
}

type providerFunc func(ctx context.Context, branch string) (models.PRStatus, *models.PRInfo, error)

func (f providerFunc) Lookup(ctx context.Context, branch string) (models.PRStatus, *models.PRInfo, error) {
	return f(ctx, branch)
}

func mergedFor(names ...string) providerFunc {
	merged := make(map[string]bool, len(names))
	for _, name := range names {
		merged[name] = true
	}
	return func(_ context.Context, branch string) (models.PRStatus, *models.PRInfo, error) {
		if merged[branch] {
			return models.StatusMerged, &models.PRInfo{Number: 7, Title: "done"}, nil
		}
		return models.StatusNoPR, nil, nil
	}
}

func newTestModel(source *fakeSource, provider forge.StatusProvider) *Model {
	cfg := config.DefaultConfig()
	return NewModel(context.Background(), cfg, source, provider)
}

// loadModel runs the branch scan synchronously and feeds the result
// through Update, putting the model in the selecting state.
func loadModel(t *testing.T, m *Model) {
	t.Helper()
	msg := m.loadBranches()()
	_, _ = m.Update(msg)
	require.Equal(t, stateSelecting, m.state)
}

// drainUpdates pumps the reconciler stream through Update until it
// closes.
func drainUpdates(t *testing.T, m *Model) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		cmd := m.waitForUpdate()
		if cmd == nil {
			return
		}
		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()
		select {
		case msg := <-done:
			_, _ = m.Update(msg)
		case <-deadline:
			t.Fatal("reconciler stream never closed")
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScanFiltersProtectedAndHead(t *testing.T) {
	source := &fakeSource{
		head:     "feature-a",
		branches: []string{"main", "develop", "feature-a", "feature-b"},
	}
	m := newTestModel(source, forge.Offline{})
	loadModel(t, m)

	rows := m.table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "feature-b", rows[0].Name)
	assert.Equal(t, models.StatusUnknown, rows[0].Status)
}

func TestMergedBranchesAutoSelected(t *testing.T) {
	source := &fakeSource{
		head:     "main",
		branches: []string{"main", "feature-a", "feature-b"},
	}
	m := newTestModel(source, mergedFor("feature-a"))
	loadModel(t, m)
	drainUpdates(t, m)

	rows := m.table.Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Selected, "merged branch should be preselected")
	assert.False(t, rows[1].Selected)
	assert.Equal(t, []string{"feature-a"}, m.table.SelectedNames())
	assert.Equal(t, 0, m.pending)
}

func TestManualToggleBeatsAutoSelect(t *testing.T) {
	block := make(chan struct{})
	provider := providerFunc(func(ctx context.Context, branch string) (models.PRStatus, *models.PRInfo, error) {
		select {
		case <-block:
		case <-ctx.Done():
			return models.StatusUnknown, nil, ctx.Err()
		}
		return models.StatusMerged, nil, nil
	})
	source := &fakeSource{head: "main", branches: []string{"main", "feature-a"}}
	m := newTestModel(source, provider)
	loadModel(t, m)

	// Select, then deselect, while the lookup is still in flight.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	close(block)
	drainUpdates(t, m)

	assert.Equal(t, models.StatusMerged, m.table.Rows()[0].Status)
	assert.Empty(t, m.table.SelectedNames(), "manual deselect must survive a merged arrival")
}

func TestConfirmRequiresSelection(t *testing.T) {
	source := &fakeSource{head: "main", branches: []string{"main", "feature-a"}}
	m := newTestModel(source, forge.Offline{})
	loadModel(t, m)
	drainUpdates(t, m)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateSelecting, m.state, "no selection, no confirm screen")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateConfirming, m.state)

	_, _ = m.Update(keyRunes("n"))
	assert.Equal(t, stateSelecting, m.state)
}

func TestWatcherSetupStaysOffUpdateLoop(t *testing.T) {
	source := &fakeSource{head: "main", branches: []string{"main", "feature-a"}}
	m := newTestModel(source, forge.Offline{})
	m.config.AutoRefresh = true

	// Building the command must not touch git; only running it may.
	cmd := m.startRefsWatcher()
	require.NotNil(t, cmd)
	assert.Equal(t, 0, source.gitDirCallCount())

	msg := cmd()
	assert.Equal(t, 1, source.gitDirCallCount())
	assert.Nil(t, msg, "unresolvable git dir skips the watcher quietly")
}

func TestConfirmButtonNavigation(t *testing.T) {
	source := &fakeSource{head: "main", branches: []string{"main", "feature-a"}}
	m := newTestModel(source, forge.Offline{})
	loadModel(t, m)
	drainUpdates(t, m)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateConfirming, m.state)
	assert.False(t, m.confirmCancel, "delete button starts focused")

	// Move to cancel and accept it: nothing gets deleted.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, m.confirmCancel)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateSelecting, m.state)
	assert.Empty(t, source.deleted)

	// Selection survives the cancel; accepting delete proceeds.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateConfirming, m.state)
	assert.False(t, m.confirmCancel, "focus resets to delete")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateDeleting, m.state)
}

func TestDeleteFlowRecordsOutcomes(t *testing.T) {
	source := &fakeSource{
		head:     "main",
		branches: []string{"main", "feature-a", "feature-b"},
	}
	m := newTestModel(source, mergedFor("feature-a", "feature-b"))
	loadModel(t, m)
	drainUpdates(t, m)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateConfirming, m.state)
	_, cmd := m.Update(keyRunes("y"))
	require.Equal(t, stateDeleting, m.state)
	require.NotNil(t, cmd)

	msg := m.deleteSelected()()
	_, _ = m.Update(msg)

	require.Equal(t, stateResults, m.state)
	require.Len(t, m.results, 2)
	for _, res := range m.results {
		assert.Equal(t, models.Deleted, res.Status)
	}
	assert.ElementsMatch(t, []string{"feature-a", "feature-b"}, source.deleted)
}

func TestRefreshIgnoresStaleRun(t *testing.T) {
	source := &fakeSource{head: "main", branches: []string{"main", "feature-a"}}
	m := newTestModel(source, forge.Offline{})
	loadModel(t, m)

	staleRun := m.run
	_ = m.refresh()
	assert.Equal(t, stateLoading, m.state)
	assert.NotEqual(t, staleRun, m.run)

	// A late arrival from the abandoned run must not change anything.
	_, cmd := m.Update(statusUpdateMsg{run: staleRun})
	assert.Nil(t, cmd)
	_, _ = m.Update(reconcileDoneMsg{run: staleRun})

	msg := m.loadBranches()()
	_, _ = m.Update(msg)
	require.Equal(t, stateSelecting, m.state)
	drainUpdates(t, m)
	assert.Equal(t, models.StatusNoPR, m.table.Rows()[0].Status)
}

func TestCursorMovesWhileLookupsPending(t *testing.T) {
	block := make(chan struct{})
	provider := providerFunc(func(ctx context.Context, branch string) (models.PRStatus, *models.PRInfo, error) {
		if branch == "feature-b" {
			select {
			case <-block:
			case <-ctx.Done():
				return models.StatusUnknown, nil, ctx.Err()
			}
		}
		return models.StatusNoPR, nil, nil
	})
	source := &fakeSource{
		head:     "main",
		branches: []string{"main", "feature-a", "feature-b", "feature-c"},
	}
	m := newTestModel(source, provider)
	loadModel(t, m)

	_, _ = m.Update(keyRunes("j"))
	_, _ = m.Update(keyRunes("j"))
	assert.Equal(t, 2, m.table.Cursor())
	_, _ = m.Update(keyRunes("k"))
	assert.Equal(t, 1, m.table.Cursor())

	close(block)
	drainUpdates(t, m)
}

func TestViewStates(t *testing.T) {
	source := &fakeSource{head: "main", branches: []string{"main", "feature-a"}}
	m := newTestModel(source, forge.Offline{})
	m.width = 80
	loadModel(t, m)
	drainUpdates(t, m)

	view := m.View()
	assert.Contains(t, view, "feature-a")
	assert.Contains(t, view, "no pr")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	assert.Contains(t, view, "Delete 1 branch(es)?")

	_, _ = m.Update(keyRunes("y"))
	msg := m.deleteSelected()()
	_, _ = m.Update(msg)
	view = m.View()
	assert.Contains(t, view, "1 deleted, 0 failed")
}

func TestDeleteFailureShownInResults(t *testing.T) {
	source := &fakeSource{
		head:     "main",
		branches: []string{"main", "feature-a"},
		failWith: map[string]error{"feature-a": errors.New("branch feature-a is not fully merged")},
	}
	m := newTestModel(source, forge.Offline{})
	m.width = 80
	loadModel(t, m)
	drainUpdates(t, m)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, _ = m.Update(keyRunes("y"))
	msg := m.deleteSelected()()
	_, _ = m.Update(msg)

	require.Len(t, m.results, 1)
	assert.Equal(t, models.DeleteFailed, m.results[0].Status)
	assert.Contains(t, m.View(), "0 deleted, 1 failed")
}

func TestFullProgramFlow(t *testing.T) {
	source := &fakeSource{
		head:     "main",
		branches: []string{"main", "feature-a", "feature-b"},
	}
	m := newTestModel(source, mergedFor("feature-a"))
	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(100, 30),
	)

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("feature-a")) && bytes.Contains(bts, []byte("merged"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Delete 1 branch(es)?"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(keyRunes("y"))
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("1 deleted, 0 failed"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(keyRunes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	assert.Equal(t, []string{"feature-a"}, source.deleted)
}

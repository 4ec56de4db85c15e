// Package app implements the branchsweep terminal UI.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/branchsweep/branchsweep/internal/app/services"
	"github.com/branchsweep/branchsweep/internal/config"
	"github.com/branchsweep/branchsweep/internal/forge"
	"github.com/branchsweep/branchsweep/internal/log"
	"github.com/branchsweep/branchsweep/internal/models"
	"github.com/branchsweep/branchsweep/internal/sweep"
	"github.com/branchsweep/branchsweep/internal/theme"
)

// viewState tracks which screen the UI is on.
type viewState int

const (
	stateLoading viewState = iota
	stateSelecting
	stateConfirming
	stateDeleting
	stateResults
)

// BranchSource is the git surface the UI needs. *git.Service
// implements it; tests substitute a fake.
type BranchSource interface {
	CurrentBranch(ctx context.Context) (string, error)
	ListLocalBranches(ctx context.Context) ([]string, error)
	DeleteBranch(ctx context.Context, name string, force bool) error
	GitDir(ctx context.Context) (string, error)
}

// Model is the bubbletea model for the branch sweeping UI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	config   *config.AppConfig
	theme    *theme.Theme
	source   BranchSource
	provider forge.StatusProvider
	watch    *services.RefsWatchService

	state  viewState
	policy sweep.ProtectionPolicy
	head   string
	table  *sweep.Table

	// run numbers each scan so results from an abandoned run are
	// ignored after a refresh.
	run       int
	runCancel context.CancelFunc
	updates   <-chan sweep.Update
	pending   int

	// confirmCancel is true when the cancel button has focus on the
	// confirm screen.
	confirmCancel bool

	results []models.DeleteResult
	err     error

	spinner       spinner.Model
	width, height int
	quitting      bool
}

// NewModel builds the UI model. ctx bounds every git and forge call
// the model makes.
func NewModel(ctx context.Context, cfg *config.AppConfig, source BranchSource, provider forge.StatusProvider) *Model {
	ctx, cancel := context.WithCancel(ctx)
	th := theme.ForName(cfg.Theme)
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(th.Accent)
	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		config:   cfg,
		theme:    th,
		source:   source,
		provider: provider,
		watch:    services.NewRefsWatchService(log.Printf),
		policy:   sweep.NewProtectionPolicy(cfg.ProtectedBranches),
		state:    stateLoading,
		spinner:  sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadBranches(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case branchesLoadedMsg:
		return m.handleBranchesLoaded(msg)

	case statusUpdateMsg:
		if msg.run != m.run {
			return m, nil
		}
		m.pending--
		m.debugf("status for %s: %s", msg.update.Name, msg.update.Status)
		return m, m.waitForUpdate()

	case reconcileDoneMsg:
		if msg.run != m.run {
			return m, nil
		}
		m.updates = nil
		m.pending = 0
		return m, nil

	case resultsMsg:
		m.state = stateResults
		m.results = msg.results
		return m, nil

	case refsWatchStartedMsg:
		return m, m.waitForRefsEvent()

	case refsChangedMsg:
		m.watch.ResetWaiting()
		cmds := []tea.Cmd{m.waitForRefsEvent()}
		if m.state == stateSelecting && m.watch.ShouldRefresh(time.Now()) {
			cmds = append(cmds, m.refresh())
		}
		return m, tea.Batch(cmds...)

	case errMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, m.quit()
	}

	switch m.state {
	case stateSelecting:
		switch key {
		case "q", "esc":
			return m, m.quit()
		case "up", "k":
			m.table.MoveCursor(-1)
		case "down", "j":
			m.table.MoveCursor(1)
		case " ":
			m.table.ToggleCursor()
		case "r":
			return m, m.refresh()
		case "enter", "d":
			if len(m.table.SelectedNames()) == 0 {
				return m, nil
			}
			m.state = stateConfirming
			m.confirmCancel = false
		}
	case stateConfirming:
		switch key {
		case "left", "h", "right", "l", "tab":
			m.confirmCancel = !m.confirmCancel
		case "enter":
			if m.confirmCancel {
				m.state = stateSelecting
				return m, nil
			}
			m.state = stateDeleting
			return m, tea.Batch(m.deleteSelected(), m.spinner.Tick)
		case "y":
			m.state = stateDeleting
			return m, tea.Batch(m.deleteSelected(), m.spinner.Tick)
		case "n", "esc", "q":
			m.state = stateSelecting
		}
	case stateResults:
		switch key {
		case "q", "esc", "enter":
			return m, m.quit()
		case "r":
			return m, m.refresh()
		}
	case stateLoading:
		if key == "q" || key == "esc" {
			return m, m.quit()
		}
	}
	return m, nil
}

func (m *Model) handleBranchesLoaded(msg branchesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.run != m.run {
		return m, nil
	}
	if msg.err != nil {
		m.err = msg.err
		m.table = sweep.NewTable(nil)
		m.state = stateSelecting
		return m, nil
	}
	m.err = nil
	m.head = msg.head
	m.table = sweep.NewTable(msg.candidates)
	m.state = stateSelecting

	runCtx, cancel := context.WithCancel(m.ctx)
	m.runCancel = cancel
	reconciler := sweep.NewReconciler(m.table, m.provider, m.config.Concurrency)
	m.updates = reconciler.Run(runCtx)
	m.pending = m.table.Len()

	return m, tea.Batch(m.waitForUpdate(), m.spinner.Tick, m.startRefsWatcher())
}

// refresh abandons the current run and rescans from scratch.
// Selections and overrides do not survive a refresh.
func (m *Model) refresh() tea.Cmd {
	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}
	m.run++
	m.updates = nil
	m.pending = 0
	m.results = nil
	m.state = stateLoading
	return tea.Batch(m.loadBranches(), m.spinner.Tick)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.watch != nil {
		m.watch.Stop()
	}
	m.cancel()
	return tea.Quit
}

func (m *Model) spinning() bool {
	return m.state == stateLoading || m.state == stateDeleting || m.pending > 0
}

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

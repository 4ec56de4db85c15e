package sweep

import (
	"sync"

	"github.com/branchsweep/branchsweep/internal/models"
)

// record is one branch's mutable state. All access goes through the
// Table mutex.
type record struct {
	name       string
	status     models.PRStatus
	pr         *models.PRInfo
	selected   bool
	overridden bool // user toggled at least once; auto-select keeps out
	outcome    models.DeleteStatus
	reason     string
}

// Row is an immutable snapshot of one record, safe to hand to the UI.
type Row struct {
	Name     string
	Status   models.PRStatus
	PR       *models.PRInfo
	Selected bool
	Outcome  models.DeleteStatus
	Reason   string
}

// Table is the shared branch-state table. Reconciler goroutines write
// statuses into it while the UI reads rows and moves the cursor; one
// mutex covers every mutable field so a toggle and a concurrent status
// arrival resolve deterministically.
type Table struct {
	mu      sync.Mutex
	records []*record
	cursor  int
}

// NewTable builds a table for the given branch names, in display
// order. All statuses start unknown and nothing is selected.
func NewTable(names []string) *Table {
	records := make([]*record, 0, len(names))
	for _, name := range names {
		records = append(records, &record{name: name})
	}
	return &Table{records: records}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Cursor returns the current cursor index.
func (t *Table) Cursor() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// MoveCursor moves the cursor by delta, clamped to the table bounds.
// No-op on an empty table.
func (t *Table) MoveCursor(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.records) == 0 {
		return
	}
	t.cursor += delta
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor >= len(t.records) {
		t.cursor = len(t.records) - 1
	}
}

// Toggle flips the selection of the row at index and marks it as
// manually overridden: later status arrivals will not change the
// user's choice in either direction.
func (t *Table) Toggle(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.records) {
		return
	}
	rec := t.records[index]
	rec.selected = !rec.selected
	rec.overridden = true
}

// ToggleCursor toggles the row under the cursor.
func (t *Table) ToggleCursor() {
	t.mu.Lock()
	index := t.cursor
	t.mu.Unlock()
	t.Toggle(index)
}

// ApplyStatus merges one lookup result into the table. A record
// transitions away from unknown at most once per run; a second arrival
// for the same branch is ignored. Merged branches are auto-selected
// unless the user already toggled them. Returns the row index and
// whether the table changed.
func (t *Table) ApplyStatus(name string, status models.PRStatus, pr *models.PRInfo) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, rec := range t.records {
		if rec.name != name {
			continue
		}
		if rec.status.Resolved() || !status.Resolved() {
			return i, false
		}
		rec.status = status
		rec.pr = pr
		if status == models.StatusMerged && !rec.overridden {
			rec.selected = true
		}
		return i, true
	}
	return -1, false
}

// SelectedNames returns the selected branch names in row order.
func (t *Table) SelectedNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var names []string
	for _, rec := range t.records {
		if rec.selected {
			names = append(names, rec.name)
		}
	}
	return names
}

// ApplyOutcome records a delete result against its branch. Outcomes
// are written at most once per run.
func (t *Table) ApplyOutcome(result models.DeleteResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rec := range t.records {
		if rec.name != result.Branch {
			continue
		}
		if rec.outcome != models.DeleteNotAttempted {
			return
		}
		rec.outcome = result.Status
		rec.reason = result.Reason
		return
	}
}

// Rows returns a snapshot of every row for rendering.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := make([]Row, 0, len(t.records))
	for _, rec := range t.records {
		rows = append(rows, Row{
			Name:     rec.name,
			Status:   rec.status,
			PR:       rec.pr,
			Selected: rec.selected,
			Outcome:  rec.outcome,
			Reason:   rec.reason,
		})
	}
	return rows
}

// Resolved reports whether every row has a terminal status.
func (t *Table) Resolved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rec := range t.records {
		if !rec.status.Resolved() {
			return false
		}
	}
	return true
}

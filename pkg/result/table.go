package result

import (
	"sort"
	"sync"
)

// FaultInfo describes the unimplemented opcode a run stopped on.
type FaultInfo struct {
	Opcode   uint8  `json:"opcode"`
	PC       uint16 `json:"pc"`
	Mnemonic string `json:"mnemonic"`
	Snapshot string `json:"snapshot"`
}

// Report is the outcome of running one program.
type Report struct {
	Program  string     `json:"program"`
	Steps    uint64     `json:"steps"`
	Finished bool       `json:"finished"` // program returned to the host on its own
	Output   string     `json:"output,omitempty"`
	Fault    *FaultInfo `json:"fault,omitempty"`
}

// Passed reports whether the program finished without faulting.
func (r Report) Passed() bool {
	return r.Finished && r.Fault == nil
}

// Table stores run reports from concurrent workers.
type Table struct {
	mu      sync.Mutex
	reports []Report
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a report into the table.
func (t *Table) Add(r Report) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reports = append(t.reports, r)
}

// Reports returns a copy of all reports, failures first, then by program name.
func (t *Table) Reports() []Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Report, len(t.reports))
	copy(result, t.reports)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Passed() != result[j].Passed() {
			return !result[i].Passed()
		}
		return result[i].Program < result[j].Program
	})
	return result
}

// Len returns the number of reports.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.reports)
}

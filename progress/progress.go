package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Progress shows a spinner while the concurrent registry lookups run.
type Progress struct {
	spinner *spinner.Spinner
	mu      sync.Mutex
	done    int
	total   int
}

// New creates a Progress for the given number of packages
func New(total int) *Progress {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond)
	s.Color("cyan")

	return &Progress{
		spinner: s,
		total:   total,
	}
}

// Start begins the spinner
func (p *Progress) Start() {
	p.spinner.Suffix = fmt.Sprintf(" Checking %d packages...", p.total)
	p.spinner.Start()
}

// Increment records one finished package lookup. Safe for concurrent use.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.spinner.Suffix = fmt.Sprintf(" Checking packages... (%d/%d)", p.done, p.total)
}

// Stop halts the spinner before the report is printed
func (p *Progress) Stop() {
	p.spinner.Stop()
}

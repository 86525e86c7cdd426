package engine

import (
	"sort"
	"sync"

	"github.com/praveenmunagapati/cppcheck/pkg/report"
)

// Checker analyzes a single file's contents and reports findings.
type Checker interface {
	// Name identifies the checker; registration is keyed on it.
	Name() string

	// Run analyzes one file and returns the number of defects reported.
	Run(path string, contents []byte, rep Reporter) int

	// Catalog lists the diagnostics this checker can produce.
	Catalog() []report.Record
}

// WholeSessionChecker is implemented by checkers that need a final pass
// after every file has been analyzed (e.g. unused-function analysis).
type WholeSessionChecker interface {
	Checker
	Finish(rep Reporter)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Checker)
)

// RegisterChecker adds a checker to the registry. Later registrations with
// the same name replace earlier ones.
func RegisterChecker(c Checker) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Name()] = c
}

// RegisteredCheckers returns the registered checkers in name order.
func RegisteredCheckers() []Checker {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	checkers := make([]Checker, 0, len(names))
	for _, name := range names {
		checkers = append(checkers, registry[name])
	}
	return checkers
}

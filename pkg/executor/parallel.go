package executor

import (
	"runtime/debug"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/praveenmunagapati/cppcheck/pkg/fault"
	"github.com/praveenmunagapati/cppcheck/pkg/filelist"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
)

// poolSupported mirrors the platform query of the original thread executor.
// Goroutine pools exist everywhere the runtime does, so this is a constant;
// the Supported query stays in the contract because callers must not assume
// availability.
const poolSupported = true

// Pool is the default Parallel implementation: a bounded goroutine pool.
// The check callback must serialize its diagnostic emission through the run
// sink; the sink's internal locking makes that the enforced contract.
type Pool struct {
	jobs  int
	check func(path string) int
}

// NewPool creates a pool running at most jobs checks concurrently.
func NewPool(jobs int, check func(path string) int) *Pool {
	return &Pool{jobs: jobs, check: check}
}

// Supported reports pool availability on this platform.
func (p *Pool) Supported() bool {
	return poolSupported
}

// RunAll analyzes every file in the set and returns the aggregate defect
// count. One blocking call, no partial results observed mid-flight.
func (p *Pool) RunAll(files filelist.FileSet) int {
	logger := logging.GetLogger("executor.pool")

	var g errgroup.Group
	g.SetLimit(p.jobs)

	var total atomic.Int64
	for _, path := range files.Paths() {
		path := path
		g.Go(func() error {
			// Fault panics are delivered to the faulting goroutine, not to
			// the dispatcher, so every worker carries its own interception.
			old := debug.SetPanicOnFault(true)
			defer debug.SetPanicOnFault(old)
			defer func() { fault.HandlePanic(recover()) }()

			total.Add(int64(p.check(path)))
			return nil
		})
	}

	// Workers never return errors; a fault tears down the process instead.
	_ = g.Wait()

	logger.Debug().Int64("defects", total.Load()).Msg("pool finished")
	return int(total.Load())
}

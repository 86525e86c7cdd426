// Package fault wraps a single dispatcher invocation so that fatal
// OS-level faults are reported with as much context as can be recovered and
// the process is terminated in a controlled manner.
//
// The handler body runs in a restricted context: the heap and any locks may
// be in an inconsistent state when a fault fires. Everything on the report
// path therefore works on preallocated buffers and performs direct,
// unbuffered writes; no fmt, no logger, no allocation. This invariant is
// enforced by review and by the tests, not by the type system.
package fault

import (
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

// Kind classifies a fault.
type Kind int

const (
	KindUnknown Kind = iota
	KindMemory             // illegal memory access
	KindArithmetic         // integer or floating point fault
	KindIllegalInstruction // illegal opcode
	KindBus                // bus error, misaligned access
	KindInterrupt          // user interrupt
	KindStack              // stack exhaustion
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "illegal memory access"
	case KindArithmetic:
		return "arithmetic fault"
	case KindIllegalInstruction:
		return "illegal instruction"
	case KindBus:
		return "bus error"
	case KindInterrupt:
		return "interrupt"
	case KindStack:
		return "stack exhaustion"
	}
	return "unknown fault"
}

// Context describes one intercepted fault.
type Context struct {
	Kind Kind
	// Name is the platform fault name (e.g. "SIGSEGV").
	Name string
	// SubReason is the platform sub-reason (e.g. "SEGV_MAPERR"), empty when
	// the fault model does not expose one.
	SubReason string
	// Addr is the faulting address; valid only when HasAddr is set.
	Addr    uintptr
	HasAddr bool
}

// 128 + SIGABRT, the status an aborted process reports.
const abortExitCode = 134

// exceptionOutput is the process-wide fault report destination. Set once
// before any fault can occur, read-only thereafter.
var exceptionOutput = os.Stderr

// SetOutput selects the fault report destination: "stderr" (default) or
// "stdout". Must be called before Protect.
func SetOutput(target string) {
	if target == "stdout" {
		exceptionOutput = os.Stdout
	} else {
		exceptionOutput = os.Stderr
	}
}

// Output returns the configured fault report destination.
func Output() *os.File {
	return exceptionOutput
}

// reportBuf is preallocated so the handler never allocates.
var reportBuf [8192]byte

// exit is swapped out by tests; production always terminates the process.
var exit = os.Exit

// armed is set while a Protect call is active. HandlePanic only intercepts
// inside that window; outside it every panic is rethrown unchanged.
var armed atomic.Bool

// Protect runs fn with fault interception installed and returns its result.
//
// Runtime-delivered faults (via debug.SetPanicOnFault) are classified and
// reported with a call trace; watched OS signals are reported the same way.
// Either path ends in abnormal process termination — the handler never
// returns control to resume faulted execution. Panics that are not faults
// propagate unchanged.
func Protect(fn func() int) int {
	old := debug.SetPanicOnFault(true)
	armed.Store(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, watchedSignals...)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		handleFault(signalContext(sig), "")
	}()

	defer func() {
		debug.SetPanicOnFault(old)
		signal.Stop(sigCh)
		close(sigCh)

		r := recover()
		armed.Store(false)
		if r == nil {
			return
		}
		ctx, msg, isFault := classifyPanic(r)
		if !isFault {
			panic(r)
		}
		handleFault(ctx, msg)
	}()

	return fn()
}

// HandlePanic routes a recovered panic value into the fault report path.
// Worker goroutines use this: panics delivered for faults are goroutine
// local, so a Protect on the dispatching goroutine never sees them. A nil
// value is a no-op; a fault recovered inside an active Protect is reported
// and terminates the process; everything else is rethrown unchanged.
func HandlePanic(r interface{}) {
	if r == nil {
		return
	}
	ctx, msg, isFault := classifyPanic(r)
	if !isFault || !armed.Load() {
		panic(r)
	}
	handleFault(ctx, msg)
}

// classifyPanic maps a recovered panic value onto a fault context. Only
// runtime errors are faults; anything else is an ordinary panic the caller
// rethrows.
func classifyPanic(r interface{}) (Context, string, bool) {
	re, ok := r.(runtime.Error)
	if !ok {
		return Context{}, "", false
	}
	msg := re.Error()

	ctx := Context{Kind: KindUnknown, Name: memoryFaultName}
	if a, ok := r.(interface{ Addr() uintptr }); ok {
		ctx.Addr = a.Addr()
		ctx.HasAddr = true
	}

	switch {
	case strings.Contains(msg, "invalid memory address"),
		strings.Contains(msg, "unexpected fault address"):
		ctx.Kind = KindMemory
	case strings.Contains(msg, "divide by zero"):
		ctx.Kind = KindArithmetic
		ctx.Name = arithmeticFaultName
	case strings.Contains(msg, "misaligned"):
		ctx.Kind = KindBus
		ctx.Name = busFaultName
	}
	ctx.SubReason = runtimeSubReason(ctx.Kind, msg)
	return ctx, msg, true
}

// handleFault writes the report and terminates. Restricted context: append
// into the preallocated buffer, one direct write, then exit.
func handleFault(ctx Context, detail string) {
	buf := reportBuf[:0]
	buf = append(buf, "Internal error: cppcheck received "...)
	buf = append(buf, ctx.Name...)
	if detail != "" {
		buf = append(buf, ", "...)
		buf = append(buf, detail...)
	}
	if ctx.SubReason != "" {
		buf = append(buf, " - "...)
		buf = append(buf, ctx.SubReason...)
	}
	if ctx.HasAddr {
		buf = append(buf, " (at 0x"...)
		buf = appendHex(buf, uint64(ctx.Addr))
		buf = append(buf, ')')
	}
	buf = append(buf, ".\n"...)

	// Interrupts are expected, not diagnostic-worthy: report tersely.
	if ctx.Kind != KindInterrupt {
		buf = appendTrace(buf)
		buf = append(buf, "\nPlease report this to the cppcheck developers!\n"...)
	}

	writeRaw(exceptionOutput, buf)
	exit(abortExitCode)
}

// addrHexDigits is the pointer width in hex digits: 8 on 32-bit, 16 on
// 64-bit.
const addrHexDigits = (32 << (^uintptr(0) >> 63)) / 4

// appendHex appends v in lowercase hex, zero padded to the pointer width.
func appendHex(buf []byte, v uint64) []byte {
	const digits = "0123456789abcdef"
	for i := addrHexDigits - 1; i >= 0; i-- {
		buf = append(buf, digits[(v>>(uint(i)*4))&0xf])
	}
	return buf
}

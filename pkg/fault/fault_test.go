package fault

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "illegal memory access", KindMemory.String())
	assert.Equal(t, "arithmetic fault", KindArithmetic.String())
	assert.Equal(t, "interrupt", KindInterrupt.String())
	assert.Equal(t, "unknown fault", Kind(99).String())
}

func TestSetOutput(t *testing.T) {
	defer SetOutput("stderr")

	SetOutput("stdout")
	assert.Same(t, os.Stdout, Output())

	SetOutput("stderr")
	assert.Same(t, os.Stderr, Output())

	SetOutput("nonsense")
	assert.Same(t, os.Stderr, Output())
}

// recoverFrom returns the panic value fn produces.
func recoverFrom(fn func()) (r interface{}) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func TestClassifyPanicNilDereference(t *testing.T) {
	r := recoverFrom(func() {
		var p *int
		_ = *p
	})
	require.NotNil(t, r)

	ctx, msg, isFault := classifyPanic(r)
	require.True(t, isFault)
	assert.Equal(t, KindMemory, ctx.Kind)
	assert.Contains(t, msg, "invalid memory address")
}

func TestClassifyPanicDivideByZero(t *testing.T) {
	zero := 0
	r := recoverFrom(func() {
		_ = 1 / zero
	})
	require.NotNil(t, r)

	ctx, _, isFault := classifyPanic(r)
	require.True(t, isFault)
	assert.Equal(t, KindArithmetic, ctx.Kind)
	assert.Equal(t, arithmeticFaultName, ctx.Name)
}

func TestClassifyPanicOrdinaryValue(t *testing.T) {
	_, _, isFault := classifyPanic("plain panic")
	assert.False(t, isFault)

	_, _, isFault = classifyPanic(os.ErrClosed)
	assert.False(t, isFault)
}

func TestProtectReturnsResult(t *testing.T) {
	got := Protect(func() int { return 42 })
	assert.Equal(t, 42, got)
}

func TestProtectRethrowsOrdinaryPanic(t *testing.T) {
	assert.PanicsWithValue(t, "not a fault", func() {
		Protect(func() int { panic("not a fault") })
	})
}

// exitCall is the sentinel the swapped-in exit throws so the test can
// observe termination without dying.
type exitCall struct{ code int }

func TestProtectReportsFaultAndTerminates(t *testing.T) {
	out, err := os.CreateTemp(t.TempDir(), "fault-*")
	require.NoError(t, err)
	defer out.Close()

	savedOut := exceptionOutput
	savedExit := exit
	exceptionOutput = out
	exit = func(code int) { panic(exitCall{code}) }
	defer func() {
		exceptionOutput = savedOut
		exit = savedExit
	}()

	r := recoverFrom(func() {
		Protect(func() int {
			var p *int
			_ = *p
			return 0
		})
	})

	call, ok := r.(exitCall)
	require.True(t, ok, "expected termination, got %v", r)
	assert.Equal(t, abortExitCode, call.code)

	body, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	report := string(body)
	assert.Contains(t, report, "Internal error: cppcheck received "+memoryFaultName)
	assert.Contains(t, report, "Please report this to the cppcheck developers!")
}

func TestHandlePanicNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { HandlePanic(nil) })
}

func TestHandlePanicOutsideProtectRethrows(t *testing.T) {
	r := recoverFrom(func() {
		var p *int
		_ = *p
	})
	require.NotNil(t, r)

	rethrown := recoverFrom(func() { HandlePanic(r) })
	assert.Equal(t, r, rethrown)
}

func TestHandlePanicRethrowsOrdinaryPanic(t *testing.T) {
	assert.PanicsWithValue(t, "worker panic", func() {
		Protect(func() int {
			defer func() { HandlePanic(recover()) }()
			panic("worker panic")
		})
	})
}

func TestHandlePanicReportsWorkerFault(t *testing.T) {
	out, err := os.CreateTemp(t.TempDir(), "fault-*")
	require.NoError(t, err)
	defer out.Close()

	savedOut := exceptionOutput
	savedExit := exit
	exceptionOutput = out
	exit = func(code int) { panic(exitCall{code}) }
	defer func() {
		exceptionOutput = savedOut
		exit = savedExit
	}()

	// A fault on a worker goroutine never reaches the dispatcher's recover;
	// the worker-side guard has to route it into the report path itself.
	terminated := make(chan interface{}, 1)
	Protect(func() int {
		go func() {
			defer func() { terminated <- recover() }()
			defer func() { HandlePanic(recover()) }()

			var p *int
			_ = *p
		}()
		call, ok := (<-terminated).(exitCall)
		require.True(t, ok, "expected worker termination")
		assert.Equal(t, abortExitCode, call.code)
		return 0
	})

	body, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	report := string(body)
	assert.Contains(t, report, "Internal error: cppcheck received "+memoryFaultName)
	assert.Contains(t, report, "Please report this to the cppcheck developers!")
}

func TestAppendHexZeroPadded(t *testing.T) {
	got := string(appendHex(nil, 0x1c))
	assert.Len(t, got, addrHexDigits)
	assert.True(t, strings.HasSuffix(got, "1c"))
	assert.Equal(t, strings.Repeat("0", addrHexDigits-2), got[:addrHexDigits-2])
}

//go:build unix

package fault

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Platform fault names used when the runtime, not the kernel, delivers the
// fault.
const (
	memoryFaultName     = "SIGSEGV"
	arithmeticFaultName = "SIGFPE"
	busFaultName        = "SIGBUS"
)

// watchedSignals is the fixed set of intercepted fault kinds. SIGABRT and
// SIGTERM are intentionally absent: abnormal and normal termination
// requests are left to default handling.
var watchedSignals = []os.Signal{
	unix.SIGBUS,
	unix.SIGFPE,
	unix.SIGILL,
	unix.SIGINT,
	unix.SIGSEGV,
}

// signalContext maps a delivered signal onto a fault context. Signals
// arriving through the watcher carry no siginfo, so no sub-reason or
// address is available on this path.
func signalContext(sig os.Signal) Context {
	switch sig {
	case unix.SIGBUS:
		return Context{Kind: KindBus, Name: "signal SIGBUS"}
	case unix.SIGFPE:
		return Context{Kind: KindArithmetic, Name: "signal SIGFPE"}
	case unix.SIGILL:
		return Context{Kind: KindIllegalInstruction, Name: "signal SIGILL"}
	case unix.SIGINT:
		return Context{Kind: KindInterrupt, Name: "signal SIGINT"}
	case unix.SIGSEGV:
		return Context{Kind: KindMemory, Name: "signal SIGSEGV"}
	}
	return Context{Kind: KindUnknown, Name: sig.String()}
}

// si_code values from the POSIX signal model. Stable ABI numbers; x/sys
// does not export them.
const (
	segvMapErr = 1 // address not mapped to object
	segvAccErr = 2 // invalid permissions for mapped object

	busAdrAln = 1 // invalid address alignment
	busAdrErr = 2 // nonexistent physical address
	busObjErr = 3 // object-specific hardware error

	fpeIntDiv = 1 // integer divide by zero
	fpeIntOvf = 2 // integer overflow
	fpeFltDiv = 3 // floating-point divide by zero
	fpeFltOvf = 4 // floating-point overflow
	fpeFltUnd = 5 // floating-point underflow
	fpeFltRes = 6 // floating-point inexact result
	fpeFltInv = 7 // floating-point invalid operation
	fpeFltSub = 8 // subscript out of range

	illIllOpc = 1 // illegal opcode
	illIllOpn = 2 // illegal operand
	illIllAdr = 3 // illegal addressing mode
	illIllTrp = 4 // illegal trap
	illPrvOpc = 5 // privileged opcode
	illPrvReg = 6 // privileged register
	illCoproc = 7 // coprocessor error
	illBadStk = 8 // internal stack error
)

// DecodeSubReason renders the POSIX si_code sub-reason for a fault kind.
// Returns "" for unknown combinations.
func DecodeSubReason(kind Kind, code int) string {
	switch kind {
	case KindMemory:
		switch code {
		case segvMapErr:
			return "SEGV_MAPERR"
		case segvAccErr:
			return "SEGV_ACCERR"
		}
	case KindBus:
		switch code {
		case busAdrAln:
			return "BUS_ADRALN"
		case busAdrErr:
			return "BUS_ADRERR"
		case busObjErr:
			return "BUS_OBJERR"
		}
	case KindArithmetic:
		switch code {
		case fpeIntDiv:
			return "FPE_INTDIV"
		case fpeIntOvf:
			return "FPE_INTOVF"
		case fpeFltDiv:
			return "FPE_FLTDIV"
		case fpeFltOvf:
			return "FPE_FLTOVF"
		case fpeFltUnd:
			return "FPE_FLTUND"
		case fpeFltRes:
			return "FPE_FLTRES"
		case fpeFltInv:
			return "FPE_FLTINV"
		case fpeFltSub:
			return "FPE_FLTSUB"
		}
	case KindIllegalInstruction:
		switch code {
		case illIllOpc:
			return "ILL_ILLOPC"
		case illIllOpn:
			return "ILL_ILLOPN"
		case illIllAdr:
			return "ILL_ILLADR"
		case illIllTrp:
			return "ILL_ILLTRP"
		case illPrvOpc:
			return "ILL_PRVOPC"
		case illPrvReg:
			return "ILL_PRVREG"
		case illCoproc:
			return "ILL_COPROC"
		case illBadStk:
			return "ILL_BADSTK"
		}
	}
	return ""
}

// runtimeSubReason maps a runtime fault message onto the si_code sub-reason
// the kernel would report for the same condition. The runtime message only
// pins down a few cases; anything ambiguous stays without a sub-reason.
func runtimeSubReason(kind Kind, msg string) string {
	switch kind {
	case KindMemory:
		// The nil page is never mapped.
		if strings.Contains(msg, "nil pointer dereference") {
			return DecodeSubReason(KindMemory, segvMapErr)
		}
	case KindArithmetic:
		if strings.Contains(msg, "integer divide by zero") {
			return DecodeSubReason(KindArithmetic, fpeIntDiv)
		}
	case KindBus:
		return DecodeSubReason(KindBus, busAdrAln)
	}
	return ""
}

// writeRaw performs the restricted-context report write: one direct,
// unbuffered write(2) on the target's descriptor.
func writeRaw(f *os.File, buf []byte) {
	for len(buf) > 0 {
		n, err := unix.Write(int(f.Fd()), buf)
		if err != nil || n <= 0 {
			return
		}
		buf = buf[n:]
	}
}

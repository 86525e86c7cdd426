//go:build windows

package fault

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// Platform fault names used when the runtime delivers the fault as a
// structured exception.
const (
	memoryFaultName     = "EXCEPTION_ACCESS_VIOLATION"
	arithmeticFaultName = "EXCEPTION_INT_DIVIDE_BY_ZERO"
	busFaultName        = "EXCEPTION_DATATYPE_MISALIGNMENT"
)

// watchedSignals holds the only asynchronous delivery Windows supports for
// console processes. Structured exceptions surface through the runtime's
// panic path instead.
var watchedSignals = []os.Signal{os.Interrupt}

func signalContext(sig os.Signal) Context {
	return Context{Kind: KindInterrupt, Name: "CTRL_C_EVENT"}
}

// Structured exception codes; stable values from the Windows SDK.
const (
	excAccessViolation      = 0xC0000005
	excArrayBoundsExceeded  = 0xC000008C
	excDatatypeMisalignment = 0x80000002
	excFltDivideByZero      = 0xC000008E
	excFltInvalidOperation  = 0xC0000090
	excFltOverflow          = 0xC0000091
	excFltStackCheck        = 0xC0000092
	excFltUnderflow         = 0xC0000093
	excIllegalInstruction   = 0xC000001D
	excInPageError          = 0xC0000006
	excIntDivideByZero      = 0xC0000094
	excIntOverflow          = 0xC0000095
	excPrivInstruction      = 0xC0000096
	excStackOverflow        = 0xC00000FD
)

// DecodeExceptionCode renders a structured exception code as kind and
// description, for fault contexts raised from native code.
func DecodeExceptionCode(code uint32) (Kind, string) {
	switch code {
	case excAccessViolation:
		return KindMemory, "Access violation"
	case excArrayBoundsExceeded:
		return KindMemory, "Out of array bounds"
	case excDatatypeMisalignment:
		return KindBus, "Misaligned data"
	case excFltDivideByZero:
		return KindArithmetic, "Floating-point divide-by-zero"
	case excFltInvalidOperation:
		return KindArithmetic, "Invalid floating-point operation"
	case excFltOverflow:
		return KindArithmetic, "Floating-point overflow"
	case excFltStackCheck:
		return KindStack, "Floating-point stack overflow"
	case excFltUnderflow:
		return KindArithmetic, "Floating-point underflow"
	case excIllegalInstruction:
		return KindIllegalInstruction, "Illegal instruction"
	case excInPageError:
		return KindMemory, "Invalid page access"
	case excIntDivideByZero:
		return KindArithmetic, "Integer divide-by-zero"
	case excIntOverflow:
		return KindArithmetic, "Integer overflow"
	case excPrivInstruction:
		return KindIllegalInstruction, "Invalid instruction"
	case excStackOverflow:
		return KindStack, "Stack overflow"
	}
	return KindUnknown, "Unknown exception"
}

// runtimeSubReason maps a runtime fault message onto the structured
// exception description the OS would report for the same condition.
func runtimeSubReason(kind Kind, msg string) string {
	switch kind {
	case KindMemory:
		if strings.Contains(msg, "nil pointer dereference") {
			_, desc := DecodeExceptionCode(excAccessViolation)
			return desc
		}
	case KindArithmetic:
		if strings.Contains(msg, "integer divide by zero") {
			_, desc := DecodeExceptionCode(excIntDivideByZero)
			return desc
		}
	case KindBus:
		_, desc := DecodeExceptionCode(excDatatypeMisalignment)
		return desc
	}
	return ""
}

// writeRaw performs the restricted-context report write: one direct
// WriteFile on the target's handle.
func writeRaw(f *os.File, buf []byte) {
	h := windows.Handle(f.Fd())
	for len(buf) > 0 {
		var done uint32
		if err := windows.WriteFile(h, buf, &done, nil); err != nil || done == 0 {
			return
		}
		buf = buf[done:]
	}
}

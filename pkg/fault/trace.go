package fault

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// maxFrames caps the reconstructed call trace; the less resources the
// handler needs, the better.
const maxFrames = 32

// traceSkip drops the innermost frames, which belong to the interception
// machinery (appendTrace, handleFault, the deferred recover closure), not
// to the faulting code.
const traceSkip = 3

// tracePCs is preallocated so trace capture does not grow the heap inside
// the handler.
var tracePCs [maxFrames]uintptr

// Frame is one resolved entry of a call trace.
type Frame struct {
	// Name is the demangled symbol name, or the raw frame text when no
	// symbol could be resolved.
	Name   string
	Addr   uintptr
	Offset uintptr
}

// ResolveSymbol parses one raw frame string of the form
//
//	module(_ZN3Foo3barEv+0x1c) [0x4005d6]
//
// into a Frame, demangling the symbol name where possible. Fallback path:
// if the symbol or address cannot be extracted the raw text becomes the
// name, so a frame is never lost, only less readable.
func ResolveSymbol(raw string) Frame {
	frame := Frame{Name: raw}

	if open := strings.IndexByte(raw, '['); open >= 0 {
		if end := strings.IndexByte(raw[open:], ']'); end > 0 {
			addrText := strings.TrimPrefix(raw[open+1:open+end], "0x")
			if addr, err := strconv.ParseUint(addrText, 16, 64); err == nil {
				frame.Addr = uintptr(addr)
			}
		}
	}

	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return frame
	}
	rest := raw[open+1:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return frame
	}
	symbol := rest[:end]

	if plus := strings.LastIndexByte(symbol, '+'); plus > 0 {
		offText := strings.TrimPrefix(symbol[plus+1:], "0x")
		if off, err := strconv.ParseUint(offText, 16, 64); err == nil {
			frame.Offset = uintptr(off)
		}
		symbol = symbol[:plus]
	}
	if symbol == "" {
		return frame
	}

	frame.Name = demangleName(symbol)
	return frame
}

// demangleName attempts human-readable name resolution; unmangled input
// comes back unchanged.
func demangleName(symbol string) string {
	return demangle.Filter(symbol)
}

// appendTrace appends the best-effort call trace of the current goroutine.
// Capture and symbolization lean on the runtime's own tables; that is as
// close to allocation-free as Go allows and is explicitly best effort.
func appendTrace(buf []byte) []byte {
	depth := runtime.Callers(traceSkip, tracePCs[:])
	if depth == 0 {
		return append(buf, "Callstack could not be obtained\n"...)
	}

	buf = append(buf, "Callstack:\n"...)
	frames := runtime.CallersFrames(tracePCs[:depth])
	ordinal := 0
	for {
		fr, more := frames.Next()

		// Panic plumbing sits between the handler and the faulting code.
		if strings.HasPrefix(fr.Function, "runtime.") {
			if !more {
				break
			}
			continue
		}

		buf = append(buf, '#')
		buf = strconv.AppendInt(buf, int64(ordinal), 10)
		buf = append(buf, "  0x"...)
		buf = appendHex(buf, uint64(fr.PC))
		buf = append(buf, " in "...)
		if fr.Function != "" {
			buf = append(buf, demangleName(fr.Function)...)
		} else {
			buf = append(buf, "???"...)
		}
		buf = append(buf, '\n')

		ordinal++
		if !more {
			break
		}
	}
	if ordinal == 0 {
		return append(buf[:len(buf)-len("Callstack:\n")], "Callstack could not be obtained\n"...)
	}
	return buf
}

package errors

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	current atomic.Pointer[ErrorHandler]

	defaultHandler ErrorHandler = &LogHandler{}

	pkgPath = reflect.TypeFor[ControllerError]().PkgPath()
)

// SetHandler installs h as the destination of Report and ReportPanic.
// Nil restores a LogHandler writing to slog.Default().
func SetHandler(h ErrorHandler) {
	if h == nil {
		current.Store(nil)
		return
	}
	current.Store(&h)
}

// Handler returns the installed handler.
func Handler() ErrorHandler {
	if h := current.Load(); h != nil {
		return *h
	}
	return defaultHandler
}

// Report stamps err and hands it to the installed handler. Hard failures
// get a stack trace if they carry none.
func Report(err *ControllerError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if !err.Kind.Soft() && err.StackTrace == "" {
		err.StackTrace = CaptureStack()
	}
	Handler().HandleError(err)
}

// ReportPanic stamps err and hands it to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress and then calls onPanic, if non-nil,
// with the panic value. It must be deferred directly:
//
//	defer errors.Recover("layout.measure", func(any) { m.Node = layout.EmptyNode{} })
func Recover(op string, onPanic func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	if onPanic != nil {
		onPanic(r)
	}
}

// CaptureStack returns the calling goroutine's stack. Leading frames of
// this package and of the runtime's panic machinery are left out, so the
// first line names the code that failed.
func CaptureStack() string {
	var pcs [48]uintptr
	n := runtime.Callers(1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	leading := true
	for {
		frame, more := frames.Next()
		if leading && internalFrame(frame) {
			if !more {
				break
			}
			continue
		}
		leading = false
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteByte('\n')
		if !more {
			break
		}
	}
	return sb.String()
}

func internalFrame(f runtime.Frame) bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	return strings.HasPrefix(f.Function, "runtime.") || strings.HasPrefix(f.Function, pkgPath+".")
}

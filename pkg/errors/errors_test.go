package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerErrorString(t *testing.T) {
	err := &ControllerError{
		Op:   "datacontroller.Submit",
		Kind: KindInvalidUpdate,
		Err:  Invalidf("section %d out of range", 4),
	}
	assert.Equal(t, "datacontroller.Submit [invalid_update]: invalid update: section 4 out of range", err.Error())
}

func TestControllerErrorWithTransaction(t *testing.T) {
	err := &ControllerError{
		Op:          "datacontroller.layout",
		Kind:        KindProviderUnavailable,
		Transaction: "abc",
		Err:         ErrProviderUnavailable,
	}
	assert.Contains(t, err.Error(), "txn=abc")
	assert.True(t, stderrors.Is(err, ErrProviderUnavailable))
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindInvalidUpdate, "invalid_update"},
		{KindMissingContent, "missing_content"},
		{KindProviderUnavailable, "provider_unavailable"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
		{KindClosed, "closed"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestInvalidUpdateError(t *testing.T) {
	err := Invalidf("expected %d items, got %d", 3, 2)
	assert.Equal(t, "invalid update: expected 3 items, got 2", err.Error())

	err.Responsible = "*main.feedSource"
	assert.Equal(t, "invalid update: expected 3 items, got 2 (data source: *main.feedSource)", err.Error())

	wrapped := fmt.Errorf("submit: %w", &ControllerError{Op: "op", Kind: KindInvalidUpdate, Err: err})
	assert.True(t, IsInvalidUpdate(wrapped))
	assert.False(t, IsInvalidUpdate(ErrProviderUnavailable))
}

func TestPanicErrorString(t *testing.T) {
	assert.Equal(t, "panic: boom", (&PanicError{Value: "boom"}).Error())
	assert.Equal(t, "panic in datacontroller.layout: boom", (&PanicError{Op: "datacontroller.layout", Value: "boom"}).Error())
}

func TestReport(t *testing.T) {
	var captured []*ControllerError
	SetHandler(&testHandler{onError: func(err *ControllerError) { captured = append(captured, err) }})
	defer SetHandler(nil)

	Report(&ControllerError{Op: "test.op", Kind: KindInvalidUpdate, Err: Invalidf("bad")})
	Report(&ControllerError{Op: "test.soft", Kind: KindProviderUnavailable, Err: ErrProviderUnavailable})
	Report(nil)

	require.Len(t, captured, 2)
	assert.Equal(t, "test.op", captured[0].Op)
	assert.False(t, captured[0].Timestamp.IsZero())
	assert.True(t, strings.HasPrefix(captured[0].StackTrace, "github.com/go-drift/datacontroller/pkg/errors.TestReport"),
		"stack starts at the reporting frame:\n%s", captured[0].StackTrace)
	assert.Empty(t, captured[1].StackTrace, "soft failures carry no stack")
	assert.False(t, captured[1].Timestamp.IsZero())
}

func TestReportKeepsExistingStack(t *testing.T) {
	var captured *ControllerError
	SetHandler(&testHandler{onError: func(err *ControllerError) { captured = err }})
	defer SetHandler(nil)

	Report(&ControllerError{Op: "op", Kind: KindUnknown, StackTrace: "given"})
	require.NotNil(t, captured)
	assert.Equal(t, "given", captured.StackTrace)
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	var callbackValue any
	func() {
		defer Recover("test.recover", func(r any) { callbackValue = r })
		panic("intentional test panic")
	}()

	require.NotNil(t, captured)
	assert.Equal(t, "intentional test panic", captured.Value)
	assert.Equal(t, "test.recover", captured.Op)
	assert.Equal(t, "intentional test panic", callbackValue)
	assert.Contains(t, captured.StackTrace, "TestRecover")
	assert.False(t, strings.HasPrefix(captured.StackTrace, "runtime."), captured.StackTrace)
}

func TestRecoverWithoutPanic(t *testing.T) {
	called := false
	SetHandler(&testHandler{onPanic: func(*PanicError) { called = true }})
	defer SetHandler(nil)

	func() {
		defer Recover("test.quiet", func(any) { called = true })
	}()
	assert.False(t, called)
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(&testHandler{})
	SetHandler(nil)
	_, ok := Handler().(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should restore LogHandler, got %T", Handler())
}

func TestErrorKindSeverity(t *testing.T) {
	tests := []struct {
		kind  ErrorKind
		soft  bool
		level slog.Level
	}{
		{KindUnknown, false, slog.LevelError},
		{KindInvalidUpdate, false, slog.LevelError},
		{KindMissingContent, true, slog.LevelDebug},
		{KindProviderUnavailable, true, slog.LevelInfo},
		{KindClosed, true, slog.LevelInfo},
		{KindPanic, false, slog.LevelError},
		{KindConfig, false, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.soft, tt.kind.Soft())
			assert.Equal(t, tt.level, tt.kind.Level())
		})
	}
}

func TestLogHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))}

	h.HandleError(&ControllerError{Op: "a", Kind: KindMissingContent, Err: stderrors.New("nil node")})
	assert.Empty(t, buf.String(), "missing content logs at debug level")

	h.HandleError(&ControllerError{Op: "z", Kind: KindClosed, Err: ErrClosed})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "kind=closed")
	buf.Reset()

	h.HandleError(&ControllerError{Op: "b", Kind: KindInvalidUpdate, Err: Invalidf("x"), Timestamp: time.Now()})
	out := buf.String()
	assert.True(t, strings.Contains(out, "level=ERROR"), out)
	assert.Contains(t, out, "kind=invalid_update")

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "c", Value: 42})
	assert.Contains(t, buf.String(), "datacontroller panic")
}

type testHandler struct {
	onError func(*ControllerError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *ControllerError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

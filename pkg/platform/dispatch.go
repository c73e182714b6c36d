package platform

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the dispatch function used to schedule callbacks on the UI thread.
// This should be called once by the host during initialization.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback to run on the UI thread.
// Returns true if the callback was successfully scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// Dispatcher schedules callbacks on the interactive (UI) thread.
type Dispatcher interface {
	Dispatch(callback func()) bool
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(callback func()) bool

// Dispatch calls f(callback).
func (f DispatchFunc) Dispatch(callback func()) bool {
	return f(callback)
}

// GlobalDispatcher routes through the function registered with RegisterDispatch.
var GlobalDispatcher Dispatcher = DispatchFunc(Dispatch)

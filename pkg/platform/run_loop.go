package platform

// RunLoop is a goroutine that plays the role of the interactive thread for
// hosts without a native UI thread (tools, tests, headless servers).
//
// Everything that must run on the interactive thread is posted with Dispatch
// or Sync. Code already running inside the loop must not call Sync.
type RunLoop struct {
	*SerialQueue
}

// NewRunLoop starts a run loop.
func NewRunLoop() *RunLoop {
	return &RunLoop{SerialQueue: NewSerialQueue("platform.RunLoop")}
}

// Dispatch posts callback to the loop. It implements Dispatcher.
func (l *RunLoop) Dispatch(callback func()) bool {
	return l.Async(callback)
}

// Register makes this loop the target of the package-level Dispatch.
func (l *RunLoop) Register() {
	RegisterDispatch(func(callback func()) { l.Async(callback) })
}

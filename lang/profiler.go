package lang

// Version is the TanScript language version.
const Version = "0.3"

// Interface for a profiler
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and flush any buffered output
	Complete() error
	// Marks the start of a user function call.  The returned function marks
	// the end of the call.
	Start(frame *CallFrame) func()
}

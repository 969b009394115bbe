package jml

// Version is reported by profilers and the command line tool.
const Version = "0.4.0"

// Profiler observes lambda applications.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and output summary lines
	Complete() error
	// Start marks the beginning of a lambda application and returns a
	// function that marks its end.
	Start(frame CallFrame) func()
}

package shim

// LogEvent describes a stack or dispatch operation for logging.
type LogEvent struct {
	Op      string
	Depth   int
	Client  string
	Skipped bool
	Reason  string
	Err     error
}

// Logger records hub operations.
type Logger interface {
	LogOperation(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogOperation implements Logger.
func (f LoggerFunc) LogOperation(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogOperation(LogEvent) {}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() Logger {
	return noopLogger{}
}

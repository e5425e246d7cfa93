package logger

// Logger is the subset of the package-level functions that components
// accept when they want an injectable logger.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
}

type global struct{}

// Global returns a Logger backed by the package-level logger.
func Global() Logger {
	return global{}
}

func (global) Debug() *LogEvent { return Debug() }
func (global) Info() *LogEvent  { return Info() }
func (global) Warn() *LogEvent  { return Warn() }
func (global) Error() *LogEvent { return Error() }

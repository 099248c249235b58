package sapling

// Logger is the interface wrapping the Logf method, used to report training
// progress. Logf takes a format and arguments as fmt.Printf does.
type Logger interface {
	Logf(format string, a ...interface{})
}

// NopLogger is a Logger that discards everything.
type NopLogger struct{}

// Logf does nothing.
func (NopLogger) Logf(string, ...interface{}) {}

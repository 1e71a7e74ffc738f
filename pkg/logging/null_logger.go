package logging

// NullLogger discards everything. It is the default logger of the
// package-level assertion functions and of a zero-configured Engine.
type NullLogger struct{}

// Info discards the entry.
func (NullLogger) Info(string, ...Field) {}

// Warn discards the entry.
func (NullLogger) Warn(string, ...Field) {}

// Error discards the entry.
func (NullLogger) Error(string, ...Field) {}

// Debug discards the entry.
func (NullLogger) Debug(string, ...Field) {}

// WithFields returns n unchanged.
func (n NullLogger) WithFields(...Field) Logger { return n }

// Close does nothing.
func (NullLogger) Close() error { return nil }

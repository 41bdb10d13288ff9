package transport

// Logger is the structured-logging hook every Core takes as a constructor
// dependency, the same shape the meshigo-kore gateway takes a *zap.Logger
// (grounded on gg-glitch-88-meshigo-kore/ydin/gateway.go). The interface
// itself stays allocation-light enough for a TinyGo build; the zap-backed
// implementation lives in package zaplog and is wired in by host
// constructors only, so the MCU build never pulls zap in.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// NopLogger discards everything. It is the default for TinyGo builds and
// for tests that don't assert on log output.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

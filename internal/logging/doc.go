// Package logging provides structured logging for the boardsync engine.
//
// It wraps Go's log/slog to produce JSON-formatted entries carrying
// persistent context (component, sync, table) so that a single emission
// can be followed across every listener it reached.
//
// # Thread Safety
//
// [Logger] is safe for concurrent use. Child loggers created via the With*
// methods share the underlying writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/run", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	chartLogger := logger.WithComponent("chart-a").WithSync("extremes")
//	chartLogger.Debug("emitter attached", "axes", 2)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"emitter attached","component":"chart-a","sync":"extremes","axes":2}
//
// Engine types accept a nil *Logger and fall back to [NopLogger].
package logging

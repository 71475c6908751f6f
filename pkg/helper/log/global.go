package log

import "sync"

// The process-wide default logger, for code paths that run without a
// configured Logger threaded through. cmd's setupCommand installs the
// configured logger here.
var (
	globalMu sync.Mutex
	global   Logger = NewBasicLogger(InfoLevel)
)

// SetGlobalLogger replaces the process-wide default logger. Passing nil
// restores the basic INFO-level default.
func SetGlobalLogger(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if logger == nil {
		logger = NewBasicLogger(InfoLevel)
	}
	global = logger
}

// GetGlobalLogger returns the process-wide default logger.
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

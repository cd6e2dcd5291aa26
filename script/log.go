package script

import "github.com/btcsuite/btclog"

// log is the SCRP subsystem logger. It is disabled until the caller
// installs one with UseLogger.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger sets the logger used by the interpreter.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// logClosure defers formatting until the logger decides to emit.
type logClosure func() string

func (c logClosure) String() string {
	return c()
}

func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}

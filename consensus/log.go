package consensus

import "github.com/btcsuite/btclog"

// log is the TXCD subsystem logger, disabled by default.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger sets the logger used by the codec and input verification.
func UseLogger(logger btclog.Logger) {
	log = logger
}

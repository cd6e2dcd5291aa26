package config

import (
	"io"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"

	"ledgerscript.dev/core/consensus"
	"ledgerscript.dev/core/script"
)

// Subsystem tags.
const (
	SubsystemScript    = "SCRP"
	SubsystemConsensus = "TXCD"
)

// LogBackend owns the subsystem loggers handed to the library packages.
type LogBackend struct {
	backend *btclog.Backend
	loggers map[string]btclog.Logger
}

// NewLogBackend creates the SCRP and TXCD loggers writing to w, sets their
// level from cfg, and installs them in the script and consensus packages.
// TraceExecution raises SCRP to trace regardless of LogLevel.
func NewLogBackend(w io.Writer, cfg Config) *LogBackend {
	b := &LogBackend{
		backend: btclog.NewBackend(w),
		loggers: make(map[string]btclog.Logger),
	}
	scrp := b.logger(SubsystemScript)
	txcd := b.logger(SubsystemConsensus)

	b.SetLevels(cfg.LogLevel)
	if cfg.TraceExecution {
		scrp.SetLevel(btclog.LevelTrace)
	}

	script.UseLogger(scrp)
	consensus.UseLogger(txcd)
	return b
}

func (b *LogBackend) logger(tag string) btclog.Logger {
	l := b.backend.Logger(tag)
	b.loggers[tag] = l
	return l
}

// SetLevels sets every subsystem to level. An unknown level leaves the
// loggers unchanged.
func (b *LogBackend) SetLevels(level string) {
	lvl, ok := btclog.LevelFromString(strings.ToLower(strings.TrimSpace(level)))
	if !ok {
		return
	}
	for _, l := range b.loggers {
		l.SetLevel(lvl)
	}
}

// Logger returns the logger for a subsystem tag, or nil.
func (b *LogBackend) Logger(tag string) btclog.Logger {
	return b.loggers[tag]
}

// Subsystems lists the registered tags in sorted order.
func (b *LogBackend) Subsystems() []string {
	tags := make([]string, 0, len(b.loggers))
	for tag := range b.loggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

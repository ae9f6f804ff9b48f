package core

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/davecgh/go-spew/spew"
)

// Subsystem defines the logging code for this subsystem.
const Subsystem = "STUB"

// log is a logger that is initialized with the btclog.Disabled logger.
//
//nolint:gochecknoglobals // package logger, swapped via UseLogger
var log = btclog.Disabled

// DisableLog disables all logging output.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// logClosure defers expensive formatting until the logger actually emits.
type logClosure func() string

// String invokes the underlying function and returns the result.
func (c logClosure) String() string {
	return c()
}

// spewClosure dumps v with spew only if the line is printed.
func spewClosure(v any) logClosure {
	return func() string {
		return spew.Sdump(v)
	}
}

// Package logging wraps the standard library's log.Logger with a
// bracketed-tag convention ("[BT]", "[store]", ...) instead of a
// structured logger. See DESIGN.md for why the standard library suffices
// here.
package logging

import (
	"log"
	"os"
)

// Logger prefixes messages with a level tag, matching the bracketed-tag
// style used across this codebase ("[BT]", etc).
type Logger struct {
	tag string
	l   *log.Logger
}

// New creates a Logger that prefixes every line with "[tag]".
func New(tag string) *Logger {
	return &Logger{tag: tag, l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (lg *Logger) Info(format string, args ...interface{}) {
	lg.l.Printf("[%s] "+format, append([]interface{}{lg.tag}, args...)...)
}

func (lg *Logger) Warn(format string, args ...interface{}) {
	lg.l.Printf("[%s][warn] "+format, append([]interface{}{lg.tag}, args...)...)
}

func (lg *Logger) Error(format string, args ...interface{}) {
	lg.l.Printf("[%s][error] "+format, append([]interface{}{lg.tag}, args...)...)
}

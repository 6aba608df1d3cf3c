// stdwrapper.go - adapts a Logger to the stdlib's log.Logger.
//
// Changes Copyright 2025, Kulasekaran <kulasekaranslrk@gmail.com>
// This code is licensed under the same terms as the golang core.

package logx

import (
	stdlog "log"
)

// StdLogger returns a cached *stdlog.Logger that writes through this
// instance at INFO level. Safe for concurrent callers: the pointer is
// published with a single compare-and-swap.
func (l *xLogger) StdLogger() *stdlog.Logger {
	if g := l.stdlogger.Load(); g != nil {
		return g
	}
	g := stdlog.New(stdWriter{l}, "", 0)
	if !l.stdlogger.CompareAndSwap(nil, g) {
		g = l.stdlogger.Load()
	}
	return g
}

// StdLogger on the null logger discards everything it's handed.
func (n *nullLogger) StdLogger() *stdlog.Logger {
	return stdlog.New(discardWriter{}, "", 0)
}

// stdWriter routes bytes written by the stdlib logger to Log at INFO
// level, with "?" as file and function and 0 as line.
type stdWriter struct{ l *xLogger }

func (w stdWriter) Write(b []byte) (int, error) {
	w.l.Log(INFO, "?", "?", 0, "%s", string(b))
	return len(b), nil
}

type discardWriter struct{}

func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }

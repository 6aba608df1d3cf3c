// nul.go - the null-object Logger.
//
// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2025, Kulasekaran <kulasekaranslrk@gmail.com>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

// nullLogger discards every operation. Returned by NewNull, and usable
// anywhere a Logger is expected by a caller that wants logging disabled
// without sprinkling nil-checks through its own code.
type nullLogger struct {
	cfg Config
}

var _ Logger = (*nullLogger)(nil)

// NewNull returns a Logger for which every public operation is a no-op.
func NewNull() Logger {
	return &nullLogger{cfg: DefaultConfig()}
}

func (n *nullLogger) Close() error { return nil }

func (n *nullLogger) SetConsoleLevel(Level) {}
func (n *nullLogger) SetFileLevel(Level)    {}
func (n *nullLogger) EnableConsole()        {}
func (n *nullLogger) DisableConsole()       {}
func (n *nullLogger) EnableFile()           {}
func (n *nullLogger) DisableFile()          {}
func (n *nullLogger) EnableColor()          {}
func (n *nullLogger) DisableColor()         {}
func (n *nullLogger) EnableTTYDetection()   {}
func (n *nullLogger) DisableTTYDetection()  {}
func (n *nullLogger) EnablePrintConfig()    {}
func (n *nullLogger) DisablePrintConfig()   {}

func (n *nullLogger) SetRotateType(RotateType)   {}
func (n *nullLogger) SetSizeBytes(int64)         {}
func (n *nullLogger) SetMaxBackups(int)          {}
func (n *nullLogger) SetRotateIntervalDays(int)  {}
func (n *nullLogger) RotateNow() error            { return nil }

func (n *nullLogger) Log(Level, string, string, int, string, ...interface{}) {}
func (n *nullLogger) Trace(string, ...interface{})                           {}
func (n *nullLogger) Debug(string, ...interface{})                           {}
func (n *nullLogger) Info(string, ...interface{})                            {}
func (n *nullLogger) Warn(string, ...interface{})                            {}
func (n *nullLogger) Error(string, ...interface{})                           {}
func (n *nullLogger) Fatal(string, ...interface{})                           {}
func (n *nullLogger) Banner(string, ...interface{})                          {}

func (n *nullLogger) TimerStart(string)       {}
func (n *nullLogger) TimerPause(string)       {}
func (n *nullLogger) TimerResume(string)      {}
func (n *nullLogger) TimerStop(string)        {}
func (n *nullLogger) TimeScope(string) func() { return func() {} }

func (n *nullLogger) Config() Config { return n.cfg }

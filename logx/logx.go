// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2025, Kulasekaran <kulasekaranslrk@gmail.com>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx is a level-filtered, colorized, dual-sink structured
// logging core. Unlike a queued/async logger, every call to Log blocks
// on whichever sinks it writes to: there is no lossless back-pressure
// to provide, so a slow sink simply slows the caller.
package logx

import (
	"fmt"
	stdlog "log"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// Logger is the public surface of a created logx instance. Every
// operation is a no-op on the value returned when Create fails to
// allocate a usable logger (see NewNull).
type Logger interface {
	Close() error

	SetConsoleLevel(Level)
	SetFileLevel(Level)
	EnableConsole()
	DisableConsole()
	EnableFile()
	DisableFile()
	EnableColor()
	DisableColor()
	EnableTTYDetection()
	DisableTTYDetection()
	EnablePrintConfig()
	DisablePrintConfig()

	SetRotateType(RotateType)
	SetSizeBytes(int64)
	SetMaxBackups(int)
	SetRotateIntervalDays(int)
	RotateNow() error

	Log(level Level, file, fn string, line int, format string, args ...interface{})
	Trace(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})
	Banner(format string, args ...interface{})

	TimerStart(name string)
	TimerPause(name string)
	TimerResume(name string)
	TimerStop(name string)
	TimeScope(name string) func()

	Config() Config

	// StdLogger adapts this instance to the stdlib's *log.Logger, for
	// handing to third-party code that only accepts that interface.
	StdLogger() *stdlog.Logger
}

// xLogger is the concrete, file-or-console-backed Logger implementation.
type xLogger struct {
	mu sync.Mutex

	cfg Config

	fp *os.File // nil iff file logging is not currently open

	currentDate string // YYYY-MM-DD, for date-based rotation

	timers timerTable

	stdlogger atomic.Pointer[stdlog.Logger]
}

var _ Logger = (*xLogger)(nil)

// Create builds a Logger from cfg. If cfg is nil, configuration is
// obtained from the external loader (LoadConfig). File logging, if
// requested, is opened in append mode; if the open fails, file logging
// is disabled for this instance and creation still succeeds.
func Create(cfg *Config) (Logger, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	} else {
		loaded, err := LoadConfig()
		if err != nil {
			return NewNull(), fmt.Errorf("logx: create: %w", err)
		}
		c = loaded
	}

	if c.BannerPattern == "" {
		c.BannerPattern = "="
	}

	l := &xLogger{
		cfg:         c,
		currentDate: today(),
	}

	if l.cfg.EnableFileLogging {
		if l.cfg.FilePath == "" {
			fmt.Fprintf(os.Stderr, "[LogX] file logging requested but no file_path configured; disabling\n")
			l.cfg.EnableFileLogging = false
		} else if err := l.openFile(); err != nil {
			fmt.Fprintf(os.Stderr, "[LogX] %s: open failed: %s; disabling file logging\n", l.cfg.FilePath, err)
			l.cfg.EnableFileLogging = false
		}
	}

	if l.cfg.PrintConfig {
		fmt.Fprint(os.Stderr, l.cfg.String())
	}

	return l, nil
}

func (l *xLogger) openFile() error {
	fp, err := os.OpenFile(l.cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.fp = fp
	return nil
}

// Close flushes and closes the backing file, if any. Safe to call more
// than once; calls after the first are no-ops.
func (l *xLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fp == nil {
		return nil
	}
	err := l.fp.Sync()
	cerr := l.fp.Close()
	l.fp = nil
	if err != nil {
		return err
	}
	return cerr
}

func (l *xLogger) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// -- setters --

func (l *xLogger) SetConsoleLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.ConsoleLevel = lvl
}

func (l *xLogger) SetFileLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.FileLevel = lvl
}

func (l *xLogger) EnableConsole() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.EnableConsoleLogging = true
}

func (l *xLogger) DisableConsole() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.EnableConsoleLogging = false
}

func (l *xLogger) EnableFile() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cfg.FilePath == "" {
		fmt.Fprintf(os.Stderr, "[LogX] can't enable file logging: no file_path configured\n")
		return
	}
	if l.fp == nil {
		if err := l.openFile(); err != nil {
			fmt.Fprintf(os.Stderr, "[LogX] %s: open failed: %s\n", l.cfg.FilePath, err)
			return
		}
	}
	l.cfg.EnableFileLogging = true
}

func (l *xLogger) DisableFile() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.EnableFileLogging = false
}

func (l *xLogger) EnableColor() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.ColoredLogs = true
}

func (l *xLogger) DisableColor() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.ColoredLogs = false
}

func (l *xLogger) EnableTTYDetection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.UseTTYDetection = true
}

func (l *xLogger) DisableTTYDetection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.UseTTYDetection = false
}

func (l *xLogger) EnablePrintConfig() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.PrintConfig = true
}

func (l *xLogger) DisablePrintConfig() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.PrintConfig = false
}

func (l *xLogger) SetRotateType(t RotateType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !t.IsValid() {
		fmt.Fprintf(os.Stderr, "[LogX] invalid rotate type %d\n", int(t))
		return
	}
	l.cfg.Rotate.Type = t
}

func (l *xLogger) SetSizeBytes(n int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.Rotate.SizeBytes = n
}

func (l *xLogger) SetMaxBackups(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.Rotate.MaxBackups = n
}

func (l *xLogger) SetRotateIntervalDays(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.Rotate.DailyInterval = n
}

// RotateNow forces an immediate rotation if file logging is enabled
// and a path is configured.
func (l *xLogger) RotateNow() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.cfg.EnableFileLogging || l.cfg.FilePath == "" || l.fp == nil {
		return fmt.Errorf("logx: rotate_now: file logging not enabled")
	}
	return l.rotateLocked()
}

// rotateLocked performs the lock-flush-rotate-close-reopen sequence.
// Caller must hold l.mu. The exclusive advisory lock is taken on the
// old descriptor before the rename chain; closing that descriptor
// releases it, so the lock is already gone when the new file is
// opened, and the final unlockFile on the old descriptor number has
// nothing left to release.
func (l *xLogger) rotateLocked() error {
	oldFp := l.fp
	oldFd := int(oldFp.Fd())

	if err := lockFile(oldFd); err != nil {
		return fmt.Errorf("lock: %w", err)
	}

	oldFp.Sync()

	if err := rotate(l.cfg.FilePath, l.cfg.Rotate.MaxBackups); err != nil {
		unlockFile(oldFd)
		return fmt.Errorf("rotate: %w", err)
	}

	oldFp.Close()
	l.fp = nil

	if err := l.openFile(); err != nil {
		unlockFile(oldFd)
		l.cfg.EnableFileLogging = false
		fmt.Fprintf(os.Stderr, "[LogX] %s: reopen after rotation failed: %s; disabling file logging\n", l.cfg.FilePath, err)
		return err
	}

	unlockFile(oldFd)
	l.currentDate = today()
	return nil
}

// Log is the heart of the logger: it computes which sinks fire, rotates
// if needed, formats once, and writes synchronously to each enabled
// sink under the logger mutex.
func (l *xLogger) Log(level Level, file, fn string, line int, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	writeConsole := l.cfg.EnableConsoleLogging && level >= l.cfg.ConsoleLevel
	writeFile := l.cfg.EnableFileLogging && level >= l.cfg.FileLevel && l.fp != nil
	if !writeConsole && !writeFile {
		return
	}

	if l.fp != nil {
		needRotate := false
		switch l.cfg.Rotate.Type {
		case RotateByDate:
			needRotate = shouldRotateByDate(l.currentDate)
		case RotateBySize:
			if ok, err := shouldRotateBySize(int(l.fp.Fd()), l.cfg.Rotate.SizeBytes); err == nil {
				needRotate = ok
			}
		}
		if needRotate {
			if err := l.rotateLocked(); err != nil {
				fmt.Fprintf(os.Stderr, "[LogX] auto-rotate failed: %s\n", err)
			}
		}
	}

	msg := fmt.Sprintf(format, args...)
	now := time.Now()

	if writeConsole {
		sink := os.Stdout
		if level >= WARN {
			sink = os.Stderr
		}
		colored := l.cfg.ColoredLogs
		if l.cfg.UseTTYDetection && !term.IsTerminal(int(sink.Fd())) {
			colored = false
		}
		rec := formatRecord(now, level, file, fn, line, msg, l.cfg.BannerPattern, colored)
		sink.Write(rec)
	}

	if writeFile {
		rec := formatRecord(now, level, file, fn, line, msg, l.cfg.BannerPattern, false)
		fd := int(l.fp.Fd())
		if err := lockFile(fd); err == nil {
			l.fp.Write(rec)
			l.fp.Sync()
			unlockFile(fd)
		}
	}
}

// -- level-specific convenience wrappers; call depth matches the
// caller of Trace/Debug/... so logx itself never appears in the
// backtrace-derived file/func/line fields. --

func (l *xLogger) logCaller(level Level, format string, args []interface{}) {
	file, fn, line := caller(3)
	l.Log(level, file, fn, line, format, args...)
}

func (l *xLogger) Trace(format string, args ...interface{})  { l.logCaller(TRACE, format, args) }
func (l *xLogger) Debug(format string, args ...interface{})  { l.logCaller(DEBUG, format, args) }
func (l *xLogger) Info(format string, args ...interface{})   { l.logCaller(INFO, format, args) }
func (l *xLogger) Warn(format string, args ...interface{})   { l.logCaller(WARN, format, args) }
func (l *xLogger) Error(format string, args ...interface{})  { l.logCaller(ERROR, format, args) }
func (l *xLogger) Fatal(format string, args ...interface{})  { l.logCaller(FATAL, format, args) }
func (l *xLogger) Banner(format string, args ...interface{}) { l.logCaller(BANNER, format, args) }

// caller recovers the file/func/line of the user's call site, skip
// frames above the logx package itself.
func caller(skip int) (file, fn string, line int) {
	pc, f, ln, ok := runtime.Caller(skip)
	if !ok {
		return "?", "?", 0
	}
	file = f
	line = ln
	if fr := runtime.FuncForPC(pc); fr != nil {
		fn = fr.Name()
	} else {
		fn = "?"
	}
	return
}

// -- timers --

func (l *xLogger) TimerStart(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if diag := l.timers.start(name); diag != "" {
		fmt.Fprintln(os.Stderr, diag)
	}
}

func (l *xLogger) TimerPause(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timers.pause(name)
}

func (l *xLogger) TimerResume(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timers.resume(name)
}

func (l *xLogger) TimerStop(name string) {
	l.mu.Lock()
	d, ok := l.timers.stop(name)
	if !ok {
		l.mu.Unlock()
		return
	}
	line := fmt.Sprintf("Timer[%s] took %s\n", name, formatDuration(d))
	consoleOn := l.cfg.EnableConsoleLogging
	fileOn := l.cfg.EnableFileLogging && l.fp != nil
	fp := l.fp
	l.mu.Unlock()

	if consoleOn {
		os.Stdout.WriteString(line)
	}
	if fileOn {
		fd := int(fp.Fd())
		if err := lockFile(fd); err == nil {
			fp.WriteString(line)
			fp.Sync()
			unlockFile(fd)
		}
	}
}

// TimeScope starts a timer and returns a closure that stops it; call
// the closure via defer to guarantee the stop fires on every exit path,
// including a propagated panic.
func (l *xLogger) TimeScope(name string) func() {
	l.TimerStart(name)
	return func() { l.TimerStop(name) }
}

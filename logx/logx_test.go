package logx

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// lineRe mirrors the one emitted per spec's documented log-line format.
var lineRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] \[(?P<tag>[A-Z]{3})\] \([^)]*\): (?P<msg>.*)$`)

func newTestLogger(t *testing.T, cfg Config) (Logger, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	cfg.FilePath = path
	cfg.EnableFileLogging = true
	cfg.EnableConsoleLogging = false
	cfg.PrintConfig = false

	l, err := Create(&cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, path
}

func lastLine(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var last string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if sc.Text() != "" {
			last = sc.Text()
		}
	}
	return last
}

func TestBasicInfoLine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileLevel = TRACE
	l, path := newTestLogger(t, cfg)

	l.Log(INFO, "f.c", "main", 7, "hello %s", "world")

	line := lastLine(t, path)
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("line %q did not match expected format", line)
	}
	if m[1] != "INF" {
		t.Fatalf("tag = %q, want INF", m[1])
	}
	if m[2] != "hello world" {
		t.Fatalf("msg = %q, want %q", m[2], "hello world")
	}
}

func TestLevelFiltering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileLevel = WARN
	l, path := newTestLogger(t, cfg)

	l.Info("should not appear")
	l.Error("should appear")

	data, _ := os.ReadFile(path)
	s := string(data)
	if strings.Contains(s, "should not appear") {
		t.Fatalf("INFO record leaked through WARN threshold: %q", s)
	}
	if !strings.Contains(s, "should appear") {
		t.Fatalf("ERROR record missing: %q", s)
	}
}

func TestSizeRotation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileLevel = TRACE
	cfg.Rotate.Type = RotateBySize
	cfg.Rotate.SizeBytes = 100
	cfg.Rotate.MaxBackups = 2
	l, path := newTestLogger(t, cfg)

	for i := 0; i < 20; i++ {
		l.Info("record number %d padded to grow the file ......", i)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected %s.1 to exist after crossing the size threshold: %v", path, err)
	}
}

func TestRotateNowProducesEmptyCurrentFile(t *testing.T) {
	cfg := DefaultConfig()
	l, path := newTestLogger(t, cfg)

	l.Info("before rotation")
	if err := l.RotateNow(); err != nil {
		t.Fatalf("RotateNow: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != 0 {
		t.Fatalf("current file size after rotate_now = %d, want 0", fi.Size())
	}

	backup, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(backup), "before rotation") {
		t.Fatalf("path.1 missing pre-rotation content: %q", backup)
	}
}

func TestEnableFileWithoutPathIsRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableFileLogging = false
	cfg.FilePath = ""
	cfg.EnableConsoleLogging = false
	cfg.PrintConfig = false

	l, err := Create(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.EnableFile()

	if xl, ok := l.(*xLogger); ok {
		if xl.cfg.EnableFileLogging {
			t.Fatalf("EnableFile should be rejected when no path is configured")
		}
	}
}

func TestNullLoggerIsNoop(t *testing.T) {
	l := NewNull()
	// None of these should panic regardless of arguments.
	l.Log(INFO, "f", "fn", 1, "x")
	l.Info("irrelevant")
	l.TimerStart("t")
	l.TimerStop("t")
	if err := l.RotateNow(); err != nil {
		t.Fatalf("null logger RotateNow should be a no-op returning nil, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", TRACE},
		{"DEBUG", DEBUG},
		{"Info", INFO},
		{"warn", WARN},
		{"WARNING", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
	}
	for _, tc := range tests {
		got, ok := ParseLevel(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ParseLevel(%q) = %v,%v want %v,true", tc.in, got, ok, tc.want)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	order := []Level{TRACE, DEBUG, BANNER, INFO, WARN, ERROR, FATAL, OFF}
	for i := 1; i < len(order); i++ {
		if !(order[i-1] < order[i]) {
			t.Fatalf("level ordering broken at index %d: %v !< %v", i, order[i-1], order[i])
		}
	}
}

func TestLevelTag(t *testing.T) {
	tags := map[Level]string{TRACE: "TRC", DEBUG: "DBG", BANNER: "BNR", INFO: "INF", WARN: "WRN", ERROR: "ERR", FATAL: "FTL"}
	for lvl, want := range tags {
		if got := lvl.Tag(); got != want {
			t.Errorf("Level(%d).Tag() = %q, want %q", lvl, got, want)
		}
	}
}

func TestTimerEndToEndEmitsDurationLine(t *testing.T) {
	cfg := DefaultConfig()
	l, path := newTestLogger(t, cfg)

	l.TimerStart("t")
	l.TimerStop("t")

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Timer[t] took") {
		t.Fatalf("expected timer duration line in file, got %q", data)
	}
}

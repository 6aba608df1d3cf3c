package logxd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kulasekaran/logx/logx"
)

func testCfg(t *testing.T) *logx.Config {
	t.Helper()
	cfg := logx.DefaultConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "session.log")
	cfg.PrintConfig = false
	cfg.EnableConsoleLogging = false
	return &cfg
}

func TestRegistryCreateFindDestroy(t *testing.T) {
	r := NewRegistry()

	lg, err := r.Create(1001, testCfg(t))
	if err != nil {
		t.Fatal(err)
	}
	if lg == nil {
		t.Fatal("Create returned nil logger")
	}

	got, ok := r.Find(1001)
	if !ok || got != lg {
		t.Fatal("Find did not return the created logger")
	}

	if err := r.Destroy(1001); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Find(1001); ok {
		t.Fatal("session still present after Destroy")
	}
}

func TestRegistryAtMostOneSessionPerPID(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Create(2002, testCfg(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(2002, testCfg(t)); err != ErrLoggerExists {
		t.Fatalf("err = %v, want ErrLoggerExists", err)
	}
}

func TestRegistryDestroyUnknownPID(t *testing.T) {
	r := NewRegistry()
	if err := r.Destroy(9999); err != ErrLoggerNotFound {
		t.Fatalf("err = %v, want ErrLoggerNotFound", err)
	}
}

func TestRegistryBucketCollisionsKeepDistinctSessions(t *testing.T) {
	r := NewRegistry()

	// pid 10 and pid 10+numBuckets hash to the same bucket.
	pidA := uint32(10)
	pidB := uint32(10 + numBuckets)

	if _, err := r.Create(pidA, testCfg(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(pidB, testCfg(t)); err != nil {
		t.Fatal(err)
	}

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	if err := r.Destroy(pidA); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Find(pidB); !ok {
		t.Fatal("destroying pidA should not remove pidB from the shared bucket")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryCleanupDeadReapsOnlyDeadSessions(t *testing.T) {
	r := NewRegistry()

	alivePid := uint32(111)
	deadPid := uint32(222)

	if _, err := r.Create(alivePid, testCfg(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(deadPid, testCfg(t)); err != nil {
		t.Fatal(err)
	}

	reaped := r.CleanupDead(func(pid uint32) bool { return pid == alivePid })
	if reaped != 1 {
		t.Fatalf("reaped = %d, want 1", reaped)
	}

	if _, ok := r.Find(alivePid); !ok {
		t.Fatal("live session was reaped")
	}
	if _, ok := r.Find(deadPid); ok {
		t.Fatal("dead session was not reaped")
	}
}

func TestRegistryDestroyKeepsLogFileOnDisk(t *testing.T) {
	r := NewRegistry()
	cfg := testCfg(t)
	cfg.EnableFileLogging = true

	if _, err := r.Create(333, cfg); err != nil {
		t.Fatal(err)
	}
	if err := r.Destroy(333); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(cfg.FilePath); err != nil {
		t.Fatalf("expected log file to exist after close: %v", err)
	}
}

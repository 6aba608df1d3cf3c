package logx

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRotateTruncatesWhenNoBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	writeFile(t, path, "hello")

	if err := rotate(path, 0); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "" {
		t.Fatalf("expected truncated file, got %q", got)
	}
}

func TestRotateShiftsBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	writeFile(t, path, "current")
	writeFile(t, path+".1", "backup1")

	if err := rotate(path, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be renamed away, stat err=%v", path, err)
	}
	if got := readFile(t, path+".1"); got != "current" {
		t.Fatalf("path.1 = %q, want %q", got, "current")
	}
	if got := readFile(t, path+".2"); got != "backup1" {
		t.Fatalf("path.2 = %q, want %q", got, "backup1")
	}
}

func TestRotateDropsOldestBeyondMaxBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	writeFile(t, path, "current")
	writeFile(t, path+".1", "b1")
	writeFile(t, path+".2", "b2")

	if err := rotate(path, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("path.3 should not exist, since max_backups=2; stat err=%v", err)
	}
	if got := readFile(t, path+".2"); got != "b1" {
		t.Fatalf("path.2 = %q, want %q (the old path.1)", got, "b1")
	}
}

func TestShouldRotateByDate(t *testing.T) {
	if shouldRotateByDate(today()) {
		t.Fatalf("same date should not trigger rotation")
	}
	if !shouldRotateByDate("2000-01-01") {
		t.Fatalf("different date should trigger rotation")
	}
}

func TestParseRotateType(t *testing.T) {
	cases := map[string]RotateType{
		"none":    RotateNone,
		"BY_SIZE": RotateBySize,
		"by_date": RotateByDate,
	}
	for s, want := range cases {
		got, ok := ParseRotateType(s)
		if !ok || got != want {
			t.Errorf("ParseRotateType(%q) = %v,%v want %v,true", s, got, ok, want)
		}
	}
	if _, ok := ParseRotateType("bogus"); ok {
		t.Errorf("expected bogus rotate type to fail parsing")
	}
}

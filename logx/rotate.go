package logx

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// RotateType selects the rotation trigger for a file-backed logger.
type RotateType int

const (
	RotateNone RotateType = iota
	RotateBySize
	RotateByDate
)

func (t RotateType) String() string {
	switch t {
	case RotateNone:
		return "NONE"
	case RotateBySize:
		return "BY_SIZE"
	case RotateByDate:
		return "BY_DATE"
	default:
		return fmt.Sprintf("invalid-rotate-type-%d", int(t))
	}
}

// ParseRotateType converts a string (case-insensitive) to a RotateType.
func ParseRotateType(s string) (RotateType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return RotateNone, true
	case "BY_SIZE", "SIZE":
		return RotateBySize, true
	case "BY_DATE", "DATE":
		return RotateByDate, true
	default:
		return 0, false
	}
}

func (t RotateType) IsValid() bool {
	return t == RotateNone || t == RotateBySize || t == RotateByDate
}

// RotatePolicy is the tagged rotation configuration shared by every
// file-backed logger: a trigger type plus the byte threshold used when
// the type is RotateBySize, the day interval used when RotateByDate,
// and the number of backups retained regardless of trigger.
type RotatePolicy struct {
	Type          RotateType
	SizeBytes     int64 // threshold in bytes; the only unit logx understands internally
	DailyInterval int   // days between rotations under RotateByDate (1 = daily)
	MaxBackups    int   // 0 disables backups: rotate() truncates in place
}

// lockFile acquires an exclusive advisory lock on fd. Cooperating
// processes that also flock(2) the same path serialize around it; a
// process that does not is unaffected.
func lockFile(fd int) error {
	return unix.Flock(fd, unix.LOCK_EX)
}

// unlockFile releases a lock taken by lockFile.
func unlockFile(fd int) error {
	return unix.Flock(fd, unix.LOCK_UN)
}

// shouldRotateBySize reports whether the file behind fd has reached or
// exceeded maxBytes.
func shouldRotateBySize(fd int, maxBytes int64) (bool, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return false, fmt.Errorf("fstat: %w", err)
	}
	return st.Size >= maxBytes, nil
}

// today formats the local date the way the rotation engine records it.
func today() string {
	return time.Now().Format("2006-01-02")
}

// shouldRotateByDate reports whether the logger's recorded date differs
// from the current local date.
func shouldRotateByDate(recorded string) bool {
	return recorded != today()
}

// rotate renames the numbered backup chain for path, making room for a
// fresh, empty path to be (re)opened by the caller.
//
// Algorithm: if maxBackups <= 0, path is truncated in place and no
// backups are kept. Otherwise path.maxBackups is unlinked first so the
// shift never collides with a surviving file, then path.(maxBackups-1)
// downto path.0 (path itself) are each shifted up by one.
func rotate(path string, maxBackups int) error {
	if maxBackups <= 0 {
		return truncate(path)
	}

	oldest := fmt.Sprintf("%s.%d", path, maxBackups)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlink %s: %w", oldest, err)
	}

	for i := maxBackups - 1; i >= 0; i-- {
		src := path
		if i > 0 {
			src = fmt.Sprintf("%s.%d", path, i)
		}
		dst := fmt.Sprintf("%s.%d", path, i+1)

		if err := os.Rename(src, dst); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("rename %s -> %s: %w", src, dst, err)
		}
	}
	return nil
}

func truncate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return f.Close()
}

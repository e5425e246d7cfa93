// Package pid guards an output directory with a PID file so two runs
// never write the same charts at once.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/faultplot/internal/errors"
)

const (
	pidFile = "faultplot.pid"
)

// Path returns the PID file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, pidFile)
}

// Write records the current process ID in dir. It fails with
// ErrAlreadyRunning when the file names another live process; stale files
// are replaced.
func Write(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if bytes, err := os.ReadFile(path); err == nil {
		other, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
		if err == nil && other != os.Getpid() && alive(other) {
			return errFactory.WithData(errors.ErrAlreadyRunning, struct {
				Path string
				PID  int
			}{
				Path: path,
				PID:  other,
			})
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file from dir.
func Remove(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

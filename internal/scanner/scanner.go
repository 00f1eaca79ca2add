package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

var (
	// ErrUnavailable marks a source that could not be read at all.
	ErrUnavailable = errors.New("source unavailable")
	// ErrNotPrivileged marks a probe that needs an effective uid of 0.
	ErrNotPrivileged = errors.New("requires elevated privilege")
)

// Runner runs an external command and captures its text output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec, bounded by Timeout.
type ExecRunner struct {
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", ctx.Err()
	}
	return string(out), err
}

// FSUsage is the raw result of a statfs query in bytes.
type FSUsage struct {
	Total uint64
	Free  uint64
}

// Scanner reads kernel-exposed state into model snapshots.
// It keeps no state between calls; every method performs a fresh read.
type Scanner struct {
	// Root is prepended to every procfs, sysfs and /etc path.
	Root   string
	Runner Runner
	Log    *slog.Logger

	// Hooks for the few reads that do not go through Root.
	Statfs      func(path string) (FSUsage, error)
	Dial        func(network, address string) (net.Conn, error)
	Geteuid     func() int
	Getpagesize func() int
	FileOwner   func(path string) (uint32, error)
}

func New(runner Runner, log *slog.Logger) *Scanner {
	if runner == nil {
		runner = ExecRunner{Timeout: 2 * time.Second}
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{
		Root:        "/",
		Runner:      runner,
		Log:         log,
		Statfs:      statfs,
		Dial:        net.Dial,
		Geteuid:     unix.Geteuid,
		Getpagesize: unix.Getpagesize,
		FileOwner:   fileOwner,
	}
}

// IsPrivileged reports whether the process runs with effective uid 0.
func (s *Scanner) IsPrivileged() bool { return s.Geteuid() == 0 }

func (s *Scanner) path(rel string) string { return filepath.Join(s.Root, rel) }

func (s *Scanner) readFile(rel string) (string, error) {
	p := s.path(rel)
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, p, err)
	}
	return string(b), nil
}

func (s *Scanner) readDir(rel string) ([]os.DirEntry, error) {
	p := s.path(rel)
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, p, err)
	}
	return entries, nil
}

func (s *Scanner) readTrimmed(rel string) (string, error) {
	data, err := s.readFile(rel)
	return strings.TrimSpace(data), err
}

func (s *Scanner) exists(rel string) bool {
	_, err := os.Stat(s.path(rel))
	return err == nil
}

func statfs(path string) (FSUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSUsage{}, err
	}
	frsize := uint64(st.Frsize)
	return FSUsage{
		Total: st.Blocks * frsize,
		Free:  st.Bavail * frsize,
	}, nil
}

func fileOwner(path string) (uint32, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return st.Uid, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

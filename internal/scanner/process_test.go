package scanner

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

// statLine builds a /proc/<pid>/stat record with the given comm and rss pages.
func statLine(pid int, comm string, rss int) string {
	// fields after comm: state ppid pgrp session tty tpgid flags minflt
	// cminflt majflt cmajflt utime stime cutime cstime priority nice
	// num_threads itrealvalue starttime vsize rss ...
	return fmt.Sprintf("%d (%s) S 1 1 1 0 -1 4194560 100 0 0 0 5 3 0 0 20 0 1 0 100 123456 %d 18446744073709551615 0 0\n",
		pid, comm, rss)
}

func TestParseStatNameWithParens(t *testing.T) {
	name, pages, err := parseStat(statLine(1234, "my (weird) proc", 10))
	if err != nil {
		t.Fatal(err)
	}
	if name != "my (weird) proc" {
		t.Errorf("name = %q", name)
	}
	if pages != 10 {
		t.Errorf("pages = %d, want 10", pages)
	}
}

func TestParseStatMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"1234 no parens S 1",
		"1234 (short) S 1 2 3",
		"1234 (x)",
		"1234 )x( S",
	} {
		if _, _, err := parseStat(raw); !errors.Is(err, errMalformedStat) {
			t.Errorf("parseStat(%q) err = %v", raw, err)
		}
	}
}

func TestReadTopProcesses(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"proc/1/stat":    statLine(1, "init", 100),
		"proc/20/stat":   statLine(20, "big one", 5000),
		"proc/300/stat":  statLine(300, "mid", 800),
		"proc/4000/stat": "4000 (broken",
		"proc/self/stat": statLine(99, "self", 99999),
		"proc/meminfo":   "MemTotal: 1 kB\n",
	})
	procs, err := s.ReadTopProcesses(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(procs) != 2 {
		t.Fatalf("got %d processes, want 2", len(procs))
	}
	if procs[0].PID != 20 || procs[0].Name != "big one" || procs[0].RSS != 5000*4096 {
		t.Errorf("first = %+v", procs[0])
	}
	if procs[1].PID != 300 {
		t.Errorf("second = %+v", procs[1])
	}
	for _, p := range procs {
		if p.UID != nil {
			t.Errorf("uid set without privilege: %+v", p)
		}
	}
}

func TestReadTopProcessesOrderingAndLimit(t *testing.T) {
	files := map[string]string{}
	for i := 1; i <= 12; i++ {
		files[filepath.Join("proc", fmt.Sprint(i), "stat")] = statLine(i, fmt.Sprintf("p%d", i), (i*37)%10)
	}
	s := newTestScanner(t, files)
	for _, limit := range []int{0, 1, 5, 12, 50} {
		procs, err := s.ReadTopProcesses(limit)
		if err != nil {
			t.Fatal(err)
		}
		want := limit
		if want > 12 {
			want = 12
		}
		if len(procs) != want {
			t.Errorf("limit %d: got %d entries", limit, len(procs))
		}
		for i := 1; i < len(procs); i++ {
			if procs[i].RSS > procs[i-1].RSS {
				t.Errorf("limit %d: not non-increasing at %d: %d > %d", limit, i, procs[i].RSS, procs[i-1].RSS)
			}
		}
	}
}

func TestReadTopProcessesPrivilegedOwner(t *testing.T) {
	s := newTestScanner(t, map[string]string{"proc/7/stat": statLine(7, "sshd", 3)})
	s.Geteuid = func() int { return 0 }
	s.FileOwner = func(string) (uint32, error) { return 0, nil }
	s.Getpagesize = func() int { return 0 }

	procs, err := s.ReadTopProcesses(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(procs) != 1 || procs[0].UID == nil || *procs[0].UID != 0 {
		t.Fatalf("got %+v", procs)
	}
	if procs[0].RSS != 3*defaultPageSize {
		t.Errorf("rss = %d, want default page size applied", procs[0].RSS)
	}
}

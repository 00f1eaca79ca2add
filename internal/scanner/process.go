package scanner

import (
	"errors"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

const (
	defaultPageSize = 4096
	// rssField is the offset of rss among the fields after the comm
	// field (state is offset 0).
	rssField = 21
)

var errMalformedStat = errors.New("malformed stat record")

// ReadTopProcesses ranks processes by resident memory, largest first, and
// returns at most limit entries. Processes that exit mid-scan or have a
// malformed stat record are left out.
func (s *Scanner) ReadTopProcesses(limit int) ([]model.Process, error) {
	if limit <= 0 {
		return nil, nil
	}
	entries, err := s.readDir("proc")
	if err != nil {
		return nil, err
	}

	pageSize := uint64(defaultPageSize)
	if n := s.Getpagesize(); n > 0 {
		pageSize = uint64(n)
	}
	privileged := s.IsPrivileged()

	procs := make([]model.Process, 0, len(entries)/2)
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid < 0 {
			continue
		}
		dir := path.Join("proc", e.Name())
		raw, err := s.readFile(path.Join(dir, "stat"))
		if err != nil || raw == "" {
			continue
		}
		name, pages, err := parseStat(raw)
		if err != nil {
			s.Log.Debug("skipping process", "pid", pid, "error", err)
			continue
		}

		p := model.Process{PID: pid, Name: name, RSS: pages * pageSize}
		if privileged {
			uid, err := s.FileOwner(s.path(dir))
			if err != nil {
				continue
			}
			p.UID = &uid
		}
		procs = append(procs, p)
	}

	sort.SliceStable(procs, func(i, j int) bool { return procs[i].RSS > procs[j].RSS })
	if len(procs) > limit {
		procs = procs[:limit]
	}
	return procs, nil
}

// parseStat extracts comm and rss pages from a /proc/<pid>/stat record.
// comm sits between the first '(' and the last ')' and may itself
// contain spaces and parentheses.
func parseStat(raw string) (string, uint64, error) {
	start := strings.IndexByte(raw, '(')
	end := strings.LastIndexByte(raw, ')')
	if start == -1 || end == -1 || end < start {
		return "", 0, errMalformedStat
	}
	name := raw[start+1 : end]
	if end+2 > len(raw) {
		return "", 0, errMalformedStat
	}
	rest := strings.Fields(raw[end+2:])
	if len(rest) <= rssField {
		return "", 0, errMalformedStat
	}
	pages, err := strconv.ParseUint(rest[rssField], 10, 64)
	if err != nil {
		return "", 0, errMalformedStat
	}
	return name, pages, nil
}

package scanner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

var digits = regexp.MustCompile(`\d+`)

// ReadMemoryInfo parses /proc/meminfo. Values are kilobytes; the unit
// column is not validated. A missing file yields an empty snapshot.
func (s *Scanner) ReadMemoryInfo() (model.MemorySnapshot, error) {
	mem := model.MemorySnapshot{}
	data, err := s.readFile("proc/meminfo")
	if err != nil {
		return mem, err
	}
	for _, line := range strings.Split(data, "\n") {
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		num := digits.FindString(parts[1])
		if num == "" {
			continue
		}
		v, err := strconv.ParseUint(num, 10, 64)
		if err != nil {
			s.Log.Debug("skipping meminfo line", "line", line, "error", err)
			continue
		}
		mem[strings.TrimSpace(parts[0])] = v
	}
	return mem, nil
}

// ReadCPUInfo takes descriptive fields from the first processor block and
// counts processors across the whole file.
func (s *Scanner) ReadCPUInfo() (model.CPU, error) {
	var cpu model.CPU
	data, err := s.readFile("proc/cpuinfo")
	if err != nil {
		return cpu, err
	}
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			break
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		val := strings.TrimSpace(parts[1])
		switch strings.TrimSpace(parts[0]) {
		case "model name":
			cpu.Model = val
		case "cpu MHz":
			cpu.MHz = val
		case "cache size":
			cpu.Cache = val
		}
	}
	cpu.Cores = strings.Count(data, "processor\t:")
	cpu.Hypervisor = strings.Contains(data, "hypervisor")
	return cpu, nil
}

// ReadLoadAverage returns the zero value for short or malformed input.
func (s *Scanner) ReadLoadAverage() (model.LoadAverage, error) {
	data, err := s.readFile("proc/loadavg")
	if err != nil {
		return model.LoadAverage{}, err
	}
	return parseLoadAverage(data), nil
}

func parseLoadAverage(data string) model.LoadAverage {
	fields := strings.Fields(data)
	if len(fields) < 3 {
		return model.LoadAverage{}
	}
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return model.LoadAverage{}
		}
		v[i] = f
	}
	return model.LoadAverage{Load1: v[0], Load5: v[1], Load15: v[2]}
}

// ReadUptimeSeconds returns 0 for empty or malformed input.
func (s *Scanner) ReadUptimeSeconds() (float64, error) {
	data, err := s.readFile("proc/uptime")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return 0, nil
	}
	secs, err := parseFloat(fields[0])
	if err != nil {
		s.Log.Debug("malformed uptime", "value", fields[0], "error", err)
		return 0, nil
	}
	return secs, nil
}

// ReadOSRelease parses the KEY=VALUE lines of /etc/os-release with quotes stripped.
func (s *Scanner) ReadOSRelease() (model.OSRelease, error) {
	info := model.OSRelease{}
	data, err := s.readFile("etc/os-release")
	if err != nil {
		return info, err
	}
	for _, line := range strings.Split(data, "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		info[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(val), `"`)
	}
	return info, nil
}

// ReadHostname returns the kernel hostname.
func (s *Scanner) ReadHostname() (string, error) {
	return s.readTrimmed("proc/sys/kernel/hostname")
}

// ReadKernelRelease returns the running kernel release.
func (s *Scanner) ReadKernelRelease() (string, error) {
	return s.readTrimmed("proc/sys/kernel/osrelease")
}

package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner answers commands from a table keyed by the joined argv.
type fakeRunner struct {
	out   map[string]string
	fail  map[string]bool
	calls []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if f.fail[key] {
		return f.out[key], fmt.Errorf("%s: exit status 1", name)
	}
	out, ok := f.out[key]
	if !ok {
		return "", fmt.Errorf("%s: executable file not found", name)
	}
	return out, nil
}

func newTestScanner(t *testing.T, files map[string]string) *Scanner {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		writeFile(t, filepath.Join(root, rel), content)
	}
	s := New(&fakeRunner{}, nil)
	s.Root = root
	s.Geteuid = func() int { return 1000 }
	s.Getpagesize = func() int { return 4096 }
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadMemoryInfo(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"proc/meminfo": "MemTotal:       16318480 kB\n" +
			"MemFree:         1234567 kB\n" +
			"MemAvailable:    8000000 kB\n" +
			"HugePages_Total:       0\n" +
			"Weird: line: with colons 5 kB\n" +
			"NoNumber:        kB\n",
	})
	mem, err := s.ReadMemoryInfo()
	if err != nil {
		t.Fatal(err)
	}
	if mem.Get("MemTotal") != 16318480 || mem.Get("MemAvailable") != 8000000 {
		t.Errorf("unexpected values: %v", mem)
	}
	if !mem.Has("HugePages_Total") {
		t.Errorf("unitless value dropped: %v", mem)
	}
	if mem.Has("Weird") || mem.Has("NoNumber") {
		t.Errorf("malformed lines kept: %v", mem)
	}
}

func TestReadMemoryInfoMissing(t *testing.T) {
	s := newTestScanner(t, nil)
	mem, err := s.ReadMemoryInfo()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if mem == nil || len(mem) != 0 {
		t.Errorf("want empty snapshot, got %v", mem)
	}
}

func TestReadCPUInfoFirstBlockOnly(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"proc/cpuinfo": "processor\t: 0\n" +
			"model name\t: First CPU\n" +
			"cpu MHz\t\t: 2400.000\n" +
			"cache size\t: 8192 KB\n" +
			"flags\t\t: fpu hypervisor\n" +
			"\n" +
			"processor\t: 1\n" +
			"model name\t: Second CPU\n" +
			"\n" +
			"processor\t: 2\n",
	})
	cpu, err := s.ReadCPUInfo()
	if err != nil {
		t.Fatal(err)
	}
	if cpu.Model != "First CPU" || cpu.MHz != "2400.000" || cpu.Cache != "8192 KB" {
		t.Errorf("detail fields: %+v", cpu)
	}
	if cpu.Cores != 3 {
		t.Errorf("cores = %d, want 3", cpu.Cores)
	}
	if !cpu.Hypervisor {
		t.Error("hypervisor flag not detected")
	}
}

func TestReadLoadAverage(t *testing.T) {
	s := newTestScanner(t, map[string]string{"proc/loadavg": "0.52 1.10 2.00 1/345 9999\n"})
	load, err := s.ReadLoadAverage()
	if err != nil {
		t.Fatal(err)
	}
	if load.Load1 != 0.52 || load.Load5 != 1.10 || load.Load15 != 2.00 {
		t.Errorf("got %+v", load)
	}
}

func TestParseLoadAverageMalformed(t *testing.T) {
	for _, in := range []string{"", "   ", "1.0 2.0", "a b c", "1.0 x 3.0", "\n"} {
		got := parseLoadAverage(in)
		if got.Load1 != 0 || got.Load5 != 0 || got.Load15 != 0 {
			t.Errorf("parseLoadAverage(%q) = %+v, want zero", in, got)
		}
	}
}

func TestReadUptimeSeconds(t *testing.T) {
	s := newTestScanner(t, map[string]string{"proc/uptime": "12345.67 54321.00\n"})
	up, err := s.ReadUptimeSeconds()
	if err != nil || up != 12345.67 {
		t.Fatalf("got %v, %v", up, err)
	}

	s = newTestScanner(t, map[string]string{"proc/uptime": "garbage"})
	if up, _ := s.ReadUptimeSeconds(); up != 0 {
		t.Errorf("malformed uptime = %v, want 0", up)
	}
	s = newTestScanner(t, map[string]string{"proc/uptime": ""})
	if up, _ := s.ReadUptimeSeconds(); up != 0 {
		t.Errorf("empty uptime = %v, want 0", up)
	}
}

func TestReadOSRelease(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"etc/os-release": "NAME=\"Arch Linux\"\nVERSION=\"2024.01\"\nID=arch\n# comment\nURL=\"https://x/?a=b\"\n",
	})
	info, err := s.ReadOSRelease()
	if err != nil {
		t.Fatal(err)
	}
	if info.Get("NAME", "") != "Arch Linux" || info.Get("ID", "") != "arch" {
		t.Errorf("got %v", info)
	}
	if info.Get("URL", "") != "https://x/?a=b" {
		t.Errorf("value split on later '=': %q", info["URL"])
	}
	if info.Get("VERSION_ID", "none") != "none" {
		t.Error("fallback not applied")
	}
}

func TestReadHostnameAndKernel(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"proc/sys/kernel/hostname":  "box\n",
		"proc/sys/kernel/osrelease": "6.8.0-arch1\n",
	})
	if h, _ := s.ReadHostname(); h != "box" {
		t.Errorf("hostname = %q", h)
	}
	if k, _ := s.ReadKernelRelease(); k != "6.8.0-arch1" {
		t.Errorf("kernel = %q", k)
	}

	empty := newTestScanner(t, nil)
	if h, err := empty.ReadHostname(); h != "" || err == nil {
		t.Errorf("missing hostname: %q, %v", h, err)
	}
}

func TestReadBatteryInfo(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"sys/class/power_supply/AC/online":      "1\n",
		"sys/class/power_supply/BAT0/capacity": "77\n",
		"sys/class/power_supply/BAT0/status":   "Discharging\n",
	})
	bat, ok := s.ReadBatteryInfo()
	if !ok {
		t.Fatal("battery not found")
	}
	if bat.Status != "Discharging" || bat.Capacity != 77 {
		t.Errorf("got %+v", bat)
	}
}

func TestReadBatteryInfoSkipsUnparsable(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"sys/class/power_supply/BAT0/capacity": "n/a\n",
		"sys/class/power_supply/BAT0/status":   "Unknown\n",
		"sys/class/power_supply/BAT1/capacity": "40\n",
		"sys/class/power_supply/BAT1/status":   "Charging\n",
	})
	bat, ok := s.ReadBatteryInfo()
	if !ok || bat.Capacity != 40 || bat.Status != "Charging" {
		t.Fatalf("got %+v, %v", bat, ok)
	}
}

func TestReadBatteryInfoAbsent(t *testing.T) {
	s := newTestScanner(t, map[string]string{"sys/class/power_supply/AC/online": "1\n"})
	if _, ok := s.ReadBatteryInfo(); ok {
		t.Error("non-battery supply reported as battery")
	}
	if _, ok := newTestScanner(t, nil).ReadBatteryInfo(); ok {
		t.Error("missing power_supply dir reported a battery")
	}
}

func TestReadThermalZones(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"sys/class/thermal/thermal_zone0/type":  "x86_pkg_temp\n",
		"sys/class/thermal/thermal_zone0/temp":  "45000\n",
		"sys/class/thermal/thermal_zone1/type":  "broken\n",
		"sys/class/thermal/thermal_zone1/temp":  "hot\n",
		"sys/class/thermal/cooling_device0/type": "Fan\n",
	})
	temps, err := s.ReadThermalZones()
	if err != nil {
		t.Fatal(err)
	}
	if temps["x86_pkg_temp"] != 45.0 {
		t.Errorf("x86_pkg_temp = %v, want 45.0", temps["x86_pkg_temp"])
	}
	if len(temps) != 1 {
		t.Errorf("got %v, want only the valid zone", temps)
	}
}

func TestMissingDirectoriesAreUnavailable(t *testing.T) {
	s := newTestScanner(t, nil)
	if _, err := s.ReadThermalZones(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ReadThermalZones err = %v, want ErrUnavailable", err)
	}
	if _, err := s.ReadTopProcesses(5); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ReadTopProcesses err = %v, want ErrUnavailable", err)
	}
	if _, err := s.ReadMemoryInfo(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ReadMemoryInfo err = %v, want ErrUnavailable", err)
	}
}

func TestReadNetworkStats(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"proc/net/dev": "Inter-|   Receive                                                |  Transmit\n" +
			" face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed\n" +
			"    lo: 9999 10 0 0 0 0 0 0 9999 10 0 0 0 0 0 0\n" +
			"  eth0: 1000 20 0 0 0 0 0 0 2000 30 0 0 0 0 0 0\n" +
			" wlan0: 5 1 0 0\n",
	})
	stats, err := s.ReadNetworkStats()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stats["lo"]; ok {
		t.Error("loopback not excluded")
	}
	eth := stats["eth0"]
	if eth.RxBytes != 1000 || eth.TxBytes != 2000 {
		t.Errorf("eth0 = %+v, want rx=1000 tx=2000", eth)
	}
	if _, ok := stats["wlan0"]; ok {
		t.Error("short row kept")
	}
}

type stubConn struct {
	net.Conn
	local net.Addr
}

func (c stubConn) LocalAddr() net.Addr { return c.local }
func (c stubConn) Close() error        { return nil }

func TestReadPrimaryAddress(t *testing.T) {
	s := newTestScanner(t, nil)
	s.Dial = func(network, address string) (net.Conn, error) {
		if network != "udp" || address != probeAddress {
			t.Errorf("dial(%q, %q)", network, address)
		}
		return stubConn{local: &net.UDPAddr{IP: net.ParseIP("192.168.1.20"), Port: 40000}}, nil
	}
	if got := s.ReadPrimaryAddress(); got.IP != "192.168.1.20" {
		t.Errorf("got %+v", got)
	}

	s.Dial = func(string, string) (net.Conn, error) { return nil, errors.New("network is unreachable") }
	if got := s.ReadPrimaryAddress(); got.Connected() {
		t.Errorf("want disconnected, got %+v", got)
	}
}

func TestReadStorageVolumes(t *testing.T) {
	s := newTestScanner(t, map[string]string{
		"proc/mounts": "proc /proc proc rw 0 0\n" +
			"/dev/sda1 / ext4 rw 0 0\n" +
			"/dev/sdb1 / xfs rw 0 0\n" +
			"/dev/sda2 /broken ext4 rw 0 0\n" +
			"/dev/sda3 /mnt/my\\040disk vfat rw 0 0\n" +
			"tmpfs /tmp tmpfs rw 0 0\n",
	})
	var queried []string
	s.Statfs = func(p string) (FSUsage, error) {
		queried = append(queried, p)
		switch p {
		case "/broken":
			return FSUsage{}, errors.New("permission denied")
		case "/":
			return FSUsage{Total: 1000, Free: 250}, nil
		}
		return FSUsage{}, nil
	}
	vols, err := s.ReadStorageVolumes()
	if err != nil {
		t.Fatal(err)
	}
	if len(vols) != 2 {
		t.Fatalf("got %d volumes: %+v", len(vols), vols)
	}
	root := vols[0]
	if root.Device != "/dev/sda1" || root.FSType != "ext4" {
		t.Errorf("first occurrence not kept: %+v", root)
	}
	if root.Used != 750 || root.Percent != 75 {
		t.Errorf("usage: %+v", root)
	}
	if vols[1].Mount != "/mnt/my disk" {
		t.Errorf("mount escape not decoded: %q", vols[1].Mount)
	}
	if vols[1].Percent != 0 {
		t.Errorf("zero-size volume percent = %v", vols[1].Percent)
	}
	for _, q := range queried {
		if q == "/proc" || q == "/tmp" {
			t.Errorf("statfs called for non-block mount %s", q)
		}
	}
}

func TestIsPrivileged(t *testing.T) {
	s := newTestScanner(t, nil)
	s.Geteuid = func() int { return 0 }
	if !s.IsPrivileged() {
		t.Error("euid 0 not privileged")
	}
	s.Geteuid = func() int { return 1000 }
	if s.IsPrivileged() {
		t.Error("euid 1000 privileged")
	}
}

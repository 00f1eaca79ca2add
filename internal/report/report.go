// Package report turns scanner reads into per-section values ready for
// rendering. A metric that cannot be read degrades its field; it never
// fails the section.
package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/user"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/myfetch/internal/config"
	"github.com/Dicklesworthstone/myfetch/internal/model"
	"github.com/Dicklesworthstone/myfetch/internal/scanner"
)

type Reporter struct {
	scan *scanner.Scanner
	cfg  config.Config
	log  *slog.Logger

	now        func() time.Time
	lookupUser func(uid string) (string, error)
}

func New(scan *scanner.Scanner, cfg config.Config, log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{
		scan:       scan,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
		lookupUser: lookupUsername,
	}
}

func lookupUsername(uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// Privileged reports whether privileged-only fields will be populated.
func (r *Reporter) Privileged() bool { return r.scan.IsPrivileged() }

func (r *Reporter) skip(what string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, scanner.ErrUnavailable) {
		r.log.Debug("source unavailable", "metric", what, "error", err)
		return
	}
	r.log.Info("metric failed", "metric", what, "error", err)
}

func (r *Reporter) memory() (model.MemorySnapshot, model.MemoryUsage) {
	mem, err := r.scan.ReadMemoryInfo()
	r.skip("meminfo", err)
	return mem, model.UsageFromMemory(mem)
}

func (r *Reporter) battery() *model.Battery {
	b, ok := r.scan.ReadBatteryInfo()
	if !ok {
		return nil
	}
	return &b
}

type Summary struct {
	Hostname string
	OS       string
	Kernel   string
	Uptime   time.Duration
	CPU      string
	Memory   model.MemoryUsage
	Address  model.PrimaryAddress
	Battery  *model.Battery
	Health   Health
}

func (r *Reporter) Summary(_ context.Context) Summary {
	host, err := r.scan.ReadHostname()
	r.skip("hostname", err)
	kernel, err := r.scan.ReadKernelRelease()
	r.skip("kernel", err)
	osr, err := r.scan.ReadOSRelease()
	r.skip("os-release", err)
	uptime, err := r.scan.ReadUptimeSeconds()
	r.skip("uptime", err)
	cpu, err := r.scan.ReadCPUInfo()
	r.skip("cpuinfo", err)
	load, err := r.scan.ReadLoadAverage()
	r.skip("loadavg", err)
	_, usage := r.memory()

	cpuModel := cpu.Model
	if cpuModel == "" {
		cpuModel = "Unknown"
	}
	return Summary{
		Hostname: host,
		OS:       strings.TrimSpace(osr.Get("NAME", "Linux") + " " + osr.Get("VERSION", "")),
		Kernel:   kernel,
		Uptime:   time.Duration(uptime * float64(time.Second)),
		CPU:      cpuModel,
		Memory:   usage,
		Address:  r.scan.ReadPrimaryAddress(),
		Battery:  r.battery(),
		Health:   Classify(load.Load1, usage.Percent),
	}
}

// MemoryBreakdown splits memory into the parts users usually ask about.
// All values are kilobytes.
type MemoryBreakdown struct {
	Used          uint64
	CachedBuffers uint64
	Slab          uint64
	Shared        uint64
	Free          uint64
}

// ProcessEntry is a ranked process with its resolved owner, if known.
type ProcessEntry struct {
	model.Process
	Owner string
}

type Performance struct {
	Load       model.LoadAverage
	LoadNote   string
	Memory     model.MemoryUsage
	Breakdown  MemoryBreakdown
	Counts     *model.ProcessCounts
	Privileged bool
	Limit      int
	Processes  []ProcessEntry
	ListedRSS  uint64 // bytes, sum over Processes
}

func (r *Reporter) Performance(ctx context.Context) Performance {
	load, err := r.scan.ReadLoadAverage()
	r.skip("loadavg", err)
	mem, usage := r.memory()

	p := Performance{
		Load:     load,
		LoadNote: LoadNote(load.Load1),
		Memory:   usage,
		Breakdown: MemoryBreakdown{
			Used:          usage.Used,
			CachedBuffers: mem.Get("Cached") + mem.Get("Buffers"),
			Slab:          mem.Get("Slab"),
			Shared:        mem.Get("Shmem"),
			Free:          mem.Get("MemFree"),
		},
		Privileged: r.scan.IsPrivileged(),
		Limit:      r.cfg.TopLimit,
	}

	if counts, err := r.scan.ReadProcessCounts(ctx); err == nil {
		p.Counts = &counts
	} else {
		r.skip("process counts", err)
	}

	procs, err := r.scan.ReadTopProcesses(r.cfg.TopLimit)
	r.skip("processes", err)
	for _, proc := range procs {
		e := ProcessEntry{Process: proc}
		if proc.UID != nil {
			e.Owner = r.owner(*proc.UID)
		}
		p.Processes = append(p.Processes, e)
		p.ListedRSS += proc.RSS
	}
	return p
}

// owner names uid, falling back to the number when no account matches.
func (r *Reporter) owner(uid uint32) string {
	if uid == 0 {
		return "root"
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name, err := r.lookupUser(id)
	if err != nil || name == "" {
		return id
	}
	return name
}

// Interface is one named entry of the network counters, for ordered output.
type Interface struct {
	Name string
	model.InterfaceStats
}

type Network struct {
	Address    model.PrimaryAddress
	Interfaces []Interface
	Sockets    []model.Socket
}

func (r *Reporter) Network(ctx context.Context) Network {
	n := Network{Address: r.scan.ReadPrimaryAddress()}

	stats, err := r.scan.ReadNetworkStats()
	r.skip("net/dev", err)
	for name, st := range stats {
		n.Interfaces = append(n.Interfaces, Interface{Name: name, InterfaceStats: st})
	}
	sort.Slice(n.Interfaces, func(i, j int) bool { return n.Interfaces[i].Name < n.Interfaces[j].Name })

	n.Sockets, err = r.scan.ReadListeningSockets(ctx)
	r.skip("sockets", err)
	return n
}

// Vitals is the health section: temperature, memory pressure, battery
// and the failed unit check.
type Vitals struct {
	CPUTemp     float64
	HasTemp     bool
	TempLevel   Level
	Memory      model.MemoryUsage
	MemoryLevel Level
	Battery     *model.Battery
	// ServicesKnown is false when systemd could not be queried.
	ServicesKnown  bool
	FailedServices []string
}

func (r *Reporter) Vitals(ctx context.Context) Vitals {
	temps, err := r.scan.ReadThermalZones()
	r.skip("thermal", err)
	_, usage := r.memory()

	v := Vitals{
		Memory:      usage,
		MemoryLevel: MemoryLevel(usage.Percent),
		Battery:     r.battery(),
	}
	if t, ok := pickCPUTemp(temps); ok {
		v.CPUTemp, v.HasTemp = t, true
		v.TempLevel = TemperatureLevel(t)
	}

	if svc, err := r.scan.ReadServices(ctx); err == nil {
		v.ServicesKnown = true
		v.FailedServices = svc.Failed
	} else {
		r.skip("services", err)
	}
	return v
}

// pickCPUTemp prefers the package sensor, then the lexically first zone.
func pickCPUTemp(zones model.ThermalZones) (float64, bool) {
	for _, label := range []string{"x86_pkg_temp", "Package id 0"} {
		if t, ok := zones[label]; ok {
			return t, true
		}
	}
	if len(zones) == 0 {
		return 0, false
	}
	labels := make([]string, 0, len(zones))
	for l := range zones {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return zones[labels[0]], true
}

// VolumeStatus is a volume graded against the storage thresholds.
type VolumeStatus struct {
	model.Volume
	Level Level
}

type Storage struct {
	Volumes []VolumeStatus
	// Totals count each device once so bind mounts and subvolumes do
	// not inflate capacity.
	Total        uint64
	Used         uint64
	Percent      float64
	NearCapacity bool
}

func (r *Reporter) Storage(_ context.Context) Storage {
	vols, err := r.scan.ReadStorageVolumes()
	r.skip("mounts", err)

	var st Storage
	devices := make(map[string]bool)
	for _, v := range vols {
		lvl := StorageLevel(v.Percent)
		st.Volumes = append(st.Volumes, VolumeStatus{Volume: v, Level: lvl})
		if lvl != Healthy {
			st.NearCapacity = true
		}
		if devices[v.Device] {
			continue
		}
		devices[v.Device] = true
		st.Total += v.Total
		st.Used += v.Used
	}
	st.Percent = model.Percent(st.Used, st.Total)
	return st
}

type Security struct {
	Firewall model.Firewall
	SSH      bool
	Module   model.SecurityModule
}

func (r *Reporter) Security(ctx context.Context) Security {
	return Security{
		Firewall: r.scan.ReadFirewall(ctx),
		SSH:      r.scan.ReadSSHActive(ctx),
		Module:   r.scan.ReadSecurityModule(),
	}
}

type Services struct {
	// Available is false when systemd is not running or not reachable.
	Available bool
	Running   int
	Failed    []string
	BootTime  string
	BootedAt  time.Time
}

func (r *Reporter) Services(ctx context.Context) Services {
	var out Services
	svc, err := r.scan.ReadServices(ctx)
	if err != nil {
		r.skip("services", err)
		return out
	}
	out.Available = true
	out.Running = svc.Running
	out.Failed = svc.Failed

	out.BootTime, err = r.scan.ReadBootTime(ctx)
	r.skip("boot time", err)
	out.BootedAt, err = r.scan.ReadBootTimestamp(ctx)
	r.skip("boot timestamp", err)
	return out
}

type Hardware struct {
	CPU            model.CPU
	GPU            string
	TotalRAM       uint64 // kilobytes
	Privileged     bool
	Board          *model.Board
	Virtualization model.Virtualization
}

// VirtualizationLabel describes the detected runtime. The cpuinfo
// hypervisor flag is used when no runtime could be named.
func (h Hardware) VirtualizationLabel() string {
	v := h.Virtualization
	switch {
	case v.System != "" && v.Role == "guest":
		return "Detected (" + v.System + " guest)"
	case v.System != "" && v.Role == "host":
		return "Host (" + v.System + ")"
	case h.CPU.Hypervisor:
		return "Detected (Running in VM/Container)"
	}
	return "None (Bare Metal)"
}

func (r *Reporter) Hardware(ctx context.Context) Hardware {
	cpu, err := r.scan.ReadCPUInfo()
	r.skip("cpuinfo", err)
	mem, _ := r.memory()

	h := Hardware{
		CPU:        cpu,
		TotalRAM:   mem.Get("MemTotal"),
		Privileged: r.scan.IsPrivileged(),
	}
	h.GPU, err = r.scan.ReadGPU(ctx)
	r.skip("gpu", err)

	if board, err := r.scan.ReadBoard(ctx); err == nil {
		h.Board = &board
	} else if !errors.Is(err, scanner.ErrNotPrivileged) {
		r.skip("dmi", err)
	}

	h.Virtualization, err = r.scan.ReadVirtualization(ctx)
	r.skip("virtualization", err)
	return h
}

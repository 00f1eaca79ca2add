package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
	"github.com/Dicklesworthstone/myfetch/internal/report"
)

// Nerd Font glyphs, shown only with icons enabled.
const (
	iconOS       = "\uf17c"
	iconKernel   = "\uf013"
	iconUptime   = "\uf017"
	iconCPU      = "\uf4bc"
	iconMemory   = "\uefc5"
	iconNetwork  = "\U000f0a5f"
	iconBattery  = "\U000f0079"
	iconHealth   = "\U000f04c5"
	iconTemp     = "\uf2c9"
	iconShield   = "\U000f0483"
	iconSSH      = "\U000f08c0"
	iconKey      = "\U000f0780"
	iconServices = "\U000f04b2"
	iconClock    = "\U000f0954"
	iconGPU      = "\U000f0fb2"
	iconBoard    = "\U000f07c0"
	iconVirt     = "\U000f059f"
)

// Section is one selectable report view.
type Section struct {
	Name  string // command line flag, empty for the default summary
	Title string
	Usage string
	build func(ctx context.Context, r *report.Reporter, f Formatter) string
}

// Render scans and formats the section into a string.
func (s Section) Render(ctx context.Context, r *report.Reporter, f Formatter) string {
	return s.build(ctx, r, f)
}

// Write renders the section to w.
func (s Section) Write(ctx context.Context, w io.Writer, r *report.Reporter, f Formatter) error {
	_, err := io.WriteString(w, s.Render(ctx, r, f))
	return err
}

// Sections lists every view in display order. The summary comes first.
var Sections = []Section{
	{"", "Summary", "", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Summary(r.Summary(ctx))
	}},
	{"top", "Performance", "memory breakdown and top processes", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Performance(r.Performance(ctx))
	}},
	{"network", "Network", "interfaces, traffic counters and listening sockets", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Network(r.Network(ctx))
	}},
	{"health", "Health", "temperature, memory pressure and failed services", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Vitals(r.Vitals(ctx))
	}},
	{"storage", "Storage", "mounted filesystems and capacity", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Storage(r.Storage(ctx))
	}},
	{"security", "Security", "firewall, SSH and kernel security module", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Security(r.Security(ctx))
	}},
	{"services", "Services", "systemd units and boot time", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Services(r.Services(ctx))
	}},
	{"hardware", "Hardware", "CPU, GPU, board and virtualization", func(ctx context.Context, r *report.Reporter, f Formatter) string {
		return f.Hardware(r.Hardware(ctx))
	}},
}

// Lookup finds a section by flag name; "" is the summary.
func Lookup(name string) (Section, bool) {
	for _, s := range Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

func (f Formatter) health(h report.Health) string {
	out := f.Bold(h.Level.String(), LevelTone(h.Level))
	if len(h.Reasons) > 0 {
		out += " " + f.Color("("+strings.Join(h.Reasons, ", ")+")", Gray)
	}
	return out
}

func (f Formatter) battery(b model.Battery) string {
	return fmt.Sprintf("%d%% (%s)", b.Capacity, b.Status)
}

func (f Formatter) Summary(s report.Summary) string {
	var b strings.Builder
	b.WriteString(f.Header("System Summary: " + s.Hostname))
	b.WriteString(f.KV("OS", s.OS, iconOS))
	b.WriteString(f.KV("Kernel", s.Kernel, iconKernel))
	b.WriteString(f.KV("Uptime", f.Uptime(s.Uptime), iconUptime))
	b.WriteString(f.KV("CPU", s.CPU, iconCPU))

	m := s.Memory
	ram := fmt.Sprintf("%s / %s (%.1f%%) %s", f.SizeKB(m.Used), f.SizeKB(m.Total), m.Percent, f.ProgressBar(m.Percent, barWidth))
	b.WriteString(f.KV("RAM", ram, iconMemory))

	network := f.Color("Disconnected", Red)
	if s.Address.Connected() {
		network = "Connected (" + s.Address.IP + ")"
	}
	b.WriteString(f.KV("Network", network, iconNetwork))

	if s.Battery != nil {
		b.WriteString(f.KV("Battery", f.battery(*s.Battery), iconBattery))
	}
	b.WriteString(f.KV("System Health", f.health(s.Health), iconHealth))
	b.WriteString("\n" + f.Note("Run 'myfetch --help' for detailed modules", Gray))
	return b.String()
}

func (f Formatter) Performance(p report.Performance) string {
	var b strings.Builder
	b.WriteString(f.Header("Performance"))

	load := fmt.Sprintf("%.2f, %.2f, %.2f %s", p.Load.Load1, p.Load.Load5, p.Load.Load15, f.Color("("+p.LoadNote+")", Gray))
	b.WriteString(f.KV("Load Average", load, iconHealth))
	b.WriteString(f.KV("Memory Pressure", fmt.Sprintf("%s %.1f%%", f.ProgressBar(p.Memory.Percent, barWidth), p.Memory.Percent), iconMemory))
	if c := p.Counts; c != nil {
		b.WriteString(f.KV("Processes", fmt.Sprintf("%d total, %d running, %d blocked", c.Total, c.Running, c.Blocked), iconCPU))
	}

	mb := p.Breakdown
	b.WriteString(f.Subheader("MEMORY BREAKDOWN"))
	b.WriteString(f.KV("  Used (Apps/System)", f.SizeKB(mb.Used), ""))
	b.WriteString(f.KV("  Cached/Buffers", f.Color(f.SizeKB(mb.CachedBuffers), Gray), ""))
	b.WriteString(f.KV("  Kernel (Slab)", f.Color(f.SizeKB(mb.Slab), Gray), ""))
	b.WriteString(f.KV("  Shared", f.Color(f.SizeKB(mb.Shared), Gray), ""))
	b.WriteString(f.KV("  Truly Free", f.Color(f.SizeKB(mb.Free), Green), ""))

	title := "TOP PROCESSES"
	if p.Privileged {
		title += " " + f.Bold("[ROOT MODE]", Red)
	}
	b.WriteString(f.Subheader(title))

	headers := []string{"PID", "NAME", "MEMORY"}
	if p.Privileged {
		headers = []string{"PID", "OWNER", "NAME", "MEMORY"}
	}
	rows := make([][]string, 0, len(p.Processes))
	for _, proc := range p.Processes {
		row := []string{strconv.Itoa(proc.PID)}
		if p.Privileged {
			row = append(row, proc.Owner)
		}
		rows = append(rows, append(row, truncate(proc.Name, 24), f.Size(proc.RSS)))
	}
	b.WriteString(f.Table(headers, rows))
	b.WriteString(f.KV(fmt.Sprintf("TOTAL (Top %d)", len(p.Processes)), f.Bold(f.Size(p.ListedRSS), Yellow), ""))

	b.WriteString("\n" + f.Note("Note: total system usage includes the kernel, many small processes and reserved memory.", Gray))
	return b.String()
}

func (f Formatter) Network(n report.Network) string {
	var b strings.Builder
	b.WriteString(f.Header("Network Analysis"))
	b.WriteString(f.KV("Primary IP", n.Address.String(), iconNetwork))

	if len(n.Interfaces) == 0 {
		b.WriteString(f.Note("No active network interfaces detected.", Yellow))
	} else {
		b.WriteString(f.Subheader("INTERFACE STATUS"))
		rows := make([][]string, 0, len(n.Interfaces))
		for _, it := range n.Interfaces {
			rows = append(rows, []string{it.Name, f.Size(it.RxBytes), f.Size(it.TxBytes)})
		}
		b.WriteString(f.Table([]string{"IFACE", "RECEIVED", "SENT"}, rows))
	}

	if len(n.Sockets) > 0 {
		b.WriteString(f.Subheader("LISTENING SOCKETS"))
		rows := make([][]string, 0, len(n.Sockets))
		for _, s := range n.Sockets {
			pid := "-"
			if s.PID > 0 {
				pid = strconv.Itoa(int(s.PID))
			}
			rows = append(rows, []string{s.Proto, s.Address, strconv.FormatUint(uint64(s.Port), 10), pid})
		}
		b.WriteString(f.Table([]string{"PROTO", "ADDRESS", "PORT", "PID"}, rows))
	}

	if n.Address.Connected() {
		b.WriteString("\n" + f.Bold("Connectivity Status: Healthy", Green) + "\n")
	} else {
		b.WriteString("\n" + f.Bold("Connectivity Status: Disconnected", Red) + "\n")
	}
	return b.String()
}

func (f Formatter) Vitals(v report.Vitals) string {
	var b strings.Builder
	b.WriteString(f.Header("System Health & Hardware"))

	temp := "N/A"
	hint := "(No thermal sensors)"
	if v.HasTemp {
		temp = f.Color(fmt.Sprintf("%.1f°C", v.CPUTemp), LevelTone(v.TempLevel))
		switch v.TempLevel {
		case report.Critical:
			hint = "(Critical: CPU is overheating!)"
		case report.Warning:
			hint = "(Warning: CPU temperature is high)"
		default:
			hint = "(Safe range)"
		}
	}
	b.WriteString(f.KV("CPU Temp", temp+" "+f.Color(hint, Gray), iconTemp))

	status := "Healthy"
	switch v.MemoryLevel {
	case report.Critical:
		status = "Critical (Out of memory risk)"
	case report.Warning:
		status = "Warning (High memory pressure)"
	}
	b.WriteString(f.KV("Memory Status", fmt.Sprintf("%s (%.1f%% used)", f.Color(status, LevelTone(v.MemoryLevel)), v.Memory.Percent), iconMemory))

	if v.Battery != nil {
		b.WriteString(f.KV("Battery", f.battery(*v.Battery), iconBattery))
	}

	switch {
	case !v.ServicesKnown:
		b.WriteString(f.KV("Services Status", f.Color("Unavailable (systemd not reachable)", Gray), iconServices))
	case len(v.FailedServices) > 0:
		b.WriteString(f.KV("Failed Services", f.Color(fmt.Sprintf("%d failed (see --services)", len(v.FailedServices)), Yellow), iconServices))
	default:
		b.WriteString(f.KV("Services Status", f.Color("All services running normally", Green), iconServices))
	}
	return b.String()
}

func (f Formatter) Storage(s report.Storage) string {
	var b strings.Builder
	b.WriteString(f.Header("Storage & Filesystems"))
	if len(s.Volumes) == 0 {
		b.WriteString(f.Note("No physical storage devices detected.", Yellow))
		return b.String()
	}

	rows := make([][]string, 0, len(s.Volumes))
	for _, v := range s.Volumes {
		usage := fmt.Sprintf("%s %5.1f%%", f.ProgressBar(v.Percent, 10), v.Percent)
		switch v.Level {
		case report.Critical:
			usage += " " + f.Bold("[CRITICAL]", Red)
		case report.Warning:
			usage += " " + f.Bold("[WARNING]", Yellow)
		}
		rows = append(rows, []string{v.Device, v.Mount, v.FSType, f.Size(v.Used) + " / " + f.Size(v.Total), usage})
	}
	b.WriteString(f.Table([]string{"DEVICE", "MOUNT", "TYPE", "SIZE", "USAGE"}, rows))

	total := fmt.Sprintf("TOTAL SYSTEM STORAGE: %s / %s (%.1f%% Used)", f.Size(s.Used), f.Size(s.Total), s.Percent)
	b.WriteString(f.Bold(total, White) + "\n")
	if s.NearCapacity {
		b.WriteString("\n" + f.Note("Warning: some partitions are near capacity. Consider cleaning up old logs or temp files.", Yellow))
	}
	return b.String()
}

func (f Formatter) Security(s report.Security) string {
	var b strings.Builder
	b.WriteString(f.Header("Security Status"))

	fwTone := Yellow
	if s.Firewall == model.FirewallActive {
		fwTone = Green
	}
	b.WriteString(f.KV("Firewall", f.Color(string(s.Firewall), fwTone), iconShield))

	ssh := "Disabled"
	if s.SSH {
		ssh = "Enabled"
	}
	b.WriteString(f.KV("SSH Service", ssh, iconSSH))
	b.WriteString(f.KV("Kernel Security", string(s.Module), iconKey))
	return b.String()
}

func (f Formatter) Services(s report.Services) string {
	var b strings.Builder
	b.WriteString(f.Header("System Services"))
	if !s.Available {
		b.WriteString(f.Note("Systemd not detected or inaccessible.", Yellow))
		return b.String()
	}

	b.WriteString(f.KV("Running Services", strconv.Itoa(s.Running), iconServices))
	if len(s.Failed) > 0 {
		b.WriteString(f.Subheader(f.Bold("FAILED SERVICES DETECTED", Red)))
		for _, unit := range s.Failed {
			b.WriteString(unit + "\n")
		}
	} else {
		b.WriteString(f.KV("Services Status", f.Color("All services operational", Green), iconServices))
	}
	if s.BootTime != "" {
		b.WriteString(f.KV("Boot Time", s.BootTime, iconClock))
	}
	if !s.BootedAt.IsZero() {
		b.WriteString(f.KV("Booted At", s.BootedAt.Format("2006-01-02 15:04:05"), iconUptime))
	}
	b.WriteString("\n" + f.Note("Tip: use 'systemctl status <service>' for deep inspection.", Gray))
	return b.String()
}

func (f Formatter) Hardware(h report.Hardware) string {
	var b strings.Builder
	b.WriteString(f.Header("Hardware Deep Info"))

	b.WriteString(f.KV("CPU Model", orUnknown(h.CPU.Model), iconCPU))
	cores := "Unknown"
	if h.CPU.Cores > 0 {
		cores = strconv.Itoa(h.CPU.Cores)
	}
	b.WriteString(f.KV("Cores/Threads", cores, iconCPU))
	b.WriteString(f.KV("Cache Size", orUnknown(h.CPU.Cache), iconMemory))
	if h.GPU != "" {
		b.WriteString(f.KV("GPU", h.GPU, iconGPU))
	}
	b.WriteString(f.KV("Total RAM", f.SizeKB(h.TotalRAM), iconMemory))

	if bd := h.Board; bd != nil {
		if bd.Product != "" {
			b.WriteString(f.KV("Motherboard", strings.TrimSpace(bd.Vendor+" "+bd.Product), iconBoard))
		}
		if bd.BIOS != "" {
			b.WriteString(f.KV("BIOS Version", bd.BIOS, iconBoard))
		}
	}
	b.WriteString(f.KV("Virtualization", h.VirtualizationLabel(), iconVirt))

	if h.Privileged {
		b.WriteString("\n" + f.Note("Root access used to read DMI tables for full hardware accuracy.", Yellow))
	} else {
		b.WriteString("\n" + f.Note("Run as root to include motherboard and BIOS details.", Gray))
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

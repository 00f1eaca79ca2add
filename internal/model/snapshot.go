package model

// MemorySnapshot maps /proc/meminfo labels to kilobytes.
type MemorySnapshot map[string]uint64

// Get returns the value for key, zero when the source did not expose it.
func (m MemorySnapshot) Get(key string) uint64 { return m[key] }

// Has reports whether the source exposed key at all.
func (m MemorySnapshot) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// CPU holds descriptive fields of the first logical processor.
type CPU struct {
	Model      string
	MHz        string
	Cache      string
	Cores      int  // logical processors in the whole file
	Hypervisor bool // "hypervisor" flag seen anywhere in cpuinfo
}

// LoadAverage is the 1, 5 and 15 minute run queue average.
type LoadAverage struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// OSRelease is the parsed key/value content of os-release.
type OSRelease map[string]string

// Get returns the value for key or fallback when missing.
func (o OSRelease) Get(key, fallback string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return fallback
}

// Battery is the state of the first battery found.
type Battery struct {
	Status   string `json:"status"`   // Charging, Discharging, Full, Unknown
	Capacity int    `json:"capacity"` // percent 0-100
}

// InterfaceStats holds cumulative byte counters for one interface.
type InterfaceStats struct {
	RxBytes uint64
	TxBytes uint64
}

// PrimaryAddress is the local address used for outbound traffic.
// The zero value means disconnected.
type PrimaryAddress struct {
	IP string
}

// Connected reports whether an outbound route was found.
func (a PrimaryAddress) Connected() bool { return a.IP != "" }

func (a PrimaryAddress) String() string {
	if !a.Connected() {
		return "Disconnected"
	}
	return a.IP
}

// Volume is a mounted block device with its usage.
type Volume struct {
	Device  string  `json:"device"`
	Mount   string  `json:"mount"`
	FSType  string  `json:"type"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// ThermalZones maps a zone type label to degrees Celsius.
type ThermalZones map[string]float64

// Process is a lightweight top entry ranked by resident memory.
type Process struct {
	PID  int
	Name string
	RSS  uint64  // bytes
	UID  *uint32 // set only when scanned with elevated privilege
}

// ProcessCounts summarizes the scheduler's view of processes.
type ProcessCounts struct {
	Total   int
	Running int
	Blocked int
}

// Services summarizes systemd unit state.
type Services struct {
	Running int
	Failed  []string
}

// Board is DMI baseboard and firmware identification.
type Board struct {
	Vendor  string
	Product string
	BIOS    string
}

// Firewall is the detected host firewall state.
type Firewall string

const (
	FirewallActive   Firewall = "Active"
	FirewallInactive Firewall = "Inactive"
	FirewallUnknown  Firewall = "Unknown"
)

// SecurityModule names the active Linux security module.
type SecurityModule string

const (
	SELinuxEnforcing  SecurityModule = "SELinux (Enforcing)"
	SELinuxPermissive SecurityModule = "SELinux (Permissive)"
	AppArmor          SecurityModule = "AppArmor"
	NoSecurityModule  SecurityModule = "None"
)

// Virtualization is the detected hypervisor or container runtime.
type Virtualization struct {
	System string // kvm, xen, docker, ...
	Role   string // guest or host
}

// Socket is a listening endpoint.
type Socket struct {
	Proto   string
	Address string
	Port    uint32
	PID     int32
}

package model

// MemoryUsage is the used/available view derived from a MemorySnapshot.
// All fields are kilobytes.
type MemoryUsage struct {
	Total     uint64
	Available uint64
	Used      uint64
	Percent   float64
}

// UsageFromMemory derives used memory with a single precedence rule:
// MemAvailable when the kernel exposes it, otherwise MemFree + Cached + Buffers.
func UsageFromMemory(m MemorySnapshot) MemoryUsage {
	total := m.Get("MemTotal")
	available := m.Get("MemAvailable")
	if !m.Has("MemAvailable") {
		available = m.Get("MemFree") + m.Get("Cached") + m.Get("Buffers")
	}

	var used uint64
	if total > available {
		used = total - available
	}
	return MemoryUsage{
		Total:     total,
		Available: available,
		Used:      used,
		Percent:   Percent(used, total),
	}
}

// Percent returns part/total in percent, 0 when total is 0.
func Percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

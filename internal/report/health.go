package report

// Level grades a metric or the machine as a whole.
type Level int

const (
	Healthy Level = iota
	Warning
	Critical
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "Warning"
	case Critical:
		return "Needs Attention"
	}
	return "Healthy"
}

// Health is the overall verdict with the reasons that raised it.
type Health struct {
	Level   Level
	Reasons []string
}

const (
	loadCritical = 5.0
	loadWarning  = 2.0

	memoryCritical = 90.0
	memoryWarning  = 75.0

	tempCritical = 80.0
	tempWarning  = 65.0

	storageCritical = 90.0
	storageWarning  = 80.0
)

// Classify grades the 1 minute load and memory percent. Load and memory
// each contribute at most one reason.
func Classify(load1, memPercent float64) Health {
	var h Health
	switch {
	case load1 > loadCritical:
		h.Reasons = append(h.Reasons, "Critical system load")
	case load1 > loadWarning:
		h.Reasons = append(h.Reasons, "High system load")
	}
	switch {
	case memPercent > memoryCritical:
		h.Reasons = append(h.Reasons, "Critical memory usage")
	case memPercent > memoryWarning:
		h.Reasons = append(h.Reasons, "High memory usage")
	}

	switch {
	case load1 > loadCritical || memPercent > memoryCritical:
		h.Level = Critical
	case load1 > loadWarning || memPercent > memoryWarning:
		h.Level = Warning
	}
	return h
}

func TemperatureLevel(celsius float64) Level {
	return grade(celsius, tempWarning, tempCritical)
}

func MemoryLevel(percent float64) Level {
	return grade(percent, memoryWarning, memoryCritical)
}

func StorageLevel(percent float64) Level {
	return grade(percent, storageWarning, storageCritical)
}

func grade(v, warn, crit float64) Level {
	switch {
	case v > crit:
		return Critical
	case v > warn:
		return Warning
	}
	return Healthy
}

// LoadNote explains a 1 minute load average in plain words.
func LoadNote(load1 float64) string {
	switch {
	case load1 < 1:
		return "System is idle"
	case load1 < 4:
		return "Normal operating load"
	}
	return "Heavy load detected, performance may be impacted"
}

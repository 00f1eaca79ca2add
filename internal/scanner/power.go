package scanner

import (
	"path"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

const batteryPrefix = "BAT"

// ReadBatteryInfo returns the first power supply whose name starts with
// BAT and whose capacity parses. The bool is false when none is found,
// which is the normal state for desktops and servers.
func (s *Scanner) ReadBatteryInfo() (model.Battery, bool) {
	base := "sys/class/power_supply"
	entries, err := s.readDir(base)
	if err != nil {
		s.Log.Debug("no power supplies", "error", err)
		return model.Battery{}, false
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), batteryPrefix) {
			continue
		}
		dir := path.Join(base, e.Name())
		status, _ := s.readTrimmed(path.Join(dir, "status"))
		raw, _ := s.readTrimmed(path.Join(dir, "capacity"))

		capacity := 0
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				s.Log.Debug("skipping battery", "supply", e.Name(), "capacity", raw, "error", err)
				continue
			}
			capacity = n
		}
		return model.Battery{Status: status, Capacity: capacity}, true
	}
	return model.Battery{}, false
}

// ReadThermalZones converts each zone's millidegree reading to Celsius.
// A zone that cannot be read or parsed is skipped.
func (s *Scanner) ReadThermalZones() (model.ThermalZones, error) {
	temps := model.ThermalZones{}
	base := "sys/class/thermal"
	entries, err := s.readDir(base)
	if err != nil {
		return temps, err
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "thermal_zone") {
			continue
		}
		dir := path.Join(base, e.Name())
		raw, err := s.readTrimmed(path.Join(dir, "temp"))
		if err != nil || raw == "" {
			continue
		}
		milli, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.Log.Debug("skipping thermal zone", "zone", e.Name(), "temp", raw, "error", err)
			continue
		}
		label, _ := s.readTrimmed(path.Join(dir, "type"))
		if label == "" {
			label = e.Name()
		}
		temps[label] = float64(milli) / 1000.0
	}
	return temps, nil
}

package scanner

import (
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

const blockDevicePrefix = "/dev/"

// ReadStorageVolumes lists mounted block devices in mount table order.
// The first mount of a given mount point wins; a mount whose statfs
// fails is dropped without affecting the others.
func (s *Scanner) ReadStorageVolumes() ([]model.Volume, error) {
	data, err := s.readFile("proc/mounts")
	if err != nil {
		return nil, err
	}

	var volumes []model.Volume
	seen := make(map[string]bool)
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		device, mount, fsType := fields[0], unescapeMount(fields[1]), fields[2]
		if !strings.HasPrefix(device, blockDevicePrefix) || seen[mount] {
			continue
		}

		usage, err := s.Statfs(mount)
		if err != nil {
			s.Log.Debug("skipping mount", "mount", mount, "error", err)
			continue
		}
		var used uint64
		if usage.Total > usage.Free {
			used = usage.Total - usage.Free
		}
		volumes = append(volumes, model.Volume{
			Device:  device,
			Mount:   mount,
			FSType:  fsType,
			Total:   usage.Total,
			Used:    used,
			Percent: model.Percent(used, usage.Total),
		})
		seen[mount] = true
	}
	return volumes, nil
}

// unescapeMount decodes the octal escapes (\040 for space) the kernel
// uses in the mount table.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

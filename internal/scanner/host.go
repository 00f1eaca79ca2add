package scanner

import (
	"context"
	"sort"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

// ReadVirtualization reports the hypervisor or container runtime, if any.
func (s *Scanner) ReadVirtualization(ctx context.Context) (model.Virtualization, error) {
	system, role, err := host.VirtualizationWithContext(ctx)
	if err != nil {
		return model.Virtualization{}, err
	}
	return model.Virtualization{System: system, Role: role}, nil
}

// ReadBootTimestamp returns when the host booted.
func (s *Scanner) ReadBootTimestamp(ctx context.Context) (time.Time, error) {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0), nil
}

// ReadProcessCounts returns total, running and blocked process counts.
func (s *Scanner) ReadProcessCounts(ctx context.Context) (model.ProcessCounts, error) {
	misc, err := load.MiscWithContext(ctx)
	if err != nil {
		return model.ProcessCounts{}, err
	}
	return model.ProcessCounts{
		Total:   misc.ProcsTotal,
		Running: misc.ProcsRunning,
		Blocked: misc.ProcsBlocked,
	}, nil
}

// ReadListeningSockets lists TCP listeners and bound UDP sockets, by port.
// Without privilege the PID of sockets owned by other users reads as 0.
func (s *Scanner) ReadListeningSockets(ctx context.Context) ([]model.Socket, error) {
	conns, err := net.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, err
	}
	var out []model.Socket
	for _, c := range conns {
		var proto string
		switch {
		case c.Type == syscall.SOCK_STREAM && c.Status == "LISTEN":
			proto = "tcp"
		case c.Type == syscall.SOCK_DGRAM && c.Raddr.IP == "":
			proto = "udp"
		default:
			continue
		}
		if c.Family == syscall.AF_INET6 {
			proto += "6"
		}
		out = append(out, model.Socket{
			Proto:   proto,
			Address: c.Laddr.IP,
			Port:    c.Laddr.Port,
			PID:     c.Pid,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Port != out[j].Port {
			return out[i].Port < out[j].Port
		}
		return out[i].Proto < out[j].Proto
	})
	return out, nil
}

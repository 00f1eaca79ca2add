package scanner

import (
	"net"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

const (
	loopback = "lo"
	// probeAddress is only used to pick a route; nothing is sent.
	probeAddress = "8.8.8.8:80"

	rxBytesCol = 0
	txBytesCol = 8
)

// ReadNetworkStats parses /proc/net/dev into per-interface byte counters,
// excluding loopback.
func (s *Scanner) ReadNetworkStats() (map[string]model.InterfaceStats, error) {
	stats := map[string]model.InterfaceStats{}
	data, err := s.readFile("proc/net/dev")
	if err != nil {
		return stats, err
	}
	lines := strings.Split(data, "\n")
	if len(lines) <= 2 {
		return stats, nil
	}
	// skip headers (first two lines)
	for _, line := range lines[2:] {
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		iface := strings.TrimSpace(parts[0])
		if iface == loopback {
			continue
		}
		cols := strings.Fields(parts[1])
		if len(cols) <= txBytesCol {
			s.Log.Debug("skipping short net/dev row", "iface", iface)
			continue
		}
		rx, err1 := strconv.ParseUint(cols[rxBytesCol], 10, 64)
		tx, err2 := strconv.ParseUint(cols[txBytesCol], 10, 64)
		if err1 != nil || err2 != nil {
			s.Log.Debug("skipping malformed net/dev row", "iface", iface)
			continue
		}
		stats[iface] = model.InterfaceStats{RxBytes: rx, TxBytes: tx}
	}
	return stats, nil
}

// ReadPrimaryAddress asks the kernel which local address it would use to
// reach a public host. Connecting a UDP socket sends no packets. This is
// a heuristic, not a reachability check.
func (s *Scanner) ReadPrimaryAddress() model.PrimaryAddress {
	conn, err := s.Dial("udp", probeAddress)
	if err != nil {
		s.Log.Debug("no outbound route", "error", err)
		return model.PrimaryAddress{}
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return model.PrimaryAddress{}
	}
	return model.PrimaryAddress{IP: addr.IP.String()}
}

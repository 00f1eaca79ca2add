package scanner

import (
	"bufio"
	"context"
	"strings"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

// ReadServices counts running systemd units and lists failed ones.
func (s *Scanner) ReadServices(ctx context.Context) (model.Services, error) {
	running, err := s.Runner.Run(ctx, "systemctl", "list-units", "--state=running", "--no-legend")
	if err != nil {
		return model.Services{}, err
	}
	failed, err := s.Runner.Run(ctx, "systemctl", "list-units", "--state=failed", "--no-legend")
	if err != nil {
		return model.Services{}, err
	}
	return model.Services{
		Running: strings.Count(running, "\n"),
		Failed:  nonEmptyLines(failed),
	}, nil
}

// ReadBootTime returns the summary systemd-analyze prints after its last '='.
func (s *Scanner) ReadBootTime(ctx context.Context) (string, error) {
	out, err := s.Runner.Run(ctx, "systemd-analyze", "time")
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if i := strings.LastIndexByte(out, '='); i >= 0 {
		out = out[i+1:]
	}
	return strings.TrimSpace(firstLine(out)), nil
}

// ReadGPU returns the description of the first display controller lspci reports.
func (s *Scanner) ReadGPU(ctx context.Context) (string, error) {
	out, err := s.Runner.Run(ctx, "lspci")
	if err != nil {
		return "", err
	}
	for _, line := range nonEmptyLines(out) {
		if !strings.Contains(line, "VGA") && !strings.Contains(line, "3D controller") {
			continue
		}
		if i := strings.LastIndexByte(line, ':'); i >= 0 {
			line = line[i+1:]
		}
		return strings.TrimSpace(line), nil
	}
	return "", nil
}

// ReadBoard reads baseboard and BIOS identification from the DMI tables.
// dmidecode needs root, so this returns ErrNotPrivileged otherwise.
func (s *Scanner) ReadBoard(ctx context.Context) (model.Board, error) {
	if !s.IsPrivileged() {
		return model.Board{}, ErrNotPrivileged
	}
	var board model.Board
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"baseboard-manufacturer", &board.Vendor},
		{"baseboard-product-name", &board.Product},
		{"bios-version", &board.BIOS},
	} {
		out, err := s.Runner.Run(ctx, "dmidecode", "-s", f.key)
		if err != nil {
			s.Log.Debug("dmidecode failed", "key", f.key, "error", err)
			continue
		}
		*f.dst = strings.TrimSpace(out)
	}
	return board, nil
}

// ReadFirewall checks ufw first, then firewalld.
func (s *Scanner) ReadFirewall(ctx context.Context) model.Firewall {
	switch {
	case s.exists("usr/sbin/ufw"):
		out, err := s.Runner.Run(ctx, "ufw", "status")
		if err != nil {
			return model.FirewallUnknown
		}
		for _, line := range nonEmptyLines(out) {
			key, val, ok := strings.Cut(line, ":")
			if ok && strings.EqualFold(strings.TrimSpace(key), "status") {
				if strings.EqualFold(strings.TrimSpace(val), "active") {
					return model.FirewallActive
				}
				return model.FirewallInactive
			}
		}
		return model.FirewallInactive
	case s.exists("usr/bin/firewall-cmd"):
		out, err := s.Runner.Run(ctx, "firewall-cmd", "--state")
		if err != nil {
			// firewall-cmd exits non-zero with "not running"
			if strings.TrimSpace(out) == "" {
				return model.FirewallUnknown
			}
			return model.FirewallInactive
		}
		if strings.TrimSpace(out) == "running" {
			return model.FirewallActive
		}
		return model.FirewallInactive
	}
	return model.FirewallUnknown
}

// ReadSSHActive reports whether systemd considers sshd active.
func (s *Scanner) ReadSSHActive(ctx context.Context) bool {
	_, err := s.Runner.Run(ctx, "systemctl", "is-active", "sshd")
	return err == nil
}

// ReadSecurityModule reports the active security module, SELinux first.
func (s *Scanner) ReadSecurityModule() model.SecurityModule {
	switch {
	case s.exists("sys/fs/selinux"):
		mode, _ := s.readTrimmed("sys/fs/selinux/enforce")
		if mode == "0" {
			return model.SELinuxPermissive
		}
		return model.SELinuxEnforcing
	case s.exists("sys/kernel/security/apparmor"):
		return model.AppArmor
	}
	return model.NoSecurityModule
}

func nonEmptyLines(s string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

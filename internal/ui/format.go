// Package ui renders reports for the terminal: a lipgloss-based
// formatter, one renderer per section, and an interactive viewer.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/Dicklesworthstone/myfetch/internal/report"
)

// Tone is a named foreground color.
type Tone int

const (
	Plain Tone = iota
	Red
	Green
	Yellow
	Blue
	Cyan
	White
	Gray
)

var palette = map[Tone]lipgloss.Color{
	Red:    lipgloss.Color("203"),
	Green:  lipgloss.Color("114"),
	Yellow: lipgloss.Color("221"),
	Blue:   lipgloss.Color("81"),
	Cyan:   lipgloss.Color("45"),
	White:  lipgloss.Color("255"),
	Gray:   lipgloss.Color("244"),
}

const (
	gaugeFill  = "█"
	gaugeEmpty = "░"
	barWidth   = 20
	keyWidth   = 24
	ruleWidth  = 40
)

// Formatter holds presentation switches. The zero value renders plain
// text without icons.
type Formatter struct {
	Colors bool
	Icons  bool
}

func (f Formatter) style(t Tone, bold bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c, ok := palette[t]; ok {
		s = s.Foreground(c)
	}
	return s.Bold(bold)
}

// Color renders text in tone t, or returns it unchanged when colors are off.
func (f Formatter) Color(text string, t Tone) string {
	if !f.Colors || text == "" {
		return text
	}
	return f.style(t, false).Render(text)
}

// Bold is Color with bold weight.
func (f Formatter) Bold(text string, t Tone) string {
	if !f.Colors || text == "" {
		return text
	}
	return f.style(t, true).Render(text)
}

// LevelTone maps a report level to its display color.
func LevelTone(l report.Level) Tone {
	switch l {
	case report.Critical:
		return Red
	case report.Warning:
		return Yellow
	}
	return Green
}

// barTone colors a usage bar: yellow above 75%, red above 90%.
func barTone(pct float64) Tone {
	switch {
	case pct > 90:
		return Red
	case pct > 75:
		return Yellow
	}
	return Green
}

// ProgressBar draws pct as a bar of width cells. pct is clamped to [0, 100].
func (f Formatter) ProgressBar(pct float64, width int) string {
	if width <= 0 {
		width = barWidth
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(gaugeFill, filled) + strings.Repeat(gaugeEmpty, width-filled)
	return f.Color(bar, barTone(pct))
}

// Size formats a byte count with IEC units.
func (f Formatter) Size(bytes uint64) string { return humanize.IBytes(bytes) }

// SizeKB formats a kilobyte count as reported by /proc/meminfo.
func (f Formatter) SizeKB(kb uint64) string { return humanize.IBytes(kb * 1024) }

// Uptime renders d as "1d 2h 3m", dropping zero parts.
func (f Formatter) Uptime(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := secs % 86400 / 3600
	mins := secs % 3600 / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	if len(parts) == 0 {
		return "just started"
	}
	return strings.Join(parts, " ")
}

// Header renders a section rule, e.g. "─── STORAGE ─────...".
func (f Formatter) Header(title string) string {
	n := ruleWidth - len([]rune(title))
	if n < 3 {
		n = 3
	}
	line := "─── " + strings.ToUpper(title) + " " + strings.Repeat("─", n)
	return "\n" + f.Bold(line, Cyan) + "\n"
}

// Subheader is a bold label introducing a table or list.
func (f Formatter) Subheader(title string) string {
	return "\n" + f.Bold(title, White) + "\n"
}

// KV renders one "key: value" line. The key is padded before styling so
// columns line up with colors on.
func (f Formatter) KV(key, value, icon string) string {
	prefix := ""
	if f.Icons && icon != "" {
		prefix = icon + " "
	}
	k := fmt.Sprintf("%-*s", keyWidth, key+":")
	return prefix + f.Bold(k, Blue) + " " + value + "\n"
}

// Note renders a closing hint line.
func (f Formatter) Note(text string, t Tone) string {
	return f.Color(text, t) + "\n"
}

// Table lays rows out under headers with a rule below the header row.
func (f Formatter) Table(headers []string, rows [][]string) string {
	cell := lipgloss.NewStyle().PaddingRight(2)
	head := cell
	if f.Colors {
		head = cell.Bold(true).Foreground(palette[White])
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			// row 0 is the header
			if row == 0 {
				return head
			}
			return cell
		})
	if f.Colors {
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(palette[Gray]))
	}
	return t.String() + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package report

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Dicklesworthstone/myfetch/internal/model"
)

// Dump is the machine-readable report.
type Dump struct {
	ReportID    string               `json:"report_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Uptime      float64              `json:"uptime"`
	Load        [3]float64           `json:"load"`
	Memory      model.MemorySnapshot `json:"memory"`
	Battery     *model.Battery       `json:"battery"`
	Storage     []model.Volume       `json:"storage"`
}

func (r *Reporter) Dump(ctx context.Context) Dump {
	uptime, err := r.scan.ReadUptimeSeconds()
	r.skip("uptime", err)
	load, err := r.scan.ReadLoadAverage()
	r.skip("loadavg", err)
	mem, _ := r.memory()
	vols, err := r.scan.ReadStorageVolumes()
	r.skip("mounts", err)
	if vols == nil {
		vols = []model.Volume{}
	}

	return Dump{
		ReportID:    uuid.NewString(),
		GeneratedAt: r.now().UTC(),
		Uptime:      uptime,
		Load:        [3]float64{load.Load1, load.Load5, load.Load15},
		Memory:      mem,
		Battery:     r.battery(),
		Storage:     vols,
	}
}

// WriteJSON encodes d indented by two spaces.
func (d Dump) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

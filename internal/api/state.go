package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/gaspardpetit/spahost/core/logx"
	"github.com/gaspardpetit/spahost/internal/assets"
	"github.com/gaspardpetit/spahost/internal/inflight"
	"github.com/gaspardpetit/spahost/internal/serverstate"
)

// AssetInfo describes one bundled file.
type AssetInfo struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Digest      string `json:"sha256"`
}

// AssetsState summarizes the asset table.
type AssetsState struct {
	Count int         `json:"count"`
	Bytes int64       `json:"bytes"`
	Index bool        `json:"index"`
	Files []AssetInfo `json:"files"`
}

// ProcessState holds resource usage of the running process.
type ProcessState struct {
	PID        int32   `json:"pid"`
	RSS        uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
}

// State is the JSON document served by /state.
type State struct {
	InstanceID string        `json:"instance_id"`
	Version    string        `json:"version"`
	Status     string        `json:"status"`
	Draining   bool          `json:"draining"`
	StartedAt  time.Time     `json:"started_at"`
	Uptime     float64       `json:"uptime_seconds"`
	Inflight   int64         `json:"inflight"`
	Assets     AssetsState   `json:"assets"`
	Process    *ProcessState `json:"process,omitempty"`
}

// StateHandler serves operational state snapshots and health checks.
type StateHandler struct {
	Table      *assets.Table
	IndexFile  string
	Tracker    *serverstate.Tracker
	Inflight   *inflight.Counter
	InstanceID string
	Version    string
	StartedAt  time.Time
}

// Snapshot builds the current state document.
func (h *StateHandler) Snapshot() State {
	st := State{
		InstanceID: h.InstanceID,
		Version:    h.Version,
		Status:     serverstate.StatusUnknown,
		StartedAt:  h.StartedAt,
		Assets: AssetsState{
			Count: h.Table.Len(),
			Bytes: h.Table.Size(),
			Files: make([]AssetInfo, 0, h.Table.Len()),
		},
	}
	if !h.StartedAt.IsZero() {
		st.Uptime = time.Since(h.StartedAt).Seconds()
	}
	if h.Tracker != nil {
		s := h.Tracker.Snapshot()
		st.Status, st.Draining = s.Status, s.Draining
	}
	if h.Inflight != nil {
		st.Inflight = h.Inflight.Load()
	}
	_, st.Assets.Index = h.Table.Get(h.IndexFile)
	for _, e := range h.Table.Entries() {
		st.Assets.Files = append(st.Assets.Files, AssetInfo{
			Path:        e.Path,
			Size:        e.Size,
			ContentType: e.ContentType,
			Digest:      e.Digest,
		})
	}
	st.Process = processState()
	return st
}

func processState() *ProcessState {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logx.Log.Debug().Err(err).Msg("process stats unavailable")
		return nil
	}
	ps := &ProcessState{PID: p.Pid}
	if mem, err := p.MemoryInfo(); err == nil {
		ps.RSS = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		ps.CPUPercent = cpu
	}
	return ps
}

// GetState writes a JSON snapshot.
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Snapshot()); err != nil {
		logx.Log.Error().Err(err).Msg("encode state")
	}
}

// GetHealthz reports 200 while serving and 503 once draining has started.
func (h *StateHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h.Tracker != nil && h.Tracker.IsDraining() {
		status = serverstate.StatusDraining
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
		logx.Log.Error().Err(err).Msg("write healthz")
	}
}

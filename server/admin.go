package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mazerunner/game"
)

// adminConfig 部分更新载荷：只有非 nil 字段会被修改
type adminConfig struct {
	Width               *int     `json:"width,omitempty"`
	Height              *int     `json:"height,omitempty"`
	Seed                *int64   `json:"seed,omitempty"`
	Speed               *float64 `json:"speed,omitempty"`
	TurnSpeed           *float64 `json:"turnSpeed,omitempty"`
	StickTurnMultiplier *float64 `json:"stickTurnMultiplier,omitempty"`
	Damping             *float64 `json:"damping,omitempty"`
	PlayerRadius        *float64 `json:"playerRadius,omitempty"`
	BraidProbability    *float64 `json:"braidProbability,omitempty"`
	WinThreshold        *float64 `json:"winThreshold,omitempty"`
}

func (a adminConfig) apply(c *game.Config) {
	if a.Width != nil {
		c.Width = *a.Width
	}
	if a.Height != nil {
		c.Height = *a.Height
	}
	if a.Seed != nil {
		c.Seed = *a.Seed
	}
	if a.Speed != nil {
		c.Speed = *a.Speed
	}
	if a.TurnSpeed != nil {
		c.TurnSpeed = *a.TurnSpeed
	}
	if a.StickTurnMultiplier != nil {
		c.StickTurnMultiplier = *a.StickTurnMultiplier
	}
	if a.Damping != nil {
		c.Damping = *a.Damping
	}
	if a.PlayerRadius != nil {
		c.PlayerRadius = *a.PlayerRadius
	}
	if a.BraidProbability != nil {
		c.BraidProbability = *a.BraidProbability
	}
	if a.WinThreshold != nil {
		c.WinThreshold = *a.WinThreshold
	}
}

// HandleGetConfig 返回新会话使用的默认配置
// GET /admin/config
func (m *SessionManager) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, m.Defaults())
}

// HandleUpdateConfig 以 JSON 载荷更新部分字段（只影响之后创建的会话）
// POST /admin/config
func (m *SessionManager) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var body adminConfig
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	cfg, err := m.UpdateDefaults(body.apply)
	if err != nil {
		Log.Warnf("config update rejected: %v", err)
		respondJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	Log.Infof("config updated: size=%dx%d seed=%d speed=%.3f turn=%.3f damping=%.2f braid=%.2f",
		cfg.Width, cfg.Height, cfg.Seed, cfg.Speed, cfg.TurnSpeed, cfg.Damping, cfg.BraidProbability)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "config": cfg})
}

// HandleMetrics 输出所有会话的运行指标
// GET /metrics
func (m *SessionManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ids := m.IDs()
	sessions := make(map[string]any, len(ids))
	for _, id := range ids {
		if runner, ok := m.Get(id); ok {
			sessions[id] = runner.Metrics().Snapshot()
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"active":   len(sessions),
		"sessions": sessions,
	})
}

// HandleSessionMetrics 输出单个会话的运行指标
// GET /metrics/{id}
func (m *SessionManager) HandleSessionMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	runner, ok := m.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session": id,
		"metrics": runner.Metrics().Snapshot(),
	})
}

// respondJSON 写出 JSON 响应
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供默认对局规则的读取与更新（热更新，作用于新建房间）
// GET /admin/config  返回当前默认值
// POST /admin/config 以 JSON 载荷更新部分字段
func (h *Hub) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		WinningScore        *int `json:"winningScore,omitempty"`
		DifficultyThreshold *int `json:"difficultyThreshold,omitempty"`
		GameDuration        *int `json:"gameDuration,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		cur := h.config()
		out := cfg{
			WinningScore:        &cur.WinningScore,
			DifficultyThreshold: &cur.DifficultyThreshold,
			GameDuration:        &cur.GameDuration,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		// 更新走命令通道，与其余房间变更同一条时间线
		h.cmds <- cmdUpdateConfig{apply: func(c *Config) {
			if body.WinningScore != nil {
				c.WinningScore = *body.WinningScore
			}
			if body.DifficultyThreshold != nil {
				c.DifficultyThreshold = *body.DifficultyThreshold
			}
			if body.GameDuration != nil {
				c.GameDuration = *body.GameDuration
			}
		}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config update queued")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出运行指标与房间/队列概览
// GET /metrics
func (h *Hub) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"rooms":      h.registry.Summaries(),
		"room_count": h.registry.Len(),
		"queue_len":  h.QueueLen(),
		"metrics":    h.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

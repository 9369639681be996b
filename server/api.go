package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// API 昵称注册与健康检查的 HTTP 端；store 可为 nil（未配置 Redis）
type API struct {
	store GameStore
	start time.Time
}

func NewAPI(store GameStore) *API {
	return &API{store: store, start: time.Now()}
}

// HandleHealth GET /health 健康检查
func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": time.Since(a.start).Seconds(),
	})
}

// HandleCheckName POST /api/check-name {"name":"..."} -> {"available":bool}
func (a *API) HandleCheckName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if a.store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"available": false, "error": "storage unavailable"})
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	available, err := a.store.CheckNameAvailable(r.Context(), body.Name)
	if err != nil {
		if errors.Is(err, ErrNameTooShort) {
			_ = json.NewEncoder(w).Encode(map[string]any{"available": false, "error": "Name too short"})
			return
		}
		Log.Errorf("check name failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"available": false, "error": "Server error"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"available": available})
}

// HandleRegisterName POST /api/register-name {"name":"...","id":"..."}
// 冲突返回 409，同一 id 重复注册视为刷新
func (a *API) HandleRegisterName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if a.store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "storage unavailable"})
		return
	}
	var body struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Player ID required"})
		return
	}
	err := a.store.RegisterName(r.Context(), body.Name, body.ID)
	switch {
	case errors.Is(err, ErrNameTooShort):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Name too short"})
	case errors.Is(err, ErrNameTaken):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Name already taken"})
	case err != nil:
		Log.Errorf("register name failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Server error"})
	default:
		Log.Infof("registered name %q for id=%s", body.Name, body.ID)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}
}

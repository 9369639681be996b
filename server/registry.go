package server

import "sync"

// Registry 持有 id -> Room 映射并负责房间生命周期。
// 写入只发生在 Hub 的事件循环；读锁供 /metrics 等 HTTP 端采样
type Registry struct {
	mu     sync.RWMutex
	rooms  map[int64]*Room
	nextID int64
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[int64]*Room)}
}

// create 分配单调递增的房间号并登记
func (reg *Registry) create(cfg Config) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.nextID++
	room := newRoom(reg.nextID, cfg)
	reg.rooms[room.ID] = room
	return room
}

func (reg *Registry) get(id int64) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// delete 仅在房间玩家清空后调用；带玩家的房间永不回收
func (reg *Registry) delete(id int64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// snapshot 拷贝一份房间列表，避免迭代时持锁
func (reg *Registry) snapshot() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Len 当前活跃房间数
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// RoomSummary /metrics 输出用的房间概览
type RoomSummary struct {
	ID              int64 `json:"id"`
	Players         int   `json:"players"`
	GameStarted     bool  `json:"gameStarted"`
	DifficultyLevel int   `json:"difficultyLevel"`
	TimeRemaining   int   `json:"timeRemaining"`
}

// Summaries 返回各房间概览（字段为瞬时采样，仅供监控）
func (reg *Registry) Summaries() []RoomSummary {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]RoomSummary, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, RoomSummary{
			ID:              r.ID,
			Players:         len(r.Players),
			GameStarted:     r.GameStarted,
			DifficultyLevel: r.DifficultyLevel,
			TimeRemaining:   r.TimeRemaining,
		})
	}
	return out
}

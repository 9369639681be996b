package server

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// 全局调度节奏：敌人推进 200ms 一轮，回合倒计时 1s 一轮
const (
	enemyTickInterval = 200 * time.Millisecond
	roundTickInterval = time.Second
	queueLogInterval  = 10 * time.Second
)

// Broadcaster 出站广播边界：按连接定向投递命名事件（fire-and-forget）
type Broadcaster interface {
	Send(connID, event string, data any)
}

// Hub 连接网关与世界推进器：所有房间变更都发生在 Run 的单协程事件循环上，
// 入站意图经命令通道串行化，两个全局定时器遍历全部活跃房间
type Hub struct {
	cfgMu sync.RWMutex
	cfg   Config

	registry *Registry
	queue    *matchQueue
	bc       Broadcaster
	store    GameStore // 可为 nil：对局正确性不依赖持久化
	metrics  *Metrics
	rng      *rand.Rand

	byConn map[string]int64 // 连接 -> 所在房间

	cmds chan any
}

// 入站命令（意图），在事件循环中逐条原子处理
type (
	cmdJoin struct {
		connID string
		name   string
	}
	cmdMove struct {
		connID string
		dir    Direction
	}
	cmdRematch       struct{ connID string }
	cmdCancelRematch struct{ connID string }
	cmdLeave         struct{ connID string }
	cmdDisconnect    struct{ connID string }
	cmdUpdateConfig  struct{ apply func(*Config) }
)

func NewHub(cfg Config, registry *Registry, store GameStore, metrics *Metrics) *Hub {
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &Hub{
		cfg:      cfg,
		registry: registry,
		queue:    newMatchQueue(),
		store:    store,
		metrics:  metrics,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		byConn:   make(map[string]int64),
		cmds:     make(chan any, 256),
	}
}

// SetBroadcaster 注入出站边界（需在 Run 之前完成）
func (h *Hub) SetBroadcaster(bc Broadcaster) { h.bc = bc }

// Metrics 暴露指标给 HTTP 端
func (h *Hub) Metrics() *Metrics { return h.metrics }

// Registry 暴露房间注册表给 HTTP 端
func (h *Hub) Registry() *Registry { return h.registry }

// QueueLen 当前匹配队列长度
func (h *Hub) QueueLen() int { return h.queue.size() }

// 对外入口：转为命令投递到事件循环
func (h *Hub) Join(connID, name string)        { h.cmds <- cmdJoin{connID: connID, name: name} }
func (h *Hub) Move(connID string, d Direction) { h.cmds <- cmdMove{connID: connID, dir: d} }
func (h *Hub) RequestRematch(connID string)    { h.cmds <- cmdRematch{connID: connID} }
func (h *Hub) CancelRematch(connID string)     { h.cmds <- cmdCancelRematch{connID: connID} }
func (h *Hub) Leave(connID string)             { h.cmds <- cmdLeave{connID: connID} }
func (h *Hub) Disconnect(connID string)        { h.cmds <- cmdDisconnect{connID: connID} }

// Run 事件循环：命令、敌人 Tick、回合倒计时共用一条逻辑线程，
// 房间状态不加锁也不会竞争
func (h *Hub) Run(ctx context.Context) error {
	enemyTicker := time.NewTicker(enemyTickInterval)
	defer enemyTicker.Stop()
	roundTicker := time.NewTicker(roundTickInterval)
	defer roundTicker.Stop()
	queueTicker := time.NewTicker(queueLogInterval)
	defer queueTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-h.cmds:
			h.dispatch(cmd)
		case <-enemyTicker.C:
			start := time.Now()
			h.enemyTick()
			h.metrics.AddTick(time.Since(start).Nanoseconds())
		case <-roundTicker.C:
			h.roundTick()
		case <-queueTicker.C:
			h.logQueue()
		}
	}
}

func (h *Hub) dispatch(cmd any) {
	switch c := cmd.(type) {
	case cmdJoin:
		h.handleJoin(c.connID, c.name)
	case cmdMove:
		h.applyMove(c.connID, c.dir)
	case cmdRematch:
		h.handleRematch(c.connID)
	case cmdCancelRematch:
		h.handleCancelRematch(c.connID)
	case cmdLeave:
		h.removePlayer(c.connID, "leave")
	case cmdDisconnect:
		h.removePlayer(c.connID, "disconnect")
	case cmdUpdateConfig:
		h.cfgMu.Lock()
		c.apply(&h.cfg)
		h.cfgMu.Unlock()
	}
}

// config 读取当前默认规则快照（admin 可热更新）
func (h *Hub) config() Config {
	h.cfgMu.RLock()
	defer h.cfgMu.RUnlock()
	return h.cfg
}

// roomOf 按连接查所在房间；查不到视为迟到消息，静默忽略
func (h *Hub) roomOf(connID string) (*Room, bool) {
	id, ok := h.byConn[connID]
	if !ok {
		return nil, false
	}
	return h.registry.get(id)
}

// handleJoin 先到先得匹配：入队后若只有一人则等待，凑足两人立即开局
func (h *Hub) handleJoin(connID, name string) {
	if roomID, ok := h.byConn[connID]; ok {
		Log.Infof("join ignored: conn=%s already in room %d", connID, roomID)
		return
	}
	if !h.queue.enqueue(connID, name) {
		Log.Infof("join ignored: conn=%s already queued", connID)
		return
	}
	Log.Infof("queued conn=%s name=%q size=%d", connID, name, h.queue.size())

	if h.queue.size() == 1 {
		h.emit(connID, EvWaitingForOpponent, nil)
		return
	}
	if a, b, ok := h.queue.takePair(); ok {
		h.startMatch(a, b)
	}
}

// startMatch 为两名队首玩家建房开局
func (h *Hub) startMatch(a, b queueEntry) {
	cfg := h.config()
	room := h.registry.create(cfg)
	room.populate(h.rng)

	starts := startPositions(room.MapWidth, room.MapHeight)
	for i, entry := range []queueEntry{a, b} {
		p := &Player{
			ID:        entry.connID,
			Name:      entry.name,
			X:         starts[i][0],
			Y:         starts[i][1],
			Color:     playerColors[i],
			Character: room.claimCharacter(h.rng),
			Facing:    FacingRight,
			Mood:      MoodHappy,
			IsActive:  true,
		}
		room.addPlayer(p)
		h.byConn[entry.connID] = room.ID
	}

	room.GameStarted = true
	h.startRoundTimer(room)
	h.metrics.IncMatches()
	Log.Infof("room %d started: %q vs %q", room.ID, a.name, b.name)

	ready := room.readyPayload()
	h.broadcastRoom(room, EvGameReady, ready)
}

// removePlayer 离开与断线共用的收尾：退出队列、归还皮肤、
// 通知余下玩家；房间空则销毁，剩一人则停表（1 打 0 无法继续）
func (h *Hub) removePlayer(connID, reason string) {
	if h.queue.remove(connID) {
		Log.Infof("removed conn=%s from queue (%s)", connID, reason)
	}
	room, ok := h.roomOf(connID)
	if !ok {
		delete(h.byConn, connID)
		return
	}
	room.removePlayer(connID)
	delete(h.byConn, connID)

	h.broadcastRoom(room, EvPlayerLeft, connID)
	h.broadcastRoom(room, EvOpponentLeft, nil)

	switch len(room.Players) {
	case 0:
		h.stopRoundTimer(room)
		h.registry.delete(room.ID)
		Log.Infof("deleted empty room %d", room.ID)
	case 1:
		h.stopRoundTimer(room)
		room.GameStarted = false
	}
	Log.Infof("conn=%s left room %d (%s)", connID, room.ID, reason)
}

// logQueue 周期性输出排队状况，便于排查匹配卡死
func (h *Hub) logQueue() {
	waiting := h.queue.waiting()
	if len(waiting) == 0 {
		return
	}
	Log.Infof("matchmaking queue: %d waiting", len(waiting))
	for i, e := range waiting {
		Log.Infof("  %d. %s (%s) waiting %ds", i+1, e.name, e.connID, int(time.Since(e.joinedAt).Seconds()))
	}
}

// emit 定向投递单个连接
func (h *Hub) emit(connID, event string, data any) {
	if h.bc != nil {
		h.bc.Send(connID, event, data)
	}
}

// broadcastRoom 投递房间内全部玩家
func (h *Hub) broadcastRoom(room *Room, event string, data any) {
	for id := range room.Players {
		h.emit(id, event, data)
	}
}

// broadcastExcept 投递除指定玩家外的旁观者
func (h *Hub) broadcastExcept(room *Room, exclude, event string, data any) {
	for id := range room.Players {
		if id != exclude {
			h.emit(id, event, data)
		}
	}
}

// broadcastState 整体快照重发
func (h *Hub) broadcastState(room *Room) {
	h.broadcastRoom(room, EvGameStateUpdate, room.stateUpdate())
}

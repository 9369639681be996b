package server

// 敌人移动参数：基础 3 个 Tick 走一步，每级难度提速 10%，
// 每步有 0.15 概率随机换向
const (
	enemyBaseInterval = 3
	enemyTurnChance   = 0.15
)

// enemyMoveInterval 难度对应的移动间隔（Tick 数），下限 1
func enemyMoveInterval(level int) int {
	speed := 1 + float64(level-1)*0.1
	interval := int(float64(enemyBaseInterval) / speed)
	if interval < 1 {
		return 1
	}
	return interval
}

// enemyTick 全局敌人调度：遍历所有已开局的房间推进每个敌人，
// 处理完后无条件整体重发一次快照——这是移动事件之外唯一的状态心跳
func (h *Hub) enemyTick() {
	for _, room := range h.registry.snapshot() {
		if !room.GameStarted {
			continue
		}
		for _, e := range room.Enemies {
			h.stepEnemy(room, e)
		}
		h.broadcastState(room)
	}
}

// stepEnemy 推进单个敌人：计数、换向、移动或撞墙反向，再做碰撞检查
func (h *Hub) stepEnemy(room *Room, e *Enemy) {
	e.MoveCounter++
	if e.MoveCounter%enemyMoveInterval(e.DifficultyLevel) != 0 {
		return
	}

	if h.rng.Float64() < enemyTurnChance {
		e.Direction = h.rng.Intn(4)
	}

	nx, ny := e.X, e.Y
	switch e.Direction {
	case 0:
		ny-- // up
	case 1:
		nx++ // right
	case 2:
		ny++ // down
	case 3:
		nx-- // left
	}

	if room.inBounds(nx, ny) {
		e.X, e.Y = nx, ny
	} else {
		// 撞墙反向，本 Tick 不移动
		e.Direction = (e.Direction + 2) % 4
	}

	h.collideEnemy(room, e)
}

// collideEnemy 严格同格判定：扣 5 分（下限 0）、置悲伤、
// 随机重生该玩家，单发 playerHit 后整体重发快照
func (h *Hub) collideEnemy(room *Room, e *Enemy) {
	for id, p := range room.Players {
		if p.X != e.X || p.Y != e.Y {
			continue
		}
		p.Score = max(0, p.Score-enemyPenalty)
		p.Mood = MoodSad
		p.EnemiesHit++
		p.X, p.Y = randInterior(h.rng, room.MapWidth, room.MapHeight)
		h.metrics.IncEnemyHits()

		h.emit(id, EvPlayerHit, PlayerHitPayload{
			PlayerID: id, Score: p.Score, X: p.X, Y: p.Y,
		})
		h.broadcastState(room)
	}
}

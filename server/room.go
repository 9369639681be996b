package server

import "time"

// Room 房间世界：一场独立的双人对局，权威状态维护在内存，
// 由 Hub 的单事件循环推进，房间之间不共享任何数据
type Room struct {
	ID int64

	Players     map[string]*Player // 连接 ID -> 玩家
	playerOrder []string           // 加入顺序，用于出生点/重开时的稳定分配
	Coins       []*Coin
	Bombs       []*Bomb
	Enemies     []*Enemy

	MapWidth  int
	MapHeight int

	GameStarted          bool
	WinningScore         int
	DifficultyLevel      int
	TotalPointsCollected int // 仅金币计入，用于推导难度
	DifficultyThreshold  int

	usedCharacters map[string]struct{} // 已被占用的角色皮肤

	GameDuration  int // 秒
	TimeRemaining int
	timerRunning  bool
	startTime     time.Time
}

// addPlayer 以加入顺序登记玩家
func (r *Room) addPlayer(p *Player) {
	r.Players[p.ID] = p
	r.playerOrder = append(r.playerOrder, p.ID)
}

// removePlayer 移除玩家并归还角色皮肤
func (r *Room) removePlayer(id string) {
	if p, ok := r.Players[id]; ok {
		if p.Character != "" {
			delete(r.usedCharacters, p.Character)
		}
		delete(r.Players, id)
	}
	for i, pid := range r.playerOrder {
		if pid == id {
			r.playerOrder = append(r.playerOrder[:i], r.playerOrder[i+1:]...)
			break
		}
	}
}

// orderedPlayers 按加入顺序返回玩家
func (r *Room) orderedPlayers() []*Player {
	out := make([]*Player, 0, len(r.playerOrder))
	for _, id := range r.playerOrder {
		if p, ok := r.Players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// inBounds 判断坐标是否在墙内（外圈 x/y==0 或 ==max-1 为墙）
func (r *Room) inBounds(x, y int) bool {
	return x >= 1 && x < r.MapWidth-1 && y >= 1 && y < r.MapHeight-1
}

// playerAt 返回占据该格子的其他玩家（玩家之间互相阻挡）
func (r *Room) playerAt(x, y int, except string) *Player {
	for id, p := range r.Players {
		if id != except && p.X == x && p.Y == y {
			return p
		}
	}
	return nil
}

// coinAt 返回该格子上第一枚未拾取的金币
func (r *Room) coinAt(x, y int) *Coin {
	for _, c := range r.Coins {
		if c.X == x && c.Y == y && !c.Collected {
			return c
		}
	}
	return nil
}

// bombAt 返回该格子上第一颗未引爆的炸弹
func (r *Room) bombAt(x, y int) *Bomb {
	for _, b := range r.Bombs {
		if b.X == x && b.Y == y && !b.Exploded {
			return b
		}
	}
	return nil
}

func (r *Room) allCoinsCollected() bool {
	for _, c := range r.Coins {
		if !c.Collected {
			return false
		}
	}
	return true
}

func (r *Room) allBombsExploded() bool {
	for _, b := range r.Bombs {
		if !b.Exploded {
			return false
		}
	}
	return true
}

// stateUpdate 组装完整快照；每次变更后整体重发，客户端只渲染最新一份
func (r *Room) stateUpdate() StatePayload {
	return StatePayload{
		Players:         r.Players,
		Coins:           r.Coins,
		Bombs:           r.Bombs,
		Enemies:         r.Enemies,
		MapWidth:        r.MapWidth,
		MapHeight:       r.MapHeight,
		DifficultyLevel: r.DifficultyLevel,
		WinningScore:    r.WinningScore,
	}
}

// readyPayload 开局快照，附带房间号与计时
func (r *Room) readyPayload() GameReadyPayload {
	return GameReadyPayload{
		StatePayload:  r.stateUpdate(),
		RoomID:        r.ID,
		GameDuration:  r.GameDuration,
		TimeRemaining: r.TimeRemaining,
	}
}

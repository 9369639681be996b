package server

// applyMove 校验并应用一次玩家移动。
// 非法意图（房间/玩家缺失、撞墙、目标格被对手占据）静默忽略，
// 客户端预测会掩盖绝大多数此类拒绝
func (h *Hub) applyMove(connID string, dir Direction) {
	room, ok := h.roomOf(connID)
	if !ok {
		Log.Debugf("move ignored: conn=%s not in a room", connID)
		return
	}
	p, ok := room.Players[connID]
	if !ok || !room.GameStarted {
		return
	}

	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return
	}
	nx, ny := p.X+dx, p.Y+dy
	if !room.inBounds(nx, ny) || room.playerAt(nx, ny, connID) != nil {
		h.metrics.IncMovesRejected()
		return
	}

	p.X, p.Y = nx, ny
	// 仅左右移动改变朝向
	switch dir {
	case DirLeft:
		p.Facing = FacingLeft
	case DirRight:
		p.Facing = FacingRight
	}
	h.metrics.IncMovesApplied()

	// 金币与炸弹彼此独立：同一格可在同一步内双双触发
	coin := room.coinAt(nx, ny)
	bomb := room.bombAt(nx, ny)

	if coin != nil {
		coin.Collected = true
		p.Score += coinValue
		room.TotalPointsCollected += coinValue
		p.Mood = MoodHappy
		p.CoinsCollected++
		h.metrics.IncCoinsCollected()
		h.emit(connID, EvCoinCollected, CoinCollectedPayload{
			CoinID: coin.ID, PlayerID: connID, Score: p.Score,
		})
		Log.Debugf("room %d: %s collected coin %d, score=%d", room.ID, p.Name, coin.ID, p.Score)
	}

	if bomb != nil {
		bomb.Exploded = true
		p.Score = max(0, p.Score-bombPenalty)
		p.Mood = MoodSad
		p.BombsHit++
		h.metrics.IncBombsTriggered()
		h.emit(connID, EvBombHit, BombHitPayload{
			PlayerID: connID, Score: p.Score, BombID: bomb.ID, X: bomb.X, Y: bomb.Y,
		})
		// 旁观方只收爆炸视觉事件
		h.broadcastExcept(room, connID, EvBombExploded, BombExplodedPayload{
			BombID: bomb.ID, X: bomb.X, Y: bomb.Y, PlayerID: connID,
		})
		Log.Debugf("room %d: %s hit bomb %d, score=%d", room.ID, p.Name, bomb.ID, p.Score)
	}

	if coin != nil || bomb != nil {
		h.escalateDifficulty(room)
		h.broadcastState(room)

		if p.Score >= room.WinningScore {
			h.endRoundByScore(room, p)
		}

		// 金币与炸弹各自独立整组重生，重生后各补发一次快照
		if room.allCoinsCollected() {
			room.Coins = generateCoins(h.rng, room.MapWidth, room.MapHeight)
			Log.Infof("room %d: respawned %d coins", room.ID, len(room.Coins))
			h.broadcastState(room)
		}
		if len(room.Bombs) > 0 && room.allBombsExploded() {
			room.Bombs = generateBombs(h.rng, room)
			Log.Infof("room %d: respawned %d bombs", room.ID, len(room.Bombs))
			h.broadcastState(room)
		}
	}

	// 无论是否拾取都整体重发一次，让对手的空移动也能同步位置
	h.broadcastState(room)
}

// escalateDifficulty 按累计金币分重算难度；严格提升时：
// 存量敌人盖戳新等级、追加 2 个敌人、整组重生炸弹并通知全房
func (h *Hub) escalateDifficulty(room *Room) {
	prev := room.DifficultyLevel
	room.DifficultyLevel = room.TotalPointsCollected/room.DifficultyThreshold + 1
	if room.DifficultyLevel <= prev {
		return
	}
	Log.Infof("room %d difficulty increased to %d", room.ID, room.DifficultyLevel)
	for _, e := range room.Enemies {
		e.DifficultyLevel = room.DifficultyLevel
	}
	appendEnemies(h.rng, room, enemiesPerLvl)
	room.Bombs = generateBombs(h.rng, room)
	h.broadcastRoom(room, EvDifficultyIncrease, DifficultyIncreasePayload{
		Level: room.DifficultyLevel, EnemyCount: len(room.Enemies),
	})
}

// endRoundByScore 先达到胜分即终局：停表并冻结该房间的后续移动
func (h *Hub) endRoundByScore(room *Room, winner *Player) {
	h.stopRoundTimer(room)
	room.GameStarted = false
	h.metrics.IncRoundsEnded()
	Log.Infof("room %d: %s won by score %d", room.ID, winner.Name, winner.Score)

	h.broadcastRoom(room, EvGameWon, GameWonPayload{
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		WinnerScore: winner.Score,
		Reason:      ReasonScore,
		FinalScores: finalScores(room),
	})
	h.recordResults(room, winner.ID, ReasonScore)
}

func finalScores(room *Room) []FinalScore {
	out := make([]FinalScore, 0, len(room.Players))
	for _, p := range room.orderedPlayers() {
		out = append(out, FinalScore{Name: p.Name, Score: p.Score})
	}
	return out
}

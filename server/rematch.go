package server

// handleRematch 登记重开意愿并通知对手；双人一致时整体重置开局。
// 任何一方 cancel 都会无限期阻止重开，直到再次申请
func (h *Hub) handleRematch(connID string) {
	room, ok := h.roomOf(connID)
	if !ok {
		return
	}
	p, ok := room.Players[connID]
	if !ok {
		return
	}
	p.WantsRematch = true
	Log.Infof("room %d: %s wants rematch", room.ID, p.Name)

	h.broadcastExcept(room, connID, EvOpponentWantsRematch, OpponentWantsRematchPayload{
		PlayerName: p.Name,
	})

	if len(room.Players) != 2 {
		return
	}
	for _, other := range room.Players {
		if !other.WantsRematch {
			return
		}
	}
	Log.Infof("room %d: both players want rematch, restarting", room.ID)
	h.restartRound(room)
}

func (h *Hub) handleCancelRematch(connID string) {
	room, ok := h.roomOf(connID)
	if !ok {
		return
	}
	if p, ok := room.Players[connID]; ok {
		p.WantsRematch = false
	}
}

// restartRound 回到一级难度的全新一局：重生全部实体、清零比分、
// 双方回到固定出生角，然后重新开表并下发 rematchStarting + gameReady
func (h *Hub) restartRound(room *Room) {
	h.stopRoundTimer(room)
	room.GameStarted = false
	room.DifficultyLevel = 1
	room.TotalPointsCollected = 0
	room.TimeRemaining = room.GameDuration
	room.populate(h.rng)

	starts := startPositions(room.MapWidth, room.MapHeight)
	for i, p := range room.orderedPlayers() {
		p.resetForRound(starts[i%2][0], starts[i%2][1])
	}

	room.GameStarted = true
	h.startRoundTimer(room)

	h.broadcastRoom(room, EvRematchStarting, nil)
	h.broadcastRoom(room, EvGameReady, room.readyPayload())
}

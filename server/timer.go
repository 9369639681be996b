package server

import "time"

// startRoundTimer 记录开局时刻并重置倒计时；
// 计时本身由 Hub 的全局 1s Tick 驱动，房间销毁即自然停表，
// 不存在悬挂的定时器句柄
func (h *Hub) startRoundTimer(room *Room) {
	room.startTime = time.Now()
	room.TimeRemaining = room.GameDuration
	room.timerRunning = true
	Log.Infof("timer started for room %d - %d seconds", room.ID, room.GameDuration)
}

func (h *Hub) stopRoundTimer(room *Room) {
	room.timerRunning = false
}

// roundTick 全局倒计时：每秒递减所有计时中的房间并逐个下发
// timeUpdate，归零触发超时终局
func (h *Hub) roundTick() {
	for _, room := range h.registry.snapshot() {
		if !room.timerRunning {
			continue
		}
		room.TimeRemaining--
		h.broadcastRoom(room, EvTimeUpdate, TimeUpdatePayload{
			TimeRemaining: room.TimeRemaining,
			GameDuration:  room.GameDuration,
		})
		if room.TimeRemaining <= 0 {
			h.endRoundByTime(room)
		}
	}
}

// endRoundByTime 超时终局：最高分获胜，双方同分为平局
func (h *Hub) endRoundByTime(room *Room) {
	h.stopRoundTimer(room)
	room.GameStarted = false

	players := room.orderedPlayers()
	if len(players) == 0 {
		return
	}

	winner := players[0]
	for _, p := range players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	tie := false
	for _, p := range players {
		if p != winner && p.Score == winner.Score {
			tie = true
			break
		}
	}

	reason := ReasonTimeUp
	winnerName := winner.Name
	if tie {
		reason = ReasonTie
		winnerName = "Tie"
	}
	h.metrics.IncRoundsEnded()
	Log.Infof("room %d ended by time - winner: %s (%d points)", room.ID, winnerName, winner.Score)

	h.broadcastRoom(room, EvGameWon, GameWonPayload{
		WinnerID:    winner.ID,
		WinnerName:  winnerName,
		WinnerScore: winner.Score,
		Reason:      reason,
		FinalScores: finalScores(room),
	})

	winnerID := winner.ID
	if tie {
		winnerID = ""
	}
	h.recordResults(room, winnerID, reason)
}

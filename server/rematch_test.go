package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endRound 把房间推进到一局结束的状态
func endRound(h *Hub, room *Room) {
	h.stopRoundTimer(room)
	room.GameStarted = false
}

// TestRematchRequiresUnanimity 一人申请只通知对手，两人都申请才重开
func TestRematchRequiresUnanimity(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	endRound(h, room)
	bc.reset()

	h.handleRematch("c1")

	assert.False(t, room.GameStarted, "one vote must not restart")
	notified := bc.forConn("c2", EvOpponentWantsRematch)
	require.Len(t, notified, 1)
	assert.Equal(t, "Alice", notified[0].Data.(OpponentWantsRematchPayload).PlayerName)
	assert.Empty(t, bc.byEvent(EvRematchStarting))

	h.handleRematch("c2")

	assert.True(t, room.GameStarted)
	assert.Len(t, bc.byEvent(EvRematchStarting), 2)
	assert.Len(t, bc.byEvent(EvGameReady), 2)
}

// TestRematchReset 重开即全新一局：比分清零、一级难度、
// 双方回到固定出生角、倒计时回满
func TestRematchReset(t *testing.T) {
	h, _ := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	room.Players["c1"].Score = 120
	room.Players["c1"].Mood = MoodSad
	room.Players["c2"].Score = 80
	room.DifficultyLevel = 3
	room.TotalPointsCollected = 450
	room.TimeRemaining = 5
	endRound(h, room)

	h.handleRematch("c1")
	h.handleRematch("c2")

	assert.Equal(t, 0, room.Players["c1"].Score)
	assert.Equal(t, 0, room.Players["c2"].Score)
	assert.Equal(t, MoodHappy, room.Players["c1"].Mood)
	assert.Equal(t, 1, room.DifficultyLevel)
	assert.Equal(t, 0, room.TotalPointsCollected)
	assert.Equal(t, room.GameDuration, room.TimeRemaining)
	assert.True(t, room.timerRunning)

	// 按加入顺序回到两个出生角
	assert.Equal(t, 2, room.Players["c1"].X)
	assert.Equal(t, 2, room.Players["c1"].Y)
	assert.Equal(t, 17, room.Players["c2"].X)
	assert.Equal(t, 12, room.Players["c2"].Y)

	// 旧的重开意愿清空
	assert.False(t, room.Players["c1"].WantsRematch)
	assert.False(t, room.Players["c2"].WantsRematch)

	// 实体按一级规则重生
	assert.Len(t, room.Coins, coinCount)
	assert.Empty(t, room.Bombs)
	assert.Len(t, room.Enemies, baseEnemies)
}

// TestCancelRematchBlocksRestart 取消后重开被无限期阻塞，重新申请才放行
func TestCancelRematchBlocksRestart(t *testing.T) {
	h, _ := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	endRound(h, room)

	h.handleRematch("c1")
	h.handleCancelRematch("c1")
	h.handleRematch("c2")

	assert.False(t, room.GameStarted, "cancelled vote blocks restart")

	h.handleRematch("c1")
	assert.True(t, room.GameStarted)
}

// TestRematchIgnoredOutsideRoom 不在房间内的申请静默忽略
func TestRematchIgnoredOutsideRoom(t *testing.T) {
	h, bc := newTestHub(t)
	startTwoPlayerRoom(t, h)
	bc.reset()

	h.handleRematch("ghost")
	h.handleCancelRematch("ghost")

	assert.Empty(t, bc.all())
}

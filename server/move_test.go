package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEntities 清空实体，便于逐项布置测试场景
func clearEntities(room *Room) {
	room.Coins = []*Coin{}
	room.Bombs = []*Bomb{}
	room.Enemies = []*Enemy{}
}

// TestMoveRejectedAtWall (1,1) 向左是墙，移动被静默拒绝，状态不变
func TestMoveRejectedAtWall(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 1, 1
	bc.reset()

	h.applyMove("c1", DirLeft)

	assert.Equal(t, 1, p.X)
	assert.Equal(t, 1, p.Y)
	assert.Empty(t, bc.all(), "rejected move must not emit anything")
	assert.Equal(t, int64(1), h.metrics.MovesRejected)
}

// TestMoveBlockedByOpponent 玩家互相阻挡（敌人与炸弹不阻挡）
func TestMoveBlockedByOpponent(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	room.Players["c1"].X, room.Players["c1"].Y = 5, 5
	room.Players["c2"].X, room.Players["c2"].Y = 6, 5
	bc.reset()

	h.applyMove("c1", DirRight)

	assert.Equal(t, 5, room.Players["c1"].X)
	assert.Empty(t, bc.all())
}

// TestMoveFacing 仅左右移动改变朝向
func TestMoveFacing(t *testing.T) {
	h, _ := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	require.Equal(t, FacingRight, p.Facing)

	h.applyMove("c1", DirUp)
	assert.Equal(t, FacingRight, p.Facing, "vertical move keeps facing")

	h.applyMove("c1", DirLeft)
	assert.Equal(t, FacingLeft, p.Facing)
}

// TestEmptyMoveStillBroadcasts 空移动也要整体重发快照同步位置
func TestEmptyMoveStillBroadcasts(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	room.Players["c1"].X, room.Players["c1"].Y = 5, 5
	bc.reset()

	h.applyMove("c1", DirDown)

	assert.Len(t, bc.byEvent(EvGameStateUpdate), 2, "one snapshot per player")
}

// TestCoinPickup 拾取金币：+10 分、心情变好、只通知拾取者
func TestCoinPickup(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	p.Mood = MoodSad
	room.Coins = []*Coin{{ID: 3, X: 6, Y: 5}}
	bc.reset()

	h.applyMove("c1", DirRight)

	assert.Equal(t, 10, p.Score)
	assert.Equal(t, 10, room.TotalPointsCollected)
	assert.Equal(t, MoodHappy, p.Mood)
	assert.True(t, room.Coins[0].Collected)

	got := bc.forConn("c1", EvCoinCollected)
	require.Len(t, got, 1)
	payload := got[0].Data.(CoinCollectedPayload)
	assert.Equal(t, 3, payload.CoinID)
	assert.Equal(t, "c1", payload.PlayerID)
	assert.Equal(t, 10, payload.Score)
	assert.Empty(t, bc.forConn("c2", EvCoinCollected))
}

// TestCollectedCoinIsInert 已拾取的金币不再生效（幂等）
func TestCollectedCoinIsInert(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	room.Coins = []*Coin{{ID: 0, X: 6, Y: 5, Collected: true}}
	bc.reset()

	h.applyMove("c1", DirRight)

	assert.Equal(t, 0, p.Score)
	assert.Empty(t, bc.byEvent(EvCoinCollected))
}

// TestBombPickup 踩中炸弹：-20 分但不为负、旁观者单独收爆炸事件
func TestBombPickup(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	p.Score = 10
	room.Bombs = []*Bomb{{ID: 1, X: 6, Y: 5}}
	// 固定难度避免炸弹整组重生干扰断言
	room.TotalPointsCollected = 0
	bc.reset()

	h.applyMove("c1", DirRight)

	assert.Equal(t, 0, p.Score, "score floored at zero")
	assert.Equal(t, MoodSad, p.Mood)
	assert.True(t, room.Bombs[0].Exploded)

	hit := bc.forConn("c1", EvBombHit)
	require.Len(t, hit, 1)
	assert.Equal(t, 1, hit[0].Data.(BombHitPayload).BombID)

	exploded := bc.byEvent(EvBombExploded)
	require.Len(t, exploded, 1)
	assert.Equal(t, "c2", exploded[0].ConnID, "explosion visual goes to observers only")
}

// TestCoinAndBombSameTile 同格金币与炸弹在同一步内都触发
func TestCoinAndBombSameTile(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	room.Coins = []*Coin{{ID: 0, X: 6, Y: 5}}
	room.Bombs = []*Bomb{{ID: 0, X: 6, Y: 5}}
	bc.reset()

	h.applyMove("c1", DirRight)

	// +10 再 -20，下限 0
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, 10, room.TotalPointsCollected, "only coins count toward difficulty")
	assert.Len(t, bc.forConn("c1", EvCoinCollected), 1)
	assert.Len(t, bc.forConn("c1", EvBombHit), 1)
}

// TestDifficultyEscalation 阈值 200：190 -> 200 跨级，
// 存量敌人盖新等级、追加 2 个、炸弹按 min(5,1)=1 重生
func TestDifficultyEscalation(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	room.Enemies = generateEnemies(h.rng, 1, room.MapWidth, room.MapHeight)
	room.TotalPointsCollected = 190
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	room.Coins = []*Coin{{ID: 0, X: 6, Y: 5}}
	bc.reset()

	h.applyMove("c1", DirRight)

	assert.Equal(t, 200, room.TotalPointsCollected)
	assert.Equal(t, 2, room.DifficultyLevel)
	require.Len(t, room.Enemies, 11, "9 existing + 2 appended")
	for _, e := range room.Enemies {
		assert.Equal(t, 2, e.DifficultyLevel)
	}
	assert.Len(t, room.Bombs, 1)

	inc := bc.byEvent(EvDifficultyIncrease)
	require.Len(t, inc, 2, "both players notified")
	payload := inc[0].Data.(DifficultyIncreasePayload)
	assert.Equal(t, 2, payload.Level)
	assert.Equal(t, 11, payload.EnemyCount)
}

// TestDifficultyMonotonic 难度只升不降，且等于 floor(total/threshold)+1
func TestDifficultyMonotonic(t *testing.T) {
	h, _ := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5

	prev := room.DifficultyLevel
	for i := 0; i < 30; i++ {
		x := 6 - i%2 // 左右往返，每步落点都有金币
		room.Coins = []*Coin{{ID: i, X: x, Y: 5}}
		if i%2 == 0 {
			h.applyMove("c1", DirRight)
		} else {
			h.applyMove("c1", DirLeft)
		}
		assert.GreaterOrEqual(t, room.DifficultyLevel, prev)
		assert.Equal(t, room.TotalPointsCollected/room.DifficultyThreshold+1, room.DifficultyLevel)
		prev = room.DifficultyLevel
	}
}

// TestWinByScore 达到胜分即终局：gameWon 广播、停表、冻结移动
func TestWinByScore(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	room.WinningScore = 20
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	p.Score = 10
	room.Coins = []*Coin{{ID: 0, X: 6, Y: 5}}
	bc.reset()

	h.applyMove("c1", DirRight)

	won := bc.byEvent(EvGameWon)
	require.Len(t, won, 2)
	payload := won[0].Data.(GameWonPayload)
	assert.Equal(t, "c1", payload.WinnerID)
	assert.Equal(t, "Alice", payload.WinnerName)
	assert.Equal(t, 20, payload.WinnerScore)
	assert.Equal(t, ReasonScore, payload.Reason)

	assert.False(t, room.GameStarted)
	assert.False(t, room.timerRunning)

	// 终局后移动被忽略
	bc.reset()
	h.applyMove("c2", DirLeft)
	assert.Empty(t, bc.all())
}

// TestCoinRespawnWhenExhausted 金币全收后整组重生，炸弹不受影响
func TestCoinRespawnWhenExhausted(t *testing.T) {
	h, bc := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	room.Coins = []*Coin{
		{ID: 0, X: 3, Y: 3, Collected: true},
		{ID: 1, X: 6, Y: 5},
	}
	bomb := &Bomb{ID: 0, X: 10, Y: 10}
	room.Bombs = []*Bomb{bomb}
	bc.reset()

	h.applyMove("c1", DirRight)

	require.Len(t, room.Coins, coinCount)
	for _, c := range room.Coins {
		assert.False(t, c.Collected)
	}
	assert.Same(t, bomb, room.Bombs[0], "bombs untouched by coin respawn")
}

// TestBombRespawnIndependent 炸弹全爆后按当前难度整组重生，金币不受影响
func TestBombRespawnIndependent(t *testing.T) {
	h, _ := newTestHub(t)
	room := startTwoPlayerRoom(t, h)
	clearEntities(room)
	room.DifficultyLevel = 2
	room.TotalPointsCollected = 200
	p := room.Players["c1"]
	p.X, p.Y = 5, 5
	remaining := &Coin{ID: 0, X: 3, Y: 3}
	room.Coins = []*Coin{remaining}
	room.Bombs = []*Bomb{{ID: 0, X: 6, Y: 5}}

	h.applyMove("c1", DirRight)

	require.Len(t, room.Bombs, 1, "level 2 regenerates one bomb")
	assert.False(t, room.Bombs[0].Exploded)
	assert.Same(t, remaining, room.Coins[0], "coins untouched by bomb respawn")
	assert.False(t, remaining.Collected)
}

// TestMoveIgnoredForUnknownConn 迟到消息（已离开/不存在）静默忽略
func TestMoveIgnoredForUnknownConn(t *testing.T) {
	h, bc := newTestHub(t)
	startTwoPlayerRoom(t, h)
	bc.reset()

	h.applyMove("ghost", DirUp)

	assert.Empty(t, bc.all())
}

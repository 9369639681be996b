package server

import (
	"sync/atomic"
)

// Metrics 记录服务运行期的关键指标（用于监控与调试）
type Metrics struct {
	MatchesMade    int64 // 成功配对的对局数
	MovesApplied   int64 // 生效的移动数
	MovesRejected  int64 // 因越界/占位被拒绝的移动数
	CoinsCollected int64 // 拾取的金币数
	BombsTriggered int64 // 引爆的炸弹数
	EnemyHits      int64 // 敌人撞击玩家次数
	RoundsEnded    int64 // 结束的回合数（含胜分/超时）
	TickCount      int64 // 敌人调度 Tick 次数
	TotalTickNs    int64 // Tick 累计耗时（纳秒）
}

func (m *Metrics) IncMatches()        { atomic.AddInt64(&m.MatchesMade, 1) }
func (m *Metrics) IncMovesApplied()   { atomic.AddInt64(&m.MovesApplied, 1) }
func (m *Metrics) IncMovesRejected()  { atomic.AddInt64(&m.MovesRejected, 1) }
func (m *Metrics) IncCoinsCollected() { atomic.AddInt64(&m.CoinsCollected, 1) }
func (m *Metrics) IncBombsTriggered() { atomic.AddInt64(&m.BombsTriggered, 1) }
func (m *Metrics) IncEnemyHits()      { atomic.AddInt64(&m.EnemyHits, 1) }
func (m *Metrics) IncRoundsEnded()    { atomic.AddInt64(&m.RoundsEnded, 1) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"matches_made":    atomic.LoadInt64(&m.MatchesMade),
		"moves_applied":   atomic.LoadInt64(&m.MovesApplied),
		"moves_rejected":  atomic.LoadInt64(&m.MovesRejected),
		"coins_collected": atomic.LoadInt64(&m.CoinsCollected),
		"bombs_triggered": atomic.LoadInt64(&m.BombsTriggered),
		"enemy_hits":      atomic.LoadInt64(&m.EnemyHits),
		"rounds_ended":    atomic.LoadInt64(&m.RoundsEnded),
		"tick_count":      tick,
		"avg_tick_ms":     avgMs,
	}
}

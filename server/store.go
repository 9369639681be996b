package server

import (
	"context"
	"errors"
	"strings"
	"time"
)

// 持久化协作方的错误分类；对局核心不依赖持久化的可用性
var (
	ErrNameTaken    = errors.New("name already taken")
	ErrNameTooShort = errors.New("name too short")
)

// GameResult 单个玩家的一局战绩
type GameResult struct {
	PlayerID       string    `json:"playerId"`
	PlayerName     string    `json:"playerName"`
	Opponent       string    `json:"opponent"`
	Outcome        string    `json:"outcome"` // win / loss / tie
	Reason         string    `json:"reason"`
	Score          int       `json:"score"`
	Duration       int       `json:"duration"` // 秒
	CoinsCollected int       `json:"coinsCollected"`
	BombsHit       int       `json:"bombsHit"`
	EnemiesHit     int       `json:"enemiesHit"`
	RoomID         int64     `json:"roomId"`
	EndedAt        time.Time `json:"endedAt"`
}

// GameStore 外部持久化边界：战绩入库与昵称注册。
// 实现不可用时对局照常进行，错误只记日志
type GameStore interface {
	RecordGameResult(ctx context.Context, res GameResult) error
	CheckNameAvailable(ctx context.Context, name string) (bool, error)
	RegisterName(ctx context.Context, name, ownerID string) error
}

// normalizeName 昵称规范化：去空白、小写比较键，最短 2 字符
func normalizeName(name string) (normalized, display string, err error) {
	display = strings.TrimSpace(name)
	if len(display) < 2 {
		return "", "", ErrNameTooShort
	}
	return strings.ToLower(display), display, nil
}

// recordResults 回合终局后异步记录双方战绩；store 缺席或失败均不影响对局
func (h *Hub) recordResults(room *Room, winnerID, reason string) {
	if h.store == nil {
		return
	}
	duration := int(time.Since(room.startTime).Seconds())
	players := room.orderedPlayers()
	results := make([]GameResult, 0, len(players))
	for _, p := range players {
		outcome := "loss"
		switch {
		case reason == ReasonTie:
			outcome = "tie"
		case p.ID == winnerID:
			outcome = "win"
		}
		opponent := ""
		for _, other := range players {
			if other.ID != p.ID {
				opponent = other.Name
			}
		}
		results = append(results, GameResult{
			PlayerID:       p.ID,
			PlayerName:     p.Name,
			Opponent:       opponent,
			Outcome:        outcome,
			Reason:         reason,
			Score:          p.Score,
			Duration:       duration,
			CoinsCollected: p.CoinsCollected,
			BombsHit:       p.BombsHit,
			EnemiesHit:     p.EnemiesHit,
			RoomID:         room.ID,
			EndedAt:        time.Now(),
		})
	}

	store := h.store
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, res := range results {
			if err := store.RecordGameResult(ctx, res); err != nil {
				Log.Warnf("record game result failed: player=%s err=%v", res.PlayerID, err)
			}
		}
	}()
}

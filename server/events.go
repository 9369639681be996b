package server

// 出站事件名，与客户端渲染协议保持一致
const (
	EvWaitingForOpponent   = "waitingForOpponent"
	EvGameReady            = "gameReady"
	EvGameStateUpdate      = "gameStateUpdate"
	EvCoinCollected        = "coinCollected"
	EvBombHit              = "bombHit"
	EvBombExploded         = "bombExploded"
	EvPlayerHit            = "playerHit"
	EvDifficultyIncrease   = "difficultyIncrease"
	EvTimeUpdate           = "timeUpdate"
	EvGameWon              = "gameWon"
	EvOpponentWantsRematch = "opponentWantsRematch"
	EvRematchStarting      = "rematchStarting"
	EvOpponentLeft         = "opponentLeft"
	EvPlayerLeft           = "playerLeft"
)

// 入站事件名（WebSocket 信封的 event 字段）
const (
	EvJoinGame       = "joinGame"
	EvMove           = "move"
	EvRequestRematch = "requestRematch"
	EvCancelRematch  = "cancelRematch"
	EvLeaveGame      = "leaveGame"
)

// StatePayload 房间完整快照，每次变更后整体下发（客户端为无状态渲染器）
type StatePayload struct {
	Players         map[string]*Player `json:"players"`
	Coins           []*Coin            `json:"coins"`
	Bombs           []*Bomb            `json:"bombs"`
	Enemies         []*Enemy           `json:"enemies"`
	MapWidth        int                `json:"mapWidth"`
	MapHeight       int                `json:"mapHeight"`
	DifficultyLevel int                `json:"difficultyLevel"`
	WinningScore    int                `json:"winningScore"`
}

// GameReadyPayload 开局/重开快照，在 StatePayload 之上附带房间与计时信息
type GameReadyPayload struct {
	StatePayload
	RoomID        int64 `json:"roomId"`
	GameDuration  int   `json:"gameDuration"`
	TimeRemaining int   `json:"timeRemaining"`
}

type CoinCollectedPayload struct {
	CoinID   int    `json:"coinId"`
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

type BombHitPayload struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	BombID   int    `json:"bombId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// BombExploded 只发给旁观玩家，用于爆炸视觉效果
type BombExplodedPayload struct {
	BombID   int    `json:"bombId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	PlayerID string `json:"playerId"`
}

// PlayerHit 敌人碰撞，x/y 为重生后的位置
type PlayerHitPayload struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type DifficultyIncreasePayload struct {
	Level      int `json:"level"`
	EnemyCount int `json:"enemyCount"`
}

type TimeUpdatePayload struct {
	TimeRemaining int `json:"timeRemaining"`
	GameDuration  int `json:"gameDuration"`
}

// 回合结束原因
const (
	ReasonScore  = "score"
	ReasonTimeUp = "time_up"
	ReasonTie    = "tie"
)

type FinalScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type GameWonPayload struct {
	WinnerID    string       `json:"winnerId"`
	WinnerName  string       `json:"winnerName"`
	WinnerScore int          `json:"winnerScore"`
	Reason      string       `json:"reason,omitempty"`
	FinalScores []FinalScore `json:"finalScores,omitempty"`
}

type OpponentWantsRematchPayload struct {
	PlayerName string `json:"playerName"`
}

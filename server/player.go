package server

// Direction 移动方向（服务端权威解释客户端“意图”）
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// ParseDirection 将入站字符串解析为方向，未知输入返回 DirNone
func ParseDirection(s string) Direction {
	switch s {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirNone
	}
}

// Delta 返回该方向对应的格子位移
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// 玩家心情与朝向，直接以字符串下发给渲染端
const (
	MoodHappy = "happy"
	MoodSad   = "sad"

	FacingLeft  = "left"
	FacingRight = "right"
)

// Player 房间内的玩家实体（服务端权威状态），按连接 ID 归属
// JSON 字段与客户端渲染协议一一对应
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Color        string `json:"color"`
	Character    string `json:"character"`
	Facing       string `json:"direction"` // 仅左右移动改变朝向
	Mood         string `json:"mood"`
	Score        int    `json:"score"`
	IsActive     bool   `json:"isActive"`
	WantsRematch bool   `json:"wantsRematch"`

	// 本局统计，仅用于回合结束后的战绩入库
	CoinsCollected int `json:"-"`
	BombsHit       int `json:"-"`
	EnemiesHit     int `json:"-"`
}

// resetForRound 重开一局时恢复玩家的可变状态（位置由调用方指定）
func (p *Player) resetForRound(x, y int) {
	p.X = x
	p.Y = y
	p.Score = 0
	p.WantsRematch = false
	p.Mood = MoodHappy
	p.IsActive = true
	p.CoinsCollected = 0
	p.BombsHit = 0
	p.EnemiesHit = 0
}

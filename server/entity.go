package server

// Coin 可拾取金币，collected 为一次性标记
type Coin struct {
	ID        int  `json:"id"`
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Collected bool `json:"collected"`
}

// Bomb 危险物，exploded 为一次性标记；数量随难度增长
type Bomb struct {
	ID       int  `json:"id"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Exploded bool `json:"exploded"`
}

// Enemy 自主移动的敌人，direction 取值 0=上 1=右 2=下 3=左
// difficultyLevel 决定移动节奏，难度提升时整体刷新
type Enemy struct {
	ID              int `json:"id"`
	X               int `json:"x"`
	Y               int `json:"y"`
	Direction       int `json:"direction"`
	MoveCounter     int `json:"moveCounter"`
	DifficultyLevel int `json:"difficultyLevel"`
}

package server

import "math/rand"

// 对局规则常量
const (
	coinCount     = 15
	coinValue     = 10
	bombPenalty   = 20
	enemyPenalty  = 5
	maxBombs      = 5
	baseEnemies   = 9
	enemiesPerLvl = 2

	// 炸弹落点避让重试次数，超过则原地放置（尽力而为，不报错）
	bombPlaceAttempts = 10
)

// 角色皮肤池与双方配色（出生角标配色固定）
var characterPool = []string{"Alex", "Bella", "Charlie", "Daisy"}
var playerColors = []string{"#00ff41", "#ff6b00"}

// newRoom 构造空房间：实体容器为空，gameStarted=false，难度从 1 起
func newRoom(id int64, cfg Config) *Room {
	return &Room{
		ID:                  id,
		Players:             make(map[string]*Player),
		Coins:               []*Coin{},
		Bombs:               []*Bomb{},
		Enemies:             []*Enemy{},
		MapWidth:            cfg.MapWidth,
		MapHeight:           cfg.MapHeight,
		WinningScore:        cfg.WinningScore,
		DifficultyLevel:     1,
		DifficultyThreshold: cfg.DifficultyThreshold,
		usedCharacters:      make(map[string]struct{}),
		GameDuration:        cfg.GameDuration,
		TimeRemaining:       cfg.GameDuration,
	}
}

// randInterior 墙内随机格子（1..w-2, 1..h-2）
func randInterior(rng *rand.Rand, w, h int) (int, int) {
	return rng.Intn(w-2) + 1, rng.Intn(h-2) + 1
}

// randInner 距边界 2 格的随机格子，敌人出生点远离墙边
func randInner(rng *rand.Rand, w, h int) (int, int) {
	return rng.Intn(w-4) + 2, rng.Intn(h-4) + 2
}

// generateCoins 生成整组金币；金币之间允许重叠，不做避让
func generateCoins(rng *rand.Rand, w, h int) []*Coin {
	coins := make([]*Coin, 0, coinCount)
	for i := 0; i < coinCount; i++ {
		x, y := randInterior(rng, w, h)
		coins = append(coins, &Coin{ID: i, X: x, Y: y})
	}
	return coins
}

// generateBombs 按当前难度生成整组炸弹：
// 一级无炸弹，之后每级加一颗，上限 5；落点尽量避开金币与已放炸弹
func generateBombs(rng *rand.Rand, room *Room) []*Bomb {
	bombs := []*Bomb{}
	if room.DifficultyLevel <= 1 {
		return bombs
	}
	count := room.DifficultyLevel - 1
	if count > maxBombs {
		count = maxBombs
	}
	for i := 0; i < count; i++ {
		var x, y int
		for attempt := 0; attempt < bombPlaceAttempts; attempt++ {
			x, y = randInterior(rng, room.MapWidth, room.MapHeight)
			if !cellOccupied(room.Coins, bombs, x, y) {
				break
			}
		}
		bombs = append(bombs, &Bomb{ID: i, X: x, Y: y})
	}
	return bombs
}

func cellOccupied(coins []*Coin, bombs []*Bomb, x, y int) bool {
	for _, c := range coins {
		if c.X == x && c.Y == y {
			return true
		}
	}
	for _, b := range bombs {
		if b.X == x && b.Y == y {
			return true
		}
	}
	return false
}

// generateEnemies 生成整组敌人：基数 9，每级多 2 个
func generateEnemies(rng *rand.Rand, level, w, h int) []*Enemy {
	count := baseEnemies + (level-1)*enemiesPerLvl
	enemies := make([]*Enemy, 0, count)
	for i := 0; i < count; i++ {
		x, y := randInner(rng, w, h)
		enemies = append(enemies, &Enemy{
			ID:              i,
			X:               x,
			Y:               y,
			Direction:       rng.Intn(4),
			DifficultyLevel: level,
		})
	}
	return enemies
}

// appendEnemies 难度提升时追加敌人，ID 延续现有序列
func appendEnemies(rng *rand.Rand, room *Room, n int) {
	base := len(room.Enemies)
	for i := 0; i < n; i++ {
		x, y := randInner(rng, room.MapWidth, room.MapHeight)
		room.Enemies = append(room.Enemies, &Enemy{
			ID:              base + i,
			X:               x,
			Y:               y,
			Direction:       rng.Intn(4),
			DifficultyLevel: room.DifficultyLevel,
		})
	}
}

// populate 一次性生成房间全部实体（开局与重开共用）
func (r *Room) populate(rng *rand.Rand) {
	r.Coins = generateCoins(rng, r.MapWidth, r.MapHeight)
	r.Bombs = generateBombs(rng, r)
	r.Enemies = generateEnemies(rng, r.DifficultyLevel, r.MapWidth, r.MapHeight)
}

// claimCharacter 从皮肤池中随机挑一个未占用的角色；
// 池耗尽时清空占用记录并返回第一个（两人房间不应触发，仅兜底）
func (r *Room) claimCharacter(rng *rand.Rand) string {
	available := make([]string, 0, len(characterPool))
	for _, name := range characterPool {
		if _, used := r.usedCharacters[name]; !used {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		r.usedCharacters = make(map[string]struct{})
		r.usedCharacters[characterPool[0]] = struct{}{}
		return characterPool[0]
	}
	name := available[rng.Intn(len(available))]
	r.usedCharacters[name] = struct{}{}
	return name
}

// startPositions 双方固定出生角：左上 (2,2) 与右下 (w-3,h-3)
func startPositions(w, h int) [2][2]int {
	return [2][2]int{{2, 2}, {w - 3, h - 3}}
}

package server

import (
	"os"
	"strconv"
)

// Config 服务器与对局规则配置，全部可通过环境变量覆盖
// （.env 由 main 通过 godotenv 预加载）
type Config struct {
	Addr     string // HTTP 监听地址
	LogFile  string // 日志文件路径（lumberjack 滚动）
	LogLevel string // debug / info / warn / error

	MapWidth  int // 地图宽（含外圈墙）
	MapHeight int // 地图高（含外圈墙）

	WinningScore        int // 先达到该分数者获胜
	DifficultyThreshold int // 每多少累计金币分提升一级难度
	GameDuration        int // 单局时长（秒）

	RedisAddr     string // 为空表示不启用持久化协作方
	RedisPassword string
}

// LoadConfig 从环境变量读取配置，未设置的项取内置缺省值
func LoadConfig() Config {
	return Config{
		Addr:                getEnv("ADDR", ":3001"),
		LogFile:             getEnv("LOG_FILE", "app.log"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		MapWidth:            getEnvInt("MAP_WIDTH", 20),
		MapHeight:           getEnvInt("MAP_HEIGHT", 15),
		WinningScore:        getEnvInt("WINNING_SCORE", 500),
		DifficultyThreshold: getEnvInt("DIFFICULTY_THRESHOLD", 200),
		GameDuration:        getEnvInt("GAME_DURATION", 60),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

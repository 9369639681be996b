package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"goldgrab/server"
)

// goldgrab 入口：加载 .env，初始化日志与可选的 Redis 协作方，
// 启动 HTTP + WebSocket 服务与世界推进循环
func main() {
	// .env 不存在不算错误，环境变量可来自部署端
	_ = godotenv.Load()

	cfg := server.LoadConfig()
	var addr string
	flag.StringVar(&addr, "addr", cfg.Addr, "server listen address, e.g. :3001")
	flag.Parse()
	cfg.Addr = addr

	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	// Redis 不可达时降级运行：昵称/战绩接口不可用，对局不受影响
	var store server.GameStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			server.Log.Warnf("redis unreachable, running without persistence: %v", err)
		} else {
			store = server.NewRedisStore(rdb)
			server.Log.Infof("connected to redis at %s", cfg.RedisAddr)
		}
		cancel()
	}

	registry := server.NewRegistry()
	hub := server.NewHub(cfg, registry, store, &server.Metrics{})
	ws := server.NewWSServer(hub)
	hub.SetBroadcaster(ws)
	api := server.NewAPI(store)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.HandleWS)
	// 前后端分离：将 / 映射到 web 目录的静态资源
	mux.Handle("/", http.FileServer(http.Dir("web")))
	mux.HandleFunc("/health", api.HandleHealth)
	mux.HandleFunc("/api/check-name", api.HandleCheckName)
	mux.HandleFunc("/api/register-name", api.HandleRegisterName)
	// 管理与监控接口
	mux.HandleFunc("/admin/config", hub.HandleAdminConfig)
	mux.HandleFunc("/metrics", hub.HandleMetrics)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	// 优雅退出（Ctrl+C）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(ctx)
	})
	g.Go(func() error {
		server.Log.Infof("goldgrab listening on %s (winning score %d)", cfg.Addr, cfg.WinningScore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		server.Log.Fatalf("server error: %v", err)
	}
	server.Log.Info("shutting down...")
}

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mazerunner/server"
)

// Maze Runner 入口：读取环境变量配置，启动 HTTP + WebSocket 服务
// 每个 WebSocket 连接对应一局独立的迷宫会话
func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		panic(err)
	}
	// 命令行参数优先于环境变量
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "server listen address, e.g. :8080")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file path, empty for stderr")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "renderer static assets directory, empty to disable")
	flag.Parse()

	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	mgr, err := server.NewSessionManager(cfg)
	if err != nil {
		server.Log.Fatalf("session manager: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(mgr, cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		server.Log.Infof("Maze Runner listening on %s (tick rate %d, maze %dx%d, codec %s)",
			cfg.Addr, cfg.TickRate, cfg.Game.Width, cfg.Game.Height, cfg.Codec)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnf("shutdown: %v", err)
	}
	mgr.Shutdown()
}

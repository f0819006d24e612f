package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/handler"
	"github.com/user/movieapi/internal/repository"
	"github.com/user/movieapi/internal/router"
	"github.com/user/movieapi/internal/service"
)

func main() {
	// 加载配置（包含 .env）
	cfg := config.Load()

	// 打开存储
	store, err := repository.Open(cfg)
	if err != nil {
		log.Fatalf("存储初始化失败: %v", err)
	}
	defer store.Close()
	log.Printf("[Store] 使用 %s 存储", cfg.StoreDriver)

	// 初始化服务
	movies := service.NewMovieService(store, service.ParseIDStrategy(cfg.IDStrategy))
	pdf := service.NewPDFRenderer(cfg.PDFCacheSize, cfg.PDFCacheTTL)

	// 启动定时清理任务
	cleanupSvc := service.NewCleanupService(pdf, cfg.CleanupInterval)
	cleanupSvc.Start()
	defer cleanupSvc.Stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.AppSecret == "" {
		log.Println("未设置 APP_SECRET，写操作不做鉴权")
	}

	// 初始化 Handler 和路由
	h := handler.NewHandler(movies, pdf, cfg)
	r := router.New(h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("服务器强制关闭: %v", err)
	}

	log.Println("服务器已退出")
}

package service

import (
	"log"
	"sync"
	"time"
)

// Purger 可定期清理的缓存
type Purger interface {
	PurgeExpired() int
}

// CleanupService 清理服务
type CleanupService struct {
	target   Purger
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewCleanupService 创建清理服务
func NewCleanupService(target Purger, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CleanupService{
		target:   target,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()

		// 启动时先运行一次
		s.runCleanup()

		for {
			select {
			case <-ticker.C:
				s.runCleanup()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop 停止定时任务，可重复调用
func (s *CleanupService) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *CleanupService) runCleanup() {
	if n := s.target.PurgeExpired(); n > 0 {
		log.Printf("[CleanupService] 已清理 %d 个过期 PDF 缓存", n)
	}
}

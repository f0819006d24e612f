package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/model"
)

// ErrCorrupt 存储内容无法解析为电影集合
var ErrCorrupt = errors.New("movie store is corrupt")

// MovieStore 电影集合存储
// 每次读取返回完整集合，每次写入整体覆盖
type MovieStore interface {
	Load(ctx context.Context) ([]model.Movie, error)
	Save(ctx context.Context, movies []model.Movie) error
	Close() error
}

// Open 根据配置打开存储
func Open(cfg *config.Config) (MovieStore, error) {
	switch cfg.StoreDriver {
	case "", "json":
		return NewJSONFileStore(cfg.DataFile)
	case "bolt":
		return NewBoltStore(cfg.BoltPath)
	case "postgres":
		return NewPostgresStore(cfg.DatabaseURL)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

// cloneMovies 复制切片，避免调用方与存储共享底层数组
func cloneMovies(movies []model.Movie) []model.Movie {
	out := make([]model.Movie, len(movies))
	copy(out, movies)
	return out
}

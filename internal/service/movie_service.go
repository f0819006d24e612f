package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/user/movieapi/internal/model"
	"github.com/user/movieapi/internal/repository"
)

// ErrNotFound 集合中没有该 ID 的电影
var ErrNotFound = errors.New("movie not found")

// IDStrategy 新记录的 ID 分配方式
type IDStrategy string

const (
	// IDMaxPlusOne 现有最大 ID + 1，删除后也不会冲突
	IDMaxPlusOne IDStrategy = "max"
	// IDLengthPlusOne 集合长度 + 1，删除后可能与已有 ID 冲突
	IDLengthPlusOne IDStrategy = "length"
)

// ParseIDStrategy 解析配置值，未知值回退到 max
func ParseIDStrategy(s string) IDStrategy {
	if IDStrategy(s) == IDLengthPlusOne {
		return IDLengthPlusOne
	}
	return IDMaxPlusOne
}

// MovieService 电影集合的读-改-写流程
// 写操作在整个 Load → 修改 → Save 期间持有写锁，同一进程内不会丢失更新
type MovieService struct {
	store    repository.MovieStore
	strategy IDStrategy
	mu       sync.RWMutex
}

// NewMovieService 创建电影服务
func NewMovieService(store repository.MovieStore, strategy IDStrategy) *MovieService {
	return &MovieService{store: store, strategy: strategy}
}

// List 返回完整集合（空集合返回空切片而不是 nil）
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return movies, nil
}

// Get 线性查找第一条 ID 匹配的记录
func (s *MovieService) Get(ctx context.Context, id int) (*model.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(movies, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	m := movies[idx]
	return &m, nil
}

// Create 分配 ID 并追加到集合末尾
func (s *MovieService) Create(ctx context.Context, in *model.MovieInput) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	m := in.ToMovie()
	m.ID = s.nextID(movies)
	movies = append(movies, m)

	if err := s.store.Save(ctx, movies); err != nil {
		return nil, fmt.Errorf("save after create: %w", err)
	}

	log.Printf("[Movies] 新增电影 id=%d title=%q", m.ID, m.Title)
	return &m, nil
}

// Update 将请求体浅合并到已有记录并原位替换，ID 不变
func (s *MovieService) Update(ctx context.Context, id int, in *model.MovieInput) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(movies, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	m := movies[idx]
	in.ApplyTo(&m)
	movies[idx] = m

	if err := s.store.Save(ctx, movies); err != nil {
		return nil, fmt.Errorf("save after update: %w", err)
	}

	log.Printf("[Movies] 更新电影 id=%d", id)
	return &m, nil
}

// Delete 删除第一条 ID 匹配的记录并返回它
func (s *MovieService) Delete(ctx context.Context, id int) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(movies, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	m := movies[idx]
	movies = append(movies[:idx], movies[idx+1:]...)

	if err := s.store.Save(ctx, movies); err != nil {
		return nil, fmt.Errorf("save after delete: %w", err)
	}

	log.Printf("[Movies] 删除电影 id=%d", id)
	return &m, nil
}

func (s *MovieService) nextID(movies []model.Movie) int {
	if s.strategy == IDLengthPlusOne {
		return len(movies) + 1
	}
	maxID := 0
	for _, m := range movies {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	return maxID + 1
}

func indexOf(movies []model.Movie, id int) int {
	for i := range movies {
		if movies[i].ID == id {
			return i
		}
	}
	return -1
}

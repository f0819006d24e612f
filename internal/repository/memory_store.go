package repository

import (
	"context"
	"sync"

	"github.com/user/movieapi/internal/model"
)

// MemoryStore 内存存储，主要用于测试
type MemoryStore struct {
	mu     sync.Mutex
	movies []model.Movie
	saves  int
}

// NewMemoryStore 创建内存存储，可传入初始数据
func NewMemoryStore(seed ...model.Movie) *MemoryStore {
	return &MemoryStore{movies: cloneMovies(seed)}
}

func (s *MemoryStore) Load(_ context.Context) ([]model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovies(s.movies), nil
}

func (s *MemoryStore) Save(_ context.Context, movies []model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = cloneMovies(movies)
	s.saves++
	return nil
}

// Saves 返回 Save 被调用的次数
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error {
	return nil
}

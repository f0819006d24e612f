package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/user/movieapi/internal/model"
)

const (
	boltBucket = "movies"
	boltKey    = "collection"
)

// BoltStore BoltDB 存储，整个集合作为一个 JSON 值保存
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore 打开（或创建）数据库文件，并确保 bucket 和集合存在
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		if err != nil {
			return err
		}
		if b.Get([]byte(boltKey)) == nil {
			return b.Put([]byte(boltKey), []byte("[]"))
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bolt bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Load 读取集合
func (s *BoltStore) Load(_ context.Context) ([]model.Movie, error) {
	var movies []model.Movie

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		v := b.Get([]byte(boltKey))
		if v == nil {
			return fmt.Errorf("%w: missing %s/%s", ErrCorrupt, boltBucket, boltKey)
		}
		if err := json.Unmarshal(v, &movies); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// Save 在一个事务内整体替换集合
func (s *BoltStore) Save(_ context.Context, movies []model.Movie) error {
	if movies == nil {
		movies = []model.Movie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("encode movies: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(boltKey), data)
	})
}

// Close 释放数据库文件锁
func (s *BoltStore) Close() error {
	return s.db.Close()
}

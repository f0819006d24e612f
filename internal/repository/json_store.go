package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/user/movieapi/internal/model"
)

// JSONFileStore 单个 JSON 文件存储，文件内容为电影数组
type JSONFileStore struct {
	path string
}

// NewJSONFileStore 创建文件存储，文件不存在时写入空数组
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{path: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Store] %s 不存在，创建空集合", path)
		if err := s.Save(context.Background(), nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return s, nil
}

// Path 返回数据文件路径
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load 读取整个文件
func (s *JSONFileStore) Load(_ context.Context) ([]model.Movie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var movies []model.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return movies, nil
}

// Save 整体覆盖文件
// 先写临时文件再 rename，读取方不会看到写了一半的内容
func (s *JSONFileStore) Save(_ context.Context, movies []model.Movie) error {
	if movies == nil {
		movies = []model.Movie{}
	}

	data, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("encode movies: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Close 文件存储无需释放资源
func (s *JSONFileStore) Close() error {
	return nil
}

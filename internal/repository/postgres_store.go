package repository

import (
	"context"
	"fmt"

	"github.com/user/movieapi/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// movieRow movies 表的一行，按集合中的位置作为主键
// 旧的 length+1 方案可能产生重复 ID，因此 movie_id 不做唯一约束
type movieRow struct {
	Position        int     `gorm:"primaryKey;autoIncrement:false"`
	MovieID         int     `gorm:"column:movie_id;index"`
	Title           string  `gorm:"size:255"`
	Director        string  `gorm:"size:255"`
	ReleaseYear     int     `gorm:"column:release_year"`
	Genre           string  `gorm:"size:50"`
	Rating          float64 `gorm:"column:rating"`
	DurationMinutes int     `gorm:"column:duration_minutes"`
	Language        string  `gorm:"size:50"`
}

func (movieRow) TableName() string { return "movies" }

// PostgresStore Postgres 存储
type PostgresStore struct {
	db *gorm.DB
}

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// NewPostgresStore 连接数据库并迁移 movies 表
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := InitDB(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&movieRow{}); err != nil {
		return nil, fmt.Errorf("migrate movies: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Load 按位置顺序读取全部记录
func (s *PostgresStore) Load(ctx context.Context) ([]model.Movie, error) {
	var rows []movieRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}

	movies := make([]model.Movie, len(rows))
	for i, r := range rows {
		movies[i] = model.Movie{
			ID:              r.MovieID,
			Title:           r.Title,
			Director:        r.Director,
			ReleaseYear:     r.ReleaseYear,
			Genre:           r.Genre,
			Rating:          r.Rating,
			DurationMinutes: r.DurationMinutes,
			Language:        r.Language,
		}
	}
	return movies, nil
}

// Save 在一个事务内清空并重新写入整个集合
func (s *PostgresStore) Save(ctx context.Context, movies []model.Movie) error {
	rows := make([]movieRow, len(movies))
	for i, m := range movies {
		rows[i] = movieRow{
			Position:        i + 1,
			MovieID:         m.ID,
			Title:           m.Title,
			Director:        m.Director,
			ReleaseYear:     m.ReleaseYear,
			Genre:           m.Genre,
			Rating:          m.Rating,
			DurationMinutes: m.DurationMinutes,
			Language:        m.Language,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&movieRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Close 关闭连接池
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package model

// Movie 电影记录（集合中的一条）
type Movie struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Director        string  `json:"director"`
	ReleaseYear     int     `json:"release_year"`
	Genre           string  `json:"genre"`
	Rating          float64 `json:"rating"`
	DurationMinutes int     `json:"duration_minutes"`
	Language        string  `json:"language"`
}

// MovieInput 创建/更新请求体
// 字段使用指针，区分"未提供"和"零值"（rating 为 0 是合法的）
type MovieInput struct {
	ID              *int     `json:"id" binding:"-"` // 忽略，ID 由服务端分配
	Title           *string  `json:"title" binding:"required,min=1,max=255"`
	Director        *string  `json:"director" binding:"required,min=3,max=255"`
	ReleaseYear     *int     `json:"release_year" binding:"required,min=1888,notfuture"`
	Genre           *string  `json:"genre" binding:"required,min=3,max=50"`
	Rating          *float64 `json:"rating" binding:"required,min=0,max=10"`
	DurationMinutes *int     `json:"duration_minutes" binding:"required,min=1"`
	Language        *string  `json:"language" binding:"required,min=2,max=50"`
}

// ApplyTo 将请求体浅合并到已有记录上，ID 保持不变
func (in *MovieInput) ApplyTo(m *Movie) {
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Director != nil {
		m.Director = *in.Director
	}
	if in.ReleaseYear != nil {
		m.ReleaseYear = *in.ReleaseYear
	}
	if in.Genre != nil {
		m.Genre = *in.Genre
	}
	if in.Rating != nil {
		m.Rating = *in.Rating
	}
	if in.DurationMinutes != nil {
		m.DurationMinutes = *in.DurationMinutes
	}
	if in.Language != nil {
		m.Language = *in.Language
	}
}

// ToMovie 用请求体构造一条新记录（ID 未分配）
func (in *MovieInput) ToMovie() Movie {
	var m Movie
	in.ApplyTo(&m)
	return m
}

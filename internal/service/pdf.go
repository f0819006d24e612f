package service

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/user/movieapi/internal/model"
	"github.com/user/movieapi/internal/utils"
	"golang.org/x/sync/singleflight"
)

// PDFRenderer 把一条电影记录渲染成 PDF
// 结果按记录内容的哈希缓存，记录被修改后自然不会命中旧文档
type PDFRenderer struct {
	cache *utils.TTLCache[[]byte]
	group singleflight.Group
}

// NewPDFRenderer 创建渲染器，cacheSize 为缓存文档数量
func NewPDFRenderer(cacheSize int, ttl time.Duration) *PDFRenderer {
	return &PDFRenderer{
		cache: utils.NewTTLCache[[]byte](cacheSize, ttl),
	}
}

// MovieLines 按字段顺序生成带标签的文本行
func MovieLines(m *model.Movie) []string {
	return []string{
		"Movie ID: " + strconv.Itoa(m.ID),
		"Title: " + m.Title,
		"Director: " + m.Director,
		"Release year: " + strconv.Itoa(m.ReleaseYear),
		"Genre: " + m.Genre,
		"Rating: " + strconv.FormatFloat(m.Rating, 'f', -1, 64),
		"Duration (minutes): " + strconv.Itoa(m.DurationMinutes),
		"Language: " + m.Language,
	}
}

// Render 返回 PDF 内容
func (r *PDFRenderer) Render(m *model.Movie) ([]byte, error) {
	key, err := utils.ContentKey(m)
	if err != nil {
		return nil, err
	}

	if doc, ok := r.cache.Get(key); ok {
		return doc, nil
	}

	// 使用 singleflight 避免同一内容被并发重复渲染
	val, err, _ := r.group.Do(key, func() (interface{}, error) {
		if doc, ok := r.cache.Get(key); ok {
			return doc, nil
		}
		doc, err := renderMovie(m)
		if err != nil {
			return nil, err
		}
		r.cache.Set(key, doc)
		return doc, nil
	})
	if err != nil {
		log.Printf("[PDF] 渲染失败 (id=%d): %v", m.ID, err)
		return nil, err
	}
	return val.([]byte), nil
}

// PurgeExpired 清理过期文档
func (r *PDFRenderer) PurgeExpired() int {
	return r.cache.PurgeExpired()
}

func renderMovie(m *model.Movie) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle(fmt.Sprintf("movie_%d", m.ID), true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	// 核心字体只支持 cp1252，需要转换 UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range MovieLines(m) {
		pdf.Cell(0, 8, tr(line))
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/handler"
	"github.com/user/movieapi/internal/middleware"
	"github.com/user/movieapi/internal/utils"
	"github.com/user/movieapi/internal/validation"
)

// New 创建 gin 引擎，挂载中间件和路由
func New(h *handler.Handler) *gin.Engine {
	// 请求体校验使用自定义规则并拒绝未知字段
	validation.Install()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(h.Config.RateLimitRPS, h.Config.RateLimitBurst))

	// PDF 作为附件下载，不走 gzip
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`^/movies/[^/]+/pdf$`})))

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "")
	})

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireToken := middleware.RequireToken(h.Config.AppSecret)

	movies := r.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.POST("", requireToken, h.CreateMovie)
		movies.GET("/:id", h.GetMovie)
		movies.PUT("/:id", requireToken, h.UpdateMovie)
		movies.DELETE("/:id", requireToken, h.DeleteMovie)
		movies.GET("/:id/pdf", h.ExportMoviePDF)
	}
}

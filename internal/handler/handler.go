package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/middleware"
	"github.com/user/movieapi/internal/service"
	"github.com/user/movieapi/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Movies *service.MovieService
	PDF    *service.PDFRenderer
	Config *config.Config
}

// NewHandler 创建处理器
func NewHandler(movies *service.MovieService, pdf *service.PDFRenderer, cfg *config.Config) *Handler {
	return &Handler{
		Movies: movies,
		PDF:    pdf,
		Config: cfg,
	}
}

// parseID 解析路径中的 ID，无法解析时返回 false（按未找到处理）
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// respondError 将服务层错误映射为 HTTP 响应
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		utils.NotFound(c, err.Error())
		return
	}
	log.Printf("[Movies] %s %s 失败 (request_id=%s): %v",
		c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c), err)
	utils.InternalServerError(c, "")
}

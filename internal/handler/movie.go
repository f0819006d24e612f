package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/model"
	"github.com/user/movieapi/internal/service"
	"github.com/user/movieapi/internal/utils"
	"github.com/user/movieapi/internal/validation"
)

// ListMovies GET /movies
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.Movies.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, movies)
}

// CreateMovie POST /movies
func (h *Handler) CreateMovie(c *gin.Context) {
	var in model.MovieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, validation.Translate(err).Message)
		return
	}

	movie, err := h.Movies.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, movie)
}

// GetMovie GET /movies/:id
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrNotFound)
		return
	}

	movie, err := h.Movies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// UpdateMovie PUT /movies/:id
// 先校验请求体，再检查记录是否存在
func (h *Handler) UpdateMovie(c *gin.Context) {
	var in model.MovieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, validation.Translate(err).Message)
		return
	}

	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrNotFound)
		return
	}

	movie, err := h.Movies.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// DeleteMovie DELETE /movies/:id
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrNotFound)
		return
	}

	movie, err := h.Movies.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// ExportMoviePDF GET /movies/:id/pdf
func (h *Handler) ExportMoviePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, service.ErrNotFound)
		return
	}

	movie, err := h.Movies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := h.PDF.Render(movie)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=movie_%d.pdf", movie.ID))
	c.Data(http.StatusOK, "application/pdf", doc)
}

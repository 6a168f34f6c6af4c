package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jaennil/guide_helper/tilemap/internal/usecase"
	"github.com/jaennil/guide_helper/tilemap/pkg/config"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

const (
	internalServerErrorText = "the server encountered an error and could not process your request"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Handler struct {
	validate         *validator.Validate
	tileCacheUseCase *usecase.TileCacheUseCase
	renderUseCase    *usecase.RenderUseCase
	renderCfg        config.Render
	timeout          time.Duration
}

func NewHandler(
	v *validator.Validate,
	tiles *usecase.TileCacheUseCase,
	renders *usecase.RenderUseCase,
	renderCfg config.Render,
	timeout time.Duration,
) *Handler {
	return &Handler{
		validate:         v,
		tileCacheUseCase: tiles,
		renderUseCase:    renders,
		renderCfg:        renderCfg,
		timeout:          timeout,
	}
}

func (h *Handler) RespondWithInternalServerError(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusInternalServerError, internalServerErrorText, nil)
}

func (h *Handler) RespondWithJSON(c *gin.Context, code int, message string, data any) {
	success := code < 400

	r := response{
		Success: success,
		Message: message,
		Data:    data,
	}

	c.JSON(code, r)
}

func loggerFrom(c *gin.Context) logger.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(logger.Logger); ok {
			return l
		}
	}
	return logger.NewNop()
}

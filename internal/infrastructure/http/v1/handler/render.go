package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaennil/guide_helper/tilemap/internal/infrastructure/http/v1/dto"
	"github.com/jaennil/guide_helper/tilemap/internal/usecase"
)

func (h *Handler) Render(c *gin.Context) {
	l := loggerFrom(c)

	var req dto.RenderRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn("invalid render parameters", "query", c.Request.URL.RawQuery, "error", err)
		h.RespondWithJSON(c, http.StatusBadRequest, "z, x, y, w and h should be integers", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Width > h.renderCfg.MaxWidth || req.Height > h.renderCfg.MaxHeight {
		h.RespondWithJSON(c, http.StatusBadRequest,
			fmt.Sprintf("size is limited to %dx%d", h.renderCfg.MaxWidth, h.renderCfg.MaxHeight), nil)
		return
	}
	if req.Server == "" {
		req.Server = h.renderCfg.DefaultServer
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	data, err := h.renderUseCase.Render(ctx, usecase.RenderRequest{
		Server: req.Server,
		Z:      req.Z,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		l.Error("failed to render", "error", err)
		h.respondWithTileError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

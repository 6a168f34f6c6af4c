package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaennil/guide_helper/tilemap/internal/infrastructure/http/v1/dto"
)

func (h *Handler) Servers(c *gin.Context) {
	servers := h.tileCacheUseCase.Servers()

	resp := make([]dto.ServerResponse, 0, len(servers))
	for _, s := range servers {
		resp = append(resp, dto.ServerResponse{
			Name:        s.Name,
			MinZoom:     s.MinZoom,
			MaxZoom:     s.MaxZoom,
			Format:      s.Ext,
			Attribution: s.Attribution,
		})
	}

	h.RespondWithJSON(c, http.StatusOK, "servers", resp)
}

func (h *Handler) Tile(c *gin.Context) {
	l := loggerFrom(c)

	var req dto.TileRequest
	if err := c.ShouldBindUri(&req); err != nil {
		l.Warn("invalid tile parameters", "params", c.Params, "error", err)
		h.RespondWithJSON(c, http.StatusBadRequest, "z, x and y should be integers", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		l.Warn("invalid tile request", "error", err)
		h.RespondWithJSON(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	data, contentType, err := h.tileCacheUseCase.GetTile(ctx, req.Server, req.Z, req.X, req.Y)
	if err != nil {
		l.Error("failed to get tile", "server", req.Server, "z", req.Z, "x", req.X, "y", req.Y, "error", err)
		h.respondWithTileError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) EvictTile(c *gin.Context) {
	l := loggerFrom(c)

	var req dto.TileRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "z, x and y should be integers", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	evicted, err := h.tileCacheUseCase.Evict(req.Server, req.Z, req.X, req.Y)
	if err != nil {
		h.respondWithTileError(c, err)
		return
	}
	l.Info("tile evicted", "server", req.Server, "z", req.Z, "x", req.X, "y", req.Y, "evicted", evicted)

	h.RespondWithJSON(c, http.StatusOK, "evict", dto.EvictResponse{Evicted: evicted})
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaennil/guide_helper/tilemap/internal/tile"
	"github.com/jaennil/guide_helper/tilemap/internal/tilecache"
	"github.com/jaennil/guide_helper/tilemap/internal/usecase"
)

// respondWithTileError maps tile lookup failures to status codes. A timeout is distinct
// from a failed fetch: the tile may still arrive for a later request.
func (h *Handler) respondWithTileError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, usecase.ErrNoTile), errors.Is(err, tile.ErrUnknownServer):
		h.RespondWithJSON(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, tilecache.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		h.RespondWithJSON(c, http.StatusGatewayTimeout, "timed out waiting for tile", nil)
	case errors.Is(err, tilecache.ErrClosed):
		h.RespondWithJSON(c, http.StatusServiceUnavailable, "shutting down", nil)
	default:
		h.RespondWithJSON(c, http.StatusBadGateway, "failed to get tile", nil)
	}
}

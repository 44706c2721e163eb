package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuspress/newsroom/internal/pkg/cache"
)

// AdminHandler serves moderation-only diagnostics.
type AdminHandler struct {
	cacheStats func() cache.Stats
}

func NewAdminHandler(cacheStats func() cache.Stats) *AdminHandler {
	return &AdminHandler{cacheStats: cacheStats}
}

// CacheStats reports the user lookup cache.
//
// @Summary      User cache statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  cacheStatsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/cache [get]
func (h *AdminHandler) CacheStats(c echo.Context) error {
	s := h.cacheStats()
	return c.JSON(http.StatusOK, cacheStatsResponse{
		Size:      s.Size,
		MaxSize:   s.MaxSize,
		Keys:      s.Keys,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
	})
}

package config

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the public configuration projection
type Handler struct {
	public Public
}

// NewHandler creates a config handler. The projection is computed once here;
// it never varies per request.
func NewHandler(cfg *Config) *Handler {
	return &Handler{public: cfg.Public()}
}

// Get returns the public configuration
// @Summary Public configuration
// @Description Get the non-secret configuration flags for clients
// @Tags config
// @Produce json
// @Success 200 {object} Public
// @Router /config [get]
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.public)
}

// RegisterRoutes registers config routes. The frontend's fetch helper posts
// to this endpoint as well, so both verbs are accepted.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/config", h.Get)
	rg.POST("/config", h.Get)
}

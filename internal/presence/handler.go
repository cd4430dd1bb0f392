package presence

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler exposes presence over HTTP. World servers report users coming and
// going through the write routes; anyone may read.
type Handler struct {
	tracker *Tracker
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/user/online/:uuid", h.get)
	r.POST("/user/online/:uuid", h.set)
	r.DELETE("/user/online/:uuid", h.unset)
}

func (h *Handler) get(c *gin.Context) {
	online, err := h.tracker.IsOnline(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		log.Error().Err(err).Msg("presence lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presence lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": online})
}

func (h *Handler) set(c *gin.Context) {
	if !h.tracker.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "presence tracking is not available"})
		return
	}
	if err := h.tracker.SetOnline(c.Request.Context(), c.Param("uuid")); err != nil {
		log.Error().Err(err).Msg("presence write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presence write failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": true})
}

func (h *Handler) unset(c *gin.Context) {
	if !h.tracker.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "presence tracking is not available"})
		return
	}
	if err := h.tracker.SetOffline(c.Request.Context(), c.Param("uuid")); err != nil {
		log.Error().Err(err).Msg("presence write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presence write failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": false})
}

// Package maps lets authenticated users register a self-hosted world map.
// It consumes the auth token purely through the codec's verify: no identity
// provider is ever re-contacted.
package maps

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ItsFelix5/flavor-adventure/internal/token"
)

// schemePrefix strips an optional http(s) scheme; registrations are stored
// host-rooted.
var schemePrefix = regexp.MustCompile(`^https?://`)

type Handler struct {
	tokens *token.Manager
	store  Store
}

func NewHandler(tokens *token.Manager, store Store) *Handler {
	return &Handler{tokens: tokens, store: store}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/map/register", h.register)
	r.GET("/map/registry/:subject", h.lookup)
}

type registerRequest struct {
	MapURL    string `json:"mapUrl" binding:"required"`
	AuthToken string `json:"authToken" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "map registry is not available"})
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	claims, err := h.tokens.Verify(req.AuthToken, false)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
		return
	}
	if claims.ProviderSubject == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "a provider-linked login is required to register a map"})
		return
	}

	mapURL := strings.TrimSpace(schemePrefix.ReplaceAllString(req.MapURL, ""))
	if err := validateMapURL(mapURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Upsert(c.Request.Context(), claims.ProviderSubject, mapURL); err != nil {
		log.Error().Err(err).Str("subject", claims.ProviderSubject).Msg("map registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register map"})
		return
	}

	log.Info().
		Str("subject", claims.ProviderSubject).
		Str("map_url", mapURL).
		Msg("map registered, pending approval")

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"mapUrl":          mapURL,
		"pendingApproval": true,
	})
}

func (h *Handler) lookup(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "map registry is not available"})
		return
	}

	reg, err := h.store.Get(c.Request.Context(), c.Param("subject"))
	if err != nil {
		log.Error().Err(err).Msg("map registry lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if reg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no map registered"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mapUrl":     reg.MapURL,
		"isApproved": reg.IsApproved,
	})
}

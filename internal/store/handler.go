package store

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"accesslens/internal/audit"
	"accesslens/internal/config"
	"accesslens/internal/httputil"

	"github.com/gin-gonic/gin"
)

// CreateHandler handles POST /api/audits: persist a normalized result and
// hand back a durable identifier.
func CreateHandler(s Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := httputil.ReadBody(c.Writer, c.Request, config.MaxBodyBytes)
		if err != nil {
			if errors.Is(err, httputil.ErrBodyTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": audit.KindPayloadTooLarge, "message": "Request body too large."})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": audit.KindInvalidRequest, "message": "Unable to read request body."})
			return
		}

		var payload struct {
			Input   audit.Request `json:"input"`
			Results audit.Result  `json:"results"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": audit.KindInvalidRequest, "message": "Request body must be a JSON object."})
			return
		}
		if strings.TrimSpace(payload.Input.Input) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": audit.KindInvalidRequest, "message": "input is required."})
			return
		}

		rec, err := s.Create(payload.Input, payload.Results)
		if err != nil {
			log.Printf("create audit: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": audit.KindServerError, "message": "Failed to persist audit."})
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

// GetHandler handles GET /api/audits/:id.
func GetHandler(s Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := s.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Audit not found."})
				return
			}
			log.Printf("get audit: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": audit.KindServerError, "message": "Failed to load audit."})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

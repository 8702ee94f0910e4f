// Package handlers wires the shift lifecycle API onto gin.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentmarket/shiftpulse/pkg/auth"
	"github.com/talentmarket/shiftpulse/pkg/database"
	"github.com/talentmarket/shiftpulse/pkg/shift"
)

// Handler contains dependencies for the route handlers.
type Handler struct {
	DB      *gorm.DB
	Manager *shift.Manager
}

// Register mounts every route on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/auth/token", h.IssueToken)

	shifts := r.Group("/shifts")
	shifts.Use(h.AuthMiddleware())
	{
		shifts.GET("/:id", h.GetShift)
		shifts.POST("/:id/claim", h.ClaimShift)
		shifts.POST("/:id/cancel", h.CancelShift)
	}
}

// AuthMiddleware verifies the worker bearer token.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("workerID", claims.WorkerID)
		c.Next()
	}
}

type tokenRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IssueToken exchanges worker credentials for a bearer token.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var worker database.Worker
	if err := h.DB.Where("name = ?", req.Name).First(&worker).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !auth.CheckPasswordHash(req.Password, worker.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(worker.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetShift returns one shift record.
func (h *Handler) GetShift(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	s, err := h.Manager.Get(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// ClaimShift assigns the authenticated worker to the shift.
func (h *Handler) ClaimShift(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}
	workerID := c.GetUint64("workerID")

	s, err := h.Manager.Claim(c.Request.Context(), id, workerID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// CancelShift releases a claimed shift.
func (h *Handler) CancelShift(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	s, err := h.Manager.Cancel(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

func shiftID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift id"})
		return 0, false
	}
	return id, true
}

// writeLifecycleError maps manager errors onto HTTP statuses: missing shifts
// are 404, rejected transitions are 409, everything else is a 500.
func writeLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shift.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
	case errors.Is(err, shift.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

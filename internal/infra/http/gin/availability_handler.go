package ginserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"vacanza/internal/app/dto"
	"vacanza/internal/app/engine"
	"vacanza/internal/domain/availability"
)

// EventPublisher receives availability events after successful toggles.
type EventPublisher interface {
	Publish(ctx context.Context, name, key string, payload any) error
}

type AvailabilityHandler struct {
	Engine    *engine.Engine
	Publisher EventPublisher
	Logger    *slog.Logger
}

// Calendar returns the blocks for one property, freshly loaded from the
// store of record so the calendar never renders from a stale cache.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	propertyID := c.Param("id")
	if _, err := h.Engine.Load(c.Request.Context(), propertyID); err != nil {
		respondEngineError(c, err)
		return
	}
	blocks := h.Engine.BlocksFor(propertyID)
	c.JSON(http.StatusOK, dto.MapCalendar(propertyID, blocks))
}

type toggleRequest struct {
	Date string `json:"date"`
}

// Toggle flips one day between available and blocked for the property's
// owner.
func (h AvailabilityHandler) Toggle(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	propertyID := c.Param("id")
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key, err := availability.ParseDateKey(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Past days are immutable; reject before the refresh so they never
	// generate remote traffic.
	if today, _ := availability.NewDateKey(time.Now()); key.Before(today) {
		respondEngineError(c, availability.ErrPastDateImmutable)
		return
	}
	// The engine cache holds whatever was loaded last, possibly another
	// property's calendar. Refresh for this property so the toggle flips
	// on current data instead of creating where it should delete.
	if _, err := h.Engine.Load(c.Request.Context(), propertyID); err != nil {
		respondEngineError(c, err)
		return
	}
	result, err := h.Engine.Toggle(c.Request.Context(), propertyID, key.Time())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	h.publish(c.Request.Context(), propertyID, result)
	c.JSON(http.StatusOK, gin.H{
		"blocked": result.Blocked,
		"block":   dto.MapBlock(result.Block),
	})
}

func (h AvailabilityHandler) publish(ctx context.Context, propertyID string, result engine.ToggleResult) {
	if h.Publisher == nil {
		return
	}
	now := time.Now().UTC()
	var name string
	var event any
	if result.Blocked {
		created := availability.BlockCreated{
			BlockID:    result.Block.ID,
			PropertyID: propertyID,
			Date:       result.Block.Date,
			Reason:     result.Block.Reason,
			At:         now,
		}
		name, event = created.Name(), created
	} else {
		removed := availability.BlockRemoved{
			BlockID:    result.Block.ID,
			PropertyID: propertyID,
			Date:       result.Block.Date,
			At:         now,
		}
		name, event = removed.Name(), removed
	}
	if err := h.Publisher.Publish(ctx, name, propertyID, event); err != nil && h.Logger != nil {
		h.Logger.Warn("event publish failed", "event", name, "error", err)
	}
}

func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidInput), errors.Is(err, availability.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrPastDateImmutable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrRemoteUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vacanza/internal/app/dto"
	"vacanza/internal/app/engine"
	"vacanza/internal/domain/availability"
	"vacanza/internal/domain/property"
)

type PropertyHandler struct {
	Engine     *engine.Engine
	Properties property.Store
}

// List returns all properties, optionally narrowed to one owner.
func (h PropertyHandler) List(c *gin.Context) {
	filter := property.Filter{OwnerEmail: c.Query("owner")}
	props, err := h.Properties.ListProperties(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.MapProperties(props)})
}

func (h PropertyHandler) Get(c *gin.Context) {
	p, err := h.Properties.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MapProperty(p))
}

// Search filters by location and guest count, then drops properties with
// a blocked day inside the requested stay.
func (h PropertyHandler) Search(c *gin.Context) {
	filter := property.Filter{Location: c.Query("location")}
	if raw := c.Query("guests"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guests value"})
			return
		}
		filter.MinCapacity = guests
	}
	props, err := h.Properties.ListProperties(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" && toRaw == "" {
		c.JSON(http.StatusOK, gin.H{"data": dto.MapProperties(props)})
		return
	}
	from, err := availability.ParseDateKey(fromRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := availability.ParseDateKey(toRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stay, err := availability.NewCandidateRange(from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.Engine.Load(c.Request.Context(), ""); err != nil {
		respondEngineError(c, err)
		return
	}
	available := h.Engine.FilterAvailable(props, stay)
	c.JSON(http.StatusOK, gin.H{"data": dto.MapProperties(available)})
}

type propertyRequest struct {
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	Capacity      int      `json:"capacity"`
	PricePerNight float64  `json:"price_per_night"`
	CoverImage    string   `json:"cover_image"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
}

// Create registers a new property owned by the caller.
func (h PropertyHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := property.New(property.CreateParams{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Location:      req.Location,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		CoverImageURL: req.CoverImage,
		GalleryURLs:   req.Images,
		Amenities:     req.Amenities,
		OwnerEmail:    principal.Email,
		Now:           time.Now(),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Properties.Save(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MapProperty(p))
}

// Update edits an existing property; owner or admin only.
func (h PropertyHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	existing, err := h.Properties.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !principal.IsAdmin() && !existing.OwnedBy(principal.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the property owner"})
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existing.Title = req.Title
	existing.Location = req.Location
	existing.Capacity = req.Capacity
	existing.PricePerNight = req.PricePerNight
	existing.CoverImageURL = req.CoverImage
	existing.GalleryURLs = req.Images
	existing.Amenities = req.Amenities
	existing.UpdatedAt = time.Now().UTC()
	if err := existing.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Properties.Save(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MapProperty(existing))
}

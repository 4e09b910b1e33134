package partnerships

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
	"gorm.io/gorm"
)

// Handler handles partnership-related requests. All routes are admin-only;
// partner institutions are managed by staff, not by group members.
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new partnerships handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreatePartnershipRequest represents the request to create a partnership
type CreatePartnershipRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Contact string `json:"contact" binding:"omitempty,email"`
	Notes   string `json:"notes"`
}

// UpdatePartnershipRequest represents the request to update a partnership
type UpdatePartnershipRequest struct {
	Name    string `json:"name" binding:"omitempty,min=1,max=100"`
	Contact string `json:"contact" binding:"omitempty,email"`
	Notes   string `json:"notes"`
}

// AttachGroupRequest represents the request to tie a group to a partnership
type AttachGroupRequest struct {
	GroupID uint `json:"group_id" binding:"required"`
}

// PartnershipResponse represents a partnership in API responses
type PartnershipResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
	Notes      string `json:"notes,omitempty"`
	GroupCount int    `json:"group_count"`
	CreatedAt  string `json:"created_at"`
}

func (h *Handler) partnershipResponse(p models.Partnership) PartnershipResponse {
	var groupCount int64
	h.db.Model(&models.Group{}).Where("partnership_id = ?", p.ID).Count(&groupCount)

	return PartnershipResponse{
		ID:         p.ID,
		Name:       p.Name,
		Contact:    p.Contact,
		Notes:      p.Notes,
		GroupCount: int(groupCount),
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns all partnerships
// @Summary List partnerships
// @Description Get all partner institutions
// @Tags partnerships
// @Produce json
// @Success 200 {array} PartnershipResponse
// @Security BearerAuth
// @Router /admin/partnerships [get]
func (h *Handler) List(c *gin.Context) {
	var partnerships []models.Partnership
	if err := h.db.Order("name").Find(&partnerships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partnerships"})
		return
	}

	responses := make([]PartnershipResponse, len(partnerships))
	for i, p := range partnerships {
		responses[i] = h.partnershipResponse(p)
	}

	c.JSON(http.StatusOK, responses)
}

// Create creates a new partnership
// @Summary Create a partnership
// @Description Register a new partner institution
// @Tags partnerships
// @Accept json
// @Produce json
// @Param request body CreatePartnershipRequest true "Partnership details"
// @Success 201 {object} PartnershipResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /admin/partnerships [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePartnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partnership := models.Partnership{
		Name:    req.Name,
		Contact: req.Contact,
		Notes:   req.Notes,
	}
	if err := h.db.Create(&partnership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create partnership"})
		return
	}

	c.JSON(http.StatusCreated, h.partnershipResponse(partnership))
}

// Get returns a specific partnership
// @Summary Get a partnership
// @Description Get details of a partner institution
// @Tags partnerships
// @Produce json
// @Param id path int true "Partnership ID"
// @Success 200 {object} PartnershipResponse
// @Failure 404 {object} map[string]string "Partnership not found"
// @Security BearerAuth
// @Router /admin/partnerships/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	partnershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partnership ID"})
		return
	}

	var partnership models.Partnership
	if err := h.db.First(&partnership, partnershipID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partnership not found"})
		return
	}

	c.JSON(http.StatusOK, h.partnershipResponse(partnership))
}

// Update updates a partnership
// @Summary Update a partnership
// @Description Update a partner institution's details
// @Tags partnerships
// @Accept json
// @Produce json
// @Param id path int true "Partnership ID"
// @Param request body UpdatePartnershipRequest true "Updated details"
// @Success 200 {object} PartnershipResponse
// @Failure 404 {object} map[string]string "Partnership not found"
// @Security BearerAuth
// @Router /admin/partnerships/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	partnershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partnership ID"})
		return
	}

	var partnership models.Partnership
	if err := h.db.First(&partnership, partnershipID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partnership not found"})
		return
	}

	var req UpdatePartnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		partnership.Name = req.Name
	}
	if req.Contact != "" {
		partnership.Contact = req.Contact
	}
	if req.Notes != "" {
		partnership.Notes = req.Notes
	}

	if err := h.db.Save(&partnership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update partnership"})
		return
	}

	c.JSON(http.StatusOK, h.partnershipResponse(partnership))
}

// Delete deletes a partnership and detaches its groups
// @Summary Delete a partnership
// @Description Delete a partner institution; attached groups are detached, not deleted
// @Tags partnerships
// @Produce json
// @Param id path int true "Partnership ID"
// @Success 200 {object} map[string]string "Partnership deleted"
// @Failure 404 {object} map[string]string "Partnership not found"
// @Security BearerAuth
// @Router /admin/partnerships/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	partnershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partnership ID"})
		return
	}

	var partnership models.Partnership
	if err := h.db.First(&partnership, partnershipID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partnership not found"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Group{}).Where("partnership_id = ?", partnership.ID).
			Update("partnership_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&partnership).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete partnership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Partnership deleted"})
}

// AttachGroup ties a group to a partnership
// @Summary Attach a group
// @Description Tie a group to a partner institution (one group per partnership)
// @Tags partnerships
// @Accept json
// @Produce json
// @Param id path int true "Partnership ID"
// @Param request body AttachGroupRequest true "Group to attach"
// @Success 200 {object} map[string]string "Group attached"
// @Failure 409 {object} map[string]string "Partnership already has a group"
// @Security BearerAuth
// @Router /admin/partnerships/{id}/groups [post]
func (h *Handler) AttachGroup(c *gin.Context) {
	partnershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partnership ID"})
		return
	}

	var partnership models.Partnership
	if err := h.db.First(&partnership, partnershipID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partnership not found"})
		return
	}

	var req AttachGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	if err := h.db.First(&group, req.GroupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var attached int64
	h.db.Model(&models.Group{}).Where("partnership_id = ?", partnership.ID).Count(&attached)
	if attached > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Partnership already has a group"})
		return
	}

	group.PartnershipID = &partnership.ID
	if err := h.db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group attached"})
}

// RegisterRoutes registers partnership routes (admin only)
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partnerships", h.List)
	rg.POST("/partnerships", h.Create)
	rg.GET("/partnerships/:id", h.Get)
	rg.PUT("/partnerships/:id", h.Update)
	rg.DELETE("/partnerships/:id", h.Delete)
	rg.POST("/partnerships/:id/groups", h.AttachGroup)
}

package groups

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/auth"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
	"gorm.io/gorm"
)

// Handler handles group-related requests
type Handler struct {
	db       *gorm.DB
	meetings MeetingScheduler
}

// NewHandler creates a new groups handler. The scheduler may be nil when the
// meeting provider is not configured; scheduling endpoints then return 503.
func NewHandler(db *gorm.DB, meetings MeetingScheduler) *Handler {
	return &Handler{db: db, meetings: meetings}
}

var errUnknownPartnership = errors.New("partnership does not exist")

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name          string `json:"name"`
	PartnershipID *uint  `json:"partnership_id"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name string `json:"name"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	MeetingLink string `json:"meeting_link,omitempty"`
	Role        string `json:"role,omitempty"` // User's role in this group
	MemberCount int    `json:"member_count"`
}

func (h *Handler) groupResponse(group models.Group, role string) GroupResponse {
	var memberCount int64
	h.db.Model(&models.GroupUser{}).Where("group_id = ?", group.ID).Count(&memberCount)

	return GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		DisplayName: FormatGroupName(group.Name, int(memberCount)),
		MeetingLink: group.MeetingLink,
		Role:        role,
		MemberCount: int(memberCount),
	}
}

// List returns all groups the current user is a member of
// @Summary List groups
// @Description Get all groups the current user is a member of
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var memberships []models.GroupUser
	if err := h.db.Preload("Group").Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	groups := make([]GroupResponse, len(memberships))
	for i, m := range memberships {
		groups[i] = h.groupResponse(m.Group, string(m.Role))
	}

	c.JSON(http.StatusOK, groups)
}

// Create creates a new group and adds the creator as admin
// @Summary Create a group
// @Description Create a new group with the current user as admin
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Create group in a transaction
	var group models.Group
	err := h.db.Transaction(func(tx *gorm.DB) error {
		// SQLite does not enforce foreign keys here, so check the
		// partnership ourselves before attaching the group to it
		if req.PartnershipID != nil {
			var partnership models.Partnership
			if err := tx.First(&partnership, *req.PartnershipID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errUnknownPartnership
				}
				return err
			}
		}

		group = models.Group{
			Name:          req.Name,
			PartnershipID: req.PartnershipID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		// Add creator as admin
		membership := models.GroupUser{
			UserID:  userID,
			GroupID: group.ID,
			Role:    models.GroupRoleAdmin,
		}
		return tx.Create(&membership).Error
	})

	if errors.Is(err, errUnknownPartnership) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Partnership not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		DisplayName: FormatGroupName(group.Name, 1),
		Role:        string(models.GroupRoleAdmin),
		MemberCount: 1,
	})
}

// Get returns a specific group
// @Summary Get a group
// @Description Get details of a specific group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	membership, ok := h.membershipOf(c, groupID)
	if !ok {
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	c.JSON(http.StatusOK, h.groupResponse(group, string(membership.Role)))
}

// Update updates a group (admin only)
// @Summary Update a group
// @Description Update a group (requires admin role in group)
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body UpdateGroupRequest true "Updated group details"
// @Success 200 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Admin access required"
// @Security BearerAuth
// @Router /groups/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	if !h.requireGroupAdmin(c, groupID) {
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// An empty name clears the explicit name and falls back to the
	// synthesized label
	group.Name = req.Name

	if err := h.db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	c.JSON(http.StatusOK, h.groupResponse(group, string(models.GroupRoleAdmin)))
}

// Delete deletes a group (admin only)
// @Summary Delete a group
// @Description Delete a group and its memberships and transcripts (requires admin role in group)
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "Group deleted"
// @Failure 403 {object} map[string]string "Admin access required"
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	if !h.requireGroupAdmin(c, groupID) {
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// Memberships and transcripts cascade via the model's delete hook
	if err := h.db.Delete(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

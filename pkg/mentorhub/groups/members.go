package groups

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/auth"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

func memberResponse(m models.GroupUser) MemberResponse {
	return MemberResponse{
		ID:       m.User.ID,
		Email:    m.User.Email,
		Name:     m.User.Name,
		Role:     string(m.Role),
		JoinedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// AddMemberRequest represents a request to add a member
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin mentor member"`
}

// UpdateMemberRequest represents a request to change a member's role
type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=admin mentor member"`
}

// parseGroupID reads the :id route param.
func parseGroupID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return 0, false
	}
	return uint(id), true
}

// membershipOf returns the caller's membership in the group. Non-members get
// a 404, not a 403: they should not learn the group exists.
func (h *Handler) membershipOf(c *gin.Context, groupID uint) (*models.GroupUser, bool) {
	userID, _ := auth.GetUserID(c)

	var membership models.GroupUser
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return nil, false
	}
	return &membership, true
}

// requireGroupAdmin replies 403 unless the caller administers the group.
func (h *Handler) requireGroupAdmin(c *gin.Context, groupID uint) bool {
	userID, _ := auth.GetUserID(c)

	err := h.db.Where("user_id = ? AND group_id = ? AND role = ?", userID, groupID, models.GroupRoleAdmin).
		First(&models.GroupUser{}).Error
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Group admin access required"})
		return false
	}
	return true
}

func (h *Handler) adminCount(groupID uint) int64 {
	var n int64
	h.db.Model(&models.GroupUser{}).Where("group_id = ? AND role = ?", groupID, models.GroupRoleAdmin).Count(&n)
	return n
}

var roleOrder = map[models.GroupRole]int{
	models.GroupRoleAdmin:  0,
	models.GroupRoleMentor: 1,
	models.GroupRoleMember: 2,
}

// ListMembers returns the group roster, admins first, then mentors, then
// members, each tier alphabetical by name
// @Summary List group members
// @Description Get the roster of a group the current user belongs to
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} MemberResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	if _, ok := h.membershipOf(c, groupID); !ok {
		return
	}

	var memberships []models.GroupUser
	if err := h.db.Preload("User").Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	sort.Slice(memberships, func(i, j int) bool {
		if roleOrder[memberships[i].Role] != roleOrder[memberships[j].Role] {
			return roleOrder[memberships[i].Role] < roleOrder[memberships[j].Role]
		}
		return memberships[i].User.Name < memberships[j].User.Name
	})

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = memberResponse(m)
	}

	c.JSON(http.StatusOK, members)
}

// AddMember adds a user to the group by email (group admin only)
// @Summary Add a group member
// @Description Add an existing user to the group as admin, mentor or member
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body AddMemberRequest true "Member details"
// @Success 201 {object} MemberResponse
// @Failure 403 {object} map[string]string "Group admin access required"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /groups/{id}/members [post]
func (h *Handler) AddMember(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	if !h.requireGroupAdmin(c, groupID) {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(req.Email)

	// Accounts are created by the login flow, never here
	var target models.User
	if err := h.db.Where("email = ?", email).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account with that email"})
		return
	}

	var existing int64
	h.db.Model(&models.GroupUser{}).Where("user_id = ? AND group_id = ?", target.ID, groupID).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already in the group"})
		return
	}

	membership := models.GroupUser{
		UserID:  target.ID,
		GroupID: groupID,
		Role:    models.GroupRole(req.Role),
	}
	if err := h.db.Create(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	membership.User = target
	c.JSON(http.StatusCreated, memberResponse(membership))
}

// UpdateMember changes a member's role (group admin only). Demoting the last
// admin is rejected: every group keeps at least one.
// @Summary Change a member's role
// @Description Change a group member's role between admin, mentor and member
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Param request body UpdateMemberRequest true "New role"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} map[string]string "Would leave the group without an admin"
// @Failure 403 {object} map[string]string "Group admin access required"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId} [put]
func (h *Handler) UpdateMember(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	memberID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if !h.requireGroupAdmin(c, groupID) {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership models.GroupUser
	if err := h.db.Preload("User").Where("user_id = ? AND group_id = ?", memberID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	newRole := models.GroupRole(req.Role)
	if membership.Role == models.GroupRoleAdmin && newRole != models.GroupRoleAdmin && h.adminCount(groupID) <= 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Groups must keep at least one admin"})
		return
	}

	membership.Role = newRole
	if err := h.db.Save(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, memberResponse(membership))
}

// RemoveMember removes a user from the group (group admin only). The last
// admin cannot be removed, by anyone.
// @Summary Remove a group member
// @Description Remove a user from the group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]string "Member removed"
// @Failure 400 {object} map[string]string "Would leave the group without an admin"
// @Failure 403 {object} map[string]string "Group admin access required"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	memberID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if !h.requireGroupAdmin(c, groupID) {
		return
	}

	var membership models.GroupUser
	if err := h.db.Where("user_id = ? AND group_id = ?", memberID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if membership.Role == models.GroupRoleAdmin && h.adminCount(groupID) <= 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Groups must keep at least one admin"})
		return
	}

	if err := h.db.Delete(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/:id/members", h.AddMember)
	rg.PUT("/:id/members/:userId", h.UpdateMember)
	rg.DELETE("/:id/members/:userId", h.RemoveMember)
}

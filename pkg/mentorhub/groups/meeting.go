package groups

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/meeting"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
)

// MeetingScheduler is the slice of the provider client the group handlers use.
type MeetingScheduler interface {
	CreateMeeting(ctx context.Context, subject string, start, end time.Time) (*meeting.Meeting, error)
	GetMeeting(ctx context.Context, meetingID string) (*meeting.Meeting, error)
}

// ScheduleMeetingRequest represents the request to schedule a group meeting
type ScheduleMeetingRequest struct {
	Subject   string `json:"subject" binding:"required"`
	StartTime int64  `json:"start_time" binding:"required"`
	EndTime   int64  `json:"end_time" binding:"required,gtfield=StartTime"`
}

// MeetingResponse represents a scheduled meeting in API responses
type MeetingResponse struct {
	MeetingID   string `json:"meeting_id"`
	MeetingCode string `json:"meeting_code"`
	Subject     string `json:"subject"`
	JoinURL     string `json:"join_url"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func meetingResponse(m *meeting.Meeting) MeetingResponse {
	return MeetingResponse{
		MeetingID:   m.MeetingID,
		MeetingCode: m.MeetingCode,
		Subject:     m.Subject,
		JoinURL:     m.JoinURL,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
	}
}

// ScheduleMeeting books a meeting with the provider and stores the join link
// on the group (admin only)
// @Summary Schedule a group meeting
// @Description Create a meeting on the cloud provider and attach its join link to the group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body ScheduleMeetingRequest true "Meeting details"
// @Success 201 {object} MeetingResponse
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 502 {object} map[string]string "Provider rejected the request"
// @Security BearerAuth
// @Router /groups/{id}/meeting [post]
func (h *Handler) ScheduleMeeting(c *gin.Context) {
	if h.meetings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Meeting provider not configured"})
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	if !h.requireGroupAdmin(c, groupID) {
		return
	}

	var req ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	m, err := h.meetings.CreateMeeting(c.Request.Context(), req.Subject,
		time.Unix(req.StartTime, 0), time.Unix(req.EndTime, 0))
	if err != nil {
		if errors.Is(err, meeting.ErrBadRequest) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Meeting provider rejected the request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule meeting"})
		return
	}

	group.MeetingID = m.MeetingID
	group.MeetingLink = m.JoinURL
	if err := h.db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save meeting link"})
		return
	}

	c.JSON(http.StatusCreated, meetingResponse(m))
}

// GetMeeting returns the group's scheduled meeting from the provider
// @Summary Get the group meeting
// @Description Fetch the group's scheduled meeting from the cloud provider
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} MeetingResponse
// @Failure 404 {object} map[string]string "No meeting scheduled"
// @Security BearerAuth
// @Router /groups/{id}/meeting [get]
func (h *Handler) GetMeeting(c *gin.Context) {
	if h.meetings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Meeting provider not configured"})
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	if _, ok := h.membershipOf(c, groupID); !ok {
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.MeetingID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No meeting scheduled"})
		return
	}

	m, err := h.meetings.GetMeeting(c.Request.Context(), group.MeetingID)
	if err != nil {
		if errors.Is(err, meeting.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting no longer exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meeting"})
		return
	}

	c.JSON(http.StatusOK, meetingResponse(m))
}

// RegisterMeetingRoutes registers meeting scheduling routes
func (h *Handler) RegisterMeetingRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/meeting", h.ScheduleMeeting)
	rg.GET("/:id/meeting", h.GetMeeting)
}

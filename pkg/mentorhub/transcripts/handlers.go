package transcripts

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/auth"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/meeting"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordSource is the slice of the provider client the sync flow uses.
type RecordSource interface {
	ListRecords(ctx context.Context) ([]meeting.MeetingRecord, error)
	GetRecordURLs(ctx context.Context, recordFileID string) (*meeting.RecordFileURLs, error)
}

// Handler handles transcript requests
type Handler struct {
	db      *gorm.DB
	records RecordSource
	log     *zap.Logger
}

// NewHandler creates a new transcripts handler
func NewHandler(db *gorm.DB, records RecordSource, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{db: db, records: records, log: log}
}

// TranscriptResponse represents a transcript in API responses
type TranscriptResponse struct {
	ID              uint   `json:"id"`
	GroupID         uint   `json:"group_id"`
	Subject         string `json:"subject"`
	StartedAt       string `json:"started_at"`
	DownloadURL     string `json:"download_url,omitempty"`
	SummaryURL      string `json:"summary_url,omitempty"`
	SummaryFileType string `json:"summary_file_type,omitempty"`
}

func transcriptResponse(tr models.Transcript) TranscriptResponse {
	return TranscriptResponse{
		ID:              tr.ID,
		GroupID:         tr.GroupID,
		Subject:         tr.Subject,
		StartedAt:       tr.StartedAt.Format(time.RFC3339),
		DownloadURL:     tr.DownloadURL,
		SummaryURL:      tr.SummaryURL,
		SummaryFileType: tr.SummaryFileType,
	}
}

// List returns a group's transcripts, newest first
// @Summary List transcripts
// @Description Get all transcripts for a group the current user belongs to
// @Tags transcripts
// @Produce json
// @Param group_id query int true "Group ID"
// @Success 200 {array} TranscriptResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /transcripts [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Query("group_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	// Check membership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.GroupUser{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var transcripts []models.Transcript
	if err := h.db.Where("group_id = ?", groupID).Order("started_at DESC").Find(&transcripts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transcripts"})
		return
	}

	responses := make([]TranscriptResponse, len(transcripts))
	for i, tr := range transcripts {
		responses[i] = transcriptResponse(tr)
	}

	c.JSON(http.StatusOK, responses)
}

// Sync pulls the provider's record window and upserts transcripts (admin only)
// @Summary Sync transcripts
// @Description Pull recent meeting records from the provider and store their transcripts
// @Tags transcripts
// @Produce json
// @Success 200 {object} map[string]int "Number of transcripts synced"
// @Failure 503 {object} map[string]string "Meeting provider not configured"
// @Security BearerAuth
// @Router /admin/transcripts/sync [post]
func (h *Handler) Sync(c *gin.Context) {
	if h.records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Meeting provider not configured"})
		return
	}

	records, err := h.records.ListRecords(c.Request.Context())
	if err != nil {
		// An empty record window reads back as not-found; that is zero
		// records, not a failure
		if errors.Is(err, meeting.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"synced": 0})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to list records"})
		return
	}

	synced := 0
	for _, record := range records {
		var group models.Group
		if err := h.db.Where("meeting_id = ?", record.MeetingID).First(&group).Error; err != nil {
			// Recording of a meeting we did not schedule
			continue
		}

		for _, file := range record.RecordFiles {
			ok, err := h.syncFile(c.Request.Context(), group.ID, record, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store transcript"})
				return
			}
			if ok {
				synced++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"synced": synced})
}

// syncFile resolves one record file's addresses and upserts its transcript
// row. Provider-side failures for a single file are skipped, not fatal.
func (h *Handler) syncFile(ctx context.Context, groupID uint, record meeting.MeetingRecord, file meeting.RecordFile) (bool, error) {
	urls, err := h.records.GetRecordURLs(ctx, file.RecordFileID)
	if err != nil {
		if errors.Is(err, meeting.ErrNotFound) || errors.Is(err, meeting.ErrNotSupported) {
			h.log.Warn("skipping record file",
				zap.String("record_file_id", file.RecordFileID),
				zap.Error(err))
			return false, nil
		}
		h.log.Warn("failed to resolve record file addresses",
			zap.String("record_file_id", file.RecordFileID),
			zap.Error(err))
		return false, nil
	}

	transcript := models.Transcript{
		GroupID:         groupID,
		MeetingRecordID: record.MeetingRecordID,
		RecordFileID:    file.RecordFileID,
		Subject:         record.Subject,
		StartedAt:       time.Unix(record.MediaStartTime/1000, 0),
		DownloadURL:     urls.DownloadAddress,
	}
	if len(urls.MeetingSummary) > 0 {
		transcript.SummaryURL = urls.MeetingSummary[0].DownloadAddress
		transcript.SummaryFileType = urls.MeetingSummary[0].FileType
	}

	var existing models.Transcript
	err = h.db.Where("record_file_id = ?", file.RecordFileID).First(&existing).Error
	if err == nil {
		transcript.ID = existing.ID
		transcript.CreatedAt = existing.CreatedAt
		return true, h.db.Save(&transcript).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, h.db.Create(&transcript).Error
}

// RegisterRoutes registers transcript listing routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/transcripts", h.List)
}

// RegisterAdminRoutes registers admin-only transcript routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/transcripts/sync", h.Sync)
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Transcript is an archived meeting recording summary pulled from the meeting
// provider and attached to the group whose meeting produced it. RecordFileID
// is the provider's id for the underlying recording file and keys upserts
// during sync.
type Transcript struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	GroupID   uint           `gorm:"not null;index" json:"group_id"`

	MeetingRecordID string    `gorm:"index" json:"meeting_record_id"`
	RecordFileID    string    `gorm:"uniqueIndex;not null" json:"record_file_id"`
	Subject         string    `json:"subject"`
	StartedAt       time.Time `json:"started_at"`
	DownloadURL     string    `json:"download_url,omitempty"`
	SummaryURL      string    `json:"summary_url,omitempty"`
	SummaryFileType string    `json:"summary_file_type,omitempty"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

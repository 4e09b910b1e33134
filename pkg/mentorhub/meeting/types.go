package meeting

// Response shapes for the provider API. Every successful response is checked
// against the validate tags before it reaches a caller; a mismatch is a hard
// error, never a silent default.

// MeetingSettings mirrors the provider's meeting settings block.
type MeetingSettings struct {
	MuteEnableJoin    bool `json:"mute_enable_join"`
	AllowUnmuteSelf   bool `json:"allow_unmute_self"`
	MuteAll           bool `json:"mute_all"`
	AllowInBeforeHost bool `json:"allow_in_before_host"`
}

// MeetingUser identifies a participant by the provider's user id.
type MeetingUser struct {
	UserID string `json:"userid" validate:"required"`
}

// Meeting is a scheduled meeting as reported by the provider. It is never
// persisted verbatim; the join URL and id are copied onto the group.
type Meeting struct {
	Subject     string          `json:"subject" validate:"required"`
	MeetingID   string          `json:"meeting_id" validate:"required"`
	MeetingCode string          `json:"meeting_code" validate:"required"`
	JoinURL     string          `json:"join_url" validate:"required"`
	Hosts       []MeetingUser   `json:"hosts" validate:"dive"`
	StartTime   string          `json:"start_time" validate:"required"`
	EndTime     string          `json:"end_time" validate:"required"`
	Settings    MeetingSettings `json:"settings"`
}

type meetingListResponse struct {
	MeetingNumber   int       `json:"meeting_number"`
	MeetingInfoList []Meeting `json:"meeting_info_list" validate:"required,min=1,dive"`
}

type createMeetingRequest struct {
	UserID     string          `json:"userid"`
	InstanceID int             `json:"instanceid"`
	Subject    string          `json:"subject"`
	Type       int             `json:"type"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Settings   MeetingSettings `json:"settings"`
}

// RecordFile is a single recording file within a meeting record.
type RecordFile struct {
	RecordFileID string `json:"record_file_id" validate:"required"`
	RecordSize   int64  `json:"record_size"`
}

// MeetingRecord is one meeting's recording entry from the paged listing.
type MeetingRecord struct {
	MeetingRecordID string       `json:"meeting_record_id" validate:"required"`
	MeetingID       string       `json:"meeting_id" validate:"required"`
	MeetingCode     string       `json:"meeting_code"`
	HostUserID      string       `json:"host_user_id"`
	Subject         string       `json:"subject"`
	MediaStartTime  int64        `json:"media_start_time"`
	State           int          `json:"state"`
	RecordFiles     []RecordFile `json:"record_files" validate:"dive"`
}

type recordsPage struct {
	TotalCount     int             `json:"total_count"`
	CurrentSize    int             `json:"current_size"`
	CurrentPage    int             `json:"current_page" validate:"required,min=1"`
	TotalPage      int             `json:"total_page" validate:"required,min=1"`
	RecordMeetings []MeetingRecord `json:"record_meetings" validate:"dive"`
}

// SummaryFile is a downloadable meeting summary artifact.
type SummaryFile struct {
	DownloadAddress string `json:"download_address" validate:"required"`
	FileType        string `json:"file_type" validate:"required"`
}

// RecordFileURLs holds the access addresses for one recording file. The
// provider pages large files into parts; this client only supports
// single-page responses.
type RecordFileURLs struct {
	TotalCount      int           `json:"total_count"`
	CurrentSize     int           `json:"current_size"`
	CurrentPage     int           `json:"current_page"`
	TotalPage       int           `json:"total_page" validate:"required,min=1"`
	RecordFileID    string        `json:"record_file_id"`
	ViewAddress     string        `json:"view_address"`
	DownloadAddress string        `json:"download_address"`
	AudioAddress    string        `json:"audio_address"`
	MeetingSummary  []SummaryFile `json:"meeting_summary" validate:"dive"`
}

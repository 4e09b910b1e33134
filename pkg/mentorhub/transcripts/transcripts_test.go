package transcripts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/auth"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/meeting"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeSource serves canned provider records
type fakeSource struct {
	records []meeting.MeetingRecord
	urls    map[string]*meeting.RecordFileURLs
	listErr error
}

func (f *fakeSource) ListRecords(context.Context) ([]meeting.MeetingRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeSource) GetRecordURLs(_ context.Context, recordFileID string) (*meeting.RecordFileURLs, error) {
	urls, ok := f.urls[recordFileID]
	if !ok {
		return nil, meeting.ErrNotFound
	}
	return urls, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB, source RecordSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, source, nil)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	handler.RegisterAdminRoutes(admin)

	return r
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) (models.User, string) {
	user := models.User{Email: email, Name: "Test User", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	token, _ := auth.GenerateToken(user.ID, user.Email, string(user.Role))
	return user, "Bearer " + token
}

func TestListTranscripts(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, &fakeSource{})
	user, header := createUser(t, db, "student@example.com", models.UserRoleUser)

	group := models.Group{Name: "Test Group"}
	db.Create(&group)
	db.Create(&models.GroupUser{UserID: user.ID, GroupID: group.ID, Role: models.GroupRoleMember})
	db.Create(&models.Transcript{GroupID: group.ID, RecordFileID: "rf-1", Subject: "Session 1", StartedAt: time.Unix(1700000000, 0)})
	db.Create(&models.Transcript{GroupID: group.ID, RecordFileID: "rf-2", Subject: "Session 2", StartedAt: time.Unix(1700100000, 0)})

	req, _ := http.NewRequest("GET", "/api/transcripts?group_id=1", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var transcripts []TranscriptResponse
	json.Unmarshal(resp.Body.Bytes(), &transcripts)
	if len(transcripts) != 2 {
		t.Fatalf("Expected 2 transcripts, got %d", len(transcripts))
	}
	if transcripts[0].Subject != "Session 2" {
		t.Errorf("Expected newest transcript first, got %q", transcripts[0].Subject)
	}
}

func TestListTranscriptsNotMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, &fakeSource{})
	_, header := createUser(t, db, "outsider@example.com", models.UserRoleUser)

	group := models.Group{Name: "Private Group"}
	db.Create(&group)

	req, _ := http.NewRequest("GET", "/api/transcripts?group_id=1", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestSyncUpsertsTranscripts(t *testing.T) {
	db := setupTestDB(t)

	group := models.Group{Name: "Test Group", MeetingID: "m-1"}
	db.Create(&group)

	source := &fakeSource{
		records: []meeting.MeetingRecord{{
			MeetingRecordID: "rec-1",
			MeetingID:       "m-1",
			Subject:         "Weekly tutoring",
			MediaStartTime:  1700000000000,
			RecordFiles:     []meeting.RecordFile{{RecordFileID: "rf-1"}},
		}},
		urls: map[string]*meeting.RecordFileURLs{
			"rf-1": {
				TotalPage:       1,
				DownloadAddress: "https://meeting.example.com/d/rf-1",
				MeetingSummary: []meeting.SummaryFile{
					{DownloadAddress: "https://meeting.example.com/s/rf-1", FileType: "txt"},
				},
			},
		},
	}
	router := setupTestRouter(db, source)
	_, header := createUser(t, db, "admin@example.com", models.UserRoleAdmin)

	req, _ := http.NewRequest("POST", "/api/admin/transcripts/sync", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var transcript models.Transcript
	if err := db.Where("record_file_id = ?", "rf-1").First(&transcript).Error; err != nil {
		t.Fatalf("Expected transcript to be stored: %v", err)
	}
	if transcript.GroupID != group.ID {
		t.Errorf("Expected transcript tied to group %d, got %d", group.ID, transcript.GroupID)
	}
	if transcript.SummaryURL != "https://meeting.example.com/s/rf-1" {
		t.Errorf("Expected summary URL stored, got %q", transcript.SummaryURL)
	}
	if transcript.StartedAt.Unix() != 1700000000 {
		t.Errorf("Expected media start time converted from milliseconds, got %d", transcript.StartedAt.Unix())
	}

	// Running sync again updates in place instead of duplicating
	resp = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/admin/transcripts/sync", nil)
	req.Header.Set("Authorization", header)
	router.ServeHTTP(resp, req)

	var count int64
	db.Model(&models.Transcript{}).Where("record_file_id = ?", "rf-1").Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 transcript after re-sync, got %d", count)
	}
}

func TestSyncSkipsUnknownMeetings(t *testing.T) {
	db := setupTestDB(t)

	source := &fakeSource{
		records: []meeting.MeetingRecord{{
			MeetingRecordID: "rec-1",
			MeetingID:       "m-unknown",
			RecordFiles:     []meeting.RecordFile{{RecordFileID: "rf-1"}},
		}},
	}
	router := setupTestRouter(db, source)
	_, header := createUser(t, db, "admin@example.com", models.UserRoleAdmin)

	req, _ := http.NewRequest("POST", "/api/admin/transcripts/sync", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.Transcript{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no transcripts for unknown meetings, got %d", count)
	}
}

func TestSyncEmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	source := &fakeSource{listErr: meeting.ErrNotFound}
	router := setupTestRouter(db, source)
	_, header := createUser(t, db, "admin@example.com", models.UserRoleAdmin)

	req, _ := http.NewRequest("POST", "/api/admin/transcripts/sync", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for an empty window, got %d: %s", resp.Code, resp.Body.String())
	}

	var result map[string]int
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["synced"] != 0 {
		t.Errorf("Expected 0 synced, got %d", result["synced"])
	}
}

func TestSyncRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, &fakeSource{})
	_, header := createUser(t, db, "user@example.com", models.UserRoleUser)

	req, _ := http.NewRequest("POST", "/api/admin/transcripts/sync", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

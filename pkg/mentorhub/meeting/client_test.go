package meeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/config"
)

// countingReporter counts captured errors
type countingReporter struct {
	count int
	last  error
}

func (r *countingReporter) CaptureError(err error) {
	r.count++
	r.last = err
}

func newTestClient(serverURL string, reporter *countingReporter) *Client {
	c := NewClient(config.MeetingConfig{
		APIBaseURL:  serverURL,
		AppID:       "app-1",
		SdkID:       "sdk-1",
		SecretID:    "secret-id",
		SecretKey:   "secret-key",
		AdminUserID: "operator-1",
	}, reporter, nil)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	c.nonce = func() string { return "12345" }
	return c
}

func TestCreateMeeting(t *testing.T) {
	var gotSignature, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/v1/meetings" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotSignature = r.Header.Get("X-TC-Signature")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)

		fmt.Fprint(w, `{
			"meeting_number": 1,
			"meeting_info_list": [{
				"subject": "Weekly tutoring",
				"meeting_id": "m-1",
				"meeting_code": "123456789",
				"join_url": "https://meeting.example.com/j/123456789",
				"hosts": [{"userid": "operator-1"}],
				"start_time": "1700003600",
				"end_time": "1700007200",
				"settings": {"mute_enable_join": true}
			}]
		}`)
	}))
	defer server.Close()

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	m, err := client.CreateMeeting(context.Background(), "Weekly tutoring", time.Unix(1700003600, 0), time.Unix(1700007200, 0))
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	if m.JoinURL != "https://meeting.example.com/j/123456789" {
		t.Errorf("Expected join URL from response, got %q", m.JoinURL)
	}
	if m.MeetingID != "m-1" {
		t.Errorf("Expected meeting id m-1, got %q", m.MeetingID)
	}

	// The signature must match a local recomputation over the same inputs
	want := Sign("secret-id", "secret-key", "POST", "12345", "1700000000", "/v1/meetings", gotBody)
	if gotSignature != want {
		t.Errorf("Expected signature %q, got %q", want, gotSignature)
	}
	if reporter.count != 0 {
		t.Errorf("Expected no reported errors, got %d", reporter.count)
	}
}

func TestGetMeeting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/meetings/m-1" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("userid") != "operator-1" {
			t.Errorf("Expected operator userid, got %q", r.URL.Query().Get("userid"))
		}
		fmt.Fprint(w, `{
			"meeting_number": 1,
			"meeting_info_list": [{
				"subject": "Weekly tutoring",
				"meeting_id": "m-1",
				"meeting_code": "123456789",
				"join_url": "https://meeting.example.com/j/123456789",
				"start_time": "1700003600",
				"end_time": "1700007200"
			}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, &countingReporter{})
	m, err := client.GetMeeting(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}
	if m.MeetingCode != "123456789" {
		t.Errorf("Expected meeting code from response, got %q", m.MeetingCode)
	}
}

func TestEmptyResponseIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	_, err := client.GetMeeting(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if reporter.count != 1 {
		t.Errorf("Expected exactly 1 reported error, got %d", reporter.count)
	}
}

func TestProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error_info":{"error_code":20001,"message":"invalid time window"}}`)
	}))
	defer server.Close()

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	_, err := client.CreateMeeting(context.Background(), "x", time.Unix(2, 0), time.Unix(1, 0))
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("Expected ErrBadRequest, got %v", err)
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatal("Expected a ProviderError")
	}
	if perr.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400 in error, got %d", perr.Status)
	}
	if reporter.count != 1 {
		t.Errorf("Expected exactly 1 reported error, got %d", reporter.count)
	}
}

func TestResponseValidationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// join_url missing: must be a hard failure
		fmt.Fprint(w, `{
			"meeting_info_list": [{
				"subject": "Weekly tutoring",
				"meeting_id": "m-1",
				"meeting_code": "123456789",
				"start_time": "1700003600",
				"end_time": "1700007200"
			}]
		}`)
	}))
	defer server.Close()

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	_, err := client.GetMeeting(context.Background(), "m-1")
	if err == nil {
		t.Fatal("Expected validation error for missing join_url")
	}
	if reporter.count != 1 {
		t.Errorf("Expected exactly 1 reported error, got %d", reporter.count)
	}
}

func TestListRecordsPagination(t *testing.T) {
	const totalPages = 3
	var pagesRequested []int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/records" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page_size"); got != "20" {
			t.Errorf("Expected page_size 20, got %q", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pagesRequested = append(pagesRequested, page)

		fmt.Fprintf(w, `{
			"total_count": 3,
			"current_size": 1,
			"current_page": %d,
			"total_page": %d,
			"record_meetings": [{
				"meeting_record_id": "rec-%d",
				"meeting_id": "m-%d",
				"subject": "Session %d"
			}]
		}`, page, totalPages, page, page, page)
	}))
	defer server.Close()

	client := newTestClient(server.URL, &countingReporter{})
	records, err := client.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}

	if len(pagesRequested) != totalPages {
		t.Fatalf("Expected %d page requests, got %d", totalPages, len(pagesRequested))
	}
	for i, page := range pagesRequested {
		if page != i+1 {
			t.Errorf("Expected sequential page %d, got %d", i+1, page)
		}
	}

	if len(records) != totalPages {
		t.Fatalf("Expected %d records, got %d", totalPages, len(records))
	}
	for i, rec := range records {
		if rec.MeetingRecordID != fmt.Sprintf("rec-%d", i+1) {
			t.Errorf("Expected records concatenated in page order, got %q at %d", rec.MeetingRecordID, i)
		}
	}
}

func TestListRecordsWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.ParseInt(r.URL.Query().Get("start_time"), 10, 64)
		end, _ := strconv.ParseInt(r.URL.Query().Get("end_time"), 10, 64)
		if end != 1700000000 {
			t.Errorf("Expected end_time now, got %d", end)
		}
		if got := time.Unix(end, 0).Sub(time.Unix(start, 0)); got != 31*24*time.Hour {
			t.Errorf("Expected a 31-day window, got %v", got)
		}
		fmt.Fprint(w, `{"total_count":0,"current_size":0,"current_page":1,"total_page":1,"record_meetings":[]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, &countingReporter{})
	records, err := client.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestListRecordsPageCap(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{
			"total_count": 99999,
			"current_size": 1,
			"current_page": %s,
			"total_page": 9999,
			"record_meetings": [{"meeting_record_id": "rec-%s", "meeting_id": "m-1"}]
		}`, page, page)
	}))
	defer server.Close()

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	_, err := client.ListRecords(context.Background())
	if err == nil {
		t.Fatal("Expected an error when the provider reports more pages than the cap")
	}
	if requests > maxRecordPages {
		t.Errorf("Expected at most %d requests, got %d", maxRecordPages, requests)
	}
	if reporter.count != 1 {
		t.Errorf("Expected the cap breach to be reported once, got %d", reporter.count)
	}
}

func TestGetRecordURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/addresses/rf-1" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"total_count": 1,
			"current_size": 1,
			"current_page": 1,
			"total_page": 1,
			"record_file_id": "rf-1",
			"view_address": "https://meeting.example.com/v/rf-1",
			"download_address": "https://meeting.example.com/d/rf-1",
			"meeting_summary": [{"download_address": "https://meeting.example.com/s/rf-1", "file_type": "txt"}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, &countingReporter{})
	urls, err := client.GetRecordURLs(context.Background(), "rf-1")
	if err != nil {
		t.Fatalf("GetRecordURLs failed: %v", err)
	}
	if urls.DownloadAddress != "https://meeting.example.com/d/rf-1" {
		t.Errorf("Expected download address, got %q", urls.DownloadAddress)
	}
	if len(urls.MeetingSummary) != 1 || urls.MeetingSummary[0].FileType != "txt" {
		t.Errorf("Expected one txt summary file, got %+v", urls.MeetingSummary)
	}
}

func TestGetRecordURLsMultiPageNotSupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 2, "current_size": 1, "current_page": 1, "total_page": 2, "record_file_id": "rf-1"}`)
	}))
	defer server.Close()

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	_, err := client.GetRecordURLs(context.Background(), "rf-1")
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("Expected ErrNotSupported, got %v", err)
	}
	if reporter.count != 1 {
		t.Errorf("Expected exactly 1 reported error, got %d", reporter.count)
	}
}

func TestTransportErrorPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	reporter := &countingReporter{}
	client := newTestClient(server.URL, reporter)

	_, err := client.GetMeeting(context.Background(), "m-1")
	if err == nil {
		t.Fatal("Expected a transport error")
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrNotFound) {
		t.Errorf("Expected the transport error to pass through unclassified, got %v", err)
	}
}

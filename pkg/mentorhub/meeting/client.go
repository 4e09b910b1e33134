// Package meeting is a client for the cloud meeting provider's REST API.
// Requests are signed per the provider's keyed-hash scheme and every
// response is schema-validated before use. Provider failures are classified
// into a small taxonomy (not-found, bad-request, not-supported) and reported
// to monitoring.
package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/config"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/monitor"
	"go.uber.org/zap"
)

const (
	recordPageSize = 20
	// Records are fetched across a fixed lookback window
	recordLookback = 31 * 24 * time.Hour
	// Hard cap on the paging loop so a provider misreporting total_page
	// cannot spin us forever
	maxRecordPages = 50

	defaultTimeout = 15 * time.Second
)

// Client talks to the meeting provider's REST API.
type Client struct {
	baseURL    string
	appID      string
	sdkID      string
	secretID   string
	secretKey  string
	operatorID string

	httpClient *http.Client
	validate   *validator.Validate
	reporter   monitor.Reporter
	log        *zap.Logger

	// Injectable for tests
	now   func() time.Time
	nonce func() string
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.MeetingConfig, reporter monitor.Reporter, log *zap.Logger) *Client {
	if reporter == nil {
		reporter = monitor.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.APIBaseURL,
		appID:      cfg.AppID,
		sdkID:      cfg.SdkID,
		secretID:   cfg.SecretID,
		secretKey:  cfg.SecretKey,
		operatorID: cfg.AdminUserID,
		httpClient: &http.Client{Timeout: defaultTimeout},
		validate:   validator.New(),
		reporter:   reporter,
		log:        log,
		now:        time.Now,
		nonce:      newNonce,
	}
}

// do signs and issues one request, then decodes and validates the response
// into out. Transport failures without a response propagate unchanged; a
// response with an error status maps to a ProviderError; an empty success
// body maps to ErrNotFound.
func (c *Client) do(ctx context.Context, method, uri string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("meeting: encode request: %w", err)
		}
	}

	nonce := c.nonce()
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	signature := Sign(c.secretID, c.secretKey, method, nonce, timestamp, uri, string(payload))

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+uri, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("AppId", c.appID)
	req.Header.Set("SdkId", c.sdkID)
	req.Header.Set("X-TC-Key", c.secretID)
	req.Header.Set("X-TC-Timestamp", timestamp)
	req.Header.Set("X-TC-Nonce", nonce)
	req.Header.Set("X-TC-Signature", signature)
	req.Header.Set("X-TC-Registered", "1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response to classify; pass the transport error through
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("meeting: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		perr := &ProviderError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
		c.report(perr)
		return perr
	}

	// The provider answers "{}" for missing resources instead of a 404
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) {
		nferr := fmt.Errorf("%w: empty response for %s %s", ErrNotFound, method, uri)
		c.report(nferr)
		return nferr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		derr := fmt.Errorf("meeting: decode %s %s response: %w", method, uri, err)
		c.report(derr)
		return derr
	}
	if err := c.validate.Struct(out); err != nil {
		verr := fmt.Errorf("meeting: invalid %s %s response: %w", method, uri, err)
		c.report(verr)
		return verr
	}

	c.log.Debug("provider call", zap.String("method", method), zap.String("uri", uri), zap.Int("status", resp.StatusCode))
	return nil
}

func (c *Client) report(err error) {
	c.reporter.CaptureError(err)
}

// CreateMeeting schedules a meeting with the given subject and time window
// and returns the provider's record of it.
func (c *Client) CreateMeeting(ctx context.Context, subject string, start, end time.Time) (*Meeting, error) {
	req := createMeetingRequest{
		UserID:     c.operatorID,
		InstanceID: 1,
		Subject:    subject,
		Type:       0,
		StartTime:  strconv.FormatInt(start.Unix(), 10),
		EndTime:    strconv.FormatInt(end.Unix(), 10),
		Settings: MeetingSettings{
			MuteEnableJoin:    true,
			AllowUnmuteSelf:   true,
			AllowInBeforeHost: true,
		},
	}

	var resp meetingListResponse
	if err := c.do(ctx, http.MethodPost, "/v1/meetings", req, &resp); err != nil {
		return nil, err
	}
	return &resp.MeetingInfoList[0], nil
}

// GetMeeting fetches a single meeting by the provider's meeting id.
func (c *Client) GetMeeting(ctx context.Context, meetingID string) (*Meeting, error) {
	uri := "/v1/meetings/" + meetingID + "?userid=" + c.operatorID + "&instanceid=1"

	var resp meetingListResponse
	if err := c.do(ctx, http.MethodGet, uri, nil, &resp); err != nil {
		return nil, err
	}
	// The list always carries exactly one entry for an id lookup
	return &resp.MeetingInfoList[0], nil
}

// ListRecords pages through all meeting records in the lookback window,
// in page order, trusting the provider's total_page up to maxRecordPages.
func (c *Client) ListRecords(ctx context.Context) ([]MeetingRecord, error) {
	end := c.now()
	start := end.Add(-recordLookback)

	var all []MeetingRecord
	page := 1
	for {
		uri := fmt.Sprintf("/v1/records?end_time=%d&page=%d&page_size=%d&start_time=%d",
			end.Unix(), page, recordPageSize, start.Unix())

		var resp recordsPage
		if err := c.do(ctx, http.MethodGet, uri, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.RecordMeetings...)

		if page >= resp.TotalPage {
			break
		}
		page++
		if page > maxRecordPages {
			err := fmt.Errorf("meeting: record listing exceeded %d pages (provider reported %d)", maxRecordPages, resp.TotalPage)
			c.report(err)
			return nil, err
		}
	}
	return all, nil
}

// GetRecordURLs fetches the access addresses for one recording file.
// Multi-part files (more than one address page) are not supported.
func (c *Client) GetRecordURLs(ctx context.Context, recordFileID string) (*RecordFileURLs, error) {
	uri := "/v1/addresses/" + recordFileID + "?userid=" + c.operatorID

	var resp RecordFileURLs
	if err := c.do(ctx, http.MethodGet, uri, nil, &resp); err != nil {
		return nil, err
	}
	if resp.TotalPage > 1 {
		err := fmt.Errorf("%w: record file %s spans %d address pages", ErrNotSupported, recordFileID, resp.TotalPage)
		c.report(err)
		return nil, err
	}
	return &resp, nil
}

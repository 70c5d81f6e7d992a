package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the scheduling REST API that sits next to the room
// server. It covers the read-only admin surface: schedules and their
// occurrences, attendance logs, platforms, and recording listings.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL. token may be empty for
// unauthenticated deployments.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Pagination describes one page of a listing response.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
}

// Schedule is one scheduled meeting series.
type Schedule struct {
	ID          string   `json:"_id"`
	ScheduleID  string   `json:"scheduleId"`
	PlatformID  string   `json:"platformId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	HostID      string   `json:"hostId"`
	HostName    string   `json:"hostName"`
	Hosts       []string `json:"hosts"`
	Group       bool     `json:"group"`
	Recurrence  string   `json:"recurrence"`
	DaysOfWeek  []string `json:"daysOfWeek"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	TimeZone    string   `json:"timeZone"`
	Status      string   `json:"status"`
}

// SchedulesPage is one page of schedules.
type SchedulesPage struct {
	Data       []Schedule `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SearchResult is the response of a schedule search.
type SearchResult struct {
	Count     int        `json:"count"`
	Schedules []Schedule `json:"schedules"`
}

// Occurrence is one concrete sitting of a schedule.
type Occurrence struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	HostName      string `json:"hostName"`
	Group         bool   `json:"group"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
	Status        string `json:"status"`
}

// OccurrencesPage is one page of occurrences.
type OccurrencesPage struct {
	Data       []Occurrence `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// CountBucket is one aggregation bucket in a stats response.
type CountBucket struct {
	Platform   string `json:"platform,omitempty"`
	Recurrence string `json:"recurrence,omitempty"`
	Count      int    `json:"count"`
}

// ScheduleStats aggregates the schedule corpus.
type ScheduleStats struct {
	TotalSchedules int           `json:"totalSchedules"`
	ByPlatform     []CountBucket `json:"byPlatform"`
	ByRecurrence   []CountBucket `json:"byRecurrence"`
}

// OccurrenceStats aggregates the occurrence corpus.
type OccurrenceStats struct {
	TotalOccurrences int `json:"totalOccurrences"`
}

// ParticipantSession is one join/leave span inside an occurrence.
type ParticipantSession struct {
	JoinTime  string `json:"joinTime"`
	LeaveTime string `json:"leaveTime"`
	Duration  int64  `json:"duration"`
}

// ParticipantLog is one participant's attendance in an occurrence.
type ParticipantLog struct {
	ID              string               `json:"_id"`
	ParticipantName string               `json:"participantName"`
	Role            string               `json:"role"`
	Sessions        []ParticipantSession `json:"sessions"`
	TotalDuration   int64                `json:"totalDuration"`
}

// ParticipantLogsPage is one page of attendance logs.
type ParticipantLogsPage struct {
	Data       []ParticipantLog `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// Platform is one tenant registered with the scheduling service.
type Platform struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Recording is one stored recording file.
type Recording struct {
	ID           string `json:"_id"`
	ScheduleID   string `json:"scheduleId"`
	OccurrenceID string `json:"occurrenceId"`
	PlatformID   string `json:"platformId"`
	Filename     string `json:"filename"`
	CreatedAt    string `json:"createdAt"`
}

// RecordingsPage is one page of recordings.
type RecordingsPage struct {
	Data       []Recording `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Schedules lists schedules for a platform, paginated.
func (c *Client) Schedules(ctx context.Context, platformID string, limit, page int) (*SchedulesPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	q.Set("platformId", platformID)

	var out SchedulesPage
	if err := c.get(ctx, "/schedule/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSchedules searches schedules by free text. An empty search
// term returns an empty result without a round trip.
func (c *Client) SearchSchedules(ctx context.Context, searchParam string) (*SearchResult, error) {
	if searchParam == "" {
		return &SearchResult{}, nil
	}
	q := url.Values{}
	q.Set("searchParam", searchParam)

	var out SearchResult
	if err := c.get(ctx, "/schedule/search", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScheduleStats returns aggregate counts over all schedules.
func (c *Client) ScheduleStats(ctx context.Context) (*ScheduleStats, error) {
	var wrapper struct {
		Data ScheduleStats `json:"data"`
	}
	if err := c.get(ctx, "/schedule/stats", nil, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// OccurrenceStats returns aggregate counts over all occurrences.
func (c *Client) OccurrenceStats(ctx context.Context) (*OccurrenceStats, error) {
	var wrapper struct {
		Data OccurrenceStats `json:"data"`
	}
	if err := c.get(ctx, "/schedule/occurrence/stats", nil, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// Occurrences lists the occurrences of one schedule, paginated.
func (c *Client) Occurrences(ctx context.Context, platformID, hostID, scheduleID string, limit, page int) (*OccurrencesPage, error) {
	q := url.Values{}
	q.Set("platformId", platformID)
	q.Set("hostId", hostID)
	q.Set("scheduleId", scheduleID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))

	var out OccurrencesPage
	if err := c.get(ctx, "/schedule/occurrence/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParticipantLogs lists attendance for one occurrence, paginated.
func (c *Client) ParticipantLogs(ctx context.Context, scheduleID, platformID, occurrenceID string, limit, page int) (*ParticipantLogsPage, error) {
	q := url.Values{}
	q.Set("scheduleId", scheduleID)
	q.Set("platformId", platformID)
	q.Set("occurrenceId", occurrenceID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))

	var out ParticipantLogsPage
	if err := c.get(ctx, "/logs/participantLog", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Platforms lists all registered platforms.
func (c *Client) Platforms(ctx context.Context) ([]Platform, error) {
	var out []Platform
	if err := c.get(ctx, "/platform", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recordings lists stored recordings, paginated.
func (c *Client) Recordings(ctx context.Context, limit, page int) (*RecordingsPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))

	var out RecordingsPage
	if err := c.get(ctx, "/recording/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordingsByPlatform lists recordings for one platform.
func (c *Client) RecordingsByPlatform(ctx context.Context, platformID string) ([]Recording, error) {
	q := url.Values{}
	q.Set("platformId", platformID)

	var out []Recording
	if err := c.get(ctx, "/recordings", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

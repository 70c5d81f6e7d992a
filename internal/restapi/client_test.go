package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSchedulesSendsQueryAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"scheduleId": "s1", "title": "Algebra", "hostName": "ana"}],
			"pagination": {"currentPage": 1, "totalPages": 3, "totalCount": 25, "pageSize": 10}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	page, err := c.Schedules(context.Background(), "plat", 10, 1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if gotPath != "/schedule/all" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotQuery["platformId"][0] != "plat" || gotQuery["limit"][0] != "10" {
		t.Errorf("query = %v", gotQuery)
	}
	if len(page.Data) != 1 || page.Data[0].ScheduleID != "s1" {
		t.Errorf("unexpected data: %+v", page.Data)
	}
	if page.Pagination.TotalCount != 25 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}

func TestSearchSchedulesShortCircuitsEmptyTerm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty search must not hit the server")
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	result, err := c.SearchSchedules(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 0 || len(result.Schedules) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestScheduleStatsUnwrapsDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {
			"totalSchedules": 12,
			"byPlatform": [{"platform": "miskills", "count": 7}],
			"byRecurrence": [{"recurrence": "weekly", "count": 5}]
		}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	stats, err := c.ScheduleStats(context.Background())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if stats.TotalSchedules != 12 {
		t.Errorf("totalSchedules = %d", stats.TotalSchedules)
	}
	if len(stats.ByPlatform) != 1 || stats.ByPlatform[0].Platform != "miskills" || stats.ByPlatform[0].Count != 7 {
		t.Errorf("byPlatform = %+v", stats.ByPlatform)
	}
}

func TestParticipantLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logs/participantLog" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{
				"participantName": "ben", "role": "participant", "totalDuration": 360,
				"sessions": [{"joinTime": "2026-03-01T10:00:00Z", "leaveTime": "2026-03-01T10:06:00Z", "duration": 360}]
			}],
			"pagination": {"currentPage": 1, "totalPages": 1, "totalCount": 1, "pageSize": 10}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	page, err := c.ParticipantLogs(context.Background(), "s1", "plat", "o1", 10, 1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].TotalDuration != 360 {
		t.Errorf("unexpected logs: %+v", page.Data)
	}
	if len(page.Data[0].Sessions) != 1 {
		t.Errorf("sessions not decoded: %+v", page.Data[0])
	}
}

func TestNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Platforms(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, "")
	if _, err := c.Recordings(ctx, 5, 1); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

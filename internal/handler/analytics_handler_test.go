package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tubeseek/search-service-go/internal/models"
)

type fakeAnalyticsRepo struct {
	counts  []models.DailySearchCount
	queries []models.QueryCount
	history []models.SearchEvent
	err     error

	lastDays   int
	lastLimit  int
	lastUserID string
}

func (f *fakeAnalyticsRepo) SearchCountsByDay(_ context.Context, days int) ([]models.DailySearchCount, error) {
	f.lastDays = days
	return f.counts, f.err
}

func (f *fakeAnalyticsRepo) TopQueries(_ context.Context, limit int) ([]models.QueryCount, error) {
	f.lastLimit = limit
	return f.queries, f.err
}

func (f *fakeAnalyticsRepo) UserHistory(_ context.Context, userID string, limit int) ([]models.SearchEvent, error) {
	f.lastUserID = userID
	f.lastLimit = limit
	return f.history, f.err
}

func performAnalyticsRequest(handle gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", target, nil)

	handle(c)
	return w
}

func TestHandleSearchCounts(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		counts: []models.DailySearchCount{
			{Day: "2026-04-02", Count: 12},
			{Day: "2026-04-01", Count: 7},
		},
	}
	handler := NewAnalyticsHandler(repo)

	w := performAnalyticsRequest(handler.HandleSearchCounts, "/api/v1/admin/analytics/searches?days=7")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if repo.lastDays != 7 {
		t.Errorf("days = %d, want 7", repo.lastDays)
	}

	var resp struct {
		Days   int                       `json:"days"`
		Counts []models.DailySearchCount `json:"counts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Days != 7 || len(resp.Counts) != 2 {
		t.Errorf("response = %+v, want 7 days and 2 counts", resp)
	}
}

func TestHandleSearchCounts_ParamBounds(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantDays int
	}{
		{"default", "/analytics/searches", 30},
		{"garbage", "/analytics/searches?days=abc", 30},
		{"negative", "/analytics/searches?days=-5", 30},
		{"clamped", "/analytics/searches?days=9999", 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAnalyticsRepo{}
			handler := NewAnalyticsHandler(repo)

			performAnalyticsRequest(handler.HandleSearchCounts, tt.target)

			if repo.lastDays != tt.wantDays {
				t.Errorf("days = %d, want %d", repo.lastDays, tt.wantDays)
			}
		})
	}
}

func TestHandleTopQueries(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		queries: []models.QueryCount{{Query: "funny cats", Count: 42}},
	}
	handler := NewAnalyticsHandler(repo)

	w := performAnalyticsRequest(handler.HandleTopQueries, "/analytics/top-queries?limit=5")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if repo.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", repo.lastLimit)
	}
}

func TestHandleUserHistory(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		history: []models.SearchEvent{
			{UserID: "user-1", Query: "newer search"},
			{UserID: "user-1", Query: "older search"},
		},
	}
	handler := NewAnalyticsHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/admin/history/user-1?limit=5", nil)
	c.Params = gin.Params{{Key: "userId", Value: "user-1"}}

	handler.HandleUserHistory(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if repo.lastUserID != "user-1" || repo.lastLimit != 5 {
		t.Errorf("repo called with user %q limit %d, want user-1 and 5", repo.lastUserID, repo.lastLimit)
	}

	var resp struct {
		UserID  string               `json:"userId"`
		History []models.SearchEvent `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.UserID != "user-1" || len(resp.History) != 2 {
		t.Errorf("response = %+v, want user-1 with 2 entries", resp)
	}
	if resp.History[0].Query != "newer search" {
		t.Errorf("first entry = %q, want the most recent search", resp.History[0].Query)
	}
}

func TestHandleUserHistory_EmptyHistoryKeepsArray(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyticsRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/admin/history/user-9", nil)
	c.Params = gin.Params{{Key: "userId", Value: "user-9"}}

	handler.HandleUserHistory(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"history":[]`) {
		t.Errorf("body = %s, want a history field holding an empty array", w.Body.String())
	}
}

func TestAnalytics_RepositoryError(t *testing.T) {
	handler := NewAnalyticsHandler(&fakeAnalyticsRepo{err: errors.New("connection refused")})

	w := performAnalyticsRequest(handler.HandleSearchCounts, "/analytics/searches")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != http.StatusInternalServerError || resp.Message == "" {
		t.Errorf("unexpected error response: %+v", resp)
	}
}

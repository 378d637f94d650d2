package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

func init() {
	_ = logger.Init("error", "")
}

type fakeEventStore struct {
	inserted []*models.SearchEvent
	err      error
}

func (f *fakeEventStore) InsertSearchEvent(_ context.Context, event *models.SearchEvent) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, event)
	return nil
}

func eventBody(t *testing.T, event models.SearchEvent) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return body
}

func TestHandleMessage_PersistsValidEvent(t *testing.T) {
	store := &fakeEventStore{}
	recorder := NewHistoryRecorder(store)

	event := models.SearchEvent{
		ID:          uuid.New(),
		UserID:      "user-1",
		Query:       "funny cats",
		Order:       "viewCount",
		ResultCount: 5,
		SearchedAt:  time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
	}

	if err := recorder.HandleMessage(context.Background(), eventBody(t, event)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d events, want 1", len(store.inserted))
	}
	got := store.inserted[0]
	if got.ID != event.ID || got.UserID != "user-1" || got.Query != "funny cats" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestHandleMessage_PermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"malformed JSON", []byte("{not json")},
		{"missing user id", []byte(`{"query": "cats"}`)},
		{"missing query", []byte(`{"user_id": "user-1"}`)},
		{"whitespace only", []byte(`{"user_id": "  ", "query": "\t"}`)},
	}

	store := &fakeEventStore{}
	recorder := NewHistoryRecorder(store)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := recorder.HandleMessage(context.Background(), tt.body)
			if !errors.Is(err, ErrBadEvent) {
				t.Errorf("HandleMessage() error = %v, want ErrBadEvent", err)
			}
		})
	}

	if len(store.inserted) != 0 {
		t.Errorf("inserted %d events, want 0", len(store.inserted))
	}
}

func TestHandleMessage_StoreFailureIsRetryable(t *testing.T) {
	store := &fakeEventStore{err: errors.New("connection refused")}
	recorder := NewHistoryRecorder(store)

	event := models.SearchEvent{ID: uuid.New(), UserID: "user-1", Query: "cats"}

	err := recorder.HandleMessage(context.Background(), eventBody(t, event))
	if err == nil {
		t.Fatal("HandleMessage() succeeded despite store failure")
	}
	if errors.Is(err, ErrBadEvent) {
		t.Error("store failure was classified as a permanent bad event")
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

// ErrBadEvent marks a message that will never process successfully; the
// consumer must not redeliver it.
var ErrBadEvent = errors.New("bad search event")

// SearchEventStore persists search events. Implemented by the Postgres
// repository.
type SearchEventStore interface {
	InsertSearchEvent(ctx context.Context, event *models.SearchEvent) error
}

// HistoryRecorder consumes search events from the broker and persists them
// for history and analytics.
type HistoryRecorder struct {
	store SearchEventStore
}

// NewHistoryRecorder creates a new HistoryRecorder instance.
func NewHistoryRecorder(store SearchEventStore) *HistoryRecorder {
	return &HistoryRecorder{store: store}
}

// HandleMessage processes one raw message body from the search-event queue.
// A malformed body is a permanent failure; the caller should not redeliver.
func (h *HistoryRecorder) HandleMessage(ctx context.Context, body []byte) error {
	var event models.SearchEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", ErrBadEvent, err)
	}

	if strings.TrimSpace(event.UserID) == "" || strings.TrimSpace(event.Query) == "" {
		return fmt.Errorf("%w: missing user_id or query", ErrBadEvent)
	}

	if err := h.store.InsertSearchEvent(ctx, &event); err != nil {
		return fmt.Errorf("persist search event: %w", err)
	}

	logger.Log.Debug("Recorded search event",
		zap.String("eventId", event.ID.String()),
		zap.String("userId", event.UserID),
	)

	return nil
}

// Package repository provides database operations for search history and
// usage analytics.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubeseek/search-service-go/internal/models"
)

// Repository handles all database operations for search history.
type Repository struct {
	db *pgxpool.Pool
}

// New creates a new Repository instance with the provided connection pool.
func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InsertSearchEvent inserts one recorded search into the history table.
func (r *Repository) InsertSearchEvent(ctx context.Context, event *models.SearchEvent) error {
	query := `
		INSERT INTO tubeseek.search_events
		(id, user_id, query, sort_order, duration_filter, result_count, searched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		event.ID, event.UserID, event.Query, event.Order, event.Duration,
		event.ResultCount, event.SearchedAt,
	)
	return err
}

// SearchCountsByDay returns per-day search counts for the last `days` days,
// most recent day first.
func (r *Repository) SearchCountsByDay(ctx context.Context, days int) ([]models.DailySearchCount, error) {
	since := time.Now().AddDate(0, 0, -days)
	query := `
		SELECT to_char(searched_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM tubeseek.search_events
		WHERE searched_at >= $1
		GROUP BY searched_at::date
		ORDER BY searched_at::date DESC
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.DailySearchCount
	for rows.Next() {
		var c models.DailySearchCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopQueries returns the most frequent search queries, capped at limit.
func (r *Repository) TopQueries(ctx context.Context, limit int) ([]models.QueryCount, error) {
	query := `
		SELECT query, COUNT(*)
		FROM tubeseek.search_events
		GROUP BY query
		ORDER BY COUNT(*) DESC, query
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.QueryCount
	for rows.Next() {
		var c models.QueryCount
		if err := rows.Scan(&c.Query, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// UserHistory returns the most recent searches of one user.
func (r *Repository) UserHistory(ctx context.Context, userID string, limit int) ([]models.SearchEvent, error) {
	query := `
		SELECT id, user_id, query, sort_order, duration_filter, result_count, searched_at
		FROM tubeseek.search_events
		WHERE user_id = $1
		ORDER BY searched_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.SearchEvent
	for rows.Next() {
		var e models.SearchEvent
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Query, &e.Order, &e.Duration,
			&e.ResultCount, &e.SearchedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Ping checks the database connection health.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

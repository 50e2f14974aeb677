package db

import (
	"context"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

func (db *Postgres) ListEvents(ctx context.Context, createdBy *int64) ([]model.Event, error) {
	query := `
		SELECT id, name, to_char(event_date, 'YYYY-MM-DD'), location, description, created_by, created_at
		FROM events
		WHERE $1::BIGINT IS NULL OR created_by = $1
		ORDER BY event_date DESC, created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.EventDate, &e.Location, &e.Description, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (db *Postgres) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	query := `
		SELECT id, name, to_char(event_date, 'YYYY-MM-DD'), location, description, created_by, created_at
		FROM events
		WHERE id = $1
	`
	var e model.Event
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.EventDate, &e.Location, &e.Description, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (db *Postgres) CreateEvent(ctx context.Context, in model.EventInput, createdBy int64) (int64, error) {
	query := `
		INSERT INTO events (name, event_date, location, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query, in.Name, in.EventDate, in.Location, in.Description, createdBy).Scan(&id)
	return id, err
}

func (db *Postgres) UpdateEvent(ctx context.Context, id int64, in model.EventInput) error {
	query := `
		UPDATE events
		SET name = $1, event_date = $2, location = $3, description = $4
		WHERE id = $5
	`
	_, err := db.Pool.Exec(ctx, query, in.Name, in.EventDate, in.Location, in.Description, id)
	return err
}

func (db *Postgres) DeleteEvent(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func (db *Postgres) GetEventStats(ctx context.Context, createdBy *int64) (*model.EventStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE event_date >= CURRENT_DATE)
		FROM events
		WHERE $1::BIGINT IS NULL OR created_by = $1
	`
	var stats model.EventStats
	err := db.Pool.QueryRow(ctx, query, createdBy).Scan(&stats.TotalEvents, &stats.UpcomingEvents)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (db *Postgres) GetRecentEvents(ctx context.Context, createdBy *int64, limit int) ([]model.Event, error) {
	query := `
		SELECT id, name, to_char(event_date, 'YYYY-MM-DD'), location, description, created_by, created_at
		FROM events
		WHERE $1::BIGINT IS NULL OR created_by = $1
		ORDER BY event_date DESC, created_at DESC
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, createdBy, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.EventDate, &e.Location, &e.Description, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetActivityFeed merges donations, events and user signups into one
// reverse-chronological stream for the admin activity page.
func (db *Postgres) GetActivityFeed(ctx context.Context, limit int) ([]model.ActivityItem, error) {
	query := `
		SELECT title, activity_date, activity_type, metric, created_at FROM (
			SELECT donor_name AS title, to_char(donation_date, 'YYYY-MM-DD') AS activity_date,
			       'Donation' AS activity_type, amount AS metric, created_at
			FROM donations
			UNION ALL
			SELECT name AS title, to_char(event_date, 'YYYY-MM-DD') AS activity_date,
			       'Event' AS activity_type, NULL AS metric, created_at
			FROM events
			UNION ALL
			SELECT name AS title, to_char(created_at, 'YYYY-MM-DD') AS activity_date,
			       'User' AS activity_type, NULL AS metric, created_at
			FROM users
		) AS feed
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ActivityItem
	for rows.Next() {
		var item model.ActivityItem
		if err := rows.Scan(&item.Title, &item.ActivityDate, &item.ActivityType, &item.Metric, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

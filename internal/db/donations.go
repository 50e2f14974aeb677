package db

import (
	"context"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

// createdBy scopes a query to rows owned by one user; nil means all rows
// (admin view).

func (db *Postgres) ListDonations(ctx context.Context, createdBy *int64) ([]model.Donation, error) {
	query := `
		SELECT d.id, d.donor_name, to_char(d.donation_date, 'YYYY-MM-DD'), d.amount,
		       d.type, d.event_id, e.name, d.notes, d.created_by, d.created_at
		FROM donations d
		LEFT JOIN events e ON d.event_id = e.id
		WHERE $1::BIGINT IS NULL OR d.created_by = $1
		ORDER BY d.donation_date DESC, d.created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(
			&d.ID, &d.DonorName, &d.DonationDate, &d.Amount,
			&d.Type, &d.EventID, &d.EventName, &d.Notes, &d.CreatedBy, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (db *Postgres) GetDonation(ctx context.Context, id int64) (*model.Donation, error) {
	query := `
		SELECT d.id, d.donor_name, to_char(d.donation_date, 'YYYY-MM-DD'), d.amount,
		       d.type, d.event_id, e.name, d.notes, d.created_by, d.created_at
		FROM donations d
		LEFT JOIN events e ON d.event_id = e.id
		WHERE d.id = $1
	`
	var d model.Donation
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.DonorName, &d.DonationDate, &d.Amount,
		&d.Type, &d.EventID, &d.EventName, &d.Notes, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *Postgres) CreateDonation(ctx context.Context, in model.DonationInput, createdBy int64) (int64, error) {
	query := `
		INSERT INTO donations (donor_name, donation_date, amount, type, event_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query,
		in.DonorName, in.DonationDate, in.Amount, in.Type, in.EventID, in.Notes, createdBy,
	).Scan(&id)
	return id, err
}

func (db *Postgres) UpdateDonation(ctx context.Context, id int64, in model.DonationInput) error {
	query := `
		UPDATE donations
		SET donor_name = $1, donation_date = $2, amount = $3, type = $4, event_id = $5, notes = $6
		WHERE id = $7
	`
	_, err := db.Pool.Exec(ctx, query,
		in.DonorName, in.DonationDate, in.Amount, in.Type, in.EventID, in.Notes, id,
	)
	return err
}

func (db *Postgres) DeleteDonation(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM donations WHERE id = $1`, id)
	return err
}

func (db *Postgres) GetDonationStats(ctx context.Context, createdBy *int64) (*model.DonationStats, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*), COUNT(DISTINCT donor_name)
		FROM donations
		WHERE $1::BIGINT IS NULL OR created_by = $1
	`
	var stats model.DonationStats
	err := db.Pool.QueryRow(ctx, query, createdBy).Scan(
		&stats.TotalAmount,
		&stats.DonationCount,
		&stats.UniqueDonors,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (db *Postgres) GetRecentDonations(ctx context.Context, createdBy *int64, limit int) ([]model.Donation, error) {
	query := `
		SELECT d.id, d.donor_name, to_char(d.donation_date, 'YYYY-MM-DD'), d.amount,
		       d.type, d.event_id, e.name, d.notes, d.created_by, d.created_at
		FROM donations d
		LEFT JOIN events e ON d.event_id = e.id
		WHERE $1::BIGINT IS NULL OR d.created_by = $1
		ORDER BY d.donation_date DESC, d.created_at DESC
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, createdBy, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(
			&d.ID, &d.DonorName, &d.DonationDate, &d.Amount,
			&d.Type, &d.EventID, &d.EventName, &d.Notes, &d.CreatedBy, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (db *Postgres) GetMonthlyDonationTotals(ctx context.Context, createdBy *int64, months int) ([]model.MonthlyTotal, error) {
	query := `
		SELECT to_char(donation_date, 'YYYY-MM') AS month, SUM(amount)
		FROM donations
		WHERE donation_date >= CURRENT_DATE - make_interval(months => $2)
		  AND ($1::BIGINT IS NULL OR created_by = $1)
		GROUP BY to_char(donation_date, 'YYYY-MM')
		ORDER BY month
	`
	rows, err := db.Pool.Query(ctx, query, createdBy, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []model.MonthlyTotal
	for rows.Next() {
		var t model.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.TotalAmount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (db *Postgres) GetDonationTotalsByEvent(ctx context.Context, createdBy *int64) ([]model.EventTotal, error) {
	query := `
		SELECT e.name, COALESCE(SUM(d.amount), 0), COUNT(d.id)
		FROM events e
		LEFT JOIN donations d ON d.event_id = e.id
			AND ($1::BIGINT IS NULL OR d.created_by = $1)
		WHERE $1::BIGINT IS NULL OR e.created_by = $1
		GROUP BY e.id, e.name
		ORDER BY COALESCE(SUM(d.amount), 0) DESC
	`
	rows, err := db.Pool.Query(ctx, query, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []model.EventTotal
	for rows.Next() {
		var t model.EventTotal
		if err := rows.Scan(&t.EventName, &t.TotalAmount, &t.DonationCount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (db *Postgres) GetDonationTotalsByType(ctx context.Context, createdBy *int64) ([]model.TypeTotal, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0), COUNT(*)
		FROM donations
		WHERE $1::BIGINT IS NULL OR created_by = $1
		GROUP BY type
		ORDER BY COALESCE(SUM(amount), 0) DESC
	`
	rows, err := db.Pool.Query(ctx, query, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []model.TypeTotal
	for rows.Next() {
		var t model.TypeTotal
		if err := rows.Scan(&t.Type, &t.TotalAmount, &t.DonationCount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type specialDayRepositoryImpl struct {
	db *database.DB
}

func NewSpecialDayRepository(db *database.DB) calendar.SpecialDayRepository {
	return &specialDayRepositoryImpl{db: db}
}

const specialDayColumns = `id, user_id, date, is_working, hours, reason, created_at, updated_at`

func scanSpecialDay(row pgx.Row) (calendar.SpecialDay, error) {
	var d calendar.SpecialDay
	err := row.Scan(&d.ID, &d.UserID, &d.Date, &d.IsWorking, &d.Hours, &d.Reason, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// GetByUserAndDate implements calendar.SpecialDayRepository.
func (r *specialDayRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*calendar.SpecialDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + specialDayColumns + `
		FROM special_days
		WHERE user_id = $1 AND date = $2::date
	`

	d, err := scanSpecialDay(q.QueryRow(ctx, query, userID, calendar.NormalizeDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get special day: %w", err)
	}
	return &d, nil
}

// ListByUserInRange implements calendar.SpecialDayRepository.
func (r *specialDayRepositoryImpl) ListByUserInRange(ctx context.Context, userID string, start, end time.Time) ([]calendar.SpecialDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + specialDayColumns + `
		FROM special_days
		WHERE user_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, userID, calendar.NormalizeDate(start), calendar.NormalizeDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list special days: %w", err)
	}
	defer rows.Close()

	return collectSpecialDays(rows)
}

// ListNonWorkingByUsersInRange implements calendar.SpecialDayRepository.
func (r *specialDayRepositoryImpl) ListNonWorkingByUsersInRange(ctx context.Context, userIDs []string, start, end time.Time) ([]calendar.SpecialDay, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + specialDayColumns + `
		FROM special_days
		WHERE user_id = ANY($1) AND date BETWEEN $2::date AND $3::date AND is_working = FALSE
		ORDER BY date, user_id
	`

	rows, err := q.Query(ctx, query, userIDs, calendar.NormalizeDate(start), calendar.NormalizeDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list team vacations: %w", err)
	}
	defer rows.Close()

	return collectSpecialDays(rows)
}

// ListAll implements calendar.SpecialDayRepository.
func (r *specialDayRepositoryImpl) ListAll(ctx context.Context) ([]calendar.SpecialDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + specialDayColumns + `
		FROM special_days
		ORDER BY user_id, date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list special days: %w", err)
	}
	defer rows.Close()

	return collectSpecialDays(rows)
}

// Upsert implements calendar.SpecialDayRepository: one row per (user, date).
func (r *specialDayRepositoryImpl) Upsert(ctx context.Context, day calendar.SpecialDay) (calendar.SpecialDay, error) {
	q := GetQuerier(ctx, r.db)

	id := day.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO special_days (id, user_id, date, is_working, hours, reason, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, date) DO UPDATE SET
			is_working = EXCLUDED.is_working,
			hours      = EXCLUDED.hours,
			reason     = EXCLUDED.reason,
			updated_at = NOW()
		RETURNING ` + specialDayColumns + `
	`

	d, err := scanSpecialDay(q.QueryRow(ctx, query, id, day.UserID, calendar.NormalizeDate(day.Date), day.IsWorking, day.Hours, day.Reason))
	if err != nil {
		return calendar.SpecialDay{}, fmt.Errorf("failed to upsert special day: %w", err)
	}
	return d, nil
}

// Delete implements calendar.SpecialDayRepository. Deleting a missing row
// reports false without an error.
func (r *specialDayRepositoryImpl) Delete(ctx context.Context, userID, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM special_days
		WHERE id = $1 AND user_id = $2
	`
	tag, err := q.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete special day: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectSpecialDays(rows pgx.Rows) ([]calendar.SpecialDay, error) {
	var days []calendar.SpecialDay
	for rows.Next() {
		var d calendar.SpecialDay
		if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.IsWorking, &d.Hours, &d.Reason, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

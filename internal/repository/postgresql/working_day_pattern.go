package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type workingDayPatternRepositoryImpl struct {
	db *database.DB
}

func NewWorkingDayPatternRepository(db *database.DB) calendar.WorkingDayPatternRepository {
	return &workingDayPatternRepositoryImpl{db: db}
}

// GetByUserID implements calendar.WorkingDayPatternRepository.
func (r *workingDayPatternRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]calendar.WorkingDayPattern, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, weekday, hours, is_active, created_at, updated_at
		FROM working_day_patterns
		WHERE user_id = $1
		ORDER BY weekday
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list working day patterns: %w", err)
	}
	defer rows.Close()

	var patterns []calendar.WorkingDayPattern
	for rows.Next() {
		var p calendar.WorkingDayPattern
		if err := rows.Scan(&p.ID, &p.UserID, &p.Weekday, &p.Hours, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// BulkCreate implements calendar.WorkingDayPatternRepository.
func (r *workingDayPatternRepositoryImpl) BulkCreate(ctx context.Context, patterns []calendar.WorkingDayPattern) ([]calendar.WorkingDayPattern, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO working_day_patterns (id, user_id, weekday, hours, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, user_id, weekday, hours, is_active, created_at, updated_at
	`

	created := make([]calendar.WorkingDayPattern, 0, len(patterns))
	for _, p := range patterns {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		var row calendar.WorkingDayPattern
		err := q.QueryRow(ctx, query, id, p.UserID, p.Weekday, p.Hours, p.IsActive).Scan(
			&row.ID, &row.UserID, &row.Weekday, &row.Hours, &row.IsActive, &row.CreatedAt, &row.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert working day pattern: %w", err)
		}
		created = append(created, row)
	}
	return created, nil
}

// DeleteByUserID implements calendar.WorkingDayPatternRepository.
func (r *workingDayPatternRepositoryImpl) DeleteByUserID(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM working_day_patterns
		WHERE user_id = $1
	`
	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete working day patterns: %w", err)
	}
	return nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maintcore/cmms-backend-go/internal/domain/department"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.Repository {
	return &departmentRepositoryImpl{db: db}
}

const departmentColumns = `id, name, parent_id, manager_id, created_at, updated_at`

// Create implements department.Repository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO departments (id, name, parent_id, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + departmentColumns + `
	`

	var created department.Department
	err := q.QueryRow(ctx, query, id, d.Name, d.ParentID, d.ManagerID).Scan(
		&created.ID, &created.Name, &created.ParentID, &created.ManagerID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return created, nil
}

// GetByID implements department.Repository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	return r.getOne(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id)
}

// GetByName implements department.Repository.
func (r *departmentRepositoryImpl) GetByName(ctx context.Context, name string) (department.Department, error) {
	return r.getOne(ctx, `SELECT `+departmentColumns+` FROM departments WHERE name = $1`, name)
}

func (r *departmentRepositoryImpl) getOne(ctx context.Context, query string, arg interface{}) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	var d department.Department
	err := q.QueryRow(ctx, query, arg).Scan(&d.ID, &d.Name, &d.ParentID, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, pgx.ErrNoRows
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// List implements department.Repository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var deps []department.Department
	for rows.Next() {
		var d department.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ParentID, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// ManagedSubtreeIDs implements department.Repository. The subtree is
// materialized in one recursive query instead of walking adjacency lists
// in application code.
func (r *departmentRepositoryImpl) ManagedSubtreeIDs(ctx context.Context, managerID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM departments WHERE manager_id = $1
			UNION
			SELECT d.id
			FROM departments d
			JOIN subtree s ON d.parent_id = s.id
		)
		SELECT id FROM subtree
	`

	rows, err := q.Query(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve managed departments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

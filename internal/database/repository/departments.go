package repository

import (
	"context"
	"database/sql"
)

// DepartmentRepo handles departments.
type DepartmentRepo struct {
	db *sql.DB
}

func NewDepartmentRepo(db *sql.DB) *DepartmentRepo {
	return &DepartmentRepo{db: db}
}

func (r *DepartmentRepo) Upsert(ctx context.Context, d Department) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO departments(id, name, description, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 description=excluded.description,
	 updated_at=CURRENT_TIMESTAMP;
	`, d.ID, d.Name, d.Description)
	return err
}

func (r *DepartmentRepo) Get(ctx context.Context, id string) (*Department, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at, updated_at FROM departments WHERE id = ?`, id)
	return scanDepartment(row)
}

func (r *DepartmentRepo) ByName(ctx context.Context, name string) (*Department, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at, updated_at FROM departments WHERE name = ?`, name)
	return scanDepartment(row)
}

func scanDepartment(row *sql.Row) (*Department, error) {
	var d Department
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepo) List(ctx context.Context) ([]Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountEmployees returns how many employees reference the department.
func (r *DepartmentRepo) CountEmployees(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE department_id = ?`, id).Scan(&n)
	return n, err
}

func (r *DepartmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	return err
}

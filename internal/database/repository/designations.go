package repository

import (
	"context"
	"database/sql"
)

// DesignationRepo handles designations.
type DesignationRepo struct {
	db *sql.DB
}

func NewDesignationRepo(db *sql.DB) *DesignationRepo { return &DesignationRepo{db: db} }

func (r *DesignationRepo) Upsert(ctx context.Context, d Designation) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO designations(id, department_id, title, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 department_id=excluded.department_id,
	 title=excluded.title,
	 updated_at=CURRENT_TIMESTAMP;
	`, d.ID, d.DepartmentID, d.Title)
	return err
}

func (r *DesignationRepo) Get(ctx context.Context, id string) (*Designation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, department_id, title, created_at, updated_at FROM designations WHERE id = ?`, id)
	var d Designation
	if err := row.Scan(&d.ID, &d.DepartmentID, &d.Title, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// List returns designations, all of them when departmentID is empty.
func (r *DesignationRepo) List(ctx context.Context, departmentID string) ([]Designation, error) {
	query := `SELECT id, department_id, title, created_at, updated_at FROM designations`
	var args []interface{}
	if departmentID != "" {
		query += ` WHERE department_id = ?`
		args = append(args, departmentID)
	}
	query += ` ORDER BY title`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Designation
	for rows.Next() {
		var d Designation
		if err := rows.Scan(&d.ID, &d.DepartmentID, &d.Title, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountEmployees returns how many employees hold the designation.
func (r *DesignationRepo) CountEmployees(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE designation_id = ?`, id).Scan(&n)
	return n, err
}

func (r *DesignationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM designations WHERE id = ?`, id)
	return err
}

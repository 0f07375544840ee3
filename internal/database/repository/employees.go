package repository

import (
	"context"
	"database/sql"
	"strings"
)

// EmployeeFilters defines list filters.
type EmployeeFilters struct {
	DepartmentID  string
	DesignationID string
	Status        string
	Search        string // matches names and email
}

// EmployeeRepo handles employees.
type EmployeeRepo struct {
	db *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeColumns = `id, first_name, last_name, email, phone, department_id, designation_id, hire_date, status, salary_cents, created_at, updated_at`

func (r *EmployeeRepo) Insert(ctx context.Context, e Employee) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO employees(`+employeeColumns+`)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.DepartmentID, e.DesignationID,
		e.HireDate, e.Status, e.SalaryCents)
	return err
}

// Update overwrites every editable column and reports whether the row
// existed.
func (r *EmployeeRepo) Update(ctx context.Context, e Employee) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE employees SET
	 first_name=?, last_name=?, email=?, phone=?, department_id=?, designation_id=?,
	 hire_date=?, status=?, salary_cents=?, updated_at=CURRENT_TIMESTAMP
	WHERE id = ?`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.DepartmentID, e.DesignationID,
		e.HireDate, e.Status, e.SalaryCents, e.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *EmployeeRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE employees SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *EmployeeRepo) Get(ctx context.Context, id string) (*Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) ByEmail(ctx context.Context, email string) (*Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = ?`, email)
	e, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) List(ctx context.Context, f EmployeeFilters) ([]Employee, error) {
	var where []string
	var args []interface{}

	if f.DepartmentID != "" {
		where = append(where, "department_id = ?")
		args = append(args, f.DepartmentID)
	}
	if f.DesignationID != "" {
		where = append(where, "designation_id = ?")
		args = append(args, f.DesignationID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		where = append(where, "(first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)")
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}

	query := "SELECT " + employeeColumns + " FROM employees"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_name, first_name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByStatus returns employee counts keyed by status.
func (r *EmployeeRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM employees GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(s scanner) (Employee, error) {
	var e Employee
	err := s.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.DepartmentID, &e.DesignationID,
		&e.HireDate, &e.Status, &e.SalaryCents, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

package repository

import (
	"context"
	"database/sql"
	"time"
)

// AttendanceRepo handles attendance days.
type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

// Upsert records the status of one employee-day. Day must already be
// normalised to midnight UTC.
func (r *AttendanceRepo) Upsert(ctx context.Context, a AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO attendance(employee_id, day, status, note, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(employee_id, day) DO UPDATE SET
	 status=excluded.status,
	 note=excluded.note,
	 updated_at=CURRENT_TIMESTAMP;
	`, a.EmployeeID, a.Day, a.Status, a.Note)
	return err
}

// UpsertTx is Upsert inside an open transaction.
func (r *AttendanceRepo) UpsertTx(ctx context.Context, tx *sql.Tx, a AttendanceRecord) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO attendance(employee_id, day, status, note, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(employee_id, day) DO UPDATE SET
	 status=excluded.status,
	 note=excluded.note,
	 updated_at=CURRENT_TIMESTAMP;
	`, a.EmployeeID, a.Day, a.Status, a.Note)
	return err
}

// Range returns records of employeeID with from <= day < to.
func (r *AttendanceRepo) Range(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT employee_id, day, status, note, updated_at FROM attendance
	WHERE employee_id = ? AND day >= ? AND day < ? ORDER BY day`, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AttendanceRecord
	for rows.Next() {
		var a AttendanceRecord
		if err := rows.Scan(&a.EmployeeID, &a.Day, &a.Status, &a.Note, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AttendanceRepo) Delete(ctx context.Context, employeeID string, day time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE employee_id = ? AND day = ?`, employeeID, day)
	return err
}

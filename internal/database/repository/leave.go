package repository

import (
	"context"
	"database/sql"
	"time"
)

// LeaveRepo handles leave requests.
type LeaveRepo struct {
	db *sql.DB
}

func NewLeaveRepo(db *sql.DB) *LeaveRepo { return &LeaveRepo{db: db} }

const leaveColumns = `id, employee_id, kind, start_date, end_date, reason, status, reviewer_id, decided_at, created_at`

func (r *LeaveRepo) Insert(ctx context.Context, l LeaveRequest) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO leave_requests(`+leaveColumns+`)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.EmployeeID, l.Kind, l.StartDate, l.EndDate, l.Reason, l.Status, l.ReviewerID, l.DecidedAt, l.CreatedAt)
	return err
}

func (r *LeaveRepo) Get(ctx context.Context, id string) (*LeaveRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = ?`, id)
	l, err := scanLeave(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// Decide moves a pending request to status. It reports false when the
// request was not pending any more.
func (r *LeaveRepo) Decide(ctx context.Context, id, status, reviewerID string, at time.Time) (bool, error) {
	return decideLeave(ctx, r.db, id, status, reviewerID, at)
}

// DecideTx is Decide inside an open transaction.
func (r *LeaveRepo) DecideTx(ctx context.Context, tx *sql.Tx, id, status, reviewerID string, at time.Time) (bool, error) {
	return decideLeave(ctx, tx, id, status, reviewerID, at)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func decideLeave(ctx context.Context, ex execer, id, status, reviewerID string, at time.Time) (bool, error) {
	res, err := ex.ExecContext(ctx, `
	UPDATE leave_requests SET status = ?, reviewer_id = ?, decided_at = ?
	WHERE id = ? AND status = 'pending'`, status, reviewerID, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns requests newest first; empty status or employeeID means
// no filter.
func (r *LeaveRepo) List(ctx context.Context, status, employeeID string) ([]LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE 1=1`
	var args []interface{}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if employeeID != "" {
		query += ` AND employee_id = ?`
		args = append(args, employeeID)
	}
	query += ` ORDER BY start_date DESC, created_at DESC`
	return r.query(ctx, query, args...)
}

// Overlapping returns requests of employeeID with one of statuses whose
// range intersects [start, end].
func (r *LeaveRepo) Overlapping(ctx context.Context, employeeID string, start, end time.Time, statuses ...string) ([]LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests
	WHERE employee_id = ? AND start_date <= ? AND end_date >= ?`
	args := []interface{}{employeeID, end, start}
	if len(statuses) > 0 {
		query += ` AND status IN (?` + repeatPlaceholders(len(statuses)-1) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	return r.query(ctx, query, args...)
}

func (r *LeaveRepo) query(ctx context.Context, query string, args ...interface{}) ([]LeaveRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLeave(s scanner) (LeaveRequest, error) {
	var l LeaveRequest
	err := s.Scan(&l.ID, &l.EmployeeID, &l.Kind, &l.StartDate, &l.EndDate, &l.Reason, &l.Status, &l.ReviewerID, &l.DecidedAt, &l.CreatedAt)
	return l, err
}

func repeatPlaceholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

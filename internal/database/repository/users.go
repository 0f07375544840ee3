package repository

import (
	"context"
	"database/sql"
	"time"
)

// UserRepo handles staff logins.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Insert(ctx context.Context, u StaffUser) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO staff_users(id, username, password_hash, role, created_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`, u.ID, u.Username, u.PasswordHash, u.Role)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE staff_users SET password_hash = ? WHERE id = ?`, hash, id)
	return err
}

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*StaffUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at FROM staff_users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *UserRepo) Get(ctx context.Context, id string) (*StaffUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at FROM staff_users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*StaffUser, error) {
	var u StaffUser
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]StaffUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, password_hash, role, created_at FROM staff_users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StaffUser
	for rows.Next() {
		var u StaffUser
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SessionRepo handles sessions.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Insert(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(token, user_id, created_at, last_seen_at, expires_at)
	VALUES (?, ?, ?, ?, ?)`, s.Token, s.UserID, s.CreatedAt, s.LastSeenAt, s.ExpiresAt)
	return err
}

func (r *SessionRepo) Get(ctx context.Context, token string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT token, user_id, created_at, last_seen_at, expires_at FROM sessions WHERE token = ?`, token)
	var s Session
	if err := row.Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.LastSeenAt, &s.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Touch(ctx context.Context, token string, seen, expires time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET last_seen_at = ?, expires_at = ? WHERE token = ?`, seen, expires, token)
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteExpired removes sessions whose expiry is not after now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package repository

import (
	"context"
	"database/sql"
)

// DocumentRepo handles uploaded documents.
type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{db: db} }

func (r *DocumentRepo) Insert(ctx context.Context, d Document) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO documents(id, employee_id, filename, mime_type, size_bytes, content_b64, uploaded_by, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		d.ID, d.EmployeeID, d.Filename, d.MimeType, d.SizeBytes, d.ContentB64, d.UploadedBy)
	return err
}

func (r *DocumentRepo) Get(ctx context.Context, id string) (*Document, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, employee_id, filename, mime_type, size_bytes, content_b64, uploaded_by, created_at
	FROM documents WHERE id = ?`, id)
	var d Document
	if err := row.Scan(&d.ID, &d.EmployeeID, &d.Filename, &d.MimeType, &d.SizeBytes, &d.ContentB64, &d.UploadedBy, &d.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// ListForEmployee returns metadata only; ContentB64 is left empty.
func (r *DocumentRepo) ListForEmployee(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, employee_id, filename, mime_type, size_bytes, uploaded_by, created_at
	FROM documents WHERE employee_id = ? ORDER BY created_at DESC, filename`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Filename, &d.MimeType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

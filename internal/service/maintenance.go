package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jask/staffdesk/internal/database"
)

// MaintenanceService houses destructive actions surfaced through the TUI.
type MaintenanceService struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// Reset wipes directory and activity data, then restores the default
// departments. Staff logins survive unless includeUsers is set.
func (s *MaintenanceService) Reset(ctx context.Context, includeUsers bool) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	tables := []string{
		"attendance",
		"documents",
		"leave_requests",
		"employees",
		"designations",
		"departments",
		"notification_reads",
		"notifications",
	}
	if includeUsers {
		tables = append(tables, "sessions", "staff_users")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	if s.Logger != nil {
		s.Logger.Warn("data reset", "tables", len(tables))
	}
	return database.SeedDefaults(ctx, s.DB)
}

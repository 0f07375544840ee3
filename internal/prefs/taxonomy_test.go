package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/service"
)

func directory(t *testing.T, ctx context.Context) *service.DirectoryService {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))
	return &service.DirectoryService{
		DB:           db,
		Employees:    repository.NewEmployeeRepo(db),
		Departments:  repository.NewDepartmentRepo(db),
		Designations: repository.NewDesignationRepo(db),
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	depts, err := LoadTaxonomy(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Nil(t, depts)
}

func TestSaveAndRestoreIntoFreshDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cfg", taxonomyFile)

	src := directory(t, ctx)
	legal, err := src.CreateDepartment(ctx, "Legal", "contracts")
	require.NoError(t, err)
	_, err = src.CreateDesignation(ctx, legal.ID, "Paralegal")
	require.NoError(t, err)
	_, err = src.CreateDesignation(ctx, legal.ID, "Counsel")
	require.NoError(t, err)
	require.NoError(t, Save(ctx, src, path))

	snap, err := LoadTaxonomy(path)
	require.NoError(t, err)
	var found bool
	for _, d := range snap {
		if d.Name == "Legal" {
			found = true
			require.Equal(t, []string{"Counsel", "Paralegal"}, d.Designations)
			require.Equal(t, "contracts", d.Description)
		}
	}
	require.True(t, found)

	dst := directory(t, ctx)
	res, err := Restore(ctx, dst, path)
	require.NoError(t, err)
	require.Equal(t, 1, res.Departments)
	require.Equal(t, 2, res.Designations)

	res, err = Restore(ctx, dst, path)
	require.NoError(t, err)
	require.Zero(t, res.Departments+res.Designations, "restore only adds what is missing")
}

// Package prefs keeps a copy of the department taxonomy outside the
// database, so fresh databases and data resets start from the
// departments and designations the staff defined.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jask/staffdesk/internal/fixtures"
	"github.com/jask/staffdesk/internal/service"
)

const taxonomyFile = "departments.json"

// TaxonomyPath is the snapshot location under the user config dir.
func TaxonomyPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "staffdesk", taxonomyFile), nil
}

func SaveTaxonomy(path string, depts []fixtures.Department) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(depts, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadTaxonomy reads a snapshot. A missing file yields nil.
func LoadTaxonomy(path string) ([]fixtures.Department, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var depts []fixtures.Department
	if err := json.Unmarshal(data, &depts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return depts, nil
}

// Snapshot reads the current taxonomy from the directory.
func Snapshot(ctx context.Context, dir *service.DirectoryService) ([]fixtures.Department, error) {
	depts, err := dir.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := dir.ListDesignations(ctx, "")
	if err != nil {
		return nil, err
	}
	byDept := map[string][]string{}
	for _, d := range titles {
		byDept[d.DepartmentID] = append(byDept[d.DepartmentID], d.Title)
	}
	out := make([]fixtures.Department, 0, len(depts))
	for _, d := range depts {
		names := byDept[d.ID]
		sort.Strings(names)
		out = append(out, fixtures.Department{Name: d.Name, Description: d.Description, Designations: names})
	}
	return out, nil
}

// Save snapshots the directory into path.
func Save(ctx context.Context, dir *service.DirectoryService, path string) error {
	depts, err := Snapshot(ctx, dir)
	if err != nil {
		return err
	}
	return SaveTaxonomy(path, depts)
}

// Restore adds the departments and designations of the snapshot at path
// that the directory lacks. Nothing is removed.
func Restore(ctx context.Context, dir *service.DirectoryService, path string) (fixtures.Result, error) {
	depts, err := LoadTaxonomy(path)
	if err != nil || len(depts) == 0 {
		return fixtures.Result{}, err
	}
	return fixtures.Apply(ctx, fixtures.File{Departments: depts}, dir, nil)
}

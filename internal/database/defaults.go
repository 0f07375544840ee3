package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/staffdesk/internal/database/repository"
)

// defaultDepartments maps department names to their starting designations.
var defaultDepartments = []struct {
	name   string
	titles []string
}{
	{"Engineering", []string{"Software Engineer", "Senior Software Engineer", "Engineering Manager"}},
	{"Human Resources", []string{"HR Generalist", "Recruiter"}},
	{"Finance", []string{"Accountant", "Financial Analyst"}},
	{"Sales", []string{"Account Executive", "Sales Manager"}},
	{"Operations", []string{"Operations Coordinator"}},
}

// SeedDefaults ensures baseline departments and designations exist for
// new databases. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	deptRepo := repository.NewDepartmentRepo(db)
	existing, err := deptRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	desigRepo := repository.NewDesignationRepo(db)
	for _, d := range defaultDepartments {
		id := SeedID("dept", d.name)
		if err := deptRepo.Upsert(ctx, repository.Department{ID: id, Name: d.name}); err != nil {
			return err
		}
		for _, title := range d.titles {
			des := repository.Designation{ID: SeedID("desig", d.name+"/"+title), DepartmentID: id, Title: title}
			if err := desigRepo.Upsert(ctx, des); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedID derives a stable id so reseeding converges on the same rows.
func SeedID(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+name)).String()
}

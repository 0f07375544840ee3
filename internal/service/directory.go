package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
)

// DirectoryService manages employees, departments and designations.
type DirectoryService struct {
	DB           *sql.DB
	Employees    *repository.EmployeeRepo
	Departments  *repository.DepartmentRepo
	Designations *repository.DesignationRepo
	Logger       *slog.Logger
}

func (s *DirectoryService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// EmployeeInput carries form values as typed by the user.
type EmployeeInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	DepartmentID  string
	DesignationID string
	HireDate      string // YYYY-MM-DD, optional
	Status        string // defaults to active
	Salary        string // dollars, optional
}

// InputFromEmployee turns a stored employee back into form values.
func InputFromEmployee(e repository.Employee) EmployeeInput {
	in := EmployeeInput{
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Phone:         e.Phone,
		DepartmentID:  deref(e.DepartmentID),
		DesignationID: deref(e.DesignationID),
		Status:        e.Status,
	}
	if e.HireDate != nil {
		in.HireDate = e.HireDate.Format(dateLayout)
	}
	if e.SalaryCents != 0 {
		in.Salary = CentsToDollars(e.SalaryCents)
	}
	return in
}

func (s *DirectoryService) buildEmployee(ctx context.Context, id string, in EmployeeInput) (repository.Employee, error) {
	e := repository.Employee{
		ID:        id,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Status:    strings.ToLower(strings.TrimSpace(in.Status)),
	}
	if e.FirstName == "" {
		return e, invalid("first_name", "required")
	}
	if e.Email == "" {
		return e, invalid("email", "required")
	}
	if addr, err := mail.ParseAddress(e.Email); err != nil || addr.Address != e.Email {
		return e, invalid("email", "%q is not an email address", in.Email)
	}
	switch e.Status {
	case "":
		e.Status = repository.EmployeeActive
	case repository.EmployeeActive, repository.EmployeeInactive:
	default:
		return e, invalid("status", "unknown status %q", in.Status)
	}
	if strings.TrimSpace(in.HireDate) != "" {
		d, err := parseDay(in.HireDate)
		if err != nil {
			return e, invalid("hire_date", "use YYYY-MM-DD")
		}
		e.HireDate = &d
	}
	cents, err := dollarsToCents(in.Salary)
	if err != nil {
		return e, invalid("salary", "not a number")
	}
	if cents < 0 {
		return e, invalid("salary", "must not be negative")
	}
	e.SalaryCents = cents

	e.DepartmentID = nullableStr(in.DepartmentID)
	e.DesignationID = nullableStr(in.DesignationID)
	if e.DepartmentID != nil {
		dept, err := s.Departments.Get(ctx, *e.DepartmentID)
		if err != nil {
			return e, err
		}
		if dept == nil {
			return e, invalid("department", "unknown department")
		}
	}
	if e.DesignationID != nil {
		des, err := s.Designations.Get(ctx, *e.DesignationID)
		if err != nil {
			return e, err
		}
		if des == nil {
			return e, invalid("designation", "unknown designation")
		}
		if e.DepartmentID == nil {
			deptID := des.DepartmentID
			e.DepartmentID = &deptID
		} else if *e.DepartmentID != des.DepartmentID {
			return e, invalid("designation", "%s is not part of the selected department", des.Title)
		}
	}
	return e, nil
}

func (s *DirectoryService) CreateEmployee(ctx context.Context, in EmployeeInput) (repository.Employee, error) {
	e, err := s.buildEmployee(ctx, uuid.NewString(), in)
	if err != nil {
		return e, err
	}
	if dup, err := s.Employees.ByEmail(ctx, e.Email); err != nil {
		return e, err
	} else if dup != nil {
		return e, fmt.Errorf("email %s already used by %s: %w", e.Email, dup.FullName(), ErrConflict)
	}
	if err := s.Employees.Insert(ctx, e); err != nil {
		return e, fmt.Errorf("insert employee: %w", err)
	}
	s.log().Info("employee created", "id", e.ID, "email", e.Email)
	return e, nil
}

func (s *DirectoryService) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (repository.Employee, error) {
	e, err := s.buildEmployee(ctx, id, in)
	if err != nil {
		return e, err
	}
	if dup, err := s.Employees.ByEmail(ctx, e.Email); err != nil {
		return e, err
	} else if dup != nil && dup.ID != id {
		return e, fmt.Errorf("email %s already used by %s: %w", e.Email, dup.FullName(), ErrConflict)
	}
	ok, err := s.Employees.Update(ctx, e)
	if err != nil {
		return e, fmt.Errorf("update employee: %w", err)
	}
	if !ok {
		return e, notFound("employee", id)
	}
	s.log().Info("employee updated", "id", id)
	return e, nil
}

func (s *DirectoryService) DeleteEmployee(ctx context.Context, id string) error {
	ok, err := s.Employees.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if !ok {
		return notFound("employee", id)
	}
	s.log().Info("employee deleted", "id", id)
	return nil
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id string) (repository.Employee, error) {
	e, err := s.Employees.Get(ctx, id)
	if err != nil {
		return repository.Employee{}, err
	}
	if e == nil {
		return repository.Employee{}, notFound("employee", id)
	}
	return *e, nil
}

func (s *DirectoryService) ListEmployees(ctx context.Context, f repository.EmployeeFilters) ([]repository.Employee, error) {
	return s.Employees.List(ctx, f)
}

func (s *DirectoryService) CreateDepartment(ctx context.Context, name, description string) (repository.Department, error) {
	d := repository.Department{ID: uuid.NewString(), Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := s.checkDepartmentName(ctx, d.ID, d.Name); err != nil {
		return d, err
	}
	if err := s.Departments.Upsert(ctx, d); err != nil {
		return d, fmt.Errorf("insert department: %w", err)
	}
	return d, nil
}

func (s *DirectoryService) UpdateDepartment(ctx context.Context, id, name, description string) (repository.Department, error) {
	existing, err := s.Departments.Get(ctx, id)
	if err != nil {
		return repository.Department{}, err
	}
	if existing == nil {
		return repository.Department{}, notFound("department", id)
	}
	d := *existing
	d.Name, d.Description = strings.TrimSpace(name), strings.TrimSpace(description)
	if err := s.checkDepartmentName(ctx, id, d.Name); err != nil {
		return d, err
	}
	if err := s.Departments.Upsert(ctx, d); err != nil {
		return d, fmt.Errorf("update department: %w", err)
	}
	return d, nil
}

func (s *DirectoryService) checkDepartmentName(ctx context.Context, id, name string) error {
	if name == "" {
		return invalid("name", "required")
	}
	other, err := s.Departments.ByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != id {
		return fmt.Errorf("department %q exists: %w", name, ErrConflict)
	}
	return nil
}

// DeleteDepartment removes a department and its designations. It refuses
// while employees still belong to the department.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, id string) error {
	n, err := s.Departments.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("department has %d employees: %w", n, ErrConflict)
	}
	var removed int64
	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM designations WHERE department_id = ?`, id); err != nil {
			return fmt.Errorf("delete designations: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return notFound("department", id)
	}
	return nil
}

func (s *DirectoryService) ListDepartments(ctx context.Context) ([]repository.Department, error) {
	return s.Departments.List(ctx)
}

func (s *DirectoryService) CreateDesignation(ctx context.Context, departmentID, title string) (repository.Designation, error) {
	d := repository.Designation{ID: uuid.NewString(), DepartmentID: departmentID, Title: strings.TrimSpace(title)}
	if err := s.checkDesignation(ctx, d); err != nil {
		return d, err
	}
	if err := s.Designations.Upsert(ctx, d); err != nil {
		return d, fmt.Errorf("insert designation: %w", err)
	}
	return d, nil
}

// UpdateDesignation renames a designation or moves it to another
// department. A move is refused while employees hold the designation.
func (s *DirectoryService) UpdateDesignation(ctx context.Context, id, departmentID, title string) (repository.Designation, error) {
	existing, err := s.Designations.Get(ctx, id)
	if err != nil {
		return repository.Designation{}, err
	}
	if existing == nil {
		return repository.Designation{}, notFound("designation", id)
	}
	d := *existing
	d.DepartmentID, d.Title = departmentID, strings.TrimSpace(title)
	if err := s.checkDesignation(ctx, d); err != nil {
		return d, err
	}
	if d.DepartmentID != existing.DepartmentID {
		n, err := s.Designations.CountEmployees(ctx, id)
		if err != nil {
			return d, err
		}
		if n > 0 {
			return d, fmt.Errorf("%s is held by %d employees: %w", existing.Title, n, ErrConflict)
		}
	}
	if err := s.Designations.Upsert(ctx, d); err != nil {
		return d, fmt.Errorf("update designation: %w", err)
	}
	return d, nil
}

func (s *DirectoryService) checkDesignation(ctx context.Context, d repository.Designation) error {
	if d.Title == "" {
		return invalid("title", "required")
	}
	if d.DepartmentID == "" {
		return invalid("department", "required")
	}
	dept, err := s.Departments.Get(ctx, d.DepartmentID)
	if err != nil {
		return err
	}
	if dept == nil {
		return invalid("department", "unknown department")
	}
	siblings, err := s.Designations.List(ctx, d.DepartmentID)
	if err != nil {
		return err
	}
	for _, o := range siblings {
		if o.ID != d.ID && strings.EqualFold(o.Title, d.Title) {
			return fmt.Errorf("%s already has %q: %w", dept.Name, d.Title, ErrConflict)
		}
	}
	return nil
}

func (s *DirectoryService) DeleteDesignation(ctx context.Context, id string) error {
	existing, err := s.Designations.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFound("designation", id)
	}
	return s.Designations.Delete(ctx, id)
}

func (s *DirectoryService) ListDesignations(ctx context.Context, departmentID string) ([]repository.Designation, error) {
	return s.Designations.List(ctx, departmentID)
}

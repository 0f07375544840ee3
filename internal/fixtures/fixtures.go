// Package fixtures loads demo or test data from a YAML file into the
// directory. Applying the same file twice converges on the same rows.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/service"
)

// File is the fixture document.
type File struct {
	Departments []Department `yaml:"departments"`
	Employees   []Employee   `yaml:"employees"`
	Users       []User       `yaml:"users"`
}

// Department doubles as the taxonomy snapshot entry of package prefs.
type Department struct {
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	Designations []string `yaml:"designations,omitempty" json:"designations,omitempty"`
}

type Employee struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone,omitempty"`
	Department  string `yaml:"department,omitempty"`
	Designation string `yaml:"designation,omitempty"`
	HireDate    string `yaml:"hire_date,omitempty"`
	Status      string `yaml:"status,omitempty"`
	Salary      string `yaml:"salary,omitempty"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role,omitempty"`
}

// Load reads and parses path.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a fixture document, rejecting unknown keys.
func Parse(r io.Reader) (File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse fixtures: %w", err)
	}
	return out, nil
}

// Result counts what Apply changed.
type Result struct {
	Departments  int
	Designations int
	Employees    int
	Users        int
}

// Apply writes f through the services. Existing departments, designations
// and users are kept; employees are matched by email and updated.
func Apply(ctx context.Context, f File, dir *service.DirectoryService, auth *service.AuthService) (Result, error) {
	var res Result
	depts := map[string]repository.Department{}
	existing, err := dir.ListDepartments(ctx)
	if err != nil {
		return res, err
	}
	for _, d := range existing {
		depts[strings.ToLower(d.Name)] = d
	}
	ensureDept := func(name, desc string) (repository.Department, error) {
		if d, ok := depts[strings.ToLower(name)]; ok {
			return d, nil
		}
		d, err := dir.CreateDepartment(ctx, name, desc)
		if err != nil {
			return d, fmt.Errorf("department %q: %w", name, err)
		}
		depts[strings.ToLower(name)] = d
		res.Departments++
		return d, nil
	}
	ensureTitle := func(dept repository.Department, title string) (repository.Designation, error) {
		titles, err := dir.ListDesignations(ctx, dept.ID)
		if err != nil {
			return repository.Designation{}, err
		}
		for _, t := range titles {
			if strings.EqualFold(t.Title, title) {
				return t, nil
			}
		}
		d, err := dir.CreateDesignation(ctx, dept.ID, title)
		if err != nil {
			return d, fmt.Errorf("designation %q: %w", title, err)
		}
		res.Designations++
		return d, nil
	}

	for _, d := range f.Departments {
		dept, err := ensureDept(d.Name, d.Description)
		if err != nil {
			return res, err
		}
		for _, title := range d.Designations {
			if _, err := ensureTitle(dept, title); err != nil {
				return res, err
			}
		}
	}

	for _, e := range f.Employees {
		in := service.EmployeeInput{
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Email:     e.Email,
			Phone:     e.Phone,
			HireDate:  e.HireDate,
			Status:    e.Status,
			Salary:    e.Salary,
		}
		if e.Department != "" {
			dept, err := ensureDept(e.Department, "")
			if err != nil {
				return res, err
			}
			in.DepartmentID = dept.ID
			if e.Designation != "" {
				des, err := ensureTitle(dept, e.Designation)
				if err != nil {
					return res, err
				}
				in.DesignationID = des.ID
			}
		}
		prev, err := dir.Employees.ByEmail(ctx, strings.ToLower(strings.TrimSpace(e.Email)))
		if err != nil {
			return res, err
		}
		if prev != nil {
			_, err = dir.UpdateEmployee(ctx, prev.ID, in)
		} else {
			_, err = dir.CreateEmployee(ctx, in)
		}
		if err != nil {
			return res, fmt.Errorf("employee %s: %w", e.Email, err)
		}
		res.Employees++
	}

	for _, u := range f.Users {
		_, err := auth.CreateUser(ctx, u.Username, u.Password, u.Role)
		if errors.Is(err, service.ErrConflict) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("user %s: %w", u.Username, err)
		}
		res.Users++
	}
	return res, nil
}

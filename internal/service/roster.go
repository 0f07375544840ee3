package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/jask/staffdesk/internal/database/repository"
)

// RosterService moves employees in and out of spreadsheets.
type RosterService struct {
	Directory *DirectoryService
	Logger    *slog.Logger
}

func (s *RosterService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// ImportResult summarises one roster import.
type ImportResult struct {
	Created            int
	Updated            int
	Skipped            int
	DepartmentsCreated int
	Problems           []string // "row N: reason"
}

// rosterHeaders maps accepted header spellings to canonical columns.
var rosterHeaders = map[string]string{
	"first name":    "first",
	"firstname":     "first",
	"given name":    "first",
	"last name":     "last",
	"lastname":      "last",
	"surname":       "last",
	"name":          "name",
	"employee name": "name",
	"full name":     "name",
	"email":         "email",
	"e-mail":        "email",
	"email address": "email",
	"phone":         "phone",
	"phone number":  "phone",
	"mobile":        "phone",
	"department":    "department",
	"dept":          "department",
	"designation":   "designation",
	"title":         "designation",
	"job title":     "designation",
	"position":      "designation",
	"hire date":     "hire_date",
	"start date":    "hire_date",
	"hired":         "hire_date",
	"status":        "status",
	"salary":        "salary",
}

// ImportFile reads an .xlsx or .xls roster. Rows are matched to existing
// employees by email; unknown departments and designations are created.
func (s *RosterService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(expandHome(path))
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()
	return s.Import(ctx, f, filepath.Base(path))
}

func (s *RosterService) Import(ctx context.Context, r io.Reader, filename string) (ImportResult, error) {
	var res ImportResult
	rows, err := readRowsFromSpreadsheet(r, filename)
	if err != nil {
		return res, fmt.Errorf("read roster: %w", err)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		if c, ok := rosterHeaders[normalizeHeader(h)]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	if _, ok := cols["email"]; !ok {
		return res, fmt.Errorf("missing required column: email")
	}
	_, hasFirst := cols["first"]
	_, hasName := cols["name"]
	if !hasFirst && !hasName {
		return res, fmt.Errorf("missing required column: first name or name")
	}
	cell := func(row []string, col string) string {
		idx, ok := cols[col]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}

	depts := map[string]repository.Department{}
	existing, err := s.Directory.ListDepartments(ctx)
	if err != nil {
		return res, err
	}
	for _, d := range existing {
		depts[strings.ToLower(d.Name)] = d
	}

	for i, row := range rows[1:] {
		line := i + 2
		email := cell(row, "email")
		if email == "" && strings.Join(row, "") == "" {
			continue
		}
		in := EmployeeInput{
			FirstName: cell(row, "first"),
			LastName:  cell(row, "last"),
			Email:     email,
			Phone:     cell(row, "phone"),
			Status:    rosterStatus(cell(row, "status")),
			Salary:    cell(row, "salary"),
		}
		if in.FirstName == "" {
			in.FirstName, in.LastName = splitName(cell(row, "name"))
		}
		if hd := cell(row, "hire_date"); hd != "" {
			d, ok := normalizeDate(hd)
			if !ok {
				res.Skipped++
				res.Problems = append(res.Problems, fmt.Sprintf("row %d: unreadable hire date %q", line, hd))
				continue
			}
			in.HireDate = d
		}
		if name := cell(row, "department"); name != "" {
			dept, ok := depts[strings.ToLower(name)]
			if !ok {
				dept, err = s.Directory.CreateDepartment(ctx, name, "")
				if err != nil {
					res.Skipped++
					res.Problems = append(res.Problems, fmt.Sprintf("row %d: %v", line, err))
					continue
				}
				depts[strings.ToLower(name)] = dept
				res.DepartmentsCreated++
			}
			in.DepartmentID = dept.ID
			if title := cell(row, "designation"); title != "" {
				des, err := s.designation(ctx, dept.ID, title)
				if err != nil {
					res.Skipped++
					res.Problems = append(res.Problems, fmt.Sprintf("row %d: %v", line, err))
					continue
				}
				in.DesignationID = des.ID
			}
		}

		prev, err := s.Directory.Employees.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			return res, err
		}
		if prev != nil {
			_, err = s.Directory.UpdateEmployee(ctx, prev.ID, in)
		} else {
			_, err = s.Directory.CreateEmployee(ctx, in)
		}
		switch {
		case err == nil && prev != nil:
			res.Updated++
		case err == nil:
			res.Created++
		case errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict):
			res.Skipped++
			res.Problems = append(res.Problems, fmt.Sprintf("row %d: %v", line, err))
		default:
			return res, err
		}
	}
	s.log().Info("roster imported", "file", filename, "created", res.Created,
		"updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

func (s *RosterService) designation(ctx context.Context, deptID, title string) (repository.Designation, error) {
	list, err := s.Directory.ListDesignations(ctx, deptID)
	if err != nil {
		return repository.Designation{}, err
	}
	for _, d := range list {
		if strings.EqualFold(d.Title, title) {
			return d, nil
		}
	}
	return s.Directory.CreateDesignation(ctx, deptID, title)
}

func readRowsFromSpreadsheet(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if wb.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := wb.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		sheet := f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	}
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(h, "_", " "))), " ")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// splitName accepts "First Last" and "Last, First".
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if last, first, ok := strings.Cut(name, ","); ok {
		return strings.TrimSpace(first), strings.TrimSpace(last)
	}
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

func rosterStatus(s string) string {
	s = strings.ToLower(s)
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "inactive"), strings.Contains(s, "terminat"), strings.Contains(s, "left"):
		return repository.EmployeeInactive
	}
	return repository.EmployeeActive
}

var rosterDateLayouts = []string{
	dateLayout,
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// normalizeDate reads the date shapes spreadsheets export, including
// Excel serial numbers, into YYYY-MM-DD.
func normalizeDate(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial >= 1 && serial <= 80000 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t.Format(dateLayout), true
			}
		}
		return "", false
	}
	for _, layout := range rosterDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(dateLayout), true
		}
	}
	return "", false
}

var rosterExportHeader = []interface{}{
	"First Name", "Last Name", "Email", "Phone", "Department", "Designation", "Hire Date", "Status", "Salary",
}

// Export writes every employee to an .xlsx file at path.
func (s *RosterService) Export(ctx context.Context, path string) (int, error) {
	emps, err := s.Directory.ListEmployees(ctx, repository.EmployeeFilters{})
	if err != nil {
		return 0, err
	}
	depts, err := s.Directory.ListDepartments(ctx)
	if err != nil {
		return 0, err
	}
	deptNames := map[string]string{}
	for _, d := range depts {
		deptNames[d.ID] = d.Name
	}
	titles := map[string]string{}
	desigs, err := s.Directory.ListDesignations(ctx, "")
	if err != nil {
		return 0, err
	}
	for _, d := range desigs {
		titles[d.ID] = d.Title
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Employees"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(sheet, "A1", &rosterExportHeader); err != nil {
		return 0, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return 0, err
	}
	for i, e := range emps {
		hire := ""
		if e.HireDate != nil {
			hire = e.HireDate.Format(dateLayout)
		}
		row := []interface{}{
			e.FirstName, e.LastName, e.Email, e.Phone,
			deptNames[deref(e.DepartmentID)], titles[deref(e.DesignationID)],
			hire, e.Status, float64(e.SalaryCents) / 100,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "I", 18); err != nil {
		return 0, err
	}
	path = expandHome(path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save roster: %w", err)
	}
	s.log().Info("roster exported", "path", path, "rows", len(emps))
	return len(emps), nil
}

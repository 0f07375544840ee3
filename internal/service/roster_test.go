package service

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jask/staffdesk/internal/database/repository"
)

func rosterWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportRoster(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	existing := env.hire(t, ctx, "Ada", "ada@example.com")

	buf := rosterWorkbook(t, [][]interface{}{
		{"Employee Name", "E-mail", "Dept", "Job Title", "Start Date", "Status", "Salary"},
		{"Lovelace, Ada", "ADA@example.com", "Engineering", "Software Engineer", "2024-01-15", "Active", "120000"},
		{"Grace Brewster Hopper", "grace@example.com", "Research", "Scientist", "45000", "", ""},
		{"Alan Turing", "not-an-email", "Research", "", "", "", ""},
		{"Linus", "linus@example.com", "", "", "someday", "", ""},
		{"", "", "", "", "", "", ""},
		{"Old Timer", "old@example.com", "Finance", "", "3/4/2020", "Terminated", ""},
	})

	res, err := env.roster.Import(ctx, buf, "roster.xlsx")
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)
	require.Equal(t, 1, res.Updated)
	require.Equal(t, 2, res.Skipped)
	require.Equal(t, 1, res.DepartmentsCreated)
	require.Len(t, res.Problems, 2)
	require.Contains(t, res.Problems[0], "row 4")
	require.Contains(t, res.Problems[1], "row 5")

	ada, err := env.directory.GetEmployee(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, "Lovelace", ada.LastName)
	require.Equal(t, int64(12000000), ada.SalaryCents)
	require.Equal(t, "2024-01-15", ada.HireDate.Format(dateLayout))

	grace, err := env.directory.Employees.ByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	require.NotNil(t, grace)
	require.Equal(t, "Grace Brewster", grace.FirstName)
	require.Equal(t, "2023-03-15", grace.HireDate.Format(dateLayout), "excel serial date")
	research := env.department(t, ctx, "Research")
	require.Equal(t, research.ID, *grace.DepartmentID)
	titles, err := env.directory.ListDesignations(ctx, research.ID)
	require.NoError(t, err)
	require.Len(t, titles, 1)

	old, err := env.directory.Employees.ByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	require.Equal(t, repository.EmployeeInactive, old.Status)
}

func TestImportRosterRequiresColumns(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	buf := rosterWorkbook(t, [][]interface{}{{"Name", "Phone"}, {"Ada", "1"}})
	_, err := env.roster.Import(ctx, buf, "roster.xlsx")
	require.ErrorContains(t, err, "email")

	_, err = env.roster.Import(ctx, bytes.NewBufferString("not a workbook"), "roster.xlsx")
	require.Error(t, err)
}

func TestExportRosterRoundTrip(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	env.hire(t, ctx, "Ada", "ada@example.com")
	env.hire(t, ctx, "Bob", "bob@example.com")

	path := filepath.Join(t.TempDir(), "out", "roster.xlsx")
	n, err := env.roster.Export(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Email", rows[0][2])
	require.Equal(t, "Engineering", rows[1][4])

	res, err := env.roster.ImportFile(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 2, res.Updated)
	require.Zero(t, res.Created)
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2026-03-02":  "2026-03-02",
		"3/2/2026":    "2026-03-02",
		"03/02/2026":  "2026-03-02",
		"2 Mar 2026":  "2026-03-02",
		"Mar 2, 2026": "2026-03-02",
		"46083":       "2026-03-02",
	}
	for in, want := range cases {
		got, ok := normalizeDate(in)
		if !ok || got != want {
			t.Fatalf("normalizeDate(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := normalizeDate("soon"); ok {
		t.Fatalf("expected failure for free text")
	}
}

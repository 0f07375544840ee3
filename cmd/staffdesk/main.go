package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/config"
	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/fixtures"
	"github.com/jask/staffdesk/internal/prefs"
	"github.com/jask/staffdesk/internal/service"
	"github.com/jask/staffdesk/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	dbPath      string
	seed        string
	importPath  string
	exportPath  string
	createAdmin string
	logLevel    string
	openUI      bool
}

func (o options) batch() bool {
	return o.seed != "" || o.importPath != "" || o.exportPath != "" || o.createAdmin != ""
}

func run() error {
	var opts options
	flagSet := pflag.NewFlagSet("staffdesk", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default $STAFFDESK_CONFIG or ~/.config/staffdesk/config.toml)")
	flagSet.StringVar(&opts.dbPath, "db", "", "sqlite database path (overrides database.path)")
	flagSet.StringVar(&opts.seed, "seed", "", "load departments, employees and users from a YAML fixtures file")
	flagSet.StringVar(&opts.importPath, "import", "", "import employees from an .xlsx or .xls roster")
	flagSet.StringVar(&opts.exportPath, "export", "", "export employees to an .xlsx roster")
	flagSet.StringVar(&opts.createAdmin, "create-admin", "", "create an admin account; the password comes from STAFFDESK_ADMIN_PASSWORD or a prompt")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	flagSet.BoolVar(&opts.openUI, "tui", false, "open the dashboard after running batch flags")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	clk := clock.Real()
	services := wire(db, cfg, clk, logger)

	taxPath, err := prefs.TaxonomyPath()
	if err != nil {
		logger.Warn("no taxonomy snapshot location", "err", err)
	} else if res, err := prefs.Restore(ctx, services.Directory, taxPath); err != nil {
		logger.Warn("restore taxonomy", "path", taxPath, "err", err)
	} else if res.Departments+res.Designations > 0 {
		logger.Info("taxonomy restored", "departments", res.Departments, "designations", res.Designations)
	}

	if err := runBatch(ctx, opts, services); err != nil {
		return err
	}
	if taxPath != "" && opts.batch() {
		if err := prefs.Save(ctx, services.Directory, taxPath); err != nil {
			logger.Warn("save taxonomy", "err", err)
		}
	}
	if opts.batch() && !opts.openUI {
		return nil
	}

	app := tui.New(ctx, cfg, services, tui.Options{
		Clock:        clk,
		Logger:       logger,
		ConfigPath:   opts.configPath,
		TaxonomyPath: taxPath,
	})
	defer app.Close()
	logger.Info("starting", "db", cfg.Database.Path, "idle_timeout", cfg.Session.Timeout)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// wire builds the repositories and services over db.
func wire(db *sql.DB, cfg config.Config, clk clock.Clock, logger *slog.Logger) tui.Services {
	employees := repository.NewEmployeeRepo(db)
	departments := repository.NewDepartmentRepo(db)
	designations := repository.NewDesignationRepo(db)
	leaveRepo := repository.NewLeaveRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	notifRepo := repository.NewNotificationRepo(db)

	directory := &service.DirectoryService{DB: db, Employees: employees, Departments: departments, Designations: designations, Logger: logger}
	notifications := &service.NotificationService{Notifications: notifRepo, Clock: clk, Logger: logger}
	return tui.Services{
		Auth: &service.AuthService{
			Users:    repository.NewUserRepo(db),
			Sessions: repository.NewSessionRepo(db),
			Clock:    clk,
			TTL:      cfg.Session.TTL,
			Logger:   logger,
		},
		Directory: directory,
		Leave: &service.LeaveService{
			DB:            db,
			Leave:         leaveRepo,
			Employees:     employees,
			Attendance:    attendance,
			Notifications: notifications,
			Clock:         clk,
			Logger:        logger,
		},
		Attendance:    &service.AttendanceService{Attendance: attendance, Employees: employees},
		Documents:     &service.DocumentService{Documents: repository.NewDocumentRepo(db), Employees: employees, MaxBytes: cfg.Documents.MaxBytes, Logger: logger},
		Notifications: notifications,
		Roster:        &service.RosterService{Directory: directory, Logger: logger},
		Dashboard:     &service.DashboardService{Employees: employees, Departments: departments, Leave: leaveRepo, Notifications: notifRepo},
		Maintenance:   &service.MaintenanceService{DB: db, Logger: logger},
	}
}

// runBatch handles the non-interactive flags in a fixed order: accounts,
// fixtures, roster import, roster export.
func runBatch(ctx context.Context, opts options, s tui.Services) error {
	if opts.createAdmin != "" {
		password, err := adminPassword()
		if err != nil {
			return err
		}
		u, err := s.Auth.CreateUser(ctx, opts.createAdmin, password, repository.RoleAdmin)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		fmt.Printf("created admin %s\n", u.Username)
	}
	if opts.seed != "" {
		f, err := fixtures.Load(opts.seed)
		if err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}
		res, err := fixtures.Apply(ctx, f, s.Directory, s.Auth)
		if err != nil {
			return fmt.Errorf("apply fixtures: %w", err)
		}
		fmt.Printf("seeded %d departments, %d designations, %d employees, %d users\n",
			res.Departments, res.Designations, res.Employees, res.Users)
	}
	if opts.importPath != "" {
		res, err := s.Roster.ImportFile(ctx, opts.importPath)
		if err != nil {
			return fmt.Errorf("import roster: %w", err)
		}
		fmt.Printf("imported %s: %d created, %d updated, %d skipped, %d departments added\n",
			opts.importPath, res.Created, res.Updated, res.Skipped, res.DepartmentsCreated)
		for _, p := range res.Problems {
			fmt.Println("  " + p)
		}
	}
	if opts.exportPath != "" {
		n, err := s.Roster.Export(ctx, opts.exportPath)
		if err != nil {
			return fmt.Errorf("export roster: %w", err)
		}
		fmt.Printf("exported %d employees to %s\n", n, opts.exportPath)
	}
	return nil
}

// openLog returns a text logger writing to cfg.Path. The TUI owns the
// terminal, so nothing is logged to stderr.
func openLog(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	return slog.New(h), func() { _ = f.Close() }, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// adminPassword prefers the environment and falls back to an echo-free
// prompt when stdin is a terminal.
func adminPassword() (string, error) {
	if p := os.Getenv("STAFFDESK_ADMIN_PASSWORD"); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--create-admin needs STAFFDESK_ADMIN_PASSWORD when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `staffdesk: terminal admin dashboard for employee records.

Usage:
  staffdesk [flags]

Examples:
  # First run: create an account, load demo data, open the dashboard
  STAFFDESK_ADMIN_PASSWORD=change-me staffdesk --create-admin admin --seed demo.yaml --tui

  # Round-trip a spreadsheet roster
  staffdesk --import roster.xlsx
  staffdesk --export ~/roster.xlsx

Flags:
`)
	flagSet.PrintDefaults()
}

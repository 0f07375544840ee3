package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
)

// Leave kinds offered by the apply form.
var LeaveKinds = []string{"annual", "sick", "unpaid", "parental", "other"}

// MaxLeaveDays bounds one request, counted inclusively.
const MaxLeaveDays = 366

// LeaveService handles leave applications and their review.
type LeaveService struct {
	DB            *sql.DB
	Leave         *repository.LeaveRepo
	Employees     *repository.EmployeeRepo
	Attendance    *repository.AttendanceRepo
	Notifications *NotificationService
	Clock         clock.Clock
	Logger        *slog.Logger
}

func (s *LeaveService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// LeaveInput carries the apply form values.
type LeaveInput struct {
	EmployeeID string
	Kind       string
	Start      string // YYYY-MM-DD
	End        string // YYYY-MM-DD, defaults to Start
	Reason     string
}

// Apply files a pending request. The range must be ordered and must not
// intersect the employee's pending or approved leave.
func (s *LeaveService) Apply(ctx context.Context, in LeaveInput) (repository.LeaveRequest, error) {
	l := repository.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		Kind:       strings.ToLower(strings.TrimSpace(in.Kind)),
		Reason:     strings.TrimSpace(in.Reason),
		Status:     repository.LeavePending,
		CreatedAt:  nowFrom(s.Clock),
	}
	if l.EmployeeID == "" {
		return l, invalid("employee", "required")
	}
	emp, err := s.Employees.Get(ctx, l.EmployeeID)
	if err != nil {
		return l, err
	}
	if emp == nil {
		return l, invalid("employee", "unknown employee")
	}
	if emp.Status != repository.EmployeeActive {
		return l, invalid("employee", "%s is not active", emp.FullName())
	}
	if !knownKind(l.Kind) {
		return l, invalid("kind", "one of %s", strings.Join(LeaveKinds, ", "))
	}
	if l.StartDate, err = parseDay(in.Start); err != nil {
		return l, invalid("start", "use YYYY-MM-DD")
	}
	l.EndDate = l.StartDate
	if strings.TrimSpace(in.End) != "" {
		if l.EndDate, err = parseDay(in.End); err != nil {
			return l, invalid("end", "use YYYY-MM-DD")
		}
	}
	if l.EndDate.Before(l.StartDate) {
		return l, invalid("end", "ends before it starts")
	}
	if Days(l) > MaxLeaveDays {
		return l, invalid("end", "at most %d days per request", MaxLeaveDays)
	}
	clash, err := s.Leave.Overlapping(ctx, l.EmployeeID, l.StartDate, l.EndDate, repository.LeavePending, repository.LeaveApproved)
	if err != nil {
		return l, err
	}
	if len(clash) > 0 {
		c := clash[0]
		return l, fmt.Errorf("overlaps %s leave %s to %s: %w", c.Status,
			c.StartDate.Format(dateLayout), c.EndDate.Format(dateLayout), ErrConflict)
	}
	if err := s.Leave.Insert(ctx, l); err != nil {
		return l, fmt.Errorf("insert leave: %w", err)
	}
	s.log().Info("leave requested", "id", l.ID, "employee", l.EmployeeID, "days", Days(l))
	s.notify(ctx, "", "Leave requested",
		fmt.Sprintf("%s asked for %s leave, %s", emp.FullName(), l.Kind, span(l)))
	return l, nil
}

func knownKind(k string) bool {
	for _, v := range LeaveKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Approve accepts a pending request and marks each covered day as leave
// in attendance.
func (s *LeaveService) Approve(ctx context.Context, id, reviewerID string) error {
	return s.decide(ctx, id, reviewerID, repository.LeaveApproved)
}

// Reject declines a pending request.
func (s *LeaveService) Reject(ctx context.Context, id, reviewerID string) error {
	return s.decide(ctx, id, reviewerID, repository.LeaveRejected)
}

func (s *LeaveService) decide(ctx context.Context, id, reviewerID, status string) error {
	l, err := s.Leave.Get(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return notFound("leave request", id)
	}
	if l.Status != repository.LeavePending {
		return fmt.Errorf("leave request already %s: %w", l.Status, ErrConflict)
	}
	at := nowFrom(s.Clock)
	if status != repository.LeaveApproved {
		ok, err := s.Leave.Decide(ctx, id, status, reviewerID, at)
		if err != nil {
			return fmt.Errorf("decide leave: %w", err)
		}
		if !ok {
			return fmt.Errorf("leave request decided concurrently: %w", ErrConflict)
		}
	} else {
		err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
			ok, err := s.Leave.DecideTx(ctx, tx, id, status, reviewerID, at)
			if err != nil {
				return fmt.Errorf("decide leave: %w", err)
			}
			if !ok {
				return fmt.Errorf("leave request decided concurrently: %w", ErrConflict)
			}
			for d := l.StartDate; !d.After(l.EndDate); d = d.AddDate(0, 0, 1) {
				rec := repository.AttendanceRecord{
					EmployeeID: l.EmployeeID,
					Day:        database.Day(d),
					Status:     repository.AttendanceLeave,
					Note:       l.Kind + " leave",
				}
				if err := s.Attendance.UpsertTx(ctx, tx, rec); err != nil {
					return fmt.Errorf("mark leave day: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	s.log().Info("leave decided", "id", id, "status", status, "reviewer", reviewerID)
	name := l.EmployeeID
	if emp, err := s.Employees.Get(ctx, l.EmployeeID); err == nil && emp != nil {
		name = emp.FullName()
	}
	s.notify(ctx, "", "Leave "+status, fmt.Sprintf("%s leave for %s, %s", l.Kind, name, span(*l)))
	return nil
}

// notify is best effort; a failed notification never undoes the decision.
func (s *LeaveService) notify(ctx context.Context, userID, title, body string) {
	if s.Notifications == nil {
		return
	}
	if _, err := s.Notifications.Push(ctx, userID, title, body); err != nil {
		s.log().Warn("leave notification failed", "err", err)
	}
}

// List returns requests filtered by status and employee, empty meaning all.
func (s *LeaveService) List(ctx context.Context, status, employeeID string) ([]repository.LeaveRequest, error) {
	return s.Leave.List(ctx, status, employeeID)
}

// Pending is the review queue.
func (s *LeaveService) Pending(ctx context.Context) ([]repository.LeaveRequest, error) {
	return s.Leave.List(ctx, repository.LeavePending, "")
}

// Days counts calendar days covered by l, inclusive.
func Days(l repository.LeaveRequest) int {
	return int(l.EndDate.Sub(l.StartDate)/(24*time.Hour)) + 1
}

func span(l repository.LeaveRequest) string {
	if l.StartDate.Equal(l.EndDate) {
		return l.StartDate.Format(dateLayout)
	}
	return fmt.Sprintf("%s to %s (%d days)", l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout), Days(l))
}

package repository

import "time"

// Department represents a department row.
type Department struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Designation is a job title scoped to a department.
type Designation struct {
	ID           string
	DepartmentID string
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Employee represents an employee row.
type Employee struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	DepartmentID  *string
	DesignationID *string
	HireDate      *time.Time
	Status        string
	SalaryCents   int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Employee statuses.
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// LeaveRequest represents a leave application.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Kind       string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     string
	ReviewerID *string
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

// Leave statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Document is an uploaded employee file, stored base64 encoded.
type Document struct {
	ID         string
	EmployeeID string
	Filename   string
	MimeType   string
	SizeBytes  int64
	ContentB64 string
	UploadedBy *string
	CreatedAt  time.Time
}

// AttendanceRecord is one employee-day.
type AttendanceRecord struct {
	EmployeeID string
	Day        time.Time
	Status     string
	Note       string
	UpdatedAt  time.Time
}

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
	AttendanceRemote  = "remote"
)

// StaffUser is a dashboard login.
type StaffUser struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Staff roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Session is a signed-in dashboard session.
type Session struct {
	Token      string
	UserID     string
	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
}

// Notification targets one user, or everyone when UserID is nil.
type Notification struct {
	ID        string
	UserID    *string
	Title     string
	Body      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

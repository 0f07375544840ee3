package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/config"
	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/service"
	"github.com/jask/staffdesk/internal/session"
)

type eventMsg struct{ msg tea.Msg }

type signedInMsg struct {
	user    repository.StaffUser
	session repository.Session
}

type signedOutMsg struct{}

// clearCacheMsg, noticeMsg and expiredMsg are raised by the idle expiry
// routine, in that order.
type clearCacheMsg struct{}

type noticeMsg session.Notice

type expiredMsg struct{}

// sessionGoneMsg reports that the stored session vanished or ran out.
type sessionGoneMsg struct{}

type tickMsg time.Time

type overviewMsg service.Overview

type employeesMsg []repository.Employee

type departmentsMsg struct {
	departments  []repository.Department
	designations []repository.Designation
}

type leaveMsg []repository.LeaveRequest

type documentsMsg []repository.Document

type notificationsMsg []repository.Notification

type calendarMsg service.Calendar

type usersMsg []repository.StaffUser

type settingsSavedMsg struct{ cfg config.Config }

type formErrMsg struct{ err error }

type formDoneMsg struct{ status string }

type statusMsg string

type errMsg struct{ error }

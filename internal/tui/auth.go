package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/service"
	"github.com/jask/staffdesk/internal/session"
)

func loginForm() *form {
	return newForm("staffdesk · sign in", "login",
		formnav.Input("username", "Username"),
		formnav.Password("password", "Password"),
		formnav.Group("actions", formnav.SubmitButton("signin", "Sign in")),
	)
}

func (a *App) showLogin() {
	a.closeForm()
	a.state = viewLogin
	a.modal = modalNone
	a.form = loginForm()
	a.formKind = formLogin
}

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := a.form.handleKey(m)
	if action != formSubmit {
		return a, cmd
	}
	a.form.showError(nil)
	username, password := a.form.value("username"), a.form.value("password")
	return a, tea.Batch(cmd, func() tea.Msg {
		u, sess, err := a.services.Auth.SignIn(a.ctx, username, password)
		if err != nil {
			return formErrMsg{errors.New(userFacing(err))}
		}
		return signedInMsg{user: u, session: sess}
	})
}

func (a *App) renderLogin() string {
	out := a.form.View()
	if a.notice != nil {
		style := helpStyle
		switch a.notice.Level {
		case session.LevelWarning:
			style = warnStyle
		case session.LevelError:
			style = errorStyle
		}
		out = style.Render(a.notice.Text) + "\n\n" + out
	}
	return out + "\n" + helpStyle.Render("[ctrl+c] quit")
}

func (a *App) signedIn(m signedInMsg) tea.Cmd {
	u := m.user
	a.user = &u
	a.token = m.session.Token
	a.notice = nil
	a.closeForm()
	a.state = viewDashboard
	a.lastActivity = a.clock.Now()
	a.lastTouch = a.lastActivity
	a.mountIdle()
	purge := func() tea.Msg {
		if n, err := a.services.Auth.PurgeExpired(a.ctx); err != nil {
			a.log.Warn("purge sessions", "err", err)
		} else if n > 0 {
			a.log.Info("purged expired sessions", "count", n)
		}
		return nil
	}
	return tea.Batch(a.reload(), a.tick(), purge)
}

// mountIdle starts the inactivity controller for the signed-in user. Its
// expiry hooks run off the event loop and report back through events.
func (a *App) mountIdle() {
	if a.idle != nil {
		a.idle.Unmount()
	}
	a.idle = session.Mount(a.bus, session.Options{
		Timeout:    a.cfg.Session.Timeout,
		Activities: a.cfg.Activities(),
		Clock:      a.clock,
		OnExpire:   a.expiry(a.token).Callback(a.ctx),
		Logger:     a.log,
	})
}

func (a *App) expiry(token string) session.Expiry {
	return session.Expiry{
		ClearCache: func() { a.dispatch(clearCacheMsg{}) },
		SignOut: func(ctx context.Context) error {
			return a.services.Auth.SignOut(ctx, token)
		},
		Notify:   func(n session.Notice) { a.dispatch(noticeMsg(n)) },
		Navigate: func() { a.dispatch(expiredMsg{}) },
		Logger:   a.log,
	}
}

// expireNow runs the expiry routine at once, for sessions that ended
// somewhere other than the idle timer.
func (a *App) expireNow() tea.Cmd {
	if a.idle != nil {
		a.idle.Unmount()
		a.idle = nil
	}
	exp := a.expiry(a.token)
	return func() tea.Msg {
		exp.Run(a.ctx)
		return nil
	}
}

func (a *App) clearCache() {
	a.employees = nil
	a.departments = nil
	a.designations = nil
	a.leave = nil
	a.documents = nil
	a.notifications = nil
	a.users = nil
	a.overview = service.Overview{}
	a.subjectID = ""
}

func (a *App) signedOut() {
	if a.idle != nil {
		a.idle.Unmount()
		a.idle = nil
	}
	a.clearCache()
	a.user = nil
	a.token = ""
	a.status = ""
	a.confirm = confirmState{}
	a.showLogin()
}

func (a *App) signOutCmd() tea.Cmd {
	token := a.token
	return func() tea.Msg {
		if err := a.services.Auth.SignOut(a.ctx, token); err != nil {
			a.log.Error("sign out", "err", err)
		}
		return signedOutMsg{}
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// onTick refreshes the idle banner and, after recent activity, checks the
// stored session and extends it.
func (a *App) onTick() tea.Cmd {
	if a.user == nil {
		return nil
	}
	now := a.clock.Now()
	if !a.lastActivity.After(a.lastTouch) || now.Sub(a.lastTouch) < time.Minute {
		return a.tick()
	}
	a.lastTouch = now
	token := a.token
	return tea.Batch(a.tick(), func() tea.Msg {
		if _, _, err := a.services.Auth.Resume(a.ctx, token); err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				return sessionGoneMsg{}
			}
			return errMsg{err}
		}
		if err := a.services.Auth.Touch(a.ctx, token); err != nil {
			return errMsg{err}
		}
		return nil
	})
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/listing"
)

var notificationColumns = []column{
	{Title: "", Width: 1},
	{Title: "Title", Width: 26},
	{Title: "Message", Width: 40},
	{Title: "When", Width: 14},
}

func (a *App) notificationPage() listing.Page[repository.Notification] {
	return listing.Apply(a.notifications, listing.Columns[repository.Notification]{
		Text: func(n repository.Notification) []string { return []string{n.Title, n.Body} },
	}, a.notifTable.query)
}

func (a *App) renderNotifications() string {
	page := a.notificationPage()
	a.notifTable.clamp(len(page.Items))
	rows := make([][]string, 0, len(page.Items))
	for _, n := range page.Items {
		mark, title := "", n.Title
		if n.ReadAt == nil {
			mark, title = "•", unreadStyle.Render(n.Title)
		}
		rows = append(rows, []string{mark, title, n.Body, a.services.Notifications.Age(n)})
	}
	return titleStyle.Render("Notifications") + "\n" +
		renderTable(notificationColumns, rows, a.notifTable.cursor, a.notifTable) +
		a.notifTable.footer(page.Total, page.Page, page.Pages) + "\n" +
		a.keys.help(string(viewNotifications), scopeTable)
}

func (a *App) handleNotificationsKey(m tea.KeyMsg) (bool, tea.Cmd) {
	page := a.notificationPage()
	if a.notifTable.handleKey(m, len(page.Items), page.Pages) {
		return true, nil
	}
	userID := a.user.ID
	switch a.keys.action(m, string(viewNotifications)) {
	case actMarkRead:
		if len(page.Items) > 0 {
			n := page.Items[a.notifTable.cursor]
			if n.ReadAt == nil {
				return true, a.actionCmd("marked read", func() error {
					return a.services.Notifications.MarkRead(a.ctx, n.ID, userID)
				})
			}
		}
	case actMarkAllRead:
		return true, a.actionCmd("all caught up", func() error {
			_, err := a.services.Notifications.MarkAllRead(a.ctx, userID)
			return err
		})
	case actNew:
		a.openForm(formBroadcast, newForm("Broadcast to all staff", "broadcast",
			formnav.Input("title", "Title"),
			formnav.TextArea("body", "Message"),
			formnav.Group("actions", formnav.SubmitButton("save", "Send"), formnav.CancelButton("cancel", "Cancel")),
		))
	default:
		return false, nil
	}
	return true, nil
}

func (a *App) broadcastCmd() tea.Cmd {
	title, body := a.form.value("title"), a.form.value("body")
	return formCmd("notification sent", func() error {
		_, err := a.services.Notifications.Push(a.ctx, "", title, body)
		return err
	})
}

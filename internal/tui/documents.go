package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/listing"
)

var documentColumns = []column{
	{Title: "File", Width: 28, SortKey: "name"},
	{Title: "Type", Width: 22},
	{Title: "Size", Width: 9, SortKey: "size"},
	{Title: "Uploaded", Width: 17, SortKey: "uploaded"},
}

func (a *App) documentPage() listing.Page[repository.Document] {
	return listing.Apply(a.documents, listing.Columns[repository.Document]{
		Text: func(d repository.Document) []string { return []string{d.Filename, d.MimeType} },
		Sorters: map[string]func(x, y repository.Document) int{
			"uploaded": listing.ByOrdered(func(d repository.Document) int64 { return d.CreatedAt.Unix() }),
			"name":     listing.ByString(func(d repository.Document) string { return d.Filename }),
			"size":     listing.ByOrdered(func(d repository.Document) int64 { return d.SizeBytes }),
		},
	}, a.docTable.query)
}

func (a *App) renderDocuments() string {
	if a.subjectID == "" {
		return titleStyle.Render("Documents") + "\n" +
			helpStyle.Render("Pick an employee with [,] and [.], or press [D] on the employees list.")
	}
	page := a.documentPage()
	a.docTable.clamp(len(page.Items))
	rows := make([][]string, 0, len(page.Items))
	for _, d := range page.Items {
		rows = append(rows, []string{d.Filename, d.MimeType, humanize.IBytes(uint64(d.SizeBytes)), a.formatTime(d.CreatedAt)})
	}
	return titleStyle.Render("Documents · "+a.employeeName(a.subjectID)) + "\n" +
		renderTable(documentColumns, rows, a.docTable.cursor, a.docTable) +
		a.docTable.footer(page.Total, page.Page, page.Pages) + "\n" +
		a.keys.help(string(viewDocuments), scopeTable)
}

func (a *App) handleDocumentsKey(m tea.KeyMsg) (bool, tea.Cmd) {
	act := a.keys.action(m, string(viewDocuments))
	switch act {
	case actPrevSubject, actNextSubject:
		a.cycleSubject(subjectStep(act))
		a.docTable.cursor = 0
		return true, a.loadDocuments()
	}
	if a.subjectID == "" {
		return false, nil
	}
	page := a.documentPage()
	if a.docTable.handleKey(m, len(page.Items), page.Pages) {
		return true, nil
	}
	var sel *repository.Document
	if len(page.Items) > 0 {
		sel = &page.Items[a.docTable.cursor]
	}
	switch act {
	case actNew:
		a.openForm(formUpload, newForm("Upload for "+a.employeeName(a.subjectID), "upload",
			formnav.FileInput("file", "File"),
			formnav.Group("actions", formnav.SubmitButton("save", "Upload"), formnav.CancelButton("cancel", "Cancel")),
		))
	case actSaveCopy:
		if sel != nil {
			f := newForm("Save "+sel.Filename, "export-document",
				formnav.Input("dir", "Directory"),
				formnav.Group("actions", formnav.SubmitButton("save", "Save"), formnav.CancelButton("cancel", "Cancel")),
			)
			dir, _ := os.UserHomeDir()
			f.setValue("dir", dir)
			a.openForm(formExportDoc, f)
			a.editingID = sel.ID
		}
	case actDelete:
		if sel != nil {
			id := sel.ID
			a.askConfirm("Delete "+sel.Filename+"?", a.actionCmd("document deleted", func() error {
				return a.services.Documents.Delete(a.ctx, id)
			}))
		}
	default:
		return false, nil
	}
	return true, nil
}

func (a *App) uploadCmd() tea.Cmd {
	path := a.form.value("file")
	empID, by := a.subjectID, a.user.ID
	return func() tea.Msg {
		d, err := a.services.Documents.Upload(a.ctx, empID, path, by)
		if err != nil {
			return formErrMsg{err}
		}
		return formDoneMsg{fmt.Sprintf("uploaded %s (%s)", d.Filename, humanize.IBytes(uint64(d.SizeBytes)))}
	}
}

func (a *App) exportDocumentCmd() tea.Cmd {
	id, dir := a.editingID, a.form.value("dir")
	return func() tea.Msg {
		out, err := a.services.Documents.Export(a.ctx, id, dir)
		if err != nil {
			return formErrMsg{err}
		}
		return formDoneMsg{"saved " + out}
	}
}

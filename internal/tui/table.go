package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/staffdesk/internal/listing"
)

// column is one table column: a header, a width and a sort key (empty
// when the column is not sortable).
type column struct {
	Title   string
	Width   int
	SortKey string
}

// tableState is the search/sort/page/cursor state of one table view.
type tableState struct {
	query     listing.Query
	cursor    int
	sortKeys  []string
	searching bool
	search    textinput.Model
}

func newTableState(pageSize int, sortKeys ...string) tableState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.Width = 30
	t := tableState{query: listing.Query{Page: 1, PageSize: pageSize}, sortKeys: sortKeys, search: ti}
	if len(sortKeys) > 0 {
		t.query.SortKey = sortKeys[0]
	}
	return t
}

// handleKey applies table navigation keys and reports whether it used
// the key. rows is the number of rows on the current page, pages the page
// count.
func (t *tableState) handleKey(m tea.KeyMsg, rows, pages int) bool {
	if t.searching {
		switch m.String() {
		case "enter", "esc":
			t.searching = false
			t.search.Blur()
			if m.String() == "esc" {
				t.search.SetValue("")
				t.query.Search = ""
			}
		default:
			t.search, _ = t.search.Update(m)
			t.query.Search = t.search.Value()
			t.query.Page = 1
			t.cursor = 0
		}
		return true
	}
	switch m.String() {
	case "/":
		t.searching = true
		t.search.Focus()
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < rows-1 {
			t.cursor++
		}
	case "]", "pgdown":
		if t.query.Page < pages {
			t.query.Page++
			t.cursor = 0
		}
	case "[", "pgup":
		if t.query.Page > 1 {
			t.query.Page--
			t.cursor = 0
		}
	case "s":
		t.nextSort()
	case "S":
		t.query.Desc = !t.query.Desc
	default:
		return false
	}
	return true
}

func (t *tableState) nextSort() {
	if len(t.sortKeys) == 0 {
		return
	}
	for i, k := range t.sortKeys {
		if k == t.query.SortKey {
			t.query.SortKey = t.sortKeys[(i+1)%len(t.sortKeys)]
			return
		}
	}
	t.query.SortKey = t.sortKeys[0]
}

// clamp keeps the cursor on the page after rows changed.
func (t *tableState) clamp(rows int) {
	if t.cursor >= rows {
		t.cursor = rows - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// renderTable draws a fixed-width table. Cells wider than their column
// are truncated with an ellipsis.
func renderTable(cols []column, rows [][]string, cursor int, t tableState) string {
	var b strings.Builder
	var head []string
	for _, c := range cols {
		title := c.Title
		if c.SortKey != "" && c.SortKey == t.query.SortKey {
			if t.query.Desc {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		head = append(head, cell(title, c.Width))
	}
	b.WriteString("  " + headerStyle.Render(strings.Join(head, " ")) + "\n")
	if len(rows) == 0 {
		b.WriteString(helpStyle.Render("  nothing here yet") + "\n")
	}
	for i, r := range rows {
		var cells []string
		for j, c := range cols {
			v := ""
			if j < len(r) {
				v = r[j]
			}
			cells = append(cells, cell(v, c.Width))
		}
		line := strings.Join(cells, " ")
		if i == cursor {
			b.WriteString(selectedStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (t tableState) footer(total, page, pages int) string {
	parts := []string{fmt.Sprintf("%d rows", total), fmt.Sprintf("page %d/%d", page, pages)}
	if t.query.SortKey != "" {
		dir := "asc"
		if t.query.Desc {
			dir = "desc"
		}
		parts = append(parts, "sort "+t.query.SortKey+" "+dir)
	}
	line := helpStyle.Render(strings.Join(parts, " · "))
	if t.searching || t.query.Search != "" {
		line = t.search.View() + "  " + line
	}
	return line
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo-service/internal/model"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// RenderPanel frames lines in the current theme's border.
func RenderPanel(lines []string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Panel writes a framed box to w.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, RenderPanel(lines))
}

// Header is the one-line summary shown above a list.
func Header(items []model.TodoItem) string {
	t := Current()
	d, p := model.Stats(items)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)
}

const maxTitleRunes = 80

// truncate cuts s to at most n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// ItemLine renders one item as "  #id ☐ title".
func ItemLine(it model.TodoItem) string {
	t := Current()
	box, title := t.Muted.Render(t.BoxUnchecked), truncate(it.Title, maxTitleRunes)
	if it.Completed {
		box, title = t.Success.Render(t.BoxChecked), t.Done.Render(title)
	}
	return fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("#%-3d", it.ID)), box, title)
}

// FlatLines renders items in order, or a placeholder when empty.
func FlatLines(items []model.TodoItem) []string {
	if len(items) == 0 {
		return []string{Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, ItemLine(it))
	}
	return out
}

// GroupLines renders pending items, then completed ones.
func GroupLines(items []model.TodoItem) []string {
	t := Current()
	var pend, done []model.TodoItem
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(name string, its []model.TodoItem) []string {
		lines := []string{t.Accent.Render(name)}
		if len(its) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, FlatLines(its)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

// Detail renders every field of one item.
func Detail(it model.TodoItem) []string {
	t := Current()
	status := t.Pending.Render("pending")
	if it.Completed {
		status = t.Success.Render("done")
	}
	desc := it.Description
	if desc == "" {
		desc = t.Muted.Render("(no description)")
	}
	return []string{
		t.Title.Render(fmt.Sprintf("#%d %s", it.ID, it.Title)),
		"",
		desc,
		"",
		t.Accent.Render("status: ") + status,
	}
}

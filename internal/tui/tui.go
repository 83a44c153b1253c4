// Package tui is the interactive todo list. Every change goes straight to
// the server; the list only mirrors what the server answered.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo-service/internal/model"
	"github.com/idilsaglam/todo-service/internal/ui"
)

// Backend is the subset of the API client the list needs.
type Backend interface {
	List(ctx context.Context) ([]model.TodoItem, error)
	Create(ctx context.Context, item model.TodoItem) (model.TodoItem, error)
	Update(ctx context.Context, id int64, item model.TodoItem) (model.TodoItem, error)
	Delete(ctx context.Context, id int64) error
}

// listItem adapts model.TodoItem to bubbles/list.Item.
type listItem struct {
	model.TodoItem
}

func (i listItem) FilterValue() string { return i.TodoItem.Title }

// Messages produced by server calls.
type (
	loadedMsg  struct{ items []model.TodoItem }
	createdMsg struct {
		item     model.TodoItem
		restored bool
	}
	updatedMsg struct{ item model.TodoItem }
	deletedMsg struct{ item model.TodoItem }
	errMsg     struct{ err error }
)

// Model is the Bubble Tea model for the list.
type Model struct {
	ctx     context.Context
	backend Backend

	list   list.Model
	width  int
	height int

	// Inline add/edit share one text input.
	adding  bool
	editing bool
	editID  int64
	ti      textinput.Model
	formErr string

	// Single-level undo of the last delete.
	undoItem *model.TodoItem

	status string
}

// itemDelegate renders items on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+ui.ItemLine(it.TodoItem))
}

// New builds the model. Items are fetched by Init.
func New(ctx context.Context, backend Backend) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	extra := func() []key.Binding {
		return []key.Binding{addBind, editBind, toggleBind, deleteBind, undoBind, reloadBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	return Model{
		ctx:     ctx,
		backend: backend,
		list:    l,
		ti:      ti,
		width:   80,
		height:  24,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, backend Backend) error {
	p := tea.NewProgram(New(ctx, backend), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Items returns what the list currently shows.
func (m Model) Items() []model.TodoItem {
	out := make([]model.TodoItem, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.TodoItem)
		}
	}
	return out
}

// Status returns the last status line.
func (m Model) Status() string { return m.status }

// Init loads the items from the server.
func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.backend.List(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{items}
	}
}

func (m Model) createCmd(it model.TodoItem, restored bool) tea.Cmd {
	return func() tea.Msg {
		created, err := m.backend.Create(m.ctx, it)
		if err != nil {
			return errMsg{err}
		}
		return createdMsg{item: created, restored: restored}
	}
}

func (m Model) updateCmd(it model.TodoItem) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.backend.Update(m.ctx, it.ID, it)
		if err != nil {
			return errMsg{err}
		}
		return updatedMsg{updated}
	}
}

func (m Model) deleteCmd(it model.TodoItem) tea.Cmd {
	return func() tea.Msg {
		if err := m.backend.Delete(m.ctx, it.ID); err != nil {
			return errMsg{err}
		}
		return deletedMsg{it}
	}
}

func (m Model) selected() (model.TodoItem, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.TodoItem{}, false
	}
	return li.TodoItem, true
}

func (m Model) indexOf(id int64) int {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) setTitle() {
	m.list.Title = ui.Header(m.Items())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case loadedMsg:
		items := make([]list.Item, 0, len(msg.items))
		for _, it := range msg.items {
			items = append(items, listItem{it})
		}
		cmd := m.list.SetItems(items)
		m.setTitle()
		m.status = fmt.Sprintf("loaded %d items", len(msg.items))
		return m, cmd
	case createdMsg:
		cmd := m.list.InsertItem(len(m.list.Items()), listItem{msg.item})
		m.setTitle()
		m.status = fmt.Sprintf("added #%d", msg.item.ID)
		if msg.restored {
			m.status = fmt.Sprintf("restored as #%d", msg.item.ID)
		}
		return m, cmd
	case updatedMsg:
		if i := m.indexOf(msg.item.ID); i >= 0 {
			m.list.SetItem(i, listItem{msg.item})
		}
		m.setTitle()
		m.status = fmt.Sprintf("saved #%d", msg.item.ID)
		return m, nil
	case deletedMsg:
		if i := m.indexOf(msg.item.ID); i >= 0 {
			m.list.RemoveItem(i)
		}
		undo := msg.item
		m.undoItem = &undo
		m.setTitle()
		m.status = fmt.Sprintf("deleted #%d (u to undo)", msg.item.ID)
		return m, nil
	case errMsg:
		m.status = "error: " + msg.err.Error()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if it, ok := m.selected(); ok {
				it.Completed = !it.Completed
				return m, m.updateCmd(it)
			}
			return m, nil
		case "d":
			if it, ok := m.selected(); ok {
				return m, m.deleteCmd(it)
			}
			return m, nil
		case "u":
			if m.undoItem != nil {
				it := *m.undoItem
				m.undoItem = nil
				return m, m.createCmd(it, true)
			}
			return m, nil
		case "r":
			return m, m.loadCmd()
		case "a":
			m.adding = true
			m.formErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New item title..."
			return m, m.ti.Focus()
		case "e":
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editID = it.ID
				m.formErr = ""
				m.ti.SetValue(it.Title)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit item title..."
				return m, m.ti.Focus()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateForm handles keys while the add/edit input is open.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.formErr = "Title cannot be empty"
				return m, nil
			}
			var cmd tea.Cmd
			if m.adding {
				cmd = m.createCmd(model.TodoItem{Title: title}, false)
			} else if i := m.indexOf(m.editID); i >= 0 {
				it := m.list.Items()[i].(listItem).TodoItem
				it.Title = title
				cmd = m.updateCmd(it)
			}
			m.closeForm()
			return m, cmd
		case "esc":
			m.closeForm()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeForm() {
	m.adding, m.editing = false, false
	m.formErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// View implements tea.Model.
func (m Model) View() string {
	t := ui.Current()
	listHeight := m.height - 5
	if m.adding || m.editing {
		listHeight -= 4
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		title := "Add new item"
		if m.editing {
			title = fmt.Sprintf("Edit #%d", m.editID)
		}
		if m.formErr != "" {
			title += " - " + t.Error.Render(m.formErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + t.Muted.Render(m.status)
	}
	return ui.RenderPanel([]string{content})
}

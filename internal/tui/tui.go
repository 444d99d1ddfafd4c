// Package tui is the interactive list view. Every mutation goes straight to
// the API; a failed request shows a transient banner and leaves the list as
// it was.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kokonaut/todo-app-demo/internal/api"
	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

const (
	boxUnchecked = "☐"
	boxChecked   = "☑"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// listItem adapts a Todo to bubbles/list.Item.
type listItem struct {
	todo *domain.Todo
}

func (i listItem) Title() string {
	box := boxUnchecked
	if i.todo.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.todo.Title)
}
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// Single-line delegate, tada-style rendering.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// Messages flowing back from API commands.
type (
	todosLoadedMsg []*domain.Todo
	mutationOKMsg  struct{}
	errMsg         struct{ err error }
	clearErrMsg    struct{}
)

type model struct {
	client *api.Client

	list   list.Model
	input  textinput.Model
	adding bool

	errText string
}

func newModel(client *api.Client) model {
	l := list.New([]list.Item{}, itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render("Todos")
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	return model{client: client, list: l, input: ti}
}

func (m model) Init() tea.Cmd {
	return m.loadTodos()
}

func (m model) loadTodos() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.client.List(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return todosLoadedMsg(todos)
	}
}

func (m model) createTodo(title string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.Create(context.Background(), title); err != nil {
			return errMsg{err}
		}
		return mutationOKMsg{}
	}
}

func (m model) toggleTodo(t *domain.Todo) tea.Cmd {
	return func() tea.Msg {
		completed := !t.Completed
		if _, err := m.client.Update(context.Background(), t.ID, nil, &completed); err != nil {
			return errMsg{err}
		}
		return mutationOKMsg{}
	}
}

func (m model) deleteTodo(t *domain.Todo) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Delete(context.Background(), t.ID); err != nil {
			return errMsg{err}
		}
		return mutationOKMsg{}
	}
}

func clearErrAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearErrMsg{} })
}

func (m model) selected() (*domain.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return nil, false
	}
	return it.todo, true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case todosLoadedMsg:
		items := make([]list.Item, 0, len(msg))
		for _, t := range msg {
			items = append(items, listItem{todo: t})
		}
		return m, m.list.SetItems(items)

	case mutationOKMsg:
		return m, m.loadTodos()

	case errMsg:
		// Keep prior state intact, show the failure briefly.
		m.errText = msg.err.Error()
		return m, clearErrAfter(3 * time.Second)

	case clearErrMsg:
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			switch msg.String() {
			case "enter":
				title := m.input.Value()
				m.adding = false
				m.input.Reset()
				if title == "" {
					return m, nil
				}
				return m, m.createTodo(title)
			case "esc":
				m.adding = false
				m.input.Reset()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.input.Focus()
			return m, textinput.Blink
		case " ", "enter":
			if t, ok := m.selected(); ok {
				return m, m.toggleTodo(t)
			}
		case "x", "d":
			if t, ok := m.selected(); ok {
				return m, m.deleteTodo(t)
			}
		case "r":
			return m, m.loadTodos()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	view := m.list.View()

	if m.adding {
		view += "\n" + m.input.View()
	}
	if m.errText != "" {
		view += "\n" + errorStyle.Render("✗ "+m.errText)
	}
	return view
}

// Run opens the interactive list and blocks until the user quits.
func Run(client *api.Client) error {
	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

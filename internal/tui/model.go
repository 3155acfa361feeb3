package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/taskhub/internal/client"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/querycache"
)

// DefaultRequestTimeout bounds each API call made by the UI.
const DefaultRequestTimeout = 10 * time.Second

// TaskAPI is the subset of the task client used by the UI.
type TaskAPI interface {
	CreateTask(ctx context.Context, req client.CreateTaskRequest) (*domain.Task, error)
	ListTasks(ctx context.Context, q string) ([]*domain.Task, error)
}

// focus identifies the input that receives keystrokes.
type focus int

const (
	focusSearch focus = iota
	focusTitle
	focusDue
	focusCount
)

// tasksLoadedMsg carries the result of a list fetch.
type tasksLoadedMsg struct {
	key    querycache.Key
	tasks  []*domain.Task
	err    error
	cached bool
}

// taskCreatedMsg carries the result of a create call.
type taskCreatedMsg struct {
	task *domain.Task
	err  error
}

// Option configures a Model.
type Option func(*Model)

// WithDebounceDelay overrides DefaultDebounceDelay.
func WithDebounceDelay(d time.Duration) Option {
	return func(m *Model) {
		m.debounce = newDebouncer(d)
	}
}

// WithCache replaces the query cache.
func WithCache(c *querycache.Cache[[]*domain.Task]) Option {
	return func(m *Model) {
		m.cache = c
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.timeout = d
	}
}

// Model is the bubbletea model of the task UI.
type Model struct {
	api     TaskAPI
	cache   *querycache.Cache[[]*domain.Task]
	timeout time.Duration

	search   textinput.Model
	title    textinput.Model
	due      textinput.Model
	focus    focus
	debounce debouncer

	// inputSearch is the raw search text; searchTerm is its debounced value.
	inputSearch string
	searchTerm  string

	tasks      []*domain.Task
	loading    bool
	listErr    string
	formErr    string
	apiErr     string
	submitting bool
	notice     string

	keys keyMap
	help help.Model
}

// New creates a Model backed by api.
func New(api TaskAPI, opts ...Option) Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "filter by title"
	search.Focus()

	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = "what needs doing?"
	title.CharLimit = domain.MaxTitleLength

	due := textinput.New()
	due.Prompt = "Due:   "
	due.Placeholder = "YYYY-MM-DD (optional)"

	m := Model{
		api:      api,
		cache:    querycache.New[[]*domain.Task](querycache.DefaultTTL),
		timeout:  DefaultRequestTimeout,
		search:   search,
		title:    title,
		due:      due,
		focus:    focusSearch,
		debounce: newDebouncer(DefaultDebounceDelay),
		loading:  true,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the UI on the terminal and blocks until the user quits.
func Run(api TaskAPI, opts ...Option) error {
	_, err := tea.NewProgram(New(api, opts...), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model. It loads the unfiltered list.
func (m Model) Init() tea.Cmd {
	cacheKey := m.cache.Key(m.searchTerm)
	if tasks, ok := m.cache.Get(cacheKey); ok {
		return tea.Batch(textinput.Blink, func() tea.Msg {
			return tasksLoadedMsg{key: cacheKey, tasks: tasks, cached: true}
		})
	}
	return tea.Batch(textinput.Blink, m.fetch(cacheKey))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case debounceMsg:
		if !m.debounce.current(msg) {
			return m, nil
		}
		term := strings.TrimSpace(msg.value)
		if term == m.searchTerm {
			return m, nil
		}
		m.searchTerm = term
		return m.load(term)

	case tasksLoadedMsg:
		if msg.err == nil && !msg.cached {
			m.cache.Put(msg.key, msg.tasks)
		}
		// results for an old term or an invalidated version are stale
		if msg.key != m.cache.Key(m.searchTerm) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.listErr = errorMessage(msg.err)
			m.tasks = nil
			return m, nil
		}
		m.listErr = ""
		m.tasks = msg.tasks
		return m, nil

	case taskCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.apiErr = errorMessage(msg.err)
			m.notice = ""
			return m, nil
		}
		m.apiErr = ""
		m.formErr = ""
		m.notice = fmt.Sprintf("Added %q", msg.task.Title)
		m.title.SetValue("")
		m.due.SetValue("")
		m.cache.Invalidate()
		return m.load(m.searchTerm)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)

	case key.Matches(msg, m.keys.Submit) && m.focus != focusSearch:
		return m.submit()
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input. A change to the search
// text schedules a debounce tick instead of fetching immediately.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != m.inputSearch {
			m.inputSearch = v
			return m, tea.Batch(cmd, m.debounce.trigger(v))
		}
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusDue:
		m.due, cmd = m.due.Update(msg)
	}
	return m, cmd
}

func (m Model) setFocus(f focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.search.Blur()
	m.title.Blur()
	m.due.Blur()

	var cmd tea.Cmd
	switch f {
	case focusSearch:
		cmd = m.search.Focus()
	case focusTitle:
		cmd = m.title.Focus()
	case focusDue:
		cmd = m.due.Focus()
	}
	return m, cmd
}

// submit validates the form locally and, if valid, sends the create call.
// Invalid input never reaches the network.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	title := strings.TrimSpace(m.title.Value())
	if err := domain.ValidateTitle(title); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	dueText := strings.TrimSpace(m.due.Value())
	if _, err := domain.ParseDue(dueText); err != nil {
		m.formErr = err.Error()
		return m, nil
	}

	m.formErr = ""
	m.notice = ""
	m.submitting = true

	api, timeout := m.api, m.timeout
	req := client.CreateTaskRequest{Title: title, Due: dueText}
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		task, err := api.CreateTask(ctx, req)
		return taskCreatedMsg{task: task, err: err}
	}
}

// load shows cached results for term when fresh, and otherwise returns a
// command that fetches them.
func (m Model) load(term string) (Model, tea.Cmd) {
	cacheKey := m.cache.Key(term)
	if tasks, ok := m.cache.Get(cacheKey); ok {
		m.tasks = tasks
		m.listErr = ""
		m.loading = false
		return m, nil
	}

	m.loading = true
	return m, m.fetch(cacheKey)
}

// fetch returns a command that lists tasks for cacheKey.Term.
func (m Model) fetch(cacheKey querycache.Key) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tasks, err := api.ListTasks(ctx, cacheKey.Term)
		return tasksLoadedMsg{key: cacheKey, tasks: tasks, err: err}
	}
}

// errorMessage extracts the user-facing text of err.
func errorMessage(err error) string {
	if apiErr, ok := client.IsAPIError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TaskHub"))
	b.WriteString("\n\n")

	b.WriteString(m.boxFor(focusSearch).Render(m.search.View()))
	b.WriteString("\n")
	b.WriteString(m.listView())
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("New task"))
	b.WriteString("\n")
	b.WriteString(m.boxFor(focusTitle).Render(m.title.View()))
	b.WriteString("\n")
	b.WriteString(m.boxFor(focusDue).Render(m.due.View()))
	b.WriteString("\n")

	switch {
	case m.formErr != "":
		b.WriteString(errorStyle.Render("✖ " + m.formErr))
		b.WriteString("\n")
	case m.apiErr != "":
		b.WriteString(errorStyle.Render("✖ Could not add task: " + m.apiErr))
		b.WriteString("\n")
	case m.submitting:
		b.WriteString(mutedStyle.Render("Saving…"))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(successStyle.Render("✔ " + m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) listView() string {
	switch {
	case m.listErr != "":
		return errorStyle.Render("✖ Failed to load tasks: " + m.listErr)
	case m.loading && len(m.tasks) == 0:
		return mutedStyle.Render("Loading…")
	case len(m.tasks) == 0:
		if m.searchTerm != "" {
			return mutedStyle.Render(fmt.Sprintf("No tasks match %q", m.searchTerm))
		}
		return mutedStyle.Render("No tasks yet")
	}

	lines := make([]string, 0, len(m.tasks))
	for _, task := range m.tasks {
		line := "• " + task.Title
		if task.Due != nil {
			line += "  " + dueStyle.Render("due "+task.Due.UTC().Format(domain.DueDateLayout))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) boxFor(f focus) lipgloss.Style {
	if m.focus == f {
		return focusedBorder
	}
	return blurredBorder
}

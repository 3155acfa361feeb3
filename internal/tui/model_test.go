package tui

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/client"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/querycache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and answers from canned results.
type fakeAPI struct {
	queries   []string
	creates   []client.CreateTaskRequest
	listErr   error
	createErr error
	tasks     map[string][]*domain.Task
}

func (f *fakeAPI) ListTasks(_ context.Context, q string) ([]*domain.Task, error) {
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	tasks := f.tasks[q]
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, req client.CreateTaskRequest) (*domain.Task, error) {
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Task{ID: uuid.New(), Title: req.Title, CreatedAt: time.Now().UTC()}, nil
}

func task(title string) *domain.Task {
	return &domain.Task{ID: uuid.New(), Title: title, CreatedAt: time.Now().UTC()}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// settle runs a fetch command and feeds its result back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = update(t, m, msg)
	return m
}

func TestInitLoadsAllTasks(t *testing.T) {
	api := &fakeAPI{tasks: map[string][]*domain.Task{"": {task("Buy milk")}}}
	m := New(api)

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)

	var loaded bool
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		if msg, ok := cmd().(tasksLoadedMsg); ok {
			m, _ = update(t, m, msg)
			loaded = true
		}
	}
	require.True(t, loaded)
	assert.Equal(t, []string{""}, api.queries)
	require.Len(t, m.tasks, 1)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Buy milk")
}

func TestDebounceOnlyFinalValueQueries(t *testing.T) {
	api := &fakeAPI{tasks: map[string][]*domain.Task{"milk": {task("Buy milk")}}}
	m := New(api)

	m = typeText(t, m, "milk")
	assert.Equal(t, "milk", m.inputSearch)
	assert.Equal(t, "", m.searchTerm, "search term must not change before the delay")
	assert.Empty(t, api.queries)

	// ticks for the intermediate keystrokes arrive and are discarded
	for i, partial := range []string{"m", "mi", "mil"} {
		var cmd tea.Cmd
		m, cmd = update(t, m, debounceMsg{token: uint64(i + 1), value: partial})
		assert.Nil(t, cmd)
		assert.Equal(t, "", m.searchTerm)
	}

	m, cmd := update(t, m, debounceMsg{token: m.debounce.token, value: "milk"})
	assert.Equal(t, "milk", m.searchTerm)
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"milk"}, api.queries)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Buy milk", m.tasks[0].Title)
}

func TestDebounceSameTermDoesNotRefetch(t *testing.T) {
	api := &fakeAPI{}
	m := New(api)

	m = typeText(t, m, " ")
	m, cmd := update(t, m, debounceMsg{token: m.debounce.token, value: " "})
	assert.Nil(t, cmd, "whitespace trims to the current term")
	assert.Empty(t, api.queries)
}

func TestCachedTermIsReused(t *testing.T) {
	api := &fakeAPI{}
	m := New(api)

	m, cmd := update(t, m, debounceMsg{token: m.debounce.token, value: "milk"})
	m = settle(t, m, cmd)
	m, cmd = update(t, m, debounceMsg{token: m.debounce.token, value: "bread"})
	m = settle(t, m, cmd)

	m, cmd = update(t, m, debounceMsg{token: m.debounce.token, value: "milk"})
	assert.Nil(t, cmd, "fresh cached result must not refetch")
	assert.Equal(t, []string{"milk", "bread"}, api.queries)
	assert.Equal(t, "milk", m.searchTerm)
}

func TestStaleResultsAreIgnored(t *testing.T) {
	api := &fakeAPI{}
	m := New(api)

	m, _ = update(t, m, debounceMsg{token: m.debounce.token, value: "milk"})
	m, _ = update(t, m, tasksLoadedMsg{
		key:   m.cache.Key("bread"),
		tasks: []*domain.Task{task("Bread")},
	})
	assert.Empty(t, m.tasks)
}

func TestTabCyclesFocus(t *testing.T) {
	m := New(&fakeAPI{})
	assert.Equal(t, focusSearch, m.focus)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTitle, m.focus)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusDue, m.focus)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusSearch, m.focus)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusDue, m.focus)
}

func TestEmptyTitleRejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	m := New(api)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "   ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "title is required", m.formErr)
	assert.Empty(t, api.creates)
	assert.Contains(t, m.View(), "title is required")
}

func TestInvalidDueRejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	m := New(api)
	m.title.SetValue("Buy milk")
	m.due.SetValue("tomorrow")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.formErr, "due must be")
	assert.Empty(t, api.creates)
}

func TestEnterInSearchDoesNotSubmit(t *testing.T) {
	api := &fakeAPI{}
	m := New(api)
	m.title.SetValue("Buy milk")

	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, api.creates)
}

func TestCreateInvalidatesCacheAndRefetches(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := querycache.New[[]*domain.Task](querycache.DefaultTTL,
		querycache.WithClock(func() time.Time { return clock }))
	cache.Put(cache.Key(""), []*domain.Task{})

	api := &fakeAPI{tasks: map[string][]*domain.Task{"": {task("Buy milk")}}}
	m := New(api, WithCache(cache))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.title.SetValue("Buy milk")
	m.due.SetValue("2030-01-02")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	m, cmd = update(t, m, cmd())
	require.Len(t, api.creates, 1)
	assert.Equal(t, client.CreateTaskRequest{Title: "Buy milk", Due: "2030-01-02"}, api.creates[0])
	assert.Equal(t, "", m.title.Value(), "form is cleared on success")
	assert.Equal(t, "", m.due.Value())
	assert.Equal(t, uint64(1), cache.Version())

	m = settle(t, m, cmd)
	assert.Equal(t, []string{""}, api.queries, "invalidated cache forces a fetch")
	require.Len(t, m.tasks, 1)
	assert.Contains(t, m.View(), `Added "Buy milk"`)
}

func TestCreateFailureKeepsFormValues(t *testing.T) {
	api := &fakeAPI{createErr: &client.APIError{StatusCode: http.StatusInternalServerError, Message: "failed to create task"}}
	m := New(api)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.title.SetValue("Buy milk")
	m.due.SetValue("2030-01-02")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = update(t, m, cmd())
	assert.Nil(t, cmd)

	assert.Equal(t, "failed to create task", m.apiErr)
	assert.Equal(t, "Buy milk", m.title.Value())
	assert.Equal(t, "2030-01-02", m.due.Value())
	assert.Equal(t, uint64(0), m.cache.Version())
	assert.Contains(t, m.View(), "Could not add task: failed to create task")
}

func TestListErrorReplacesList(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	m := New(api)
	m.tasks = []*domain.Task{task("old")}

	m, cmd := update(t, m, debounceMsg{token: m.debounce.token, value: "milk"})
	m = settle(t, m, cmd)

	assert.Nil(t, m.tasks)
	view := m.View()
	assert.Contains(t, view, "Failed to load tasks: connection refused")
	assert.NotContains(t, view, "old")

	_, ok := m.cache.Get(m.cache.Key("milk"))
	assert.False(t, ok, "failures are not cached")
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := New(&fakeAPI{})
		_, cmd := update(t, m, tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewShowsDueDates(t *testing.T) {
	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	withDue := task("Pay rent")
	withDue.Due = &due

	m := New(&fakeAPI{})
	m.loading = false
	m.tasks = []*domain.Task{withDue}
	assert.Contains(t, m.View(), "due 2030-01-02")

	m.tasks = nil
	assert.Contains(t, m.View(), "No tasks yet")
	m.searchTerm = "zzz"
	assert.Contains(t, m.View(), `No tasks match "zzz"`)
}

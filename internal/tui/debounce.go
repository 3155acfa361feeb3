package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounceDelay is how long the search input must be idle before the
// search term changes.
const DefaultDebounceDelay = 300 * time.Millisecond

// debounceMsg is delivered when a scheduled debounce tick fires.
type debounceMsg struct {
	token uint64
	value string
}

// debouncer hands out a new token per input event. Only the tick carrying
// the latest token is acted upon; older ticks are stale and dropped.
type debouncer struct {
	delay time.Duration
	token uint64
}

func newDebouncer(delay time.Duration) debouncer {
	return debouncer{delay: delay}
}

// trigger records a new input event and schedules its tick.
func (d *debouncer) trigger(value string) tea.Cmd {
	d.token++
	token := d.token
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return debounceMsg{token: token, value: value}
	})
}

// current reports whether msg belongs to the most recent input event.
func (d debouncer) current(msg debounceMsg) bool {
	return msg.token == d.token
}

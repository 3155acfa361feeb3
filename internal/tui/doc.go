// Package tui is the terminal client for the task API, built on bubbletea.
//
// The model keeps two search values: the raw text of the search input, which
// changes on every keystroke, and the debounced search term, which only
// changes after the input has been idle for the debounce delay and is what
// drives list fetches. Results are cached per term; creating a task
// invalidates the cache so the next fetch reflects the new task.
package tui

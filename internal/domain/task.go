package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 500

// DueDateLayout is the calendar-date form accepted for due dates.
const DueDateLayout = "2006-01-02"

// Task is a titled, optionally dated to-do item. Tasks are immutable once
// created.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Due       *time.Time `json:"due,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CreatedAtPrecision is the resolution of Task.CreatedAt. Every backend
// stores at least millisecond precision, so a created task reads back equal.
const CreatedAtPrecision = time.Millisecond

// NewTask creates a Task with a generated ID and the current UTC time as its
// creation timestamp. The title is trimmed before validation.
//
// IDs are time-ordered (UUIDv7) and increase within a process, so ordering
// by (CreatedAt, ID) follows creation order even when timestamps are equal.
func NewTask(title string, due *time.Time) (*Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate task id: %w", err)
	}

	task := &Task{
		ID:        id,
		Title:     strings.TrimSpace(title),
		CreatedAt: time.Now().UTC().Truncate(CreatedAtPrecision),
	}
	if due != nil {
		d := due.UTC()
		task.Due = &d
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrInvalidID)
	}

	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if t.CreatedAt.IsZero() {
		return NewValidationError("createdAt", "is required", ErrValidation)
	}

	return nil
}

// ValidateTitle reports whether title is acceptable for a task. Titles
// consisting only of whitespace are rejected.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return NewValidationError("title", "is required", ErrEmptyContent)
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return NewValidationError(
			"title",
			fmt.Sprintf("must be at most %d characters", MaxTitleLength),
			ErrTooLong,
		)
	}
	return nil
}

// ParseDue parses an optional due date. An empty string yields nil. Both a
// calendar date (YYYY-MM-DD, taken as midnight UTC) and an RFC 3339
// timestamp are accepted; the result is always in UTC.
func ParseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if d, err := time.Parse(DueDateLayout, s); err == nil {
		d = d.UTC()
		return &d, nil
	}

	d, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, NewValidationError(
			"due",
			"must be an ISO-8601 date (YYYY-MM-DD) or timestamp",
			ErrInvalidFormat,
		)
	}
	d = d.UTC()
	return &d, nil
}

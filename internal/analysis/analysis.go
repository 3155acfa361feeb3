// Package analysis derives summary statistics from a task listing.
package analysis

import (
	"fmt"
	"io"
	"time"

	"github.com/phrazzld/taskhub/internal/domain"
)

// DisplayLayout is the format used for rendered due dates.
const DisplayLayout = "2006-01-02 15:04:05 UTC"

// Summary describes a set of tasks.
type Summary struct {
	Total int
	// NextDue is the earliest due date strictly after the reference time, or
	// nil when no task is scheduled in the future.
	NextDue *time.Time
}

// Summarize counts tasks and finds the next due date after now.
func Summarize(tasks []*domain.Task, now time.Time) Summary {
	s := Summary{Total: len(tasks)}
	for _, task := range tasks {
		if task == nil || task.Due == nil || !task.Due.After(now) {
			continue
		}
		if s.NextDue == nil || task.Due.Before(*s.NextDue) {
			d := task.Due.UTC()
			s.NextDue = &d
		}
	}
	return s
}

// Write renders s as two lines of plain text.
func (s Summary) Write(w io.Writer) error {
	next := "no scheduled dates"
	if s.NextDue != nil {
		next = s.NextDue.UTC().Format(DisplayLayout)
	}
	_, err := fmt.Fprintf(w, "Total tasks: %d\nNext due: %s\n", s.Total, next)
	return err
}

package analysis

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskDue(due *time.Time) *domain.Task {
	return &domain.Task{ID: uuid.New(), Title: "t", Due: due, CreatedAt: time.Now().UTC()}
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSummarize(t *testing.T) {
	now := *at("2025-06-01T12:00:00Z")

	tests := []struct {
		name     string
		tasks    []*domain.Task
		wantNext *time.Time
	}{
		{name: "empty", tasks: nil},
		{name: "no due dates", tasks: []*domain.Task{taskDue(nil), taskDue(nil)}},
		{
			name:  "only past and present",
			tasks: []*domain.Task{taskDue(at("2025-05-01T00:00:00Z")), taskDue(&now)},
		},
		{
			name: "earliest future wins",
			tasks: []*domain.Task{
				taskDue(at("2025-09-01T00:00:00Z")),
				taskDue(at("2025-01-01T00:00:00Z")),
				taskDue(at("2025-07-01T00:00:00Z")),
				taskDue(nil),
			},
			wantNext: at("2025-07-01T00:00:00Z"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(tc.tasks, now)
			assert.Equal(t, len(tc.tasks), s.Total)
			if tc.wantNext == nil {
				assert.Nil(t, s.NextDue)
				return
			}
			require.NotNil(t, s.NextDue)
			assert.True(t, tc.wantNext.Equal(*s.NextDue))
		})
	}
}

func TestSummaryWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary{Total: 3, NextDue: at("2025-07-01T09:30:00+02:00")}.Write(&buf))
	assert.Equal(t, "Total tasks: 3\nNext due: 2025-07-01 07:30:00 UTC\n", buf.String())

	buf.Reset()
	require.NoError(t, Summary{}.Write(&buf))
	assert.Equal(t, "Total tasks: 0\nNext due: no scheduled dates\n", buf.String())
}

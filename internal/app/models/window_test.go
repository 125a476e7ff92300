package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackWindow_State(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	closedAt := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		window    FeedbackWindow
		now       time.Time
		wantKind  WindowStateKind
		wantAt    *time.Time
		accepting bool
	}{
		{
			name:     "draft",
			window:   FeedbackWindow{Status: WindowDraft, StartDate: start, EndDate: end},
			now:      start.Add(time.Hour),
			wantKind: StateDraft,
		},
		{
			name:     "scheduled before start",
			window:   FeedbackWindow{Status: WindowOpen, StartDate: start, EndDate: end},
			now:      start.Add(-time.Hour),
			wantKind: StateScheduled,
			wantAt:   &start,
		},
		{
			name:      "open inside range",
			window:    FeedbackWindow{Status: WindowOpen, StartDate: start, EndDate: end},
			now:       start.Add(48 * time.Hour),
			wantKind:  StateOpen,
			wantAt:    &end,
			accepting: true,
		},
		{
			name:      "open at exact end instant",
			window:    FeedbackWindow{Status: WindowOpen, StartDate: start, EndDate: end},
			now:       end,
			wantKind:  StateOpen,
			wantAt:    &end,
			accepting: true,
		},
		{
			name:     "open row past end reads closed",
			window:   FeedbackWindow{Status: WindowOpen, StartDate: start, EndDate: end},
			now:      end.Add(time.Second),
			wantKind: StateClosed,
			wantAt:   &end,
		},
		{
			name:     "closed early",
			window:   FeedbackWindow{Status: WindowClosed, StartDate: start, EndDate: closedAt, ClosedAt: &closedAt},
			now:      start.Add(48 * time.Hour),
			wantKind: StateClosed,
			wantAt:   &closedAt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.window.State(tt.now)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.accepting, got.AcceptingResponses())
			if tt.wantAt == nil {
				assert.Nil(t, got.At)
				return
			}
			require.NotNil(t, got.At)
			assert.True(t, tt.wantAt.Equal(*got.At))
		})
	}
}

func TestRole(t *testing.T) {
	assert.True(t, RoleHOD.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, Role("DEAN").Valid())

	r, ok := ParseRole("vice-principal")
	assert.True(t, ok)
	assert.Equal(t, RoleVicePrincipal, r)

	_, ok = ParseRole("dean")
	assert.False(t, ok)
}

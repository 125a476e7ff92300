package academic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

func at(year int) time.Time {
	return time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC)
}

func TestDeriveStanding(t *testing.T) {
	tests := []struct {
		name      string
		admission int
		duration  int
		now       time.Time
		want      Standing
	}{
		{name: "admitted this year", admission: 2025, duration: 4, now: at(2025), want: Standing{1, 1}},
		{name: "future admission", admission: 2027, duration: 4, now: at(2025), want: Standing{1, 1}},
		{name: "second year", admission: 2023, duration: 4, now: at(2025), want: Standing{2, 3}},
		{name: "final year", admission: 2021, duration: 4, now: at(2025), want: Standing{4, 7}},
		{name: "past graduation clamps", admission: 2015, duration: 4, now: at(2025), want: Standing{4, 7}},
		{name: "two year program", admission: 2020, duration: 2, now: at(2025), want: Standing{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStanding(tt.admission, tt.duration, tt.now))
		})
	}
}

func TestDeriveStanding_ClampProperty(t *testing.T) {
	now := at(2025)
	for duration := 1; duration <= 6; duration++ {
		for admission := 2000; admission <= 2030; admission++ {
			got := DeriveStanding(admission, duration, now)

			want := now.Year() - admission
			if want < 1 {
				want = 1
			}
			if want > duration {
				want = duration
			}
			require.Equal(t, want, got.CurrentYear, "admission=%d duration=%d", admission, duration)
			require.Equal(t, want*2-1, got.Semester)
		}
	}
}

func TestStandingSemesters(t *testing.T) {
	s := Standing{CurrentYear: 3, Semester: 5}
	assert.Equal(t, []int{5, 6}, s.ActiveSemesters())
	assert.Equal(t, []int{1, 2, 3, 4}, s.CompletedSemesters())
	assert.Empty(t, Standing{CurrentYear: 1, Semester: 1}.CompletedSemesters())
}

func TestYearOfSemester(t *testing.T) {
	assert.Equal(t, 1, YearOfSemester(1))
	assert.Equal(t, 1, YearOfSemester(2))
	assert.Equal(t, 4, YearOfSemester(7))
	assert.Equal(t, 0, YearOfSemester(0))
}

type fakeLookup map[string]int

func (f fakeLookup) DurationByNameOrCode(_ context.Context, name string) (int, error) {
	if years, ok := f[strings.ToUpper(name)]; ok {
		return years, nil
	}
	return 0, apperrors.ErrProgramNotFound
}

type failingLookup struct{}

func (failingLookup) DurationByNameOrCode(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func TestDurationResolver(t *testing.T) {
	r := NewDurationResolver(
		fakeLookup{"BARCH": 5},
		map[string]int{"BTech": 4, "MBA": 2},
		4,
		zerolog.Nop(),
	)
	ctx := context.Background()

	years, err := r.Resolve(ctx, "barch")
	require.NoError(t, err)
	assert.Equal(t, 5, years)

	years, err = r.Resolve(ctx, "B.Tech")
	require.NoError(t, err)
	assert.Equal(t, 4, years)

	_, err = r.Resolve(ctx, "PhD")
	assert.ErrorIs(t, err, apperrors.ErrUnknownProgram)

	_, err = r.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, apperrors.ErrUnknownProgram)

	assert.Equal(t, 4, r.ResolveOrDefault(ctx, "PhD"))
	assert.Equal(t, Standing{2, 3}, r.Standing(ctx, "MBA", 2020, at(2025)))
}

func TestDurationResolver_StoreErrorIsNotMasked(t *testing.T) {
	r := NewDurationResolver(failingLookup{}, map[string]int{"BTECH": 4}, 4, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "BTECH")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnknownProgram)
}

func TestNormalizeProgramName(t *testing.T) {
	assert.Equal(t, "BTECH", NormalizeProgramName("B.Tech"))
	assert.Equal(t, "BTECH", NormalizeProgramName(" b tech "))
	assert.Equal(t, "MCA", NormalizeProgramName("M-C-A"))
}

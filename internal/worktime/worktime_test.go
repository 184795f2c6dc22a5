package worktime

import (
	"testing"
	"time"

	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := t0.Add(d)
	return &t
}

func TestSessionSeconds(t *testing.T) {
	tests := []struct {
		name    string
		session model.Session
		now     time.Time
		want    int64
	}{
		{
			name:    "closed no breaks",
			session: model.Session{Start: t0, End: at(2 * time.Hour)},
			now:     t0.Add(10 * time.Hour),
			want:    7200,
		},
		{
			name:    "open uses now",
			session: model.Session{Start: t0},
			now:     t0.Add(90 * time.Second),
			want:    90,
		},
		{
			name: "breaks subtracted",
			session: model.Session{Start: t0, End: at(time.Hour), Breaks: []model.Break{
				{Start: *at(10 * time.Minute), End: at(20 * time.Minute)},
				{Start: *at(30 * time.Minute), End: at(35 * time.Minute)},
			}},
			now:  t0.Add(time.Hour),
			want: 45 * 60,
		},
		{
			name: "open break uses now",
			session: model.Session{Start: t0, Breaks: []model.Break{
				{Start: *at(30 * time.Minute)},
			}},
			now:  t0.Add(50 * time.Minute),
			want: 30 * 60,
		},
		{
			name: "break end before start is ignored",
			session: model.Session{Start: t0, End: at(time.Hour), Breaks: []model.Break{
				{Start: *at(20 * time.Minute), End: at(10 * time.Minute)},
			}},
			want: 3600,
		},
		{
			name: "breaks longer than session clamp to zero",
			session: model.Session{Start: t0, End: at(10 * time.Minute), Breaks: []model.Break{
				{Start: t0.Add(-time.Hour), End: at(10 * time.Minute)},
			}},
			want: 0,
		},
		{
			name:    "now before start",
			session: model.Session{Start: t0},
			now:     t0.Add(-time.Minute),
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionSeconds(tt.session, tt.now))
		})
	}
}

func TestSessionSecondsMonotonic(t *testing.T) {
	open := model.Session{Start: t0, Breaks: []model.Break{{Start: *at(5 * time.Minute), End: at(7 * time.Minute)}}}

	var prev int64
	for step := 0; step < 200; step++ {
		now := t0.Add(time.Duration(step) * 37 * time.Second)
		got := SessionSeconds(open, now)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}

	closed := open
	closed.End = at(time.Hour)
	frozen := SessionSeconds(closed, t0.Add(time.Hour))
	assert.Equal(t, frozen, SessionSeconds(closed, t0.Add(48*time.Hour)))
}

func TestSplit(t *testing.T) {
	for _, total := range []int{0, 1, 479, 480, 481, 495, 1000} {
		regular, overtime := Split(total, DefaultRegularMinutes)
		assert.Equal(t, total, regular+overtime)
		assert.Equal(t, max(0, total-DefaultRegularMinutes), overtime)
		assert.LessOrEqual(t, regular, DefaultRegularMinutes)
	}

	regular, overtime := Split(-5, 480)
	assert.Zero(t, regular)
	assert.Zero(t, overtime)
}

func TestComputeFullDay(t *testing.T) {
	// in at T0, break 30m-45m, out at 8h30m
	sessions := model.Sessions{{
		Start:  t0,
		End:    at(8*time.Hour + 30*time.Minute),
		Breaks: []model.Break{{Start: *at(30 * time.Minute), End: at(45 * time.Minute)}},
	}}

	got := Compute(sessions, t0.Add(24*time.Hour), DefaultRegularMinutes)
	assert.Equal(t, Totals{Total: 495, Regular: 480, Overtime: 15}, got)

	// Idempotent.
	assert.Equal(t, got, Compute(sessions, t0.Add(24*time.Hour), DefaultRegularMinutes))
}

func TestComputeMultipleSessions(t *testing.T) {
	sessions := model.Sessions{
		{Start: t0, End: at(4 * time.Hour)},
		{Start: *at(5 * time.Hour), End: at(9*time.Hour + 59*time.Second)},
	}
	got := Compute(sessions, t0, 480)
	assert.Equal(t, 480, got.Total)
	assert.Equal(t, 0, got.Overtime)
}

func TestApply(t *testing.T) {
	day := model.AttendanceDay{Sessions: model.Sessions{{Start: t0}}}
	Apply(&day, t0.Add(10*time.Hour), 480)
	assert.Equal(t, 600, day.TotalMinutes)
	assert.Equal(t, 480, day.RegularMinutes)
	assert.Equal(t, 120, day.OvertimeMinutes)
}

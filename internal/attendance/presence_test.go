package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/protomem/attendance-tracker/internal/attendance"
	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, openFence(), attendance.Config{})
	req := attendance.TransitionRequest{}
	carol := model.Identity{UserID: "carol"}

	_, err := f.tracker.ClockIn(ctx, alice, req)
	require.NoError(t, err)
	_, err = f.tracker.ClockIn(ctx, bob, req)
	require.NoError(t, err)
	_, err = f.tracker.ClockIn(ctx, carol, req)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.tracker.StartBreak(ctx, bob, req)
	require.NoError(t, err)
	_, err = f.tracker.ClockOut(ctx, carol, req)
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	rows, asOf, err := f.tracker.Presence(ctx, admin, false)
	require.NoError(t, err)
	assert.True(t, asOf.Equal(t0.Add(70*time.Minute)))
	require.Len(t, rows, 3)

	a, b, c := rows[0], rows[1], rows[2]
	assert.Equal(t, "alice", a.User)
	assert.True(t, a.Active)
	assert.False(t, a.OnBreak)
	require.NotNil(t, a.Since)
	assert.True(t, a.Since.Equal(t0))
	assert.Equal(t, int64(70*60), a.ElapsedSeconds)

	assert.Equal(t, "bob", b.User)
	assert.True(t, b.Active)
	assert.True(t, b.OnBreak)
	require.NotNil(t, b.BreakSince)
	assert.Equal(t, int64(60*60), b.ElapsedSeconds)

	assert.Equal(t, "carol", c.User)
	assert.False(t, c.Active)
	assert.Nil(t, c.Since)
	assert.Equal(t, int64(60*60), c.ElapsedSeconds)

	rows, _, err = f.tracker.Presence(ctx, admin, true)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Presence is live: asking again later gives more elapsed time.
	f.clock.Advance(5 * time.Minute)
	rows, _, err = f.tracker.Presence(ctx, alice, false)
	require.NoError(t, err)
	require.Len(t, rows, 1, "requesters without read-all only see themselves")
	assert.Equal(t, int64(75*60), rows[0].ElapsedSeconds)
}

func TestPresenceIgnoresOtherDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, openFence(), attendance.Config{})
	req := attendance.TransitionRequest{}

	_, err := f.tracker.ClockIn(ctx, alice, req)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.tracker.ClockOut(ctx, alice, req)
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	rows, _, err := f.tracker.Presence(ctx, admin, false)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSnapshotPrefersOpenSession(t *testing.T) {
	start := time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	asOf := time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)

	days := []model.AttendanceDay{
		{ID: "1", User: "night", Date: "2024-03-04", Sessions: model.Sessions{{Start: start}}},
		{ID: "2", User: "night", Date: "2024-03-05", Sessions: model.Sessions{{Start: start, End: &end}}},
		{ID: "3", User: "early", Date: "2024-03-04", Sessions: model.Sessions{{Start: start, End: &end}}},
	}

	rows := attendance.Snapshot(days, "2024-03-05", asOf, false)
	require.Len(t, rows, 1)
	assert.Equal(t, "night", rows[0].User)
	assert.Equal(t, "2024-03-04", rows[0].Date)
	assert.True(t, rows[0].Active)
	assert.Equal(t, int64(3*60*60), rows[0].ElapsedSeconds)
}

func TestPresenceReportsSessionOpenForDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, openFence(), attendance.Config{PresenceLookbackDays: 3})

	_, err := f.tracker.ClockIn(ctx, alice, attendance.TransitionRequest{})
	require.NoError(t, err)

	f.clock.Advance(3 * 24 * time.Hour)
	rows, _, err := f.tracker.Presence(ctx, admin, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-04", rows[0].Date)
	assert.True(t, rows[0].Active)

	f.clock.Advance(24 * time.Hour)
	rows, _, err = f.tracker.Presence(ctx, admin, true)
	require.NoError(t, err)
	assert.Empty(t, rows, "older than the lookback window")
}

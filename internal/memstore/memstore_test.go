package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(id, user, date string) model.AttendanceDay {
	d, _ := model.NewAttendanceDay(id, user, date, nil)
	return d
}

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	saved, err := s.Insert(ctx, day("d1", "u1", "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version)

	got, err := s.Get(ctx, "u1", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)

	got, err = s.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.User)

	_, err = s.Insert(ctx, day("d2", "u1", "2024-03-04"))
	assert.ErrorIs(t, err, model.ErrExists)

	_, err = s.Get(ctx, "u1", "2024-03-05")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateVersioning(t *testing.T) {
	ctx := context.Background()
	s := New()

	saved, err := s.Insert(ctx, day("d1", "u1", "2024-03-04"))
	require.NoError(t, err)

	stale := saved
	saved.Notes = "first"
	saved, err = s.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)

	stale.Notes = "second"
	_, err = s.Update(ctx, stale)
	assert.ErrorIs(t, err, model.ErrVersionConflict)

	got, _ := s.GetByID(ctx, "d1")
	assert.Equal(t, "first", got.Notes)

	_, err = s.Update(ctx, day("ghost", "u1", "2024-03-04"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReturnedDaysAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	d := day("d1", "u1", "2024-03-04")
	d.Sessions = model.Sessions{{Start: time.Now()}}
	_, err := s.Insert(ctx, d)
	require.NoError(t, err)

	got, _ := s.GetByID(ctx, "d1")
	end := time.Now()
	got.Sessions[0].End = &end

	again, _ := s.GetByID(ctx, "d1")
	assert.True(t, again.Sessions[0].IsOpen())
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, d := range []model.AttendanceDay{
		day("a", "u1", "2024-03-01"),
		day("b", "u1", "2024-03-02"),
		day("c", "u2", "2024-03-02"),
		day("e", "u1", "2024-03-03"),
		day("f", "u2", "2024-03-05"),
	} {
		_, err := s.Insert(ctx, d)
		require.NoError(t, err)
	}

	ids := func(days []model.AttendanceDay) []string {
		out := make([]string, 0, len(days))
		for _, d := range days {
			out = append(out, d.ID)
		}
		return out
	}

	all, err := s.Find(ctx, model.DayFilter{}, model.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "e", "b", "c", "a"}, ids(all))

	from, to := "2024-03-02", "2024-03-03"
	ranged, _ := s.Find(ctx, model.DayFilter{From: &from, To: &to}, model.FindOptions{})
	assert.Equal(t, []string{"e", "b", "c"}, ids(ranged))

	u1 := "u1"
	page, _ := s.Find(ctx, model.DayFilter{User: &u1}, model.FindOptions{Limit: 2, Offset: 1})
	assert.Equal(t, []string{"b", "a"}, ids(page))

	empty, _ := s.Find(ctx, model.DayFilter{}, model.FindOptions{Offset: 10})
	assert.Empty(t, empty)

	byDates, _ := s.Find(ctx, model.DayFilter{Dates: []string{"2024-03-02", "2024-03-05"}}, model.FindOptions{})
	assert.Equal(t, []string{"f", "b", "c"}, ids(byDates))

	n, _ := s.Count(ctx, model.DayFilter{User: &u1})
	assert.Equal(t, 3, n)
}

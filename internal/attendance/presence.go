package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/protomem/attendance-tracker/internal/worktime"
)

type PresenceRow struct {
	User           model.ID       `json:"userId"`
	Date           string         `json:"date"`
	State          model.DayState `json:"state"`
	Active         bool           `json:"active"`
	OnBreak        bool           `json:"onBreak"`
	Since          *time.Time     `json:"since"`
	BreakSince     *time.Time     `json:"breakSince"`
	ElapsedSeconds int64          `json:"elapsedSeconds"`
}

// Presence reports who is working right now. The returned time is the
// instant every row's elapsed seconds were measured at.
func (t *Tracker) Presence(ctx context.Context, who model.Identity, activeOnly bool) ([]PresenceRow, time.Time, error) {
	asOf := t.now()
	today, since := t.LocalDate(asOf), t.dateBefore(asOf, t.cfg.PresenceLookbackDays)

	filter := model.DayFilter{From: &since, To: &today}
	if !who.Permissions.AttendanceReadAll {
		filter.User = &who.UserID
	}

	days, err := t.repo.Find(ctx, filter, model.FindOptions{})
	if err != nil {
		return nil, asOf, err
	}

	return Snapshot(days, today, asOf, activeOnly), asOf, nil
}

// Snapshot derives presence rows from stored days. Only days dated today
// are reported, except that a day with a session still open from an earlier
// date stands in for its user.
func Snapshot(days []model.AttendanceDay, today string, asOf time.Time, activeOnly bool) []PresenceRow {
	rank := func(day *model.AttendanceDay) int {
		r := 0
		if day.OpenSession() != nil {
			r += 2
		}
		if day.Date == today {
			r++
		}
		return r
	}

	current := make(map[model.ID]model.AttendanceDay, len(days))
	for _, day := range days {
		r := rank(&day)
		if r == 0 {
			continue
		}
		if prev, seen := current[day.User]; seen && rank(&prev) >= r {
			continue
		}
		current[day.User] = day
	}

	rows := make([]PresenceRow, 0, len(current))
	for _, day := range current {
		row := presenceRow(day, asOf)
		if activeOnly && !row.Active {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].User < rows[j].User })
	return rows
}

func presenceRow(day model.AttendanceDay, asOf time.Time) PresenceRow {
	state := day.State()
	row := PresenceRow{
		User:           day.User,
		Date:           day.Date,
		State:          state,
		Active:         state.Active(),
		OnBreak:        state == model.StateOnBreak,
		ElapsedSeconds: worktime.DaySeconds(day.Sessions, asOf),
	}

	if s := day.OpenSession(); s != nil {
		row.Since = timePtr(s.Start)
		if i := s.OpenBreak(); i >= 0 {
			row.BreakSince = timePtr(s.Breaks[i].Start)
		}
	}

	return row
}

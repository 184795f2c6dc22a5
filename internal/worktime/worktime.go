// Package worktime turns stored sessions into worked seconds and minutes.
//
// Open intervals are measured up to the supplied "now", so results for a day
// with an open session depend on when they are observed.
package worktime

import (
	"time"

	"github.com/protomem/attendance-tracker/internal/model"
	"golang.org/x/exp/constraints"
)

const DefaultRegularMinutes = 480

type Totals struct {
	Total    int `json:"totalMinutes"`
	Regular  int `json:"regularMinutes"`
	Overtime int `json:"overtimeMinutes"`
}

func BreakSeconds(b model.Break, now time.Time) int64 {
	return intervalSeconds(b.Start, b.End, now)
}

// SessionSeconds is the session's gross duration minus its breaks, never negative.
func SessionSeconds(s model.Session, now time.Time) int64 {
	gross := intervalSeconds(s.Start, s.End, now)

	var paused int64
	for _, b := range s.Breaks {
		paused += BreakSeconds(b, now)
	}

	return nonNegative(gross - paused)
}

func DaySeconds(sessions model.Sessions, now time.Time) int64 {
	var total int64
	for _, s := range sessions {
		total += SessionSeconds(s, now)
	}
	return total
}

// Split divides total minutes at the regular limit.
func Split(totalMinutes, regularLimit int) (regular, overtime int) {
	totalMinutes = nonNegative(totalMinutes)
	regularLimit = nonNegative(regularLimit)
	return min(totalMinutes, regularLimit), nonNegative(totalMinutes - regularLimit)
}

func Compute(sessions model.Sessions, now time.Time, regularLimit int) Totals {
	total := int(DaySeconds(sessions, now) / 60)
	regular, overtime := Split(total, regularLimit)
	return Totals{Total: total, Regular: regular, Overtime: overtime}
}

// Apply recomputes the derived minutes of day in place.
func Apply(day *model.AttendanceDay, now time.Time, regularLimit int) {
	t := Compute(day.Sessions, now, regularLimit)
	day.TotalMinutes = t.Total
	day.RegularMinutes = t.Regular
	day.OvertimeMinutes = t.Overtime
}

func intervalSeconds(start time.Time, end *time.Time, now time.Time) int64 {
	stop := now
	if end != nil {
		stop = *end
	}
	return nonNegative(int64(stop.Sub(start) / time.Second))
}

func nonNegative[T constraints.Integer | constraints.Float](v T) T {
	if v < 0 {
		return 0
	}
	return v
}

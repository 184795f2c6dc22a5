package attendance

import (
	"time"

	"github.com/protomem/attendance-tracker/internal/model"
)

type Op int

const (
	OpClockIn Op = iota
	OpClockOut
	OpBreakStart
	OpBreakEnd
)

func (op Op) String() string {
	switch op {
	case OpClockIn:
		return "clock_in"
	case OpClockOut:
		return "clock_out"
	case OpBreakStart:
		return "break_start"
	case OpBreakEnd:
		return "break_end"
	default:
		return "unknown"
	}
}

// apply runs op against day in place. On error day is left as it was.
func apply(op Op, day *model.AttendanceDay, now time.Time, loc *model.LocationMeta) error {
	switch op {
	case OpClockIn:
		return clockIn(day, now, loc)
	case OpClockOut:
		return clockOut(day, now, loc)
	case OpBreakStart:
		return startBreak(day, now)
	case OpBreakEnd:
		return endBreak(day, now)
	default:
		return model.Reject(model.ErrInvalid, "unknown operation")
	}
}

func clockIn(day *model.AttendanceDay, now time.Time, loc *model.LocationMeta) error {
	if day.OpenSession() != nil {
		return model.Reject(model.ErrStateConflict, model.ReasonAlreadyClockedIn)
	}

	day.Sessions = append(day.Sessions, model.Session{
		Start:         now,
		StartLocation: loc,
		Breaks:        []model.Break{},
	})
	return nil
}

func clockOut(day *model.AttendanceDay, now time.Time, loc *model.LocationMeta) error {
	s := day.OpenSession()
	if s == nil {
		return model.Reject(model.ErrStateConflict, model.ReasonNotClockedIn)
	}

	if i := s.OpenBreak(); i >= 0 {
		s.Breaks[i].End = timePtr(now)
	}
	s.End = timePtr(now)
	s.EndLocation = loc
	return nil
}

func startBreak(day *model.AttendanceDay, now time.Time) error {
	s := day.OpenSession()
	if s == nil {
		return model.Reject(model.ErrStateConflict, model.ReasonNotClockedIn)
	}
	if s.OpenBreak() >= 0 {
		return model.Reject(model.ErrStateConflict, model.ReasonBreakInProgress)
	}

	s.Breaks = append(s.Breaks, model.Break{Start: now})
	return nil
}

func endBreak(day *model.AttendanceDay, now time.Time) error {
	s := day.OpenSession()
	if s == nil {
		return model.Reject(model.ErrStateConflict, model.ReasonNotClockedIn)
	}
	i := s.OpenBreak()
	if i < 0 {
		return model.Reject(model.ErrStateConflict, model.ReasonNoBreak)
	}

	s.Breaks[i].End = timePtr(now)
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

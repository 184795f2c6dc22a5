// Package attendance owns the per-user, per-day attendance aggregate: the
// clock-in/out and break state machine, and the permission scoped read
// paths built over the stored days.
package attendance

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/protomem/attendance-tracker/internal/geofence"
	"github.com/protomem/attendance-tracker/internal/keylock"
	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/protomem/attendance-tracker/internal/validator"
	"github.com/protomem/attendance-tracker/internal/worktime"
)

const (
	DefaultMaxWriteAttempts     = 5
	DefaultReportMaxRows        = 10_000
	DefaultPresenceLookbackDays = 7
	MaxNotesLength              = 2000
)

type Repository interface {
	Get(ctx context.Context, user model.ID, date string) (model.AttendanceDay, error)
	GetByID(ctx context.Context, id model.ID) (model.AttendanceDay, error)
	Find(ctx context.Context, filter model.DayFilter, opts model.FindOptions) ([]model.AttendanceDay, error)
	Count(ctx context.Context, filter model.DayFilter) (int, error)

	// Insert fails with model.ErrExists when the (user, date) key is taken.
	Insert(ctx context.Context, day model.AttendanceDay) (model.AttendanceDay, error)
	// Update writes day only if the stored version still equals day.Version,
	// otherwise it fails with model.ErrVersionConflict.
	Update(ctx context.Context, day model.AttendanceDay) (model.AttendanceDay, error)
}

type Config struct {
	// Location defines where a calendar day starts and ends.
	Location *time.Location

	RegularMinutes   int
	MaxWriteAttempts int
	ReportMaxRows    int

	// UnfencedBreaks lets break operations skip the geofence gate.
	UnfencedBreaks bool

	// PresenceLookbackDays bounds how old a still open session may be and
	// still show up in presence.
	PresenceLookbackDays int
}

func (c Config) withDefaults() Config {
	if c.RegularMinutes <= 0 {
		c.RegularMinutes = worktime.DefaultRegularMinutes
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.MaxWriteAttempts <= 0 {
		c.MaxWriteAttempts = DefaultMaxWriteAttempts
	}
	if c.ReportMaxRows <= 0 {
		c.ReportMaxRows = DefaultReportMaxRows
	}
	if c.PresenceLookbackDays <= 0 {
		c.PresenceLookbackDays = DefaultPresenceLookbackDays
	}
	return c
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDGenerator(gen func() model.ID) Option {
	return func(t *Tracker) { t.newID = gen }
}

type Tracker struct {
	logger *slog.Logger
	repo   Repository
	fence  *geofence.Validator
	locks  *keylock.Locker
	cfg    Config

	now   func() time.Time
	newID func() model.ID
}

func NewTracker(logger *slog.Logger, repo Repository, fence *geofence.Validator, cfg Config, opts ...Option) *Tracker {
	t := &Tracker{
		logger: logger.With("module", "attendance"),
		repo:   repo,
		fence:  fence,
		locks:  keylock.New(),
		cfg:    cfg.withDefaults(),
		now:    time.Now,
		newID:  newULID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TransitionRequest is the client supplied context of a state change.
type TransitionRequest struct {
	Coords    geofence.Coords
	IP        string
	UserAgent string
}

func (r TransitionRequest) meta() *model.LocationMeta {
	return &model.LocationMeta{
		Lat:       r.Coords.Lat,
		Lng:       r.Coords.Lng,
		Accuracy:  r.Coords.Accuracy,
		IP:        r.IP,
		UserAgent: r.UserAgent,
	}
}

func (t *Tracker) ClockIn(ctx context.Context, who model.Identity, req TransitionRequest) (model.AttendanceDay, error) {
	return t.transition(ctx, who, OpClockIn, req)
}

func (t *Tracker) ClockOut(ctx context.Context, who model.Identity, req TransitionRequest) (model.AttendanceDay, error) {
	return t.transition(ctx, who, OpClockOut, req)
}

func (t *Tracker) StartBreak(ctx context.Context, who model.Identity, req TransitionRequest) (model.AttendanceDay, error) {
	return t.transition(ctx, who, OpBreakStart, req)
}

func (t *Tracker) EndBreak(ctx context.Context, who model.Identity, req TransitionRequest) (model.AttendanceDay, error) {
	return t.transition(ctx, who, OpBreakEnd, req)
}

func (t *Tracker) transition(ctx context.Context, who model.Identity, op Op, req TransitionRequest) (model.AttendanceDay, error) {
	logger := t.logger.With("op", op.String(), "user", who.UserID)

	if who.UserID == "" {
		return model.AttendanceDay{}, model.Reject(model.ErrInvalid, "user is required")
	}

	if t.gated(op) {
		decision := t.fence.Check(req.Coords, who.Permissions.AttendanceBypassLocation)
		if !decision.Allowed {
			logger.Info("geofence rejected", "reason", decision.Reason, "distance", decision.Distance)
			return model.AttendanceDay{}, model.Reject(model.ErrLocation, decision.Reason)
		}
	}

	date, err := t.targetDate(ctx, who.UserID, op, t.LocalDate(t.now()))
	if err != nil {
		return model.AttendanceDay{}, err
	}

	var loc *model.LocationMeta
	if op == OpClockIn || op == OpClockOut {
		loc = req.meta()
	}

	day, err := t.mutate(ctx, who.UserID, date, func(day *model.AttendanceDay, now time.Time) error {
		if err := apply(op, day, now, loc); err != nil {
			return err
		}
		worktime.Apply(day, now, t.cfg.RegularMinutes)
		return nil
	})
	if err != nil {
		if reason, ok := model.Reason(err); ok {
			logger.Debug("transition rejected", "date", date, "reason", reason)
		}
		return model.AttendanceDay{}, err
	}

	logger.Debug("transition applied", "date", date, "state", day.State().String(), "version", day.Version)

	return day, nil
}

func (t *Tracker) gated(op Op) bool {
	switch op {
	case OpBreakStart, OpBreakEnd:
		return !t.cfg.UnfencedBreaks
	default:
		return true
	}
}

// targetDate picks the day an operation applies to. A session still open
// from an earlier day, however old, is continued instead of starting today.
func (t *Tracker) targetDate(ctx context.Context, user model.ID, op Op, today string) (string, error) {
	latest, ok, err := t.latestDay(ctx, user, today)
	if err != nil {
		return "", err
	}

	open := ok && latest.OpenSession() != nil
	if op == OpClockIn && open && latest.Date != today {
		return "", model.Reject(model.ErrStateConflict, model.ReasonAlreadyClockedIn)
	}
	if open {
		return latest.Date, nil
	}
	return today, nil
}

// latestDay is the user's most recent day not after date. Only the most
// recent day can hold an open session, since ClockIn refuses to open a
// second one.
func (t *Tracker) latestDay(ctx context.Context, user model.ID, date string) (model.AttendanceDay, bool, error) {
	days, err := t.repo.Find(ctx, model.DayFilter{User: &user, To: &date}, model.FindOptions{Limit: 1})
	if err != nil {
		return model.AttendanceDay{}, false, err
	}
	if len(days) == 0 {
		return model.AttendanceDay{}, false, nil
	}
	return days[0], true, nil
}

// mutate is the read-modify-write cycle for one (user, date) aggregate.
// Writers in this process are serialized by the key lock; writers in other
// processes are detected by the repository and the cycle is replayed.
func (t *Tracker) mutate(ctx context.Context, user model.ID, date string, fn func(*model.AttendanceDay, time.Time) error) (model.AttendanceDay, error) {
	unlock := t.locks.Lock(lockKey(user, date))
	defer unlock()

	for attempt := 1; attempt <= t.cfg.MaxWriteAttempts; attempt++ {
		current, isNew, err := t.load(ctx, user, date)
		if err != nil {
			return model.AttendanceDay{}, err
		}

		now := t.now()
		next := current.Clone()
		if err := fn(&next, now); err != nil {
			return model.AttendanceDay{}, err
		}
		next.UpdatedAt = now

		var saved model.AttendanceDay
		if isNew {
			next.CreatedAt = now
			saved, err = t.repo.Insert(ctx, next)
		} else {
			saved, err = t.repo.Update(ctx, next)
		}

		switch {
		case err == nil:
			return saved, nil
		case errors.Is(err, model.ErrExists), errors.Is(err, model.ErrVersionConflict):
			t.logger.Debug("concurrent write, retrying", "user", user, "date", date, "attempt", attempt)
			continue
		default:
			return model.AttendanceDay{}, err
		}
	}

	return model.AttendanceDay{}, model.NewError("attendance", model.ErrVersionConflict)
}

func (t *Tracker) load(ctx context.Context, user model.ID, date string) (model.AttendanceDay, bool, error) {
	day, err := t.repo.Get(ctx, user, date)
	if err == nil {
		return day, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.AttendanceDay{}, false, err
	}

	day, err = model.NewAttendanceDay(t.newID(), user, date, nil)
	if err != nil {
		return model.AttendanceDay{}, false, err
	}
	return day, true, nil
}

// SetNotes replaces the notes of a day. Requesters without read-all access
// only see their own days, so foreign days are reported as not found.
func (t *Tracker) SetNotes(ctx context.Context, who model.Identity, id model.ID, notes string) (model.AttendanceDay, error) {
	notes = strings.TrimSpace(notes)
	if !validator.MaxRunes(notes, MaxNotesLength) {
		return model.AttendanceDay{}, model.Reject(model.ErrInvalid, fmt.Sprintf("notes must be at most %d characters", MaxNotesLength))
	}

	day, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return model.AttendanceDay{}, err
	}
	if day.User != who.UserID && !who.Permissions.AttendanceReadAll {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrNotFound)
	}

	return t.mutate(ctx, day.User, day.Date, func(day *model.AttendanceDay, _ time.Time) error {
		if day.ID != id {
			return model.NewError("attendance", model.ErrNotFound)
		}
		day.Notes = notes
		return nil
	})
}

// Today returns the requester's day for the current local date, falling
// back to an earlier date while a session from it is still open.
func (t *Tracker) Today(ctx context.Context, who model.Identity) (model.AttendanceDay, bool, error) {
	today := t.LocalDate(t.now())

	day, ok, err := t.latestDay(ctx, who.UserID, today)
	if err != nil || !ok {
		return model.AttendanceDay{}, false, err
	}
	if day.Date == today || day.OpenSession() != nil {
		return day, true, nil
	}
	return model.AttendanceDay{}, false, nil
}

// LocalDate is the YYYY-MM-DD key of the calendar day containing ts.
func (t *Tracker) LocalDate(ts time.Time) string {
	return ts.In(t.cfg.Location).Format(model.DateLayout)
}

func (t *Tracker) dateBefore(ts time.Time, days int) string {
	y, m, d := ts.In(t.cfg.Location).Date()
	return time.Date(y, m, d-days, 12, 0, 0, 0, t.cfg.Location).Format(model.DateLayout)
}

func lockKey(user model.ID, date string) string {
	return user + "|" + date
}

func newULID() model.ID {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type ID = string

const DateLayout = "2006-01-02"

type LocationMeta struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	IP        string   `json:"ip,omitempty"`
	UserAgent string   `json:"userAgent,omitempty"`
}

type Break struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

func (b Break) IsOpen() bool {
	return b.End == nil
}

type Session struct {
	Start         time.Time     `json:"start"`
	End           *time.Time    `json:"end,omitempty"`
	StartLocation *LocationMeta `json:"startLocation,omitempty"`
	EndLocation   *LocationMeta `json:"endLocation,omitempty"`
	Breaks        []Break       `json:"breaks"`
}

// NewSession builds a session and checks its break list: only the last
// break may be open, and only while the session itself is open.
func NewSession(start time.Time, end *time.Time, breaks []Break) (Session, error) {
	s := Session{Start: start, End: end, Breaks: breaks}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (s Session) Validate() error {
	if s.Start.IsZero() {
		return NewError("session", errors.New("start is required"))
	}
	for i, b := range s.Breaks {
		if !b.IsOpen() {
			continue
		}
		if i != len(s.Breaks)-1 {
			return NewError("session", errors.New("only the last break may be open"))
		}
		if !s.IsOpen() {
			return NewError("session", errors.New("closed session has an open break"))
		}
	}
	return nil
}

func (s Session) IsOpen() bool {
	return s.End == nil
}

// OpenBreak returns the index of the open break, or -1.
func (s Session) OpenBreak() int {
	if n := len(s.Breaks); n > 0 && s.Breaks[n-1].IsOpen() {
		return n - 1
	}
	return -1
}

func (s Session) clone() Session {
	c := s
	c.End = cloneTime(s.End)
	c.StartLocation = cloneLocation(s.StartLocation)
	c.EndLocation = cloneLocation(s.EndLocation)
	c.Breaks = make([]Break, len(s.Breaks))
	for i, b := range s.Breaks {
		c.Breaks[i] = Break{Start: b.Start, End: cloneTime(b.End)}
	}
	return c
}

// Sessions is stored as a single JSON document column.
type Sessions []Session

func (s Sessions) Value() (driver.Value, error) {
	if s == nil {
		s = Sessions{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Sessions) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Sessions{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("sessions: unsupported scan type %T", src)
	}
	return json.Unmarshal(raw, s)
}

type DayState int

const (
	StateNoSession DayState = iota
	StateClockedIn
	StateOnBreak
	StateClosedToday
)

func (s DayState) String() string {
	switch s {
	case StateClockedIn:
		return "clocked_in"
	case StateOnBreak:
		return "on_break"
	case StateClosedToday:
		return "closed"
	default:
		return "no_session"
	}
}

func (s DayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DayState) UnmarshalText(text []byte) error {
	for _, state := range []DayState{StateNoSession, StateClockedIn, StateOnBreak, StateClosedToday} {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown day state %q", text)
}

func (s DayState) Active() bool {
	return s == StateClockedIn || s == StateOnBreak
}

type AttendanceDay struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	User ID     `json:"userId" db:"user_id"`
	Date string `json:"date" db:"work_date"`

	Sessions Sessions `json:"sessions" db:"sessions"`
	Notes    string   `json:"notes" db:"notes"`

	RegularMinutes  int `json:"regularMinutes" db:"regular_minutes"`
	OvertimeMinutes int `json:"overtimeMinutes" db:"overtime_minutes"`
	TotalMinutes    int `json:"totalMinutes" db:"total_minutes"`

	Version int `json:"version" db:"version"`
}

// NewAttendanceDay builds a day aggregate, rejecting a malformed date key or
// a session list with an open session anywhere but at its tail.
func NewAttendanceDay(id, user ID, date string, sessions Sessions) (AttendanceDay, error) {
	d := AttendanceDay{ID: id, User: user, Date: date, Sessions: sessions}
	if err := d.Validate(); err != nil {
		return AttendanceDay{}, err
	}
	if d.Sessions == nil {
		d.Sessions = Sessions{}
	}
	return d, nil
}

func (d AttendanceDay) Validate() error {
	if d.User == "" {
		return NewError("attendance", errors.New("user is required"))
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return NewError("attendance", fmt.Errorf("invalid date %q", d.Date))
	}
	for i, s := range d.Sessions {
		if err := s.Validate(); err != nil {
			return NewError("attendance", err)
		}
		if s.IsOpen() && i != len(d.Sessions)-1 {
			return NewError("attendance", errors.New("only the last session may be open"))
		}
	}
	return nil
}

func (d AttendanceDay) State() DayState {
	n := len(d.Sessions)
	if n == 0 {
		return StateNoSession
	}
	last := d.Sessions[n-1]
	switch {
	case !last.IsOpen():
		return StateClosedToday
	case last.OpenBreak() >= 0:
		return StateOnBreak
	default:
		return StateClockedIn
	}
}

// OpenSession returns the open session, or nil.
func (d *AttendanceDay) OpenSession() *Session {
	n := len(d.Sessions)
	if n == 0 || !d.Sessions[n-1].IsOpen() {
		return nil
	}
	return &d.Sessions[n-1]
}

// Clone deep-copies the aggregate so it can be mutated without touching the original.
func (d AttendanceDay) Clone() AttendanceDay {
	c := d
	c.Sessions = make(Sessions, len(d.Sessions))
	for i, s := range d.Sessions {
		c.Sessions[i] = s.clone()
	}
	return c
}

// DayFilter narrows day lookups. Nil fields do not filter.
// From and To are inclusive YYYY-MM-DD bounds.
type DayFilter struct {
	User  *ID
	From  *string
	To    *string
	Dates []string
}

type FindOptions struct {
	Limit  int
	Offset int
}

type Permissions struct {
	AttendanceReadAll        bool `json:"attendanceReadAll"`
	AttendanceBypassLocation bool `json:"attendanceBypassLocation"`
	ReportExport             bool `json:"reportExport"`
}

const (
	PermAttendanceReadAll        = "attendance:read_all"
	PermAttendanceBypassLocation = "attendance:bypass_location"
	PermReportExport             = "report:export"
)

func ParsePermissions(names []string) Permissions {
	var p Permissions
	for _, name := range names {
		switch name {
		case PermAttendanceReadAll:
			p.AttendanceReadAll = true
		case PermAttendanceBypassLocation:
			p.AttendanceBypassLocation = true
		case PermReportExport:
			p.ReportExport = true
		}
	}
	return p
}

// Identity is an already authenticated requester.
type Identity struct {
	UserID      ID          `json:"userId"`
	Permissions Permissions `json:"permissions"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneLocation(l *LocationMeta) *LocationMeta {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

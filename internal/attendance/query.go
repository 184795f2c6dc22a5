package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/protomem/attendance-tracker/internal/worktime"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
	MaxPage         = 1_000_000
)

type Range struct {
	From string
	To   string
}

type ListQuery struct {
	Range
	User  model.ID
	Page  int
	Limit int
}

type ListResult struct {
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Total int                   `json:"total"`
	Rows  []model.AttendanceDay `json:"rows"`
}

type ReportQuery struct {
	Range
	User model.ID
}

type ReportRow struct {
	ID              model.ID   `json:"id"`
	User            model.ID   `json:"userId"`
	Date            string     `json:"date"`
	Sessions        int        `json:"sessions"`
	FirstIn         *time.Time `json:"firstIn"`
	LastOut         *time.Time `json:"lastOut"`
	BreakMinutes    int        `json:"breakMinutes"`
	TotalMinutes    int        `json:"totalMinutes"`
	RegularMinutes  int        `json:"regularMinutes"`
	OvertimeMinutes int        `json:"overtimeMinutes"`
	Notes           string     `json:"notes"`
}

// ScopeUser returns the user a read is allowed to target. Without read-all
// access the requester can only ever see their own days.
func ScopeUser(who model.Identity, requested model.ID) *model.ID {
	if !who.Permissions.AttendanceReadAll {
		self := who.UserID
		return &self
	}
	if requested == "" {
		return nil
	}
	return &requested
}

func (t *Tracker) List(ctx context.Context, who model.Identity, q ListQuery) (ListResult, error) {
	filter, err := buildFilter(who, q.Range, q.User)
	if err != nil {
		return ListResult{}, err
	}

	page, limit := normalizePage(q.Page, q.Limit)
	if page > MaxPage {
		return ListResult{}, model.Reject(model.ErrInvalid, fmt.Sprintf("page must be at most %d", MaxPage))
	}

	total, err := t.repo.Count(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}

	rows, err := t.repo.Find(ctx, filter, model.FindOptions{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{Page: page, Limit: limit, Total: total, Rows: rows}, nil
}

func (t *Tracker) Report(ctx context.Context, who model.Identity, q ReportQuery) ([]ReportRow, error) {
	if !who.Permissions.ReportExport {
		return nil, model.Reject(model.ErrForbidden, model.ReasonExportForbidden)
	}

	filter, err := buildFilter(who, q.Range, q.User)
	if err != nil {
		return nil, err
	}

	days, err := t.repo.Find(ctx, filter, model.FindOptions{Limit: t.cfg.ReportMaxRows})
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(days))
	for _, day := range days {
		rows = append(rows, reportRow(day))
	}
	return rows, nil
}

func reportRow(day model.AttendanceDay) ReportRow {
	row := ReportRow{
		ID:              day.ID,
		User:            day.User,
		Date:            day.Date,
		Sessions:        len(day.Sessions),
		TotalMinutes:    day.TotalMinutes,
		RegularMinutes:  day.RegularMinutes,
		OvertimeMinutes: day.OvertimeMinutes,
		Notes:           day.Notes,
	}

	if n := len(day.Sessions); n > 0 {
		row.FirstIn = timePtr(day.Sessions[0].Start)
		if end := day.Sessions[n-1].End; end != nil {
			row.LastOut = timePtr(*end)
		}
	}

	// Measured at the last session event, like the stored minutes.
	asOf := lastEvent(day.Sessions)
	var paused int64
	for _, s := range day.Sessions {
		for _, b := range s.Breaks {
			paused += worktime.BreakSeconds(b, asOf)
		}
	}
	row.BreakMinutes = int(paused / 60)

	return row
}

func lastEvent(sessions model.Sessions) time.Time {
	var last time.Time
	seen := func(ts time.Time) {
		if ts.After(last) {
			last = ts
		}
	}
	for _, s := range sessions {
		seen(s.Start)
		if s.End != nil {
			seen(*s.End)
		}
		for _, b := range s.Breaks {
			seen(b.Start)
			if b.End != nil {
				seen(*b.End)
			}
		}
	}
	return last
}

func buildFilter(who model.Identity, r Range, requested model.ID) (model.DayFilter, error) {
	filter := model.DayFilter{User: ScopeUser(who, requested)}

	if r.From != "" {
		if err := checkDate("from", r.From); err != nil {
			return model.DayFilter{}, err
		}
		filter.From = &r.From
	}
	if r.To != "" {
		if err := checkDate("to", r.To); err != nil {
			return model.DayFilter{}, err
		}
		filter.To = &r.To
	}
	if filter.From != nil && filter.To != nil && *filter.From > *filter.To {
		return model.DayFilter{}, model.Reject(model.ErrInvalid, "from must not be after to")
	}

	return filter, nil
}

func checkDate(name, value string) error {
	if _, err := time.Parse(model.DateLayout, value); err != nil {
		return model.Reject(model.ErrInvalid, fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name))
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

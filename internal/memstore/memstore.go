// Package memstore keeps attendance days in process memory. It follows the
// same uniqueness and versioning rules as the Postgres store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/protomem/attendance-tracker/internal/model"
)

type Store struct {
	mu    sync.RWMutex
	byID  map[model.ID]model.AttendanceDay
	byKey map[string]model.ID
}

func New() *Store {
	return &Store{
		byID:  make(map[model.ID]model.AttendanceDay),
		byKey: make(map[string]model.ID),
	}
}

func (s *Store) Get(_ context.Context, user model.ID, date string) (model.AttendanceDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[key(user, date)]
	if !ok {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrNotFound)
	}
	return s.byID[id].Clone(), nil
}

func (s *Store) GetByID(_ context.Context, id model.ID) (model.AttendanceDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day, ok := s.byID[id]
	if !ok {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrNotFound)
	}
	return day.Clone(), nil
}

func (s *Store) Find(_ context.Context, filter model.DayFilter, opts model.FindOptions) ([]model.AttendanceDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := s.match(filter)
	sort.Slice(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date > days[j].Date
		}
		return days[i].User < days[j].User
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(days) {
			return []model.AttendanceDay{}, nil
		}
		days = days[opts.Offset:]
	}
	if opts.Limit > 0 && len(days) > opts.Limit {
		days = days[:opts.Limit]
	}

	out := make([]model.AttendanceDay, 0, len(days))
	for _, day := range days {
		out = append(out, day.Clone())
	}
	return out, nil
}

func (s *Store) Count(_ context.Context, filter model.DayFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.match(filter)), nil
}

func (s *Store) Insert(_ context.Context, day model.AttendanceDay) (model.AttendanceDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(day.User, day.Date)
	if _, ok := s.byKey[k]; ok {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrExists)
	}
	if _, ok := s.byID[day.ID]; ok {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrExists)
	}

	day = day.Clone()
	day.Version = 1
	s.byID[day.ID] = day
	s.byKey[k] = day.ID

	return day.Clone(), nil
}

func (s *Store) Update(_ context.Context, day model.AttendanceDay) (model.AttendanceDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[day.ID]
	if !ok {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrNotFound)
	}
	if stored.Version != day.Version {
		return model.AttendanceDay{}, model.NewError("attendance", model.ErrVersionConflict)
	}

	day = day.Clone()
	// Owner, date and creation time are immutable.
	day.User = stored.User
	day.Date = stored.Date
	day.CreatedAt = stored.CreatedAt
	day.Version = stored.Version + 1
	s.byID[day.ID] = day

	return day.Clone(), nil
}

func (s *Store) match(filter model.DayFilter) []model.AttendanceDay {
	var dates map[string]struct{}
	if filter.Dates != nil {
		dates = make(map[string]struct{}, len(filter.Dates))
		for _, d := range filter.Dates {
			dates[d] = struct{}{}
		}
	}

	out := make([]model.AttendanceDay, 0)
	for _, day := range s.byID {
		if filter.User != nil && day.User != *filter.User {
			continue
		}
		if filter.From != nil && day.Date < *filter.From {
			continue
		}
		if filter.To != nil && day.Date > *filter.To {
			continue
		}
		if dates != nil {
			if _, ok := dates[day.Date]; !ok {
				continue
			}
		}
		out = append(out, day)
	}
	return out
}

func key(user model.ID, date string) string {
	return user + "|" + date
}

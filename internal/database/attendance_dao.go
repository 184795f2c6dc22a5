package database

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/attendance-tracker/internal/model"
)

const _attendanceTable = "attendance_days"

var _attendanceColumns = []string{
	"id", "created_at", "updated_at",
	"user_id", "work_date",
	"sessions", "notes",
	"regular_minutes", "overtime_minutes", "total_minutes",
	"version",
}

type AttendanceDAO struct {
	Logger *slog.Logger
	*DB
}

func NewAttendanceDAO(logger *slog.Logger, db *DB) *AttendanceDAO {
	return &AttendanceDAO{
		Logger: logger.With("dao", "attendance"),
		DB:     db,
	}
}

func (dao *AttendanceDAO) Get(ctx context.Context, user model.ID, date string) (model.AttendanceDay, error) {
	return dao.getOne(ctx, "get", squirrel.Eq{"user_id": user, "work_date": date})
}

func (dao *AttendanceDAO) GetByID(ctx context.Context, id model.ID) (model.AttendanceDay, error) {
	return dao.getOne(ctx, "getById", squirrel.Eq{"id": id})
}

func (dao *AttendanceDAO) getOne(ctx context.Context, name string, where squirrel.Eq) (model.AttendanceDay, error) {
	logger := dao.Logger.With("query", name)

	query, args, err := dao.Builder.
		Select(_attendanceColumns...).
		From(_attendanceTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.AttendanceDay{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var day model.AttendanceDay
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&day); err != nil {
		if IsNoRows(err) {
			return model.AttendanceDay{}, model.NewError("attendance", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.AttendanceDay{}, err
	}

	return day, nil
}

func (dao *AttendanceDAO) Find(ctx context.Context, filter model.DayFilter, opts model.FindOptions) ([]model.AttendanceDay, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := buildFindQuery(dao.Builder, filter, opts)
	if err != nil {
		return []model.AttendanceDay{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	days := make([]model.AttendanceDay, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &days, query, args...); err != nil {
		if IsNoRows(err) {
			return []model.AttendanceDay{}, nil
		}

		logger.Warn("failed query execute", "error", err)

		return []model.AttendanceDay{}, err
	}

	logger.Debug("success query execute", "countDays", len(days))

	return days, nil
}

func (dao *AttendanceDAO) Count(ctx context.Context, filter model.DayFilter) (int, error) {
	logger := dao.Logger.With("query", "count")

	query, args, err := applyDayFilter(
		dao.Builder.Select("COUNT(*)").From(_attendanceTable),
		filter,
	).ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var count int
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return count, nil
}

func (dao *AttendanceDAO) Insert(ctx context.Context, day model.AttendanceDay) (model.AttendanceDay, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := buildInsertQuery(dao.Builder, day)
	if err != nil {
		return model.AttendanceDay{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var saved model.AttendanceDay
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&saved); err != nil {
		if IsUniqueViolation(err) {
			return model.AttendanceDay{}, model.NewError("attendance", model.ErrExists)
		}
		if IsCheckViolation(err) {
			return model.AttendanceDay{}, model.NewError("attendance", model.ErrInvalid)
		}

		logger.Warn("failed query execute", "error", err)

		return model.AttendanceDay{}, err
	}

	logger.Debug("success query execute", "insertId", saved.ID)

	return saved, nil
}

// Update is a compare-and-swap on the version column.
func (dao *AttendanceDAO) Update(ctx context.Context, day model.AttendanceDay) (model.AttendanceDay, error) {
	logger := dao.Logger.With("query", "update")

	query, args, err := buildUpdateQuery(dao.Builder, day)
	if err != nil {
		return model.AttendanceDay{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var saved model.AttendanceDay
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&saved); err != nil {
		if !IsNoRows(err) {
			logger.Warn("failed query execute", "error", err)

			return model.AttendanceDay{}, err
		}

		if _, getErr := dao.GetByID(ctx, day.ID); getErr != nil {
			return model.AttendanceDay{}, getErr
		}

		logger.Debug("stale version", "updateId", day.ID, "version", day.Version)

		return model.AttendanceDay{}, model.NewError("attendance", model.ErrVersionConflict)
	}

	logger.Debug("success query execute", "updateId", saved.ID, "version", saved.Version)

	return saved, nil
}

func applyDayFilter(q squirrel.SelectBuilder, filter model.DayFilter) squirrel.SelectBuilder {
	if filter.User != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.User})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"work_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"work_date": *filter.To})
	}
	if filter.Dates != nil {
		q = q.Where(squirrel.Eq{"work_date": filter.Dates})
	}
	return q
}

func buildFindQuery(b squirrel.StatementBuilderType, filter model.DayFilter, opts model.FindOptions) (string, []any, error) {
	q := applyDayFilter(
		b.Select(_attendanceColumns...).From(_attendanceTable),
		filter,
	).OrderBy("work_date DESC", "user_id ASC")

	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Offset(uint64(opts.Offset))
	}

	return q.ToSql()
}

func buildInsertQuery(b squirrel.StatementBuilderType, day model.AttendanceDay) (string, []any, error) {
	return b.
		Insert(_attendanceTable).
		Columns(_attendanceColumns...).
		Values(
			day.ID, day.CreatedAt, day.UpdatedAt,
			day.User, day.Date,
			day.Sessions, day.Notes,
			day.RegularMinutes, day.OvertimeMinutes, day.TotalMinutes,
			1,
		).
		Suffix("RETURNING " + strings.Join(_attendanceColumns, ", ")).
		ToSql()
}

func buildUpdateQuery(b squirrel.StatementBuilderType, day model.AttendanceDay) (string, []any, error) {
	return b.
		Update(_attendanceTable).
		SetMap(map[string]any{
			"updated_at":       day.UpdatedAt,
			"sessions":         day.Sessions,
			"notes":            day.Notes,
			"regular_minutes":  day.RegularMinutes,
			"overtime_minutes": day.OvertimeMinutes,
			"total_minutes":    day.TotalMinutes,
			"version":          squirrel.Expr("version + 1"),
		}).
		Where(squirrel.Eq{"id": day.ID, "version": day.Version}).
		Suffix("RETURNING " + strings.Join(_attendanceColumns, ", ")).
		ToSql()
}

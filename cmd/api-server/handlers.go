package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/protomem/attendance-tracker/internal/attendance"
	"github.com/protomem/attendance-tracker/internal/ctxstore"
	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/protomem/attendance-tracker/internal/request"
	"github.com/protomem/attendance-tracker/internal/response"
	"github.com/protomem/attendance-tracker/internal/validator"
)

// Handle Status
// @Summary Server Status
// @Description Check if the server is up and running
// @Tags api
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status [get]
func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

type transitionFunc func(context.Context, model.Identity, attendance.TransitionRequest) (model.AttendanceDay, error)

// Handle Clock In
// @Summary Clock In
// @Description Open a new work session for today
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestTransition false "Current coordinates"
// @Success 200 {object} main.responseAttendance
// @Failure 400 {object} any "Bad request input"
// @Failure 403 {object} any "Location required or outside office radius"
// @Failure 409 {object} any "Already clocked in"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/clockin [post]
func (app *application) handleClockIn(w http.ResponseWriter, r *http.Request) {
	app.handleTransition(w, r, app.tracker.ClockIn)
}

// Handle Clock Out
// @Summary Clock Out
// @Description Close the open work session
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestTransition false "Current coordinates"
// @Success 200 {object} main.responseAttendance
// @Failure 403 {object} any "Location required or outside office radius"
// @Failure 409 {object} any "Not clocked in"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/clockout [post]
func (app *application) handleClockOut(w http.ResponseWriter, r *http.Request) {
	app.handleTransition(w, r, app.tracker.ClockOut)
}

// Handle Break Start
// @Summary Start Break
// @Description Open a break inside the current session
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestTransition false "Current coordinates"
// @Success 200 {object} main.responseAttendance
// @Failure 403 {object} any "Location required or outside office radius"
// @Failure 409 {object} any "Not clocked in or break already in progress"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/break/start [post]
func (app *application) handleBreakStart(w http.ResponseWriter, r *http.Request) {
	app.handleTransition(w, r, app.tracker.StartBreak)
}

// Handle Break End
// @Summary End Break
// @Description Close the open break of the current session
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestTransition false "Current coordinates"
// @Success 200 {object} main.responseAttendance
// @Failure 403 {object} any "Location required or outside office radius"
// @Failure 409 {object} any "No break in progress"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/break/end [post]
func (app *application) handleBreakEnd(w http.ResponseWriter, r *http.Request) {
	app.handleTransition(w, r, app.tracker.EndBreak)
}

func (app *application) handleTransition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	var input requestTransition
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestTransition(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	who := identityFromRequest(r)

	day, err := fn(ctx, who, input.toTracker(r))
	if err != nil {
		logger.Debug("transition failed", "user", who.UserID, "error", err)
		app.attendanceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseAttendance{Attendance: newAttendanceDTO(day)}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Update Notes
// @Summary Update Notes
// @Description Replace the notes of an attendance day
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Param input body main.requestNotes true "Notes"
// @Success 200 {object} main.responseAttendance
// @Failure 400 {object} any "Bad request input"
// @Failure 404 {object} any "Attendance not found"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/{id}/notes [patch]
func (app *application) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := attendanceIDFromRequest(r)
	if id == "" {
		app.notFound(w, r)
		return
	}

	var input requestNotes
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestNotes(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	day, err := app.tracker.SetNotes(ctx, identityFromRequest(r), id, *input.Notes)
	if err != nil {
		app.attendanceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseAttendance{Attendance: newAttendanceDTO(day)}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Attendance
// @Summary List Attendance
// @Description Paged attendance days, newest first. Without read-all access only own days are returned
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param user query string false "User ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} main.responseList
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/list [get]
func (app *application) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rng := attendance.Range{
		From: dateQueryParams(r, "from"),
		To:   dateQueryParams(r, "to"),
	}
	page, pageOK := intQueryParams(r, "page", 1)
	limit, limitOK := intQueryParams(r, "limit", attendance.DefaultPageSize)

	var v validator.Validator
	validateRange(&v, rng.From, rng.To)
	validatePage(&v, page, limit, pageOK && limitOK)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	res, err := app.tracker.List(ctx, identityFromRequest(r), attendance.ListQuery{
		Range: rng,
		User:  r.URL.Query().Get("user"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		app.attendanceError(w, r, err)
		return
	}

	rows := make([]attendanceDTO, 0, len(res.Rows))
	for _, day := range res.Rows {
		rows = append(rows, newAttendanceDTO(day))
	}

	if err := response.JSON(w, http.StatusOK, responseList{
		Page:  res.Page,
		Limit: res.Limit,
		Total: res.Total,
		Rows:  rows,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Report
// @Summary Report
// @Description Per-day attendance rows for export
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param userId query string false "User ID"
// @Success 200 {object} main.responseReport
// @Failure 403 {object} any "Report export not permitted"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/report [get]
func (app *application) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rng := attendance.Range{
		From: dateQueryParams(r, "from"),
		To:   dateQueryParams(r, "to"),
	}

	var v validator.Validator
	validateRange(&v, rng.From, rng.To)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	rows, err := app.tracker.Report(ctx, identityFromRequest(r), attendance.ReportQuery{
		Range: rng,
		User:  r.URL.Query().Get("userId"),
	})
	if err != nil {
		app.attendanceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseReport{Data: rows}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Presence
// @Summary Presence
// @Description Live presence snapshot. Clients extrapolate elapsed time from asOf between polls
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param activeOnly query bool false "Only users currently clocked in"
// @Success 200 {object} main.responsePresence
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/presence [get]
func (app *application) handlePresence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activeOnly, ok := boolQueryParams(r, "activeOnly", false)

	var v validator.Validator
	v.CheckField(ok, "activeOnly", "must be a boolean")
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	rows, asOf, err := app.tracker.Presence(ctx, identityFromRequest(r), activeOnly)
	if err != nil {
		app.attendanceError(w, r, err)
		return
	}
	if rows == nil {
		rows = []attendance.PresenceRow{}
	}

	if err := response.JSON(w, http.StatusOK, responsePresence{Rows: rows, AsOf: asOf}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Today
// @Summary Today
// @Description Attendance day of the requester for the current local date
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} main.responseToday
// @Failure 500 {object} any "Internal server error"
// @Router /attendance/today [get]
func (app *application) handleToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day, found, err := app.tracker.Today(ctx, identityFromRequest(r))
	if err != nil {
		app.attendanceError(w, r, err)
		return
	}

	res := responseToday{State: model.StateNoSession}
	if found {
		dto := newAttendanceDTO(day)
		res.Attendance = &dto
		res.State = day.State()
	}

	if err := response.JSON(w, http.StatusOK, res); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	tid, _ := ctxstore.From[string](r.Context(), _traceIDKey)
	return app.logger.With(_traceIDKey.String(), tid)
}

// attendanceDTO is the wire form of a day. clockIn, clockOut and breaks are
// kept for older clients and derived from sessions on every read.
type attendanceDTO struct {
	model.AttendanceDay
	State    model.DayState `json:"state"`
	ClockIn  *time.Time     `json:"clockIn"`
	ClockOut *time.Time     `json:"clockOut"`
	Breaks   []model.Break  `json:"breaks"`
}

func newAttendanceDTO(day model.AttendanceDay) attendanceDTO {
	dto := attendanceDTO{
		AttendanceDay: day,
		State:         day.State(),
		Breaks:        []model.Break{},
	}

	if dto.Sessions == nil {
		dto.Sessions = model.Sessions{}
	}

	if n := len(day.Sessions); n > 0 {
		first, last := day.Sessions[0], day.Sessions[n-1]

		start := first.Start
		dto.ClockIn = &start
		if last.End != nil {
			end := *last.End
			dto.ClockOut = &end
		}
		if last.Breaks != nil {
			dto.Breaks = last.Breaks
		}
	}

	return dto
}

type responseAttendance struct {
	Attendance attendanceDTO `json:"attendance"`
}

type responseList struct {
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
	Rows  []attendanceDTO `json:"rows"`
}

type responseReport struct {
	Data []attendance.ReportRow `json:"data"`
}

type responsePresence struct {
	Rows []attendance.PresenceRow `json:"rows"`
	AsOf time.Time                `json:"asOf"`
}

type responseToday struct {
	Attendance *attendanceDTO `json:"attendance"`
	State      model.DayState `json:"state"`
}

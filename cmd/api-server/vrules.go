package main

import (
	"fmt"
	"strings"

	"github.com/protomem/attendance-tracker/internal/attendance"
	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/protomem/attendance-tracker/internal/validator"
)

// Validation rules

// Out of range coordinates are left to the geofence, which treats them as
// missing.
func validateRequestTransition(v *validator.Validator, request requestTransition) {
	v.CheckField(
		(request.Lat == nil) == (request.Lng == nil),
		"lat",
		"lat and lng must be sent together",
	)
	if request.Accuracy != nil {
		v.CheckField(
			validator.Finite(*request.Accuracy) && *request.Accuracy >= 0,
			"accuracy",
			"must be a non-negative number",
		)
	}
}

func validateRequestNotes(v *validator.Validator, request requestNotes) {
	v.CheckField(request.Notes != nil, "notes", "is required")
	if request.Notes != nil {
		v.CheckField(
			validator.MaxRunes(strings.TrimSpace(*request.Notes), attendance.MaxNotesLength),
			"notes",
			fmt.Sprintf("must be at most %d characters", attendance.MaxNotesLength),
		)
	}
}

func validateDateParam(v *validator.Validator, key, value string) {
	if value != "" {
		v.CheckField(validator.IsDate(value, model.DateLayout), key, "must be a date in YYYY-MM-DD format")
	}
}

func validateRange(v *validator.Validator, from, to string) {
	validateDateParam(v, "from", from)
	validateDateParam(v, "to", to)
	if from != "" && to != "" && validator.IsDate(from, model.DateLayout) && validator.IsDate(to, model.DateLayout) {
		v.CheckField(from <= to, "to", "must not be before from")
	}
}

func validatePage(v *validator.Validator, page, limit int, ok bool) {
	v.Check(ok, "page and limit must be integers")
	v.CheckField(
		validator.Between(page, 0, attendance.MaxPage),
		"page",
		fmt.Sprintf("must be between 0 and %d", attendance.MaxPage),
	)
	v.CheckField(limit >= 0, "limit", "must not be negative")
}

func checkConfig(cfg config) error {
	var v validator.Validator

	v.CheckField(validator.NotBlank(cfg.auth.secret), "AUTH_SECRET", "must be set")
	v.CheckField(
		validator.Finite(cfg.geofence.radiusMeters) && cfg.geofence.radiusMeters > 0,
		"GEOFENCE_RADIUS_METERS",
		"must be a positive number",
	)
	v.CheckField(cfg.regularMinutes > 0, "REGULAR_MINUTES", "must be positive")

	if v.HasErrors() {
		return fmt.Errorf("invalid config: %v", v.FieldErrors)
	}
	return nil
}

package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/attendance-tracker/internal/attendance"
	"github.com/protomem/attendance-tracker/internal/geofence"
	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/tomasen/realip"
)

func attendanceIDFromRequest(r *http.Request) model.ID {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// dateQueryParams returns a YYYY-MM-DD query value with optional quotes
// stripped. Absent and empty values are both "".
func dateQueryParams(r *http.Request, key string) string {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	val = strings.Trim(val, `'"`)
	return val
}

// intQueryParams returns def when key is absent and ok=false when the
// value is present but not an integer.
func intQueryParams(r *http.Request, key string, def int) (int, bool) {
	if !r.URL.Query().Has(key) {
		return def, true
	}
	i, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0, false
	}
	return i, true
}

func boolQueryParams(r *http.Request, key string, def bool) (bool, bool) {
	if !r.URL.Query().Has(key) {
		return def, true
	}
	val := r.URL.Query().Get(key)
	if val == "" {
		return true, true
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}

type requestTransition struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
}

func (in requestTransition) toTracker(r *http.Request) attendance.TransitionRequest {
	return attendance.TransitionRequest{
		Coords: geofence.Coords{
			Lat:      in.Lat,
			Lng:      in.Lng,
			Accuracy: in.Accuracy,
		},
		IP:        realip.FromRequest(r),
		UserAgent: r.UserAgent(),
	}
}

type requestNotes struct {
	Notes *string `json:"notes"`
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/protomem/attendance-tracker/internal/ctxstore"
	"github.com/protomem/attendance-tracker/internal/model"
	"github.com/protomem/attendance-tracker/internal/response"
	"github.com/protomem/attendance-tracker/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		trace   = string(debug.Stack())
		tid, _  = ctxstore.From[string](r.Context(), _traceIDKey)
	)

	requestAttrs := slog.Group("request", "method", method, "url", url, _traceIDKey.String(), tid)
	app.logger.Error(message, requestAttrs, "trace", trace)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	headers := http.Header{"WWW-Authenticate": {"Bearer"}}
	app.errorMessage(w, r, http.StatusUnauthorized, message, headers)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

// attendanceError writes the response for an error returned by the tracker.
// Rejections carry their reason to the client; anything else is a 500.
func (app *application) attendanceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrLocation), errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrStateConflict), errors.Is(err, model.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		app.serverError(w, r, err)
		return
	}

	message, ok := model.Reason(err)
	if !ok {
		message = err.Error()
	}

	app.errorMessage(w, r, status, message, nil)
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/attendance-tracker/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (app *application) configureSwagger() {
	docs.SwaggerInfo.Title = "Attendance Tracker"
	docs.SwaggerInfo.Description = "Web API - Attendance Tracker"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmtHTTPAddr(app.config.httpHost, app.config.httpPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
}

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/v1/status", app.handleStatus)

	mux.Route("/api/v1/attendance", func(r chi.Router) {
		r.Use(app.authenticate)

		r.Post("/clockin", app.handleClockIn)
		r.Post("/clockout", app.handleClockOut)
		r.Post("/break/start", app.handleBreakStart)
		r.Post("/break/end", app.handleBreakEnd)

		r.Patch("/{id}/notes", app.handleUpdateNotes)

		r.Get("/list", app.handleListAttendance)
		r.Get("/report", app.handleReport)
		r.Get("/presence", app.handlePresence)
		r.Get("/today", app.handleToday)
	})

	mux.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(
			"http://"+fmtHTTPAddr(app.config.httpHost, app.config.httpPort)+"/swagger/doc.json",
		), // The url pointing to API definition
	))

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}

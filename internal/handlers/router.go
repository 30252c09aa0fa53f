package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkiryanov/gestiondocente/internal/handlers/middleware"
	"github.com/nkiryanov/gestiondocente/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// Backend calls used by views
type backendAPI interface {
	dashboardAPI
	studentAPI
	gradeAPI
	reservationAPI
	requestAPI
}

func NewRouter(
	session sessionService,
	api backendAPI,
	sheets sheetService,
	logger logger.Logger,
) http.Handler {
	publicOnly := func(h http.HandlerFunc) http.Handler {
		return chain(h, middleware.Guarded(middleware.NewPublicOnlyGuard(session), logger))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return chain(h,
			middleware.Guarded(middleware.NewProtectedGuard(session), logger),
			middleware.UserMiddleware(session),
		)
	}

	auth := NewAuth(session, logger)
	dashboard := NewDashboard(api, logger)
	students := NewStudents(api, logger)
	grades := NewGrades(api, sheets, logger)
	reservations := NewReservations(api, logger)
	requests := NewRequests(api, logger)

	mux := http.NewServeMux()

	mux.Handle("GET /auth/login", publicOnly(auth.loginView))
	mux.Handle("POST /auth/login", publicOnly(auth.login))
	mux.Handle("POST /logout", protected(auth.logout))

	mux.Handle("GET /dashboard", protected(dashboard.teacher))
	mux.Handle("GET /dashboard-admin", protected(dashboard.admin))

	mux.Handle("GET /alumnos", protected(students.list))
	mux.Handle("GET /cursos", protected(students.courses))
	mux.Handle("GET /cursos/{id}/alumnos", protected(students.roster))
	mux.Handle("GET /cursos/{id}/estructuras", protected(students.gradingItems))

	mux.Handle("GET /notas", protected(grades.search))
	mux.Handle("POST /notas", protected(grades.create))
	mux.Handle("PUT /notas/{id}", protected(grades.update))
	mux.Handle("DELETE /notas/{id}", protected(grades.delete))
	mux.Handle("GET /notas/hoja", protected(grades.sheet))
	mux.Handle("PUT /notas/hoja", protected(grades.saveSheet))

	mux.Handle("GET /aulas", protected(reservations.rooms))
	mux.Handle("GET /aulas/disponibles", protected(reservations.availableRooms))
	mux.Handle("GET /reservas", protected(reservations.list))
	mux.Handle("POST /reservas", protected(reservations.create))
	mux.Handle("DELETE /reservas/{id}", protected(reservations.cancel))

	mux.Handle("GET /solicitudes", protected(requests.listMaterials))
	mux.Handle("POST /solicitudes", protected(requests.createMaterial))
	mux.Handle("PATCH /solicitudes/{id}/estado", protected(requests.setMaterialStatus))
	mux.Handle("GET /solicitudes/reprogramacion", protected(requests.listReschedules))
	mux.Handle("POST /solicitudes/reprogramacion", protected(requests.createReschedule))
	mux.Handle("PUT /solicitudes/reprogramacion/{id}/estado", protected(requests.setRescheduleStatus))

	mux.Handle("GET /metrics", promhttp.Handler())

	// Everything else goes to login
	mux.Handle("/", http.RedirectHandler(middleware.LoginPath, http.StatusSeeOther))

	handler := chain(mux,
		middleware.RequestIDMiddleware,
		middleware.LoggerMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
	)

	return handler
}

package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/handlers/middleware"
	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type studentAPI interface {
	AdminStudents(ctx context.Context, page models.PageQuery, q string, courseID *int64) (models.Page[models.Student], error)
	TeacherStudents(ctx context.Context, courseID int64, page models.PageQuery, q string) (models.Page[models.Student], error)
	Students(ctx context.Context, page models.PageQuery, q string) (models.Page[models.Student], error)
	CourseRoster(ctx context.Context, courseID int64) ([]models.StudentSummary, error)

	MyCourses(ctx context.Context) ([]models.Course, error)
	ActiveCourses(ctx context.Context) ([]models.Course, error)
	GradingItems(ctx context.Context, courseID int64) ([]models.GradingItem, error)
}

// Students and courses views
type StudentHandler struct {
	api    studentAPI
	logger logger.Logger
}

func NewStudents(api studentAPI, l logger.Logger) *StudentHandler {
	return &StudentHandler{api: api, logger: l}
}

// Administrators see every student, teachers only students of one of their courses.
// Other roles get the generic listing
func (h *StudentHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	page, err := pageQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	courseID, err := queryInt64(r, "idCurso")
	if err != nil {
		badRequest(w, err)
		return
	}
	q := r.URL.Query().Get("q")

	var students models.Page[models.Student]
	switch {
	case user.IsAdmin():
		students, err = h.api.AdminStudents(r.Context(), page, q, courseID)
	case !user.IsTeacher():
		students, err = h.api.Students(r.Context(), page, q)
	case courseID == nil:
		render.ServiceError(w, "Parameter 'idCurso' is required", http.StatusBadRequest)
		return
	default:
		students, err = h.api.TeacherStudents(r.Context(), *courseID, page, q)
	}
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, students)
}

// Teachers see their own courses, everyone else all active courses
func (h *StudentHandler) courses(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	var (
		courses []models.Course
		err     error
	)
	if user.IsTeacher() {
		courses, err = h.api.MyCourses(r.Context())
	} else {
		courses, err = h.api.ActiveCourses(r.Context())
	}
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, courses)
}

func (h *StudentHandler) roster(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	roster, err := h.api.CourseRoster(r.Context(), courseID)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, roster)
}

func (h *StudentHandler) gradingItems(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	items, err := h.api.GradingItems(r.Context(), courseID)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, items)
}

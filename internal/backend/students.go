package backend

import (
	"context"
	"strconv"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

const defaultStudentSort = "apellido,asc"

// AdminStudents lists all students, optionally matching 'q' or enrolled in a course
func (c *Client) AdminStudents(ctx context.Context, page models.PageQuery, q string, courseID *int64) (models.Page[models.Student], error) {
	v := pageValues(page, defaultStudentSort)
	setString(v, "q", q)
	setID(v, "idCurso", courseID)

	return get[models.Page[models.Student]](ctx, c, "/api/admin/alumnos", v)
}

// TeacherStudents lists students of a course taught by the signed in teacher
func (c *Client) TeacherStudents(ctx context.Context, courseID int64, page models.PageQuery, q string) (models.Page[models.Student], error) {
	v := pageValues(page, defaultStudentSort)
	v.Set("idCurso", strconv.FormatInt(courseID, 10))
	setString(v, "q", q)

	return get[models.Page[models.Student]](ctx, c, "/api/docentes/me/alumnos", v)
}

// Students is the generic paginated listing
func (c *Client) Students(ctx context.Context, page models.PageQuery, q string) (models.Page[models.Student], error) {
	v := pageValues(page, defaultStudentSort)
	setString(v, "q", q)

	return get[models.Page[models.Student]](ctx, c, "/api/alumnos", v)
}

// CourseRoster lists students enrolled in a course
func (c *Client) CourseRoster(ctx context.Context, courseID int64) ([]models.StudentSummary, error) {
	return get[[]models.StudentSummary](ctx, c, idPath("/api/cursos", courseID, "/alumnos"), nil)
}

package backend

import (
	"context"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

// MyCourses lists courses of the signed in teacher
func (c *Client) MyCourses(ctx context.Context) ([]models.Course, error) {
	return get[[]models.Course](ctx, c, "/api/docentes/me/cursos", nil)
}

// ActiveCourses lists every active course
func (c *Client) ActiveCourses(ctx context.Context) ([]models.Course, error) {
	return get[[]models.Course](ctx, c, "/api/cursos", nil)
}

// GradingItems lists grading structure of a course
func (c *Client) GradingItems(ctx context.Context, courseID int64) ([]models.GradingItem, error) {
	return get[[]models.GradingItem](ctx, c, idPath("/api/estructuras/por-curso", courseID, ""), nil)
}

// TeacherStats returns dashboard statistics of the signed in teacher
func (c *Client) TeacherStats(ctx context.Context) (models.TeacherStats, error) {
	return get[models.TeacherStats](ctx, c, "/api/stats/docente", nil)
}

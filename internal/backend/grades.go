package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

type GradeFilter struct {
	CourseID    *int64
	StudentCode string
}

func (c *Client) CreateGrade(ctx context.Context, g models.NewGrade) (models.Grade, error) {
	var out models.Grade
	err := c.do(ctx, http.MethodPost, "/api/notas", nil, g, &out)
	return out, err
}

// GradesByItem lists every grade of a course grading item
func (c *Client) GradesByItem(ctx context.Context, courseID int64, itemID int64) ([]models.Grade, error) {
	v := url.Values{}
	v.Set("idCurso", strconv.FormatInt(courseID, 10))
	v.Set("idEstructura", strconv.FormatInt(itemID, 10))

	return get[[]models.Grade](ctx, c, "/api/notas/por-curso-estructura", v)
}

func (c *Client) UpdateGrade(ctx context.Context, id int64, value decimal.Decimal) (models.Grade, error) {
	var out models.Grade
	body := struct {
		Value decimal.Decimal `json:"calificacion"`
	}{Value: value}

	err := c.do(ctx, http.MethodPut, idPath("/api/notas", id, ""), nil, body, &out)
	return out, err
}

func (c *Client) DeleteGrade(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/notas", id, ""), nil, nil, nil)
}

// SearchGrades is the paginated grade search
func (c *Client) SearchGrades(ctx context.Context, f GradeFilter, page models.PageQuery) (models.Page[models.Grade], error) {
	v := pageValues(page, "")
	setID(v, "idCurso", f.CourseID)
	setString(v, "codigoAlumno", f.StudentCode)

	return get[models.Page[models.Grade]](ctx, c, "/api/notas", v)
}

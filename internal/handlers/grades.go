package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/gestiondocente/internal/backend"
	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/service/grades"
)

type gradeAPI interface {
	CreateGrade(ctx context.Context, g models.NewGrade) (models.Grade, error)
	UpdateGrade(ctx context.Context, id int64, value decimal.Decimal) (models.Grade, error)
	DeleteGrade(ctx context.Context, id int64) error
	SearchGrades(ctx context.Context, f backend.GradeFilter, page models.PageQuery) (models.Page[models.Grade], error)
}

type sheetService interface {
	Load(ctx context.Context, courseID int64, itemID int64) (grades.Sheet, error)
	Save(ctx context.Context, courseID int64, itemID int64, entries []grades.Entry) (grades.SaveResult, error)
}

type GradeHandler struct {
	api    gradeAPI
	sheets sheetService
	logger logger.Logger
}

func NewGrades(api gradeAPI, sheets sheetService, l logger.Logger) *GradeHandler {
	return &GradeHandler{api: api, sheets: sheets, logger: l}
}

func (h *GradeHandler) search(w http.ResponseWriter, r *http.Request) {
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

	f := backend.GradeFilter{CourseID: courseID, StudentCode: r.URL.Query().Get("codigoAlumno")}
	result, err := h.api.SearchGrades(r.Context(), f, page)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, result)
}

func (h *GradeHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateGradeRequest struct {
		StudentCode string          `json:"codigoAlumno" validate:"required"`
		CourseID    int64           `json:"idCurso" validate:"required"`
		ItemID      int64           `json:"idEstructura" validate:"required"`
		Value       decimal.Decimal `json:"calificacion" validate:"grade"`
	}

	data, err := render.BindAndValidate[CreateGradeRequest](w, r)
	if err != nil {
		return
	}

	grade, err := h.api.CreateGrade(r.Context(), models.NewGrade(data))
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSONWithStatus(w, grade, http.StatusCreated)
}

func (h *GradeHandler) update(w http.ResponseWriter, r *http.Request) {
	type UpdateGradeRequest struct {
		Value decimal.Decimal `json:"calificacion" validate:"grade"`
	}

	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	data, err := render.BindAndValidate[UpdateGradeRequest](w, r)
	if err != nil {
		return
	}

	grade, err := h.api.UpdateGrade(r.Context(), id, data.Value)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, grade)
}

func (h *GradeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	if err := h.api.DeleteGrade(r.Context(), id); err != nil {
		backendError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Grade sheet of a course grading item: roster with current grades
func (h *GradeHandler) sheet(w http.ResponseWriter, r *http.Request) {
	courseID, err := queryInt64(r, "idCurso")
	if err != nil {
		badRequest(w, err)
		return
	}
	itemID, err := queryInt64(r, "idEstructura")
	if err != nil {
		badRequest(w, err)
		return
	}
	if courseID == nil || itemID == nil {
		render.ServiceError(w, "Parameters 'idCurso' and 'idEstructura' are required", http.StatusBadRequest)
		return
	}

	sheet, err := h.sheets.Load(r.Context(), *courseID, *itemID)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, sheet)
}

// Save edited grade sheet. Partial failures are reported per row with 200
func (h *GradeHandler) saveSheet(w http.ResponseWriter, r *http.Request) {
	type SaveSheetRequest struct {
		CourseID int64          `json:"idCurso" validate:"required"`
		ItemID   int64          `json:"idEstructura" validate:"required"`
		Rows     []grades.Entry `json:"filas" validate:"required,dive"`
	}

	data, err := render.BindAndValidate[SaveSheetRequest](w, r)
	if err != nil {
		return
	}

	result, err := h.sheets.Save(r.Context(), data.CourseID, data.ItemID, data.Rows)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, result)
}

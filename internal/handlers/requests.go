package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/handlers/middleware"
	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type requestAPI interface {
	MaterialRequests(ctx context.Context, page models.OrderedPageQuery, f models.RequestFilter) (models.Page[models.MaterialRequest], error)
	MaterialRequest(ctx context.Context, id int64) (models.MaterialRequest, error)
	CreateMaterialRequest(ctx context.Context, r models.NewMaterialRequest) (models.MaterialRequest, error)
	SetMaterialRequestStatus(ctx context.Context, id int64, status models.RequestStatus) error

	RescheduleRequests(ctx context.Context, page models.OrderedPageQuery, f models.RequestFilter) (models.Page[models.RescheduleRequest], error)
	CreateRescheduleRequest(ctx context.Context, r models.NewRescheduleRequest) (models.RescheduleRequest, error)
	SetRescheduleRequestStatus(ctx context.Context, id int64, status models.RequestStatus) error
}

// Material and reschedule request workflows
type RequestHandler struct {
	api    requestAPI
	logger logger.Logger
}

func NewRequests(api requestAPI, l logger.Logger) *RequestHandler {
	return &RequestHandler{api: api, logger: l}
}

// Listing filter. Teachers see only their own requests, others may filter by 'idDocente'
func (h *RequestHandler) filter(r *http.Request, user models.User) (models.RequestFilter, error) {
	f := models.RequestFilter{Status: models.RequestStatus(r.URL.Query().Get("estado"))}
	if f.Status != "" && !f.Status.Valid() {
		return f, queryError{name: "estado"}
	}

	if user.IsTeacher() && user.TeacherID != nil {
		f.TeacherID = user.TeacherID
		return f, nil
	}

	teacherID, err := queryInt64(r, "idDocente")
	f.TeacherID = teacherID
	return f, err
}

func (h *RequestHandler) listMaterials(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	page, err := orderedPageQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	f, err := h.filter(r, user)
	if err != nil {
		badRequest(w, err)
		return
	}

	result, err := h.api.MaterialRequests(r.Context(), page, f)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, result)
}

func (h *RequestHandler) createMaterial(w http.ResponseWriter, r *http.Request) {
	type CreateMaterialRequest struct {
		Description string `json:"descripcion" validate:"required"`
		Quantity    int    `json:"cantidad" validate:"required,min=1"`
		Unit        string `json:"unidad,omitempty"`
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}
	if user.TeacherID == nil {
		render.ServiceError(w, "Teacher profile required", http.StatusForbidden)
		return
	}

	data, err := render.BindAndValidate[CreateMaterialRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.api.CreateMaterialRequest(r.Context(), models.NewMaterialRequest{
		TeacherID:   *user.TeacherID,
		Description: data.Description,
		Quantity:    data.Quantity,
		Unit:        data.Unit,
	})
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSONWithStatus(w, created, http.StatusCreated)
}

// Administrators approve or reject. Teachers may only cancel their own requests
func (h *RequestHandler) setMaterialStatus(w http.ResponseWriter, r *http.Request) {
	type StatusRequest struct {
		Status models.RequestStatus `json:"estado" validate:"required,status"`
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	data, err := render.BindAndValidate[StatusRequest](w, r)
	if err != nil {
		return
	}

	switch {
	case user.IsAdmin():
	case data.Status != models.RequestCancelled:
		render.ServiceError(w, "Only administrative staff may approve or reject requests", http.StatusForbidden)
		return
	case user.IsTeacher():
		request, err := h.api.MaterialRequest(r.Context(), id)
		if err != nil {
			backendError(w, err, h.logger)
			return
		}
		if user.TeacherID == nil || request.TeacherID != *user.TeacherID {
			render.ServiceError(w, "Requests of other teachers can't be cancelled", http.StatusForbidden)
			return
		}
	}

	if err := h.api.SetMaterialRequestStatus(r.Context(), id, data.Status); err != nil {
		backendError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RequestHandler) listReschedules(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	page, err := orderedPageQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	f, err := h.filter(r, user)
	if err != nil {
		badRequest(w, err)
		return
	}

	result, err := h.api.RescheduleRequests(r.Context(), page, f)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, result)
}

func (h *RequestHandler) createReschedule(w http.ResponseWriter, r *http.Request) {
	type CreateRescheduleRequest struct {
		Course       string `json:"curso" validate:"required"`
		OriginalDate string `json:"fechaOriginal" validate:"required"`
		NewDate      string `json:"fechaNueva" validate:"required"`
		Reason       string `json:"motivo" validate:"required"`
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}
	if user.TeacherID == nil {
		render.ServiceError(w, "Teacher profile required", http.StatusForbidden)
		return
	}

	data, err := render.BindAndValidate[CreateRescheduleRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.api.CreateRescheduleRequest(r.Context(), models.NewRescheduleRequest{
		TeacherID:    *user.TeacherID,
		Course:       data.Course,
		OriginalDate: data.OriginalDate,
		NewDate:      data.NewDate,
		Reason:       data.Reason,
	})
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSONWithStatus(w, created, http.StatusCreated)
}

// New status comes in 'nuevoEstado' query parameter
func (h *RequestHandler) setRescheduleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	status := models.RequestStatus(r.URL.Query().Get("nuevoEstado"))
	if !status.Valid() {
		badRequest(w, queryError{name: "nuevoEstado"})
		return
	}

	if err := h.api.SetRescheduleRequestStatus(r.Context(), id, status); err != nil {
		backendError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

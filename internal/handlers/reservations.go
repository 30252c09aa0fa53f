package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type reservationAPI interface {
	Rooms(ctx context.Context) ([]models.Room, error)
	AvailableRooms(ctx context.Context, start models.LocalTime, end models.LocalTime) ([]models.Room, error)
	Reservations(ctx context.Context, page models.PageQuery, f models.ReservationFilter) (models.Page[models.Reservation], error)
	CreateReservation(ctx context.Context, r models.NewReservation) (models.Reservation, error)
	CancelReservation(ctx context.Context, id int64) error
}

// Rooms and reservations views
type ReservationHandler struct {
	api    reservationAPI
	logger logger.Logger
}

func NewReservations(api reservationAPI, l logger.Logger) *ReservationHandler {
	return &ReservationHandler{api: api, logger: l}
}

func (h *ReservationHandler) rooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.api.Rooms(r.Context())
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, rooms)
}

// Rooms free in ['inicio', 'fin'] window
func (h *ReservationHandler) availableRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := models.ParseLocalTime(q.Get("inicio"))
	if err != nil {
		render.ServiceError(w, "Invalid parameter 'inicio'", http.StatusBadRequest)
		return
	}
	end, err := models.ParseLocalTime(q.Get("fin"))
	if err != nil {
		render.ServiceError(w, "Invalid parameter 'fin'", http.StatusBadRequest)
		return
	}
	if !end.After(start.Time) {
		render.ServiceError(w, "End must be after start", http.StatusBadRequest)
		return
	}

	rooms, err := h.api.AvailableRooms(r.Context(), start, end)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, rooms)
}

func (h *ReservationHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	var f models.ReservationFilter
	if f.RoomID, err = queryInt64(r, "idAula"); err != nil {
		badRequest(w, err)
		return
	}
	if f.TeacherID, err = queryInt64(r, "idDocente"); err != nil {
		badRequest(w, err)
		return
	}
	f.From = r.URL.Query().Get("desde")
	f.To = r.URL.Query().Get("hasta")

	reservations, err := h.api.Reservations(r.Context(), page, f)
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, reservations)
}

func (h *ReservationHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateReservationRequest struct {
		RoomID   int64            `json:"idAula" validate:"required"`
		CourseID *int64           `json:"idCurso,omitempty"`
		Start    models.LocalTime `json:"inicio" validate:"required"`
		End      models.LocalTime `json:"fin" validate:"required,gtfield=Start"`
	}

	data, err := render.BindAndValidate[CreateReservationRequest](w, r)
	if err != nil {
		return
	}

	reservation, err := h.api.CreateReservation(r.Context(), models.NewReservation(data))
	if err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSONWithStatus(w, reservation, http.StatusCreated)
}

func (h *ReservationHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	if err := h.api.CancelReservation(r.Context(), id); err != nil {
		backendError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

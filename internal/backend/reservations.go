package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

const defaultReservationSort = "fecha_inicio,desc"

// Rooms lists active rooms
func (c *Client) Rooms(ctx context.Context) ([]models.Room, error) {
	return get[[]models.Room](ctx, c, "/api/aulas", nil)
}

// AvailableRooms lists rooms free during the window
func (c *Client) AvailableRooms(ctx context.Context, start models.LocalTime, end models.LocalTime) ([]models.Room, error) {
	v := url.Values{}
	v.Set("inicio", start.String())
	v.Set("fin", end.String())

	return get[[]models.Room](ctx, c, "/api/aulas/disponibles", v)
}

func (c *Client) Reservations(ctx context.Context, page models.PageQuery, f models.ReservationFilter) (models.Page[models.Reservation], error) {
	v := pageValues(page, defaultReservationSort)
	setID(v, "idAula", f.RoomID)
	setID(v, "idDocente", f.TeacherID)
	setString(v, "desde", f.From)
	setString(v, "hasta", f.To)

	return get[models.Page[models.Reservation]](ctx, c, "/api/reservas", v)
}

func (c *Client) CreateReservation(ctx context.Context, r models.NewReservation) (models.Reservation, error) {
	var out models.Reservation
	err := c.do(ctx, http.MethodPost, "/api/reservas", nil, r, &out)
	return out, err
}

func (c *Client) CancelReservation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/reservas", id, ""), nil, nil, nil)
}

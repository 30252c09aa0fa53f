package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

const (
	materialsPath  = "/api/solicitudes/materiales"
	reschedulePath = "/api/solicitudes/reprogramaciones"
)

func requestFilterValues(v url.Values, f models.RequestFilter) url.Values {
	setID(v, "idDocente", f.TeacherID)
	setString(v, "estado", string(f.Status))
	return v
}

func (c *Client) MaterialRequests(ctx context.Context, page models.OrderedPageQuery, f models.RequestFilter) (models.Page[models.MaterialRequest], error) {
	v := requestFilterValues(orderedPageValues(page, "fechaSolicitud"), f)
	return get[models.Page[models.MaterialRequest]](ctx, c, materialsPath, v)
}

func (c *Client) CreateMaterialRequest(ctx context.Context, r models.NewMaterialRequest) (models.MaterialRequest, error) {
	var out models.MaterialRequest
	err := c.do(ctx, http.MethodPost, materialsPath, nil, r, &out)
	return out, err
}

func (c *Client) MaterialRequest(ctx context.Context, id int64) (models.MaterialRequest, error) {
	return get[models.MaterialRequest](ctx, c, idPath(materialsPath, id, ""), nil)
}

// SetMaterialRequestStatus approves, rejects or cancels a material request
func (c *Client) SetMaterialRequestStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	body := struct {
		Status models.RequestStatus `json:"estado"`
	}{Status: status}

	return c.do(ctx, http.MethodPatch, idPath(materialsPath, id, "/estado"), nil, body, nil)
}

func (c *Client) RescheduleRequests(ctx context.Context, page models.OrderedPageQuery, f models.RequestFilter) (models.Page[models.RescheduleRequest], error) {
	v := requestFilterValues(orderedPageValues(page, "fechaNueva"), f)
	return get[models.Page[models.RescheduleRequest]](ctx, c, reschedulePath, v)
}

func (c *Client) CreateRescheduleRequest(ctx context.Context, r models.NewRescheduleRequest) (models.RescheduleRequest, error) {
	var out models.RescheduleRequest
	err := c.do(ctx, http.MethodPost, reschedulePath, nil, r, &out)
	return out, err
}

// SetRescheduleRequestStatus changes reschedule request status with 'nuevoEstado' query parameter
func (c *Client) SetRescheduleRequestStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	v := url.Values{}
	v.Set("nuevoEstado", string(status))

	return c.do(ctx, http.MethodPut, idPath(reschedulePath, id, "/estado"), v, nil, nil)
}

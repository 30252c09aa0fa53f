package models

// Status of material and reschedule requests
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDIENTE"
	RequestApproved  RequestStatus = "APROBADA"
	RequestRejected  RequestStatus = "RECHAZADA"
	RequestCancelled RequestStatus = "CANCELADA"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCancelled:
		return true
	default:
		return false
	}
}

type MaterialRequest struct {
	ID          int64         `json:"idMaterial"`
	TeacherID   int64         `json:"idDocente"`
	TeacherName string        `json:"nombreDocente"`
	Description string        `json:"descripcion"`
	Quantity    int           `json:"cantidad"`
	Unit        string        `json:"unidad"`
	Status      RequestStatus `json:"estado"`
	CreatedAt   string        `json:"fechaCreacion"`
	UpdatedAt   string        `json:"fechaActualizacion,omitempty"`
}

type NewMaterialRequest struct {
	TeacherID   int64  `json:"idDocente"`
	Description string `json:"descripcion"`
	Quantity    int    `json:"cantidad"`
	Unit        string `json:"unidad,omitempty"`
}

type RescheduleRequest struct {
	ID           int64         `json:"idReprogramacion"`
	RequestID    int64         `json:"idSolicitud"`
	TeacherID    int64         `json:"idDocente"`
	Course       string        `json:"curso"`
	OriginalDate string        `json:"fechaOriginal"`
	NewDate      string        `json:"fechaNueva"`
	Reason       string        `json:"motivo"`
	Status       RequestStatus `json:"estado"`
}

type NewRescheduleRequest struct {
	TeacherID    int64  `json:"idDocente"`
	Course       string `json:"curso"`
	OriginalDate string `json:"fechaOriginal"`
	NewDate      string `json:"fechaNueva"`
	Reason       string `json:"motivo"`
}

// Filter for request listings
type RequestFilter struct {
	TeacherID *int64
	Status    RequestStatus
}

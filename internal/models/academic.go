package models

import (
	"github.com/shopspring/decimal"
)

type Student struct {
	ID        *int64 `json:"id"`
	Code      string `json:"codigo"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Email     string `json:"email"`
	Active    bool   `json:"activo"`
}

// Course roster entry
type StudentSummary struct {
	ID        int64  `json:"id"`
	Code      string `json:"codigo"`
	Name      string `json:"nombre,omitempty"`
	FullName  string `json:"nombreCompleto,omitempty"`
	FirstName string `json:"nombres,omitempty"`
	LastName  string `json:"apellidos,omitempty"`
}

// DisplayName returns the best available name, falling back to the student code
func (s StudentSummary) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.FullName != "":
		return s.FullName
	}

	name := s.FirstName
	if s.LastName != "" {
		if name != "" {
			name += " "
		}
		name += s.LastName
	}
	if name == "" {
		return s.Code
	}
	return name
}

type Course struct {
	ID   int64  `json:"id"`
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

// Grading structure item of a course (exam, assignment...) with its weight
type GradingItem struct {
	ID          int64           `json:"idEstructura"`
	CourseID    int64           `json:"idCurso"`
	Description string          `json:"descripcion"`
	Weight      decimal.Decimal `json:"peso"`
}

type Grade struct {
	ID           int64           `json:"idNota"`
	StudentCode  string          `json:"codigoAlumno"`
	CourseID     int64           `json:"idCurso"`
	ItemID       int64           `json:"idEstructura"`
	TeacherID    int64           `json:"idDocente,omitempty"`
	Value        decimal.Decimal `json:"calificacion"`
	RegisteredAt string          `json:"fechaRegistro,omitempty"`
}

type NewGrade struct {
	StudentCode string          `json:"codigoAlumno"`
	CourseID    int64           `json:"idCurso"`
	ItemID      int64           `json:"idEstructura"`
	Value       decimal.Decimal `json:"calificacion"`
}

// Teacher dashboard statistics
type TeacherStats struct {
	GradesToday          int           `json:"notasHoy"`
	UpcomingReservations []Reservation `json:"proximasReservas"`
}

// Grades are on the 0..20 scale
var (
	MinGrade = decimal.Zero
	MaxGrade = decimal.NewFromInt(20)
)

// ValidGrade reports whether value is within the grading scale
func ValidGrade(value decimal.Decimal) bool {
	return value.GreaterThanOrEqual(MinGrade) && value.LessThanOrEqual(MaxGrade)
}

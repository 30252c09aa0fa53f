package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted for backend local date-times (no zone information)
var localTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// LocalTime is a wall clock date-time as the backend exchanges it: "2006-01-02T15:04:05"
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

func ParseLocalTime(value string) (LocalTime, error) {
	for _, layout := range localTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid local time %q", value)
}

func (t LocalTime) String() string {
	return t.Format(localTimeLayouts[0])
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = LocalTime{}
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := ParseLocalTime(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Room struct {
	ID       int64  `json:"id"`
	Code     string `json:"codigo"`
	Name     string `json:"nombre"`
	Capacity int    `json:"capacidad"`
}

type Reservation struct {
	ID       int64     `json:"id"`
	RoomID   int64     `json:"idAula"`
	RoomCode string    `json:"aulaCodigo,omitempty"`
	Start    LocalTime `json:"inicio"`
	End      LocalTime `json:"fin"`
	Status   string    `json:"estado"`
}

type NewReservation struct {
	RoomID   int64     `json:"idAula"`
	CourseID *int64    `json:"idCurso,omitempty"`
	Start    LocalTime `json:"inicio"`
	End      LocalTime `json:"fin"`
}

type ReservationFilter struct {
	RoomID    *int64
	TeacherID *int64
	From      string
	To        string
}

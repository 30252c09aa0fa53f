package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

// Start fake backend and client pointed to it. Access token "access-1" is stored
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(t.Context(), models.AccessToken, "access-1"))

	c, err := NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second}, store)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err := io.WriteString(w, body)
	require.NoError(t, err)
}

func TestClient_New(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost:8080"}, tokenstore.NewMemoryStore())
	require.Error(t, err, "scheme required")

	_, err = NewClient(Config{BaseURL: "http://localhost:8080"}, nil)
	require.Error(t, err)
}

func TestClient_Login(t *testing.T) {
	t.Run("wrapped response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, PathLogin, r.URL.Path)
			require.Empty(t, r.Header.Get("Authorization"), "login must be sent without token")

			var creds models.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, models.Credentials{Username: "jperez", Password: "secret"}, creds)

			writeJSON(t, w, http.StatusOK, `{"data": {"accessToken": "a", "refreshToken": "r"}}`)
		})

		pair, err := c.Login(t.Context(), models.Credentials{Username: "jperez", Password: "secret"})

		require.NoError(t, err)
		require.Equal(t, models.TokenPair{Access: "a", Refresh: "r"}, pair)
	})

	t.Run("bare response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{"accessToken": "a", "refreshToken": "r"}`)
		})

		pair, err := c.Login(t.Context(), models.Credentials{})

		require.NoError(t, err)
		require.Equal(t, models.TokenPair{Access: "a", Refresh: "r"}, pair)
	})

	t.Run("no token in response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{"data": {}}`)
		})

		_, err := c.Login(t.Context(), models.Credentials{})

		require.Error(t, err)
	})

	t.Run("credentials rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, `{"message": "Credenciales invalidas"}`)
		})

		_, err := c.Login(t.Context(), models.Credentials{})

		require.ErrorIs(t, err, apperrors.ErrCredentialsRejected)
		var e *Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, http.StatusUnauthorized, e.StatusCode)
		require.Equal(t, "Credenciales invalidas", e.Message)
	})
}

func TestClient_Refresh(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, PathRefresh, r.URL.Path)
			require.Empty(t, r.Header.Get("Authorization"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"refreshToken": "r-1"}`, string(body))

			writeJSON(t, w, http.StatusOK, `{"data": {"accessToken": "a-2", "refreshToken": "r-2"}}`)
		})

		pair, err := c.Refresh(t.Context(), "r-1")

		require.NoError(t, err)
		require.Equal(t, models.TokenPair{Access: "a-2", Refresh: "r-2"}, pair)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, `{"error": "expired"}`)
		})

		_, err := c.Refresh(t.Context(), "r-1")

		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     string
		expected error
		message  string
	}{
		{"forbidden", http.StatusForbidden, `{"message": "Solo docentes"}`, apperrors.ErrForbidden, "Solo docentes"},
		{"not found", http.StatusNotFound, ``, apperrors.ErrNotFound, "Not Found"},
		{"conflict", http.StatusConflict, `{"message": "Aula ocupada"}`, apperrors.ErrBackendRejected, "Aula ocupada"},
		{"server error", http.StatusInternalServerError, `oops`, apperrors.ErrBackendUnavailable, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Rooms(t.Context())

			require.ErrorIs(t, err, tt.expected)
			var e *Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, tt.code, e.StatusCode)
			require.Equal(t, tt.message, e.Message)
		})
	}

	t.Run("backend down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		c, err := NewClient(Config{BaseURL: srv.URL}, tokenstore.NewMemoryStore())
		require.NoError(t, err)

		_, err = c.Rooms(t.Context())

		require.ErrorIs(t, err, apperrors.ErrBackendUnavailable)
	})
}

func TestClient_Endpoints(t *testing.T) {
	t.Run("requests are authorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
			require.NotEmpty(t, r.Header.Get(HeaderRequestID))
			writeJSON(t, w, http.StatusOK, `[{"id": 1, "codigo": "MAT1", "nombre": "Matematica"}]`)
		})

		courses, err := c.MyCourses(t.Context())

		require.NoError(t, err)
		require.Equal(t, []models.Course{{ID: 1, Code: "MAT1", Name: "Matematica"}}, courses)
	})

	t.Run("admin students query", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/admin/alumnos", r.URL.Path)
			q := r.URL.Query()
			require.Equal(t, "2", q.Get("pagina"))
			require.Equal(t, "10", q.Get("tamanio"))
			require.Equal(t, "apellido,asc", q.Get("sort"))
			require.Equal(t, "ana", q.Get("q"))
			require.Equal(t, "3", q.Get("idCurso"))

			writeJSON(t, w, http.StatusOK, `{
				"contenido": [{"id": 5, "codigo": "A005", "nombres": "Ana", "apellidos": "Diaz", "email": "ana@example.com", "activo": true}],
				"paginaActual": 2, "tamanio": 10, "totalElementos": 21, "totalPaginas": 3,
				"primera": false, "ultima": true, "vacia": false
			}`)
		})

		courseID := int64(3)
		page, err := c.AdminStudents(t.Context(), models.PageQuery{Page: 2}, "ana", &courseID)

		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		require.Equal(t, "A005", page.Content[0].Code)
		require.Equal(t, 21, page.TotalElements)
		require.True(t, page.Last)
	})

	t.Run("teacher students require course", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/docentes/me/alumnos", r.URL.Path)
			require.Equal(t, "4", r.URL.Query().Get("idCurso"))
			require.False(t, r.URL.Query().Has("q"))
			writeJSON(t, w, http.StatusOK, `{"contenido": [], "vacia": true}`)
		})

		page, err := c.TeacherStudents(t.Context(), 4, models.PageQuery{}, "")

		require.NoError(t, err)
		require.True(t, page.Empty)
	})

	t.Run("grades are sent as numbers", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/notas/9", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"calificacion": 15.5}`, string(body))

			writeJSON(t, w, http.StatusOK, `{"idNota": 9, "codigoAlumno": "A1", "idCurso": 1, "idEstructura": 2, "calificacion": 15.5}`)
		})

		g, err := c.UpdateGrade(t.Context(), 9, decimal.RequireFromString("15.5"))

		require.NoError(t, err)
		require.True(t, decimal.RequireFromString("15.5").Equal(g.Value))
	})

	t.Run("grades by item", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/notas/por-curso-estructura", r.URL.Path)
			require.Equal(t, "1", r.URL.Query().Get("idCurso"))
			require.Equal(t, "2", r.URL.Query().Get("idEstructura"))
			writeJSON(t, w, http.StatusOK, `[{"idNota": 9, "codigoAlumno": "A1", "idCurso": 1, "idEstructura": 2, "calificacion": 12}]`)
		})

		grades, err := c.GradesByItem(t.Context(), 1, 2)

		require.NoError(t, err)
		require.Len(t, grades, 1)
		require.Equal(t, "A1", grades[0].StudentCode)
	})

	t.Run("delete grade without body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/api/notas/9", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, c.DeleteGrade(t.Context(), 9))
	})

	t.Run("available rooms window", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/aulas/disponibles", r.URL.Path)
			require.Equal(t, "2025-03-10T08:00:00", r.URL.Query().Get("inicio"))
			require.Equal(t, "2025-03-10T10:00:00", r.URL.Query().Get("fin"))
			writeJSON(t, w, http.StatusOK, `[{"id": 1, "codigo": "A-101", "nombre": "Aula 101", "capacidad": 30}]`)
		})

		start, err := models.ParseLocalTime("2025-03-10T08:00")
		require.NoError(t, err)
		end, err := models.ParseLocalTime("2025-03-10T10:00:00")
		require.NoError(t, err)

		rooms, err := c.AvailableRooms(t.Context(), start, end)

		require.NoError(t, err)
		require.Equal(t, []models.Room{{ID: 1, Code: "A-101", Name: "Aula 101", Capacity: 30}}, rooms)
	})

	t.Run("reservations default sort", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "fecha_inicio,desc", r.URL.Query().Get("sort"))
			require.Equal(t, "2025-03-01", r.URL.Query().Get("desde"))
			require.False(t, r.URL.Query().Has("idAula"))
			writeJSON(t, w, http.StatusOK, `{"contenido": [{"id": 1, "idAula": 2, "inicio": "2025-03-10T08:00:00", "fin": "2025-03-10T10:00:00", "estado": "RESERVADA"}]}`)
		})

		page, err := c.Reservations(t.Context(), models.PageQuery{}, models.ReservationFilter{From: "2025-03-01"})

		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		require.Equal(t, 8, page.Content[0].Start.Hour())
	})

	t.Run("material request status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPatch, r.Method)
			require.Equal(t, "/api/solicitudes/materiales/4/estado", r.URL.Path)
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"estado": "APROBADA"}`, string(body))
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, c.SetMaterialRequestStatus(t.Context(), 4, models.RequestApproved))
	})

	t.Run("material request", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/api/solicitudes/materiales/4", r.URL.Path)
			writeJSON(t, w, http.StatusOK, `{"idMaterial": 4, "idDocente": 7, "estado": "PENDIENTE"}`)
		})

		got, err := c.MaterialRequest(t.Context(), 4)

		require.NoError(t, err)
		require.Equal(t, int64(7), got.TeacherID)
		require.Equal(t, models.RequestPending, got.Status)
	})

	t.Run("material requests listing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			require.Equal(t, "0", q.Get("page"))
			require.Equal(t, "10", q.Get("size"))
			require.Equal(t, "fechaSolicitud", q.Get("ordenarPor"))
			require.Equal(t, "desc", q.Get("direccion"))
			require.Equal(t, "7", q.Get("idDocente"))
			require.Equal(t, "PENDIENTE", q.Get("estado"))
			writeJSON(t, w, http.StatusOK, `{"contenido": []}`)
		})

		teacherID := int64(7)
		_, err := c.MaterialRequests(t.Context(), models.OrderedPageQuery{}, models.RequestFilter{TeacherID: &teacherID, Status: models.RequestPending})

		require.NoError(t, err)
	})

	t.Run("reschedule request status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/solicitudes/reprogramaciones/3/estado", r.URL.Path)
			require.Equal(t, "RECHAZADA", r.URL.Query().Get("nuevoEstado"))
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, c.SetRescheduleRequestStatus(t.Context(), 3, models.RequestRejected))
	})

	t.Run("teacher stats", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/stats/docente", r.URL.Path)
			writeJSON(t, w, http.StatusOK, `{"notasHoy": 4, "proximasReservas": []}`)
		})

		stats, err := c.TeacherStats(t.Context())

		require.NoError(t, err)
		require.Equal(t, 4, stats.GradesToday)
	})
}

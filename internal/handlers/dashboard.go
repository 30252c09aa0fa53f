package handlers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/gestiondocente/internal/handlers/middleware"
	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type dashboardAPI interface {
	TeacherStats(ctx context.Context) (models.TeacherStats, error)
	Reservations(ctx context.Context, page models.PageQuery, f models.ReservationFilter) (models.Page[models.Reservation], error)
	MaterialRequests(ctx context.Context, page models.OrderedPageQuery, f models.RequestFilter) (models.Page[models.MaterialRequest], error)
	RescheduleRequests(ctx context.Context, page models.OrderedPageQuery, f models.RequestFilter) (models.Page[models.RescheduleRequest], error)
}

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type DashboardView struct {
	User  models.User          `json:"user"`
	Menu  []NavItem            `json:"menu"`
	Stats *models.TeacherStats `json:"stats,omitempty"`
}

type AdminSummary struct {
	Reservations       int `json:"reservasActivas"`
	PendingMaterials   int `json:"solicitudesPendientes"`
	PendingReschedules int `json:"reprogramacionesPendientes"`
}

type AdminDashboardView struct {
	User      models.User  `json:"user"`
	Menu      []NavItem    `json:"menu"`
	Summary   AdminSummary `json:"resumen"`
	Shortcuts []NavItem    `json:"accesosRapidos"`
}

type DashboardHandler struct {
	api    dashboardAPI
	logger logger.Logger
}

func NewDashboard(api dashboardAPI, l logger.Logger) *DashboardHandler {
	return &DashboardHandler{api: api, logger: l}
}

// Navigation items by role. Shapes the UI only, backend authorizes every call
func navigation(u models.User) []NavItem {
	items := []NavItem{{Label: "Inicio", Path: "/dashboard"}}
	if u.IsAdmin() {
		items[0].Path = "/dashboard-admin"
	}

	items = append(items,
		NavItem{Label: "Alumnos", Path: "/alumnos"},
		NavItem{Label: "Cursos", Path: "/cursos"},
	)
	if u.IsTeacher() {
		items = append(items, NavItem{Label: "Notas", Path: "/notas"})
	}
	items = append(items,
		NavItem{Label: "Reservas", Path: "/reservas"},
		NavItem{Label: "Solicitudes", Path: "/solicitudes"},
		NavItem{Label: "Reprogramaciones", Path: "/solicitudes/reprogramacion"},
	)
	return items
}

func (h *DashboardHandler) teacher(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	view := DashboardView{User: user, Menu: navigation(user)}
	if user.IsTeacher() {
		stats, err := h.api.TeacherStats(r.Context())
		if err != nil {
			backendError(w, err, h.logger)
			return
		}
		view.Stats = &stats
	}

	render.JSON(w, view)
}

func (h *DashboardHandler) admin(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return
	}

	var summary AdminSummary
	pending := models.RequestFilter{Status: models.RequestPending}
	onlyTotal := models.OrderedPageQuery{Size: 1}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		page, err := h.api.Reservations(ctx, models.PageQuery{Size: 1}, models.ReservationFilter{})
		summary.Reservations = page.TotalElements
		return err
	})
	g.Go(func() error {
		page, err := h.api.MaterialRequests(ctx, onlyTotal, pending)
		summary.PendingMaterials = page.TotalElements
		return err
	})
	g.Go(func() error {
		page, err := h.api.RescheduleRequests(ctx, onlyTotal, pending)
		summary.PendingReschedules = page.TotalElements
		return err
	})
	if err := g.Wait(); err != nil {
		backendError(w, err, h.logger)
		return
	}

	render.JSON(w, AdminDashboardView{
		User:    user,
		Menu:    navigation(user),
		Summary: summary,
		Shortcuts: []NavItem{
			{Label: "Cancelar reserva", Path: "/reservas"},
			{Label: "Cancelar solicitud", Path: "/solicitudes"},
			{Label: "Reprogramar clase", Path: "/solicitudes/reprogramacion"},
			{Label: "Ver alumnos", Path: "/alumnos"},
		},
	})
}

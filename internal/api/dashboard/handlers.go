// internal/api/dashboard/handlers.go
package dashboard

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/acebook/dashboard/internal/api/apiutil"
	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/api/nav"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/booking"
	dashboardtempl "github.com/acebook/dashboard/internal/templates/components/dashboard"
	"github.com/acebook/dashboard/internal/templates/layouts"
)

const (
	dashboardQueryTimeout = 5 * time.Second
	upcomingLimit         = 3
)

var (
	client *backend.Client
	now    = time.Now
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *backend.Client) {
	client = c
}

var playerShortcuts = []dashboardtempl.Shortcut{
	{
		Title:       "Reservas",
		Description: "Faça suas reservas e veja seu histórico completo.",
		Href:        "/dashboard/reservations",
		CTA:         "Abrir reservas",
	},
	{
		Title:       "Quadras",
		Description: "Consulte o tipo de piso e o horário de funcionamento antes de reservar.",
		Href:        "/dashboard/courts",
		CTA:         "Ver quadras",
	},
}

var adminShortcuts = []dashboardtempl.Shortcut{
	{
		Title:       "Reservas",
		Description: "Gerencie a agenda de reservas.",
		Href:        "/dashboard/reservations",
		CTA:         "Abrir reservas",
	},
	{
		Title:       "Quadras",
		Description: "Atualize informações sobre as quadras.",
		Href:        "/dashboard/courts",
		CTA:         "Configurar quadras",
	},
	{
		Title:       "Jogadores",
		Description: "Gerencie os jogadores do clube.",
		Href:        "/dashboard/users",
		CTA:         "Gerenciar jogadores",
	},
}

// HandleDashboardPage renders GET /dashboard. Admin stats load separately
// from /dashboard/stats.
func HandleDashboardPage(w http.ResponseWriter, r *http.Request) {
	api, user, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	data := dashboardtempl.DashboardData{
		IsAdmin:   authz.IsAdmin(user),
		UserName:  user.Name,
		Shortcuts: playerShortcuts,
	}
	title := "Bem-vindo de volta!"
	if data.IsAdmin {
		data.Shortcuts = adminShortcuts
		title = "Bem-vindo ao painel do clube"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), dashboardQueryTimeout)
		defer cancel()
		rows, err := api.ListReservations(ctx)
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load upcoming reservations")
		} else {
			data.Upcoming = upcoming(backend.BookingReservations(rows, api.Location()), user.ID, now().In(api.Location()))
		}
	}

	apiutil.RenderHTML(w, r, http.StatusOK, layouts.Base(nav.Page(r, title), dashboardtempl.DashboardLayout(data)))
}

// HandleDashboardStats renders the admin summary fragment for GET /dashboard/stats.
func HandleDashboardStats(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dashboardQueryTimeout)
	defer cancel()

	stats, err := loadStats(ctx, api, now().In(api.Location()))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load dashboard stats")
		apiutil.RenderHTML(w, r, http.StatusOK, dashboardtempl.StatsUnavailable())
		return
	}

	apiutil.RenderHTML(w, r, http.StatusOK, dashboardtempl.StatsPanel(stats))
}

// loadStats fetches courts, reservations and players concurrently.
func loadStats(ctx context.Context, api *backend.Client, today time.Time) (dashboardtempl.Stats, error) {
	var (
		courts       []booking.Court
		reservations []backend.Reservation
		players      []backend.User
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courts, err = api.ListCourts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = api.ListReservations(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = api.ListUsers(ctx, backend.RolePlayer)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboardtempl.Stats{}, err
	}

	stats := dashboardtempl.Stats{Courts: len(courts), Players: len(players)}
	for _, court := range courts {
		if court.Status != booking.CourtMaintenance {
			stats.CourtsAvailable++
		}
	}
	todayKey := booking.DateKey(today)
	for _, res := range backend.BookingReservations(reservations, today.Location()) {
		if res.Status != booking.StatusCancelled && booking.DateKey(res.Start) == todayKey {
			stats.TodayReservations++
		}
	}
	return stats, nil
}

// upcoming lists the player's next non-cancelled reservations.
func upcoming(rows []booking.Reservation, playerID int64, from time.Time) []dashboardtempl.UpcomingReservation {
	var mine []booking.Reservation
	for _, res := range rows {
		if res.PlayerID != playerID || res.Status == booking.StatusCancelled || !res.Start.After(from) {
			continue
		}
		mine = append(mine, res)
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].Start.Before(mine[j].Start) })
	if len(mine) > upcomingLimit {
		mine = mine[:upcomingLimit]
	}

	out := make([]dashboardtempl.UpcomingReservation, 0, len(mine))
	for _, res := range mine {
		out = append(out, dashboardtempl.UpcomingReservation{
			Date:  res.Start.Format("02/01/2006"),
			Hour:  booking.HourKey(res.Start),
			Court: res.CourtName,
			Type:  res.Type,
		})
	}
	return out
}

// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/api"
	"github.com/acebook/dashboard/internal/api/auth"
	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/api/coaches"
	"github.com/acebook/dashboard/internal/api/courts"
	"github.com/acebook/dashboard/internal/api/dashboard"
	"github.com/acebook/dashboard/internal/api/nav"
	"github.com/acebook/dashboard/internal/api/reservations"
	"github.com/acebook/dashboard/internal/api/users"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/config"
	"github.com/acebook/dashboard/internal/db"
	"github.com/acebook/dashboard/internal/email"
	"github.com/acebook/dashboard/internal/ratelimit"
)

type serverDeps struct {
	queries *db.Queries
	client  *backend.Client
	limiter *ratelimit.Limiter
	dialogs *reservations.DialogRegistry
	mailer  email.Sender
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	auth.InitHandlers(cfg, deps.queries, deps.client, deps.limiter)
	dashboard.InitHandlers(deps.client)
	courts.InitHandlers(deps.client)
	coaches.InitHandlers(deps.client)
	users.InitHandlers(deps.client)
	reservations.InitHandlers(deps.client, deps.dialogs, deps.mailer)

	router := http.NewServeMux()
	registerRoutes(router, cfg.App.StaticDir)

	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, staticDir string) {
	player := func(h http.HandlerFunc) http.Handler {
		return api.RequireRole(authz.RolePlayer)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return api.RequireRole(authz.RoleAdmin)(h)
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		target := "/login"
		if authz.UserFromContext(r.Context()) != nil {
			target = "/dashboard"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("GET /login", auth.HandleLoginPage)
	mux.HandleFunc("POST /login", auth.HandleLogin)
	mux.HandleFunc("GET /admin/login", auth.HandleLoginPage)
	mux.HandleFunc("POST /admin/login", auth.HandleLogin)
	mux.HandleFunc("GET /register/player", auth.HandleRegisterPage)
	mux.HandleFunc("POST /register/player", auth.HandleRegister)
	mux.HandleFunc("GET /register/admin", auth.HandleRegisterPage)
	mux.HandleFunc("POST /register/admin", auth.HandleRegister)
	mux.HandleFunc("POST /logout", auth.HandleLogout)

	// Navigation and home
	mux.Handle("GET /nav/menu", player(nav.HandleMenu))
	mux.Handle("GET /dashboard", player(dashboard.HandleDashboardPage))
	mux.Handle("GET /dashboard/stats", admin(dashboard.HandleDashboardStats))

	// Reservations
	mux.Handle("GET /dashboard/reservations", player(reservations.HandleReservationsPage))
	mux.Handle("GET /dashboard/reservations/list", player(reservations.HandleReservationsList))
	mux.Handle("GET /dashboard/reservations/new", player(reservations.HandleNewReservation))
	mux.Handle("GET /dashboard/reservations/{id}/edit", admin(reservations.HandleEditReservation))
	mux.Handle("GET /dashboard/reservations/{id}/cancel", player(reservations.HandleCancelConfirm))
	mux.Handle("DELETE /dashboard/reservations/{id}", player(reservations.HandleCancelReservation))
	mux.Handle("POST /dashboard/reservations/dialogs/{dialog}", player(reservations.HandleDialogSubmit))
	mux.Handle("DELETE /dashboard/reservations/dialogs/{dialog}", player(reservations.HandleCloseDialog))
	mux.Handle("POST /dashboard/reservations/dialogs/{dialog}/{field}", player(reservations.HandleDialogField))

	// Courts
	mux.Handle("GET /dashboard/courts", player(courts.HandleCourtsPage))
	mux.Handle("GET /dashboard/courts/list", player(courts.HandleCourtsList))
	mux.Handle("GET /dashboard/courts/new", admin(courts.HandleNewCourtForm))
	mux.Handle("GET /dashboard/courts/{id}/edit", admin(courts.HandleEditCourtForm))
	mux.Handle("GET /dashboard/courts/{id}/delete", admin(courts.HandleDeleteCourtConfirm))
	mux.Handle("POST /dashboard/courts", admin(courts.HandleSaveCourt))
	mux.Handle("PUT /dashboard/courts/{id}", admin(courts.HandleSaveCourt))
	mux.Handle("DELETE /dashboard/courts/{id}", admin(courts.HandleDeleteCourt))

	// Coaches
	mux.Handle("GET /dashboard/coaches", player(coaches.HandleCoachesPage))
	mux.Handle("GET /dashboard/coaches/list", player(coaches.HandleCoachesList))
	mux.Handle("GET /dashboard/coaches/new", admin(coaches.HandleNewCoachForm))
	mux.Handle("GET /dashboard/coaches/{id}/edit", admin(coaches.HandleEditCoachForm))
	mux.Handle("POST /dashboard/coaches", admin(coaches.HandleSaveCoach))
	mux.Handle("PUT /dashboard/coaches/{id}", admin(coaches.HandleSaveCoach))
	mux.Handle("DELETE /dashboard/coaches/{id}", admin(coaches.HandleDeleteCoach))

	// Players
	mux.Handle("GET /dashboard/users", admin(users.HandleUsersPage))
	mux.Handle("GET /dashboard/users/list", admin(users.HandleUsersList))
	mux.Handle("GET /dashboard/users/{id}/edit", admin(users.HandleEditUserForm))
	mux.Handle("GET /dashboard/users/{id}/delete", admin(users.HandleDeleteUserConfirm))
	mux.Handle("PUT /dashboard/users/{id}", admin(users.HandleUpdateUser))
	mux.Handle("DELETE /dashboard/users/{id}", admin(users.HandleDeleteUser))

	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}

package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/api/htmx"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/config"
	"github.com/acebook/dashboard/internal/db"
	"github.com/acebook/dashboard/internal/ratelimit"
	authtempl "github.com/acebook/dashboard/internal/templates/components/auth"
)

const (
	msgMissingCredentials = "Informe email e senha."
	msgInvalidCredentials = "Credenciais inválidas. Verifique email e senha."
	msgLoginFailed        = "Não foi possível entrar"
	msgTooManyAttempts    = "Muitas tentativas. Tente novamente em alguns minutos."
	msgPasswordHint       = "Use pelo menos 8 caracteres combinando letras e números."
	msgRegisteredPlayer   = "Conta criada! Faça login com suas credenciais."
	msgRegisteredClub     = "Clube registrado! Faça login para configurar o painel."
)

var (
	appConfig *config.Config
	queries   *db.Queries
	client    *backend.Client
	limiter   *ratelimit.Limiter
)

func InitHandlers(cfg *config.Config, q *db.Queries, c *backend.Client, l *ratelimit.Limiter) {
	appConfig = cfg
	queries = q
	client = c
	limiter = l
}

func isAdminPath(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/admin/") || strings.HasSuffix(r.URL.Path, "/admin")
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, data authtempl.LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := authtempl.LoginPage(data).Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to render login page")
	}
}

func renderRegister(w http.ResponseWriter, r *http.Request, status int, data authtempl.RegisterData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := authtempl.RegisterPage(data).Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to render register page")
	}
}

// HandleLoginPage serves GET /login and GET /admin/login. Signed-in users go
// straight to the dashboard.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if authz.UserFromContext(r.Context()) != nil {
		htmx.Redirect(w, r, "/dashboard")
		return
	}
	data := authtempl.LoginData{Admin: isAdminPath(r)}
	switch r.URL.Query().Get("registered") {
	case "player":
		data.Notice = msgRegisteredPlayer
	case "admin":
		data.Notice = msgRegisteredClub
	}
	renderLogin(w, r, http.StatusOK, data)
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	data := authtempl.LoginData{Admin: isAdminPath(r)}

	if client == nil || limiter == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		data.Error = msgMissingCredentials
		renderLogin(w, r, http.StatusBadRequest, data)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	data.Email = email
	if email == "" || password == "" {
		data.Error = msgMissingCredentials
		renderLogin(w, r, http.StatusBadRequest, data)
		return
	}

	ip := ratelimit.GetClientIP(r, appConfig != nil && appConfig.Auth.TrustProxy)
	if result := limiter.Check(email, ip); !result.Allowed {
		ratelimit.LogRateLimitExceeded(email, ip, result.Reason)
		w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
		data.Error = msgTooManyAttempts
		renderLogin(w, r, http.StatusTooManyRequests, data)
		return
	}

	login, err := client.Login(r.Context(), email, password)
	if err != nil {
		var apiErr backend.APIError
		switch {
		case errors.Is(err, backend.ErrUnauthorized):
			if limiter.RecordFailure(email, ip) {
				logger.Warn().Str("email", ratelimit.SanitizeEmail(email)).Msg("Login locked out")
			}
			data.Error = msgInvalidCredentials
			renderLogin(w, r, http.StatusUnauthorized, data)
		case errors.As(err, &apiErr):
			limiter.RecordFailure(email, ip)
			data.Error = apiErr.Message
			renderLogin(w, r, http.StatusBadRequest, data)
		default:
			logger.Error().Err(err).Msg("Backend login failed")
			data.Error = msgLoginFailed
			renderLogin(w, r, http.StatusBadGateway, data)
		}
		return
	}

	limiter.Reset(email)

	user, err := CreateSession(r.Context(), w, login)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		data.Error = msgLoginFailed
		renderLogin(w, r, http.StatusInternalServerError, data)
		return
	}

	logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("User signed in")
	htmx.Redirect(w, r, "/dashboard")
}

func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)
	htmx.Redirect(w, r, "/")
}

func HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	renderRegister(w, r, http.StatusOK, authtempl.RegisterData{Admin: isAdminPath(r)})
}

// HandleRegister creates a player (joining an existing club) or an admin
// (creating a new club) on the backend.
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	admin := isAdminPath(r)

	if client == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	data := authtempl.RegisterData{
		Admin:    admin,
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		ClubName: strings.TrimSpace(r.FormValue("club_name")),
		ClubSlug: strings.TrimSpace(r.FormValue("club_slug")),
	}
	password := r.FormValue("password")

	payload, msg := registrationPayload(data, password, r.FormValue("confirm_password"))
	if msg != "" {
		data.Error = msg
		renderRegister(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if _, err := client.Register(r.Context(), payload); err != nil {
		var apiErr backend.APIError
		if errors.As(err, &apiErr) {
			data.Error = apiErr.Message
			renderRegister(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		logger.Error().Err(err).Bool("admin", admin).Msg("Backend registration failed")
		data.Error = "Não foi possível criar sua conta."
		if admin {
			data.Error = "Não foi possível cadastrar o clube."
		}
		renderRegister(w, r, http.StatusBadGateway, data)
		return
	}

	logger.Info().Str("role", payload.Role).Str("club_slug", payload.ClubSlug).Msg("Account registered")
	if admin {
		htmx.Redirect(w, r, "/admin/login?registered=admin")
		return
	}
	htmx.Redirect(w, r, "/login?registered=player")
}

// registrationPayload validates the form. A non-empty message is shown to
// the user instead of submitting.
func registrationPayload(data authtempl.RegisterData, password, confirm string) (backend.RegisterPayload, string) {
	if data.Email == "" || password == "" {
		return backend.RegisterPayload{}, msgMissingCredentials
	}

	if !data.Admin {
		if password != confirm {
			return backend.RegisterPayload{}, "As senhas precisam ser iguais."
		}
		return backend.RegisterPayload{
			Name:     data.Name,
			Email:    data.Email,
			Password: password,
			Role:     authz.RolePlayer,
			ClubSlug: slug.Make(data.ClubSlug),
		}, ""
	}

	if password != confirm {
		return backend.RegisterPayload{}, "As senhas devem ser iguais."
	}
	if !isStrongPassword(password) {
		return backend.RegisterPayload{}, msgPasswordHint
	}
	if data.ClubSlug == "" {
		return backend.RegisterPayload{}, "Informe um código para o clube."
	}
	code := strings.ToLower(data.ClubSlug)
	if !slug.IsSlug(code) {
		return backend.RegisterPayload{}, "Use apenas letras, números e hífens no código do clube."
	}
	return backend.RegisterPayload{
		Email:    data.Email,
		Password: password,
		Role:     authz.RoleAdmin,
		ClubName: data.ClubName,
		ClubSlug: code,
	}, ""
}

// isStrongPassword requires eight characters with at least one letter and one digit.
func isStrongPassword(password string) bool {
	if len([]rune(password)) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// internal/api/coaches/handlers.go
package coaches

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/api/apiutil"
	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/api/htmx"
	"github.com/acebook/dashboard/internal/api/nav"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/request"
	coachtempl "github.com/acebook/dashboard/internal/templates/components/coaches"
	"github.com/acebook/dashboard/internal/templates/layouts"
)

const requestTimeout = 10 * time.Second

var client *backend.Client

func InitHandlers(c *backend.Client) {
	client = c
}

func loadList(ctx context.Context, api *backend.Client, user *authz.AuthUser) (coachtempl.ListData, error) {
	coaches, err := api.ListCoaches(ctx)
	if err != nil {
		return coachtempl.ListData{}, err
	}
	rows := make([]coachtempl.CoachRow, 0, len(coaches))
	for _, coach := range coaches {
		rows = append(rows, coachtempl.CoachRow{Coach: coach, TelURI: telURI(coach.Phone)})
	}
	return coachtempl.ListData{IsAdmin: authz.IsAdmin(user), Coaches: rows}, nil
}

func renderList(w http.ResponseWriter, r *http.Request, page bool) {
	api, user, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	data, err := loadList(ctx, api, user)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if page {
		apiutil.RenderHTML(w, r, http.StatusOK, layouts.Base(nav.Page(r, "Instrutores do clube"), coachtempl.Page(data)))
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, coachtempl.List(data))
}

// HandleCoachesPage renders GET /dashboard/coaches.
func HandleCoachesPage(w http.ResponseWriter, r *http.Request) {
	renderList(w, r, true)
}

// HandleCoachesList renders GET /dashboard/coaches/list.
func HandleCoachesList(w http.ResponseWriter, r *http.Request) {
	renderList(w, r, false)
}

func HandleNewCoachForm(w http.ResponseWriter, r *http.Request) {
	apiutil.RenderHTML(w, r, http.StatusOK, coachtempl.Form(coachtempl.FormData{}))
}

func HandleEditCoachForm(w http.ResponseWriter, r *http.Request) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid coach ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	coaches, err := api.ListCoaches(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	for _, coach := range coaches {
		if coach.ID == id {
			form := coachtempl.FormData{ID: id, Coach: backend.CoachInput{Name: coach.Name, Phone: coach.Phone}}
			apiutil.RenderHTML(w, r, http.StatusOK, coachtempl.Form(form))
			return
		}
	}
	http.Error(w, "Coach not found", http.StatusNotFound)
}

func parseCoachForm(r *http.Request) (backend.CoachInput, string) {
	input := backend.CoachInput{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
	}
	if input.Name == "" {
		return input, "Informe o nome do coach."
	}
	if input.Phone == "" {
		return input, "Informe o telefone do coach."
	}
	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return input, "Telefone inválido. Use DDD e número, por exemplo (11) 98765-4321."
	}
	input.Phone = phone
	return input, ""
}

// HandleSaveCoach serves POST /dashboard/coaches and PUT /dashboard/coaches/{id}.
func HandleSaveCoach(w http.ResponseWriter, r *http.Request) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var id int64
	if r.PathValue("id") != "" {
		var ok bool
		if id, ok = request.PathID(r, "id"); !ok {
			http.Error(w, "Invalid coach ID", http.StatusBadRequest)
			return
		}
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	input, msg := parseCoachForm(r)
	form := coachtempl.FormData{ID: id, Coach: input}
	if msg != "" {
		form.Error = msg
		apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, coachtempl.Form(form))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	toast := "Coach cadastrado com sucesso."
	var saved backend.Coach
	if id > 0 {
		saved, err = api.UpdateCoach(ctx, id, input)
		toast = "Coach atualizado."
	} else {
		saved, err = api.CreateCoach(ctx, input)
	}
	if err != nil {
		handlerErr := apiutil.BackendError(err)
		if handlerErr.Status == http.StatusUnprocessableEntity {
			form.Error = handlerErr.Message
			apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, coachtempl.Form(form))
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("coach_id", saved.ID).Bool("update", id > 0).Msg("Coach saved")
	htmx.Trigger(w, map[string]any{"coaches-changed": nil})
	htmx.Toast(w, "success", toast)
	w.WriteHeader(http.StatusOK)
}

// HandleDeleteCoach serves DELETE /dashboard/coaches/{id}.
func HandleDeleteCoach(w http.ResponseWriter, r *http.Request) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid coach ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := api.DeleteCoach(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("coach_id", id).Msg("Coach deleted")
	htmx.Trigger(w, map[string]any{"coaches-changed": nil})
	htmx.Toast(w, "success", "Coach removido com sucesso.")
	w.WriteHeader(http.StatusOK)
}

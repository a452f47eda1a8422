// internal/api/courts/handlers.go
package courts

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
	"github.com/acebook/dashboard/internal/booking"
	"github.com/acebook/dashboard/internal/request"
	courttempl "github.com/acebook/dashboard/internal/templates/components/courts"
	"github.com/acebook/dashboard/internal/templates/layouts"
)

const requestTimeout = 10 * time.Second

var client *backend.Client

func InitHandlers(c *backend.Client) {
	client = c
}

func loadList(ctx context.Context, api *backend.Client, user *authz.AuthUser) (courttempl.ListData, error) {
	courts, err := api.ListCourts(ctx)
	if err != nil {
		return courttempl.ListData{}, err
	}
	return courttempl.ListData{IsAdmin: authz.IsAdmin(user), Courts: courts}, nil
}

// HandleCourtsPage renders GET /dashboard/courts.
func HandleCourtsPage(w http.ResponseWriter, r *http.Request) {
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

	apiutil.RenderHTML(w, r, http.StatusOK, layouts.Base(nav.Page(r, "Quadras"), courttempl.Page(data)))
}

// HandleCourtsList renders the list fragment for GET /dashboard/courts/list.
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
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
	apiutil.RenderHTML(w, r, http.StatusOK, courttempl.List(data))
}

func HandleNewCourtForm(w http.ResponseWriter, r *http.Request) {
	apiutil.RenderHTML(w, r, http.StatusOK, courttempl.Form(courttempl.DefaultForm()))
}

func findCourt(w http.ResponseWriter, r *http.Request) (*backend.Client, booking.Court, bool) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return nil, booking.Court{}, false
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid court ID", http.StatusBadRequest)
		return nil, booking.Court{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	courts, err := api.ListCourts(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return nil, booking.Court{}, false
	}
	for _, court := range courts {
		if court.ID == id {
			return api, court, true
		}
	}
	http.Error(w, "Court not found", http.StatusNotFound)
	return nil, booking.Court{}, false
}

func HandleEditCourtForm(w http.ResponseWriter, r *http.Request) {
	_, court, ok := findCourt(w, r)
	if !ok {
		return
	}
	form := courttempl.FormData{
		ID: court.ID,
		Court: backend.CourtInput{
			Name:     court.Name,
			Surface:  court.Surface,
			Covered:  court.Covered,
			Lights:   court.Lights,
			Status:   court.Status,
			OpensAt:  court.OpensAt,
			ClosesAt: court.ClosesAt,
		},
	}
	apiutil.RenderHTML(w, r, http.StatusOK, courttempl.Form(form))
}

func HandleDeleteCourtConfirm(w http.ResponseWriter, r *http.Request) {
	_, court, ok := findCourt(w, r)
	if !ok {
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, courttempl.DeleteConfirm(court))
}

// parseCourtForm reads the form into a CourtInput. The returned message is
// shown in the dialog when validation fails.
func parseCourtForm(r *http.Request) (backend.CourtInput, string) {
	input := backend.CourtInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Surface: strings.TrimSpace(r.FormValue("surface")),
		Status:  strings.TrimSpace(r.FormValue("status")),
		Covered: apiutil.FormBool(r.FormValue("covered")),
		Lights:  apiutil.FormBool(r.FormValue("lights")),
	}
	if input.Name == "" {
		return input, "Informe o nome da quadra"
	}
	if input.Surface == "" {
		input.Surface = booking.SurfaceClay
	}
	if input.Surface != booking.SurfaceClay && input.Surface != booking.SurfaceHard {
		return input, "Tipo de piso inválido."
	}
	if input.Status == "" {
		input.Status = booking.CourtAvailable
	}
	if input.Status != booking.CourtAvailable && input.Status != booking.CourtMaintenance {
		return input, "Status inválido."
	}

	opensAt, err := apiutil.ParseClockField(defaultString(r.FormValue("opens_at"), "06:00"), "opens_at")
	if err != nil {
		return input, "Horário de abertura inválido."
	}
	closesAt, err := apiutil.ParseClockField(defaultString(r.FormValue("closes_at"), "22:00"), "closes_at")
	if err != nil {
		return input, "Horário de fechamento inválido."
	}
	input.OpensAt = opensAt
	input.ClosesAt = closesAt
	return input, ""
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// HandleSaveCourt serves POST /dashboard/courts and PUT /dashboard/courts/{id}.
func HandleSaveCourt(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var id int64
	if r.PathValue("id") != "" {
		var ok bool
		if id, ok = request.PathID(r, "id"); !ok {
			http.Error(w, "Invalid court ID", http.StatusBadRequest)
			return
		}
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	input, msg := parseCourtForm(r)
	form := courttempl.FormData{ID: id, Court: input}
	if msg != "" {
		form.Error = msg
		apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, courttempl.Form(form))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var saved booking.Court
	toast := "Nova quadra adicionada"
	if id > 0 {
		saved, err = api.UpdateCourt(ctx, id, input)
		toast = "Quadra atualizada"
	} else {
		saved, err = api.CreateCourt(ctx, input)
	}
	if err != nil {
		handlerErr := apiutil.BackendError(err)
		if handlerErr.Status == http.StatusUnprocessableEntity {
			form.Error = handlerErr.Message
			apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, courttempl.Form(form))
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("court_id", saved.ID).Bool("update", id > 0).Msg("Court saved")
	htmx.Trigger(w, map[string]any{"courts-changed": nil})
	htmx.Toast(w, "success", toast)
	w.WriteHeader(http.StatusOK)
}

// HandleDeleteCourt serves DELETE /dashboard/courts/{id}.
func HandleDeleteCourt(w http.ResponseWriter, r *http.Request) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid court ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := api.DeleteCourt(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("court_id", id).Msg("Court deleted")
	htmx.Trigger(w, map[string]any{"courts-changed": nil})
	htmx.Toast(w, "success", "Quadra removida com sucesso")
	w.WriteHeader(http.StatusOK)
}

// internal/api/users/handlers.go
package users

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/api/apiutil"
	"github.com/acebook/dashboard/internal/api/htmx"
	"github.com/acebook/dashboard/internal/api/nav"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/request"
	usertempl "github.com/acebook/dashboard/internal/templates/components/users"
	"github.com/acebook/dashboard/internal/templates/layouts"
)

const requestTimeout = 10 * time.Second

var client *backend.Client

func InitHandlers(c *backend.Client) {
	client = c
}

// FilterPlayers keeps players whose name or email contains query, ignoring case.
func FilterPlayers(players []backend.User, query string) []backend.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return players
	}
	filtered := make([]backend.User, 0, len(players))
	for _, player := range players {
		if strings.Contains(strings.ToLower(player.Name), query) ||
			strings.Contains(strings.ToLower(player.Email), query) {
			filtered = append(filtered, player)
		}
	}
	return filtered
}

// SplitName turns a full name into the first/last pair the backend stores.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func loadPlayers(r *http.Request) (usertempl.ListData, error) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		return usertempl.ListData{}, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	players, err := api.ListUsers(ctx, backend.RolePlayer)
	if err != nil {
		return usertempl.ListData{}, err
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	return usertempl.ListData{Query: query, Players: FilterPlayers(players, query)}, nil
}

// HandleUsersPage renders GET /dashboard/users.
func HandleUsersPage(w http.ResponseWriter, r *http.Request) {
	data, err := loadPlayers(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, layouts.Base(nav.Page(r, "Jogadores"), usertempl.Page(data)))
}

// HandleUsersList renders the filtered list fragment for GET /dashboard/users/list.
func HandleUsersList(w http.ResponseWriter, r *http.Request) {
	data, err := loadPlayers(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, usertempl.List(data))
}

func findPlayer(r *http.Request) (backend.User, *backend.Client, bool, error) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		return backend.User{}, nil, false, err
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		return backend.User{}, api, false, nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	players, err := api.ListUsers(ctx, backend.RolePlayer)
	if err != nil {
		return backend.User{}, api, false, err
	}
	for _, player := range players {
		if player.ID == id {
			return player, api, true, nil
		}
	}
	return backend.User{}, api, false, nil
}

func HandleEditUserForm(w http.ResponseWriter, r *http.Request) {
	player, _, ok, err := findPlayer(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}
	form := usertempl.FormData{ID: player.ID, Name: player.Name, Email: player.Email}
	apiutil.RenderHTML(w, r, http.StatusOK, usertempl.Form(form))
}

func HandleDeleteUserConfirm(w http.ResponseWriter, r *http.Request) {
	player, _, ok, err := findPlayer(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, usertempl.DeleteConfirm(player))
}

// HandleUpdateUser serves PUT /dashboard/users/{id}.
func HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := usertempl.FormData{
		ID:    id,
		Name:  strings.TrimSpace(r.FormValue("name")),
		Email: strings.TrimSpace(r.FormValue("email")),
	}
	switch {
	case form.Name == "":
		form.Error = "Informe o nome do jogador."
	case form.Email == "":
		form.Error = "Informe o email do jogador."
	}
	if form.Error != "" {
		apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, usertempl.Form(form))
		return
	}

	first, last := SplitName(form.Name)
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := api.UpdateUser(ctx, id, backend.UserUpdate{FirstName: first, LastName: last, Email: form.Email}); err != nil {
		handlerErr := apiutil.BackendError(err)
		if handlerErr.Status == http.StatusUnprocessableEntity {
			form.Error = handlerErr.Message
			apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, usertempl.Form(form))
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("player_id", id).Msg("Player updated")
	htmx.Trigger(w, map[string]any{"users-changed": nil})
	htmx.Toast(w, "success", "Jogador atualizado com sucesso.")
	w.WriteHeader(http.StatusOK)
}

// HandleDeleteUser serves DELETE /dashboard/users/{id}.
func HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	api, _, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := api.DeleteUser(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("player_id", id).Msg("Player removed")
	htmx.Trigger(w, map[string]any{"users-changed": nil})
	htmx.Toast(w, "success", "Jogador removido.")
	w.WriteHeader(http.StatusOK)
}

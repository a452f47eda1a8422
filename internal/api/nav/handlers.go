// internal/api/nav/handlers.go
package nav

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/templates/layouts"
)

type entry struct {
	label     string
	href      string
	adminOnly bool
}

var entries = []entry{
	{label: "Início", href: "/dashboard"},
	{label: "Reservas", href: "/dashboard/reservations"},
	{label: "Quadras", href: "/dashboard/courts"},
	{label: "Instrutores", href: "/dashboard/coaches"},
	{label: "Jogadores", href: "/dashboard/users", adminOnly: true},
}

// MenuItems lists the entries user may open, marking the one matching path.
func MenuItems(user *authz.AuthUser, path string) []layouts.MenuItem {
	if user == nil {
		return nil
	}
	admin := authz.IsAdmin(user)
	items := make([]layouts.MenuItem, 0, len(entries))
	for _, e := range entries {
		if e.adminOnly && !admin {
			continue
		}
		items = append(items, layouts.MenuItem{
			Label:  e.label,
			Href:   e.href,
			Active: isActive(e.href, path),
		})
	}
	return items
}

func isActive(href, path string) bool {
	if href == "/dashboard" {
		return path == href
	}
	return path == href || strings.HasPrefix(path, href+"/")
}

// Page builds the layout chrome for the signed-in user.
func Page(r *http.Request, title string) layouts.Page {
	user := authz.UserFromContext(r.Context())
	page := layouts.Page{
		Title: title,
		Menu:  MenuItems(user, r.URL.Path),
	}
	if user != nil {
		page.UserName = user.Name
		page.ClubName = user.ClubName
		page.IsAdmin = authz.IsAdmin(user)
	}
	if page.ClubName == "" {
		page.ClubName = "Seu clube"
	}
	return page
}

// HandleMenu re-renders the menu for the page htmx reports in HX-Current-URL.
func HandleMenu(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if current := r.Header.Get("HX-Current-URL"); current != "" {
		if parsed, err := url.Parse(current); err == nil {
			path = parsed.Path
		}
	}

	items := MenuItems(authz.UserFromContext(r.Context()), path)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layouts.Menu(items).Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to render menu")
	}
}

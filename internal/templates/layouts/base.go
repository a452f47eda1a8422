package layouts

import (
	"context"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/templates/markup"
)

type MenuItem struct {
	Label  string
	Href   string
	Active bool
}

// Page carries the chrome around a dashboard page.
type Page struct {
	Title    string
	UserName string
	ClubName string
	IsAdmin  bool
	Menu     []MenuItem
}

func head(w *markup.Writer, title string) {
	w.Raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`)
	w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.Raw(`<title>`)
	w.Text(title)
	w.Raw(` | Acebook</title>`)
	w.Raw(`<meta name="htmx-config" content='{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"422","swap":true},{"code":"[45]..","swap":false,"error":true}]}'>`)
	w.Raw(`<link rel="stylesheet" href="/static/css/main.css">`)
	w.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
	w.Raw(`<script src="/static/js/toast.js" defer></script>`)
	w.Raw(`</head>`)
}

// Base renders an authenticated page with the side menu.
func Base(page Page, body templ.Component) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		head(w, page.Title)
		w.Raw(`<body class="dashboard"><aside class="sidebar"><div class="brand">Acebook</div>`)
		if page.ClubName != "" {
			w.Raw(`<div class="club">`)
			w.Text(page.ClubName)
			w.Raw(`</div>`)
		}
		w.Raw(`<nav id="menu" hx-get="/nav/menu" hx-trigger="refresh-menu from:body" hx-swap="innerHTML">`)
		w.Component(ctx, Menu(page.Menu))
		w.Raw(`</nav><div class="user">`)
		w.Text(page.UserName)
		w.Raw(`<form method="post" action="/logout"><button type="submit">Sair</button></form></div></aside>`)
		w.Raw(`<main id="content"><h1>`)
		w.Text(page.Title)
		w.Raw(`</h1>`)
		w.Component(ctx, body)
		w.Raw(`</main><div id="modal"></div><div id="toasts" aria-live="polite"></div></body></html>`)
	})
}

func Menu(items []MenuItem) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<ul>`)
		for _, item := range items {
			w.Raw(`<li><a`)
			w.Attr("href", item.Href)
			if item.Active {
				w.Raw(` class="active" aria-current="page"`)
			}
			w.Raw(`>`)
			w.Text(item.Label)
			w.Raw(`</a></li>`)
		}
		w.Raw(`</ul>`)
	})
}

// Auth renders the centered card used by sign-in and sign-up pages.
func Auth(title, description string, body templ.Component) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		head(w, title)
		w.Raw(`<body class="auth"><section class="auth-card"><h1>`)
		w.Text(title)
		w.Raw(`</h1><p class="muted">`)
		w.Text(description)
		w.Raw(`</p>`)
		w.Component(ctx, body)
		w.Raw(`</section><div id="toasts" aria-live="polite"></div></body></html>`)
	})
}

// Alert renders an inline error or notice; empty messages render nothing.
func Alert(kind, message string) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		if message == "" {
			return
		}
		w.Raw(`<div role="alert"`)
		w.Attr("class", "alert alert-"+kind)
		w.Raw(`>`)
		w.Text(message)
		w.Raw(`</div>`)
	})
}

package dashboard

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/templates/markup"
)

func DashboardLayout(data DashboardData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		if data.IsAdmin {
			w.Raw(`<p class="muted">Escolha uma área para administrar operações diárias.</p>`)
			w.Raw(`<section id="stats" class="stats" hx-get="/dashboard/stats" hx-trigger="load" hx-swap="outerHTML">`)
			w.Raw(`<div class="stat muted">Carregando resumo...</div></section>`)
		} else {
			w.Raw(`<p class="muted">Selecione uma das opções abaixo para gerenciar suas reservas ou conhecer mais sobre as quadras.</p>`)
		}
		w.Raw(`<section class="shortcuts">`)
		for _, s := range data.Shortcuts {
			w.Raw(`<article class="card"><h2>`)
			w.Text(s.Title)
			w.Raw(`</h2><p class="muted">`)
			w.Text(s.Description)
			w.Raw(`</p><a class="button"`)
			w.Attr("href", s.Href)
			w.Raw(`>`)
			w.Text(s.CTA)
			w.Raw(`</a></article>`)
		}
		w.Raw(`</section>`)
		if !data.IsAdmin {
			w.Component(ctx, UpcomingList(data.Upcoming))
		}
	})
}

func UpcomingList(rows []UpcomingReservation) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section class="upcoming"><h2>Próximas reservas</h2>`)
		if len(rows) == 0 {
			w.Raw(`<p class="muted">Você não tem reservas nos próximos dias.</p></section>`)
			return
		}
		w.Raw(`<ul>`)
		for _, row := range rows {
			w.Raw(`<li>`)
			w.Textf("%s %s · %s · %s", row.Date, row.Hour, row.Court, row.Type)
			w.Raw(`</li>`)
		}
		w.Raw(`</ul></section>`)
	})
}

func StatsPanel(stats Stats) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section id="stats" class="stats">`)
		stat(w, "Quadras", strconv.Itoa(stats.Courts), strconv.Itoa(stats.CourtsAvailable)+" disponíveis")
		stat(w, "Reservas hoje", strconv.Itoa(stats.TodayReservations), "sem canceladas")
		stat(w, "Jogadores", strconv.Itoa(stats.Players), "cadastrados no clube")
		w.Raw(`</section>`)
	})
}

func StatsUnavailable() templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section id="stats" class="stats"><div class="stat muted">Não foi possível carregar o resumo.</div></section>`)
	})
}

func stat(w *markup.Writer, label, value, helper string) {
	w.Raw(`<div class="stat"><span class="muted">`)
	w.Text(label)
	w.Raw(`</span><strong>`)
	w.Text(value)
	w.Raw(`</strong><small class="muted">`)
	w.Text(helper)
	w.Raw(`</small></div>`)
}

package courts

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/booking"
	"github.com/acebook/dashboard/internal/templates/layouts"
	"github.com/acebook/dashboard/internal/templates/markup"
)

func Page(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<p class="muted">Quadras do seu clube</p>`)
		if data.IsAdmin {
			w.Raw(`<button hx-get="/dashboard/courts/new" hx-target="#modal">Nova quadra</button>`)
		}
		w.Component(ctx, List(data))
	})
}

func List(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section id="court-list" hx-get="/dashboard/courts/list" hx-trigger="courts-changed from:body" hx-swap="outerHTML">`)
		if len(data.Courts) == 0 {
			w.Raw(`<p class="muted">Nenhuma quadra cadastrada.</p></section>`)
			return
		}
		for _, court := range data.Courts {
			card(w, court, data.IsAdmin)
		}
		w.Raw(`</section>`)
	})
}

func card(w *markup.Writer, court booking.Court, isAdmin bool) {
	id := strconv.FormatInt(court.ID, 10)
	w.Raw(`<article class="card court"><header><h2>`)
	w.Text(court.Name)
	w.Raw(`</h2><span class="badge">`)
	w.Text(court.Surface)
	w.Raw(`</span>`)
	if isAdmin {
		w.Raw(`<button aria-label="Editar quadra" hx-target="#modal"`)
		w.Attr("hx-get", "/dashboard/courts/"+id+"/edit")
		w.Raw(`>Editar</button><button aria-label="Remover quadra" hx-target="#modal"`)
		w.Attr("hx-get", "/dashboard/courts/"+id+"/delete")
		w.Raw(`>Remover</button>`)
	}
	w.Raw(`</header><p>`)
	if court.Covered {
		w.Raw(`Coberta`)
	} else {
		w.Raw(`Aberta`)
	}
	w.Raw(` · `)
	if court.Lights {
		w.Raw(`Iluminação noturna`)
	} else {
		w.Raw(`Sem luz`)
	}
	w.Raw(`</p><p>Status atual: `)
	w.Text(court.Status)
	w.Raw(`</p><p>Funcionamento: `)
	w.Text(formatTime(court.OpensAt))
	w.Raw(` - `)
	w.Text(formatTime(court.ClosesAt))
	w.Raw(`</p></article>`)
}

// formatTime trims seconds from "HH:MM:SS" values.
func formatTime(value string) string {
	if len(value) >= 5 {
		return value[:5]
	}
	return value
}

func Form(data FormData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		title := "Nova quadra"
		submit := "Adicionar"
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><form hx-target="#modal"`)
		if data.IsEdit() {
			title = "Editar " + data.Court.Name
			submit = "Salvar alterações"
			w.Attr("hx-put", "/dashboard/courts/"+strconv.FormatInt(data.ID, 10))
		} else {
			w.Attr("hx-post", "/dashboard/courts")
		}
		w.Raw(`><h2>`)
		w.Text(title)
		w.Raw(`</h2>`)
		w.Component(ctx, layouts.Alert("error", data.Error))

		w.Raw(`<label for="name">Nome da quadra</label><input id="name" name="name" required`)
		w.Attr("value", data.Court.Name)
		w.Raw(`>`)

		selectField(w, "surface", "Tipo de piso", []string{booking.SurfaceClay, booking.SurfaceHard}, data.Court.Surface)
		selectField(w, "status", "Status", []string{booking.CourtAvailable, booking.CourtMaintenance}, data.Court.Status)

		w.Raw(`<label><input type="checkbox" name="covered"`)
		w.BoolAttr("checked", data.Court.Covered)
		w.Raw(`> Coberta</label><label><input type="checkbox" name="lights"`)
		w.BoolAttr("checked", data.Court.Lights)
		w.Raw(`> Iluminação noturna</label>`)

		selectField(w, "opens_at", "Abre às", HourOptions(), formatTime(data.Court.OpensAt))
		selectField(w, "closes_at", "Fecha às", HourOptions(), formatTime(data.Court.ClosesAt))

		w.Raw(`<footer><button type="button" onclick="document.dispatchEvent(new Event('close-modal'))">Cancelar</button>`)
		w.Raw(`<button type="submit">`)
		w.Text(submit)
		w.Raw(`</button></footer></form></div></div>`)
	})
}

func DeleteConfirm(court booking.Court) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><h2>Remover quadra</h2><p>`)
		w.Textf(`Deseja remover definitivamente a quadra "%s"?`, court.Name)
		w.Raw(`</p><footer><button type="button" onclick="document.dispatchEvent(new Event('close-modal'))">Manter quadra</button>`)
		w.Raw(`<button class="danger" hx-target="#modal"`)
		w.Attr("hx-delete", "/dashboard/courts/"+strconv.FormatInt(court.ID, 10))
		w.Raw(`>Remover</button></footer></div></div>`)
	})
}

func selectField(w *markup.Writer, name, label string, options []string, selected string) {
	w.Raw(`<label`)
	w.Attr("for", name)
	w.Raw(`>`)
	w.Text(label)
	w.Raw(`</label><select`)
	w.Attr("id", name)
	w.Attr("name", name)
	w.Raw(`>`)
	for _, option := range options {
		w.Raw(`<option`)
		w.Attr("value", option)
		w.BoolAttr("selected", option == selected)
		w.Raw(`>`)
		w.Text(option)
		w.Raw(`</option>`)
	}
	w.Raw(`</select>`)
}

package coaches

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/templates/layouts"
	"github.com/acebook/dashboard/internal/templates/markup"
)

func Page(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<p class="muted">`)
		if data.IsAdmin {
			w.Raw(`Cadastre instrutores para aparecerem no painel dos atletas.`)
		} else {
			w.Raw(`Consulte aqui os instrutores disponíveis no seu clube.`)
		}
		w.Raw(`</p>`)
		if data.IsAdmin {
			w.Raw(`<button hx-get="/dashboard/coaches/new" hx-target="#modal">Novo instrutor</button>`)
		}
		w.Component(ctx, List(data))
	})
}

func List(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section id="coach-list" hx-get="/dashboard/coaches/list" hx-trigger="coaches-changed from:body" hx-swap="outerHTML">`)
		if len(data.Coaches) == 0 {
			w.Raw(`<p class="muted">`)
			if data.IsAdmin {
				w.Raw(`Nenhum instrutor cadastrado ainda. Clique em "Novo instrutor" para começar.`)
			} else {
				w.Raw(`Nenhum instrutor disponível no momento.`)
			}
			w.Raw(`</p></section>`)
			return
		}
		for _, coach := range data.Coaches {
			id := strconv.FormatInt(coach.ID, 10)
			w.Raw(`<article class="card coach"><h2>`)
			w.Text(coach.Name)
			w.Raw(`</h2>`)
			if coach.Phone != "" {
				w.Raw(`<p>`)
				if coach.TelURI != "" {
					w.Raw(`<a`)
					w.Attr("href", coach.TelURI)
					w.Raw(`>`)
					w.Text(coach.Phone)
					w.Raw(`</a>`)
				} else {
					w.Text(coach.Phone)
				}
				w.Raw(`</p>`)
			}
			if data.IsAdmin {
				w.Raw(`<button hx-target="#modal"`)
				w.Attr("hx-get", "/dashboard/coaches/"+id+"/edit")
				w.Raw(`>Editar</button><button hx-target="#modal"`)
				w.Attr("hx-delete", "/dashboard/coaches/"+id)
				w.Attr("hx-confirm", "Remover o instrutor "+coach.Name+"?")
				w.Raw(`>Remover</button>`)
			}
			w.Raw(`</article>`)
		}
		w.Raw(`</section>`)
	})
}

func Form(data FormData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><form hx-target="#modal"`)
		title := "Novo instrutor"
		if data.IsEdit() {
			title = "Editar instrutor"
			w.Attr("hx-put", "/dashboard/coaches/"+strconv.FormatInt(data.ID, 10))
		} else {
			w.Attr("hx-post", "/dashboard/coaches")
		}
		w.Raw(`><h2>`)
		w.Text(title)
		w.Raw(`</h2>`)
		w.Component(ctx, layouts.Alert("error", data.Error))
		w.Raw(`<label for="name">Nome</label><input id="name" name="name" required`)
		w.Attr("value", data.Coach.Name)
		w.Raw(`><label for="phone">Telefone</label><input id="phone" name="phone" type="tel" required placeholder="(11) 98765-4321"`)
		w.Attr("value", data.Coach.Phone)
		w.Raw(`><footer><button type="button" onclick="document.dispatchEvent(new Event('close-modal'))">Cancelar</button>`)
		w.Raw(`<button type="submit">Confirmar</button></footer></form></div></div>`)
	})
}

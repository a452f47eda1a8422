package users

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/templates/layouts"
	"github.com/acebook/dashboard/internal/templates/markup"
)

func Page(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<header class="page-header"><div><h1>Jogadores cadastrados</h1>`)
		w.Raw(`<p class="muted">Gerencie os atletas do seu clube e mantenha seus contatos atualizados.</p></div>`)
		w.Raw(`<input type="search" name="q" placeholder="Buscar por nome ou email" hx-get="/dashboard/users/list" hx-target="#player-list" hx-swap="outerHTML" hx-trigger="input changed delay:300ms, search"`)
		w.Attr("value", data.Query)
		w.Raw(`></header>`)
		w.Component(ctx, List(data))
	})
}

func List(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section id="player-list" class="grid" hx-get="/dashboard/users/list" hx-include="[name='q']" hx-trigger="users-changed from:body" hx-swap="outerHTML">`)
		if len(data.Players) == 0 {
			w.Raw(`<p class="muted">Nenhum jogador encontrado para os filtros selecionados.</p></section>`)
			return
		}
		for _, player := range data.Players {
			card(w, player)
		}
		w.Raw(`</section>`)
	})
}

func card(w *markup.Writer, player backend.User) {
	id := strconv.FormatInt(player.ID, 10)
	w.Raw(`<article class="card player"><span class="avatar">`)
	w.Text(initials(player.Name))
	w.Raw(`</span><div><p class="strong">`)
	w.Text(player.Name)
	w.Raw(`</p><p class="muted">`)
	w.Text(player.Email)
	w.Raw(`</p></div><div class="actions"><button aria-label="Editar jogador" hx-target="#modal"`)
	w.Attr("hx-get", "/dashboard/users/"+id+"/edit")
	w.Raw(`>Editar</button><button aria-label="Remover jogador" hx-target="#modal"`)
	w.Attr("hx-get", "/dashboard/users/"+id+"/delete")
	w.Raw(`>Remover</button></div></article>`)
}

// initials returns the first two letters of name, upper-cased.
func initials(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 2 {
		runes := []rune(name)
		name = string(runes[:2])
	}
	return strings.ToUpper(name)
}

func Form(data FormData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><form hx-target="#modal"`)
		w.Attr("hx-put", "/dashboard/users/"+strconv.FormatInt(data.ID, 10))
		w.Raw(`><h2>Editar jogador</h2><p class="muted">Atualize os dados visíveis para o atleta e para a equipe administrativa.</p>`)
		w.Component(ctx, layouts.Alert("error", data.Error))
		w.Raw(`<label for="name">Nome completo</label><input id="name" name="name" required`)
		w.Attr("value", data.Name)
		w.Raw(`><label for="email">Email</label><input id="email" name="email" type="email" required`)
		w.Attr("value", data.Email)
		w.Raw(`><footer><button type="button" onclick="document.dispatchEvent(new Event('close-modal'))">Cancelar</button>`)
		w.Raw(`<button type="submit">Salvar alterações</button></footer></form></div></div>`)
	})
}

func DeleteConfirm(player backend.User) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><h2>Remover jogador</h2><p>`)
		w.Textf("Confirme para remover %s do clube. Essa ação não pode ser desfeita.", player.Name)
		w.Raw(`</p><footer><button type="button" onclick="document.dispatchEvent(new Event('close-modal'))">Manter jogador</button>`)
		w.Raw(`<button class="danger" hx-target="#modal"`)
		w.Attr("hx-delete", "/dashboard/users/"+strconv.FormatInt(player.ID, 10))
		w.Raw(`>Remover</button></footer></div></div>`)
	})
}

package reservations

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/acebook/dashboard/internal/templates/layouts"
	"github.com/acebook/dashboard/internal/templates/markup"
)

const closeModal = `onclick="document.dispatchEvent(new Event('close-modal'))"`

func Page(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<header class="page-header"><div><h1>`)
		if data.IsAdmin {
			w.Raw(`Reservas</h1><p class="muted">Gerencie as marcações em todas as quadras do clube.</p>`)
		} else {
			w.Raw(`Minhas reservas</h1><p class="muted">Filtre por data para encontrar partidas passadas ou futuras.</p>`)
		}
		w.Raw(`</div><button hx-get="/dashboard/reservations/new" hx-target="#modal">Nova reserva</button></header>`)
		w.Component(ctx, List(data))
	})
}

// List renders the range filter together with the table so a server-side
// range correction is reflected in the inputs.
func List(data ListData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<section id="reservation-list" hx-get="/dashboard/reservations/list" hx-include="#reservation-filter" hx-trigger="reservations-changed from:body" hx-swap="outerHTML">`)
		w.Raw(`<form id="reservation-filter" class="filters" hx-get="/dashboard/reservations/list" hx-target="#reservation-list" hx-swap="outerHTML" hx-trigger="change">`)
		w.Raw(`<label for="range-from">Data inicial</label><input type="date" id="range-from" name="from"`)
		w.Attr("value", data.From)
		w.Raw(`><label for="range-to">Data final</label><input type="date" id="range-to" name="to"`)
		w.Attr("value", data.To)
		if data.From != "" {
			w.Attr("min", data.From)
		}
		w.Raw(`></form>`)

		if len(data.Rows) == 0 {
			w.Raw(`<div class="empty"><p class="strong">Nenhuma reserva encontrada</p><p class="muted">Ajuste o período acima ou crie uma nova reserva.</p>`)
			w.Raw(`<button hx-get="/dashboard/reservations/new" hx-target="#modal">Nova reserva</button></div></section>`)
			return
		}

		w.Raw(`<p class="muted">`)
		w.Textf("%d reserva(s) encontradas para o período selecionado.", len(data.Rows))
		w.Raw(`</p><table><thead><tr><th>Data</th><th>Horário</th>`)
		if data.IsAdmin {
			w.Raw(`<th>Jogador</th>`)
		}
		w.Raw(`<th>Quadra</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			tableRow(w, row, data.IsAdmin)
		}
		w.Raw(`</tbody></table></section>`)
	})
}

func tableRow(w *markup.Writer, row Row, isAdmin bool) {
	id := strconv.FormatInt(row.ID, 10)
	w.Raw(`<tr><td>`)
	w.Text(row.Date)
	w.Raw(`</td><td>`)
	w.Text(row.TimeRange)
	w.Raw(`</td>`)
	if isAdmin {
		w.Raw(`<td>`)
		w.Text(row.PlayerName)
		w.Raw(`</td>`)
	}
	w.Raw(`<td>`)
	w.Text(row.CourtName)
	w.Raw(`</td><td><span class="badge">`)
	w.Text(row.Status)
	w.Raw(`</span></td><td class="actions">`)
	if row.CanEdit {
		w.Raw(`<button hx-target="#modal"`)
		w.Attr("hx-get", "/dashboard/reservations/"+id+"/edit")
		w.Raw(`>Editar</button>`)
	}
	w.Raw(`<button hx-target="#modal"`)
	w.Attr("hx-get", "/dashboard/reservations/"+id+"/cancel")
	w.BoolAttr("disabled", !row.CanCancel)
	w.Raw(`>Cancelar</button></td></tr>`)
}

func dialogPath(dialogID, suffix string) string {
	path := "/dashboard/reservations/dialogs/" + dialogID
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

// displayDate shows a "2006-01-02" value as dd/mm/yyyy.
func displayDate(value string) string {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return parsed.Format("02/01/2006")
}

// Dialog is the new/edit reservation modal. Every field change is posted to
// the server-side dialog state and answered with a fresh slots fragment.
func Dialog(data DialogData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><form hx-target="#modal" hx-disabled-elt="find button[type=submit]"`)
		w.Attr("hx-post", dialogPath(data.DialogID, ""))
		w.Raw(`><h2>`)
		if data.IsEdit {
			w.Raw(`Editar reserva`)
		} else {
			w.Raw(`Nova reserva`)
		}
		w.Raw(`</h2><p class="muted">Escolha data, horário e quadra para confirmar a partida.</p>`)
		w.Component(ctx, layouts.Alert("error", data.Error))

		if data.IsAdmin {
			w.Raw(`<label for="player">Jogador</label><select id="player" name="player" hx-trigger="change" hx-swap="none"`)
			w.Attr("hx-post", dialogPath(data.DialogID, "player"))
			w.Raw(`><option value="">Selecione</option>`)
			for _, player := range data.Players {
				w.Raw(`<option`)
				w.Attr("value", strconv.FormatInt(player.ID, 10))
				w.BoolAttr("selected", player.ID == data.PlayerID)
				w.Raw(`>`)
				w.Text(player.Name)
				w.Raw(`</option>`)
			}
			w.Raw(`</select>`)
		}

		if data.IsAdmin {
			w.Raw(`<label for="date">Data</label><input type="date" id="date" name="date" hx-trigger="change" hx-target="#slots" hx-swap="outerHTML"`)
			w.Attr("hx-post", dialogPath(data.DialogID, "date"))
			w.Attr("value", data.Date)
			w.Attr("min", data.MinDate)
			w.Raw(`>`)
		} else {
			w.Raw(`<label>Data</label><p class="field-value">`)
			w.Text(displayDate(data.Date))
			w.Raw(`</p>`)
		}

		w.Raw(`<label for="court">Quadra</label><select id="court" name="court" hx-trigger="change" hx-target="#slots" hx-swap="outerHTML"`)
		w.Attr("hx-post", dialogPath(data.DialogID, "court"))
		w.Raw(`><option value="">Selecione</option>`)
		for _, court := range data.Courts {
			w.Raw(`<option`)
			w.Attr("value", strconv.FormatInt(court.ID, 10))
			w.BoolAttr("selected", court.ID == data.CourtID)
			w.Raw(`>`)
			w.Text(court.Name)
			w.Raw(`</option>`)
		}
		w.Raw(`</select><label>Horário</label>`)
		w.Component(ctx, Slots(data.Slots))

		w.Raw(`<footer><button type="button" hx-target="#modal"`)
		w.Attr("hx-delete", dialogPath(data.DialogID, ""))
		w.Raw(`>Cancelar</button><button type="submit">`)
		if data.IsEdit {
			w.Raw(`Salvar alterações`)
		} else {
			w.Raw(`Confirmar`)
		}
		w.Raw(`</button></footer></form></div></div>`)
	})
}

// Slots renders the hour picker. Admins get a select; players get a button grid.
func Slots(data SlotsData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		hourPath := dialogPath(data.DialogID, "hour")
		w.Raw(`<div id="slots" class="slots">`)
		w.Component(ctx, layouts.Alert("error", data.Error))

		if data.IsAdmin {
			w.Raw(`<select name="hour" hx-trigger="change" hx-target="#slots" hx-swap="outerHTML"`)
			w.Attr("hx-post", hourPath)
			w.Raw(`><option value="">Selecione</option>`)
			for _, option := range data.Options {
				w.Raw(`<option`)
				w.Attr("value", option.Hour)
				w.BoolAttr("disabled", option.Disabled)
				w.BoolAttr("selected", option.Selected)
				w.Raw(`>`)
				w.Text(option.Hour)
				w.Raw(`</option>`)
			}
			w.Raw(`</select></div>`)
			return
		}

		w.Raw(`<div class="slot-grid">`)
		for _, option := range data.Options {
			vals, _ := json.Marshal(map[string]string{"hour": option.Hour})
			w.Raw(`<button type="button" hx-target="#slots" hx-swap="outerHTML"`)
			if option.Selected {
				w.Raw(` class="selected" aria-pressed="true"`)
			}
			w.Attr("hx-post", hourPath)
			w.Attr("hx-vals", string(vals))
			w.BoolAttr("disabled", option.Disabled)
			w.Raw(`>`)
			w.Text(option.Hour)
			w.Raw(`</button>`)
		}
		w.Raw(`</div>`)
		if data.AllDisabled {
			w.Raw(`<p class="muted">Sem horários disponíveis para hoje.</p>`)
		}
		w.Raw(`</div>`)
	})
}

func CancelConfirm(data CancelData) templ.Component {
	return markup.Component(func(ctx context.Context, w *markup.Writer) {
		w.Raw(`<div class="dialog" role="dialog"><div class="dialog-body"><h2>Cancelar reserva</h2><p>`)
		w.Textf("Essa ação removerá a reserva de %s (%s, %s às %s). Deseja continuar?", data.PlayerName, data.CourtName, data.Date, data.TimeRange)
		w.Raw(`</p><footer><button type="button" `)
		w.Raw(closeModal)
		w.Raw(`>Não cancelar</button><button class="danger" hx-target="#modal"`)
		w.Attr("hx-delete", "/dashboard/reservations/"+strconv.FormatInt(data.ID, 10))
		w.Raw(`>Cancelar reserva</button></footer></div></div>`)
	})
}

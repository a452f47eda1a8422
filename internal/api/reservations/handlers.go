// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/acebook/dashboard/internal/api/apiutil"
	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/api/htmx"
	"github.com/acebook/dashboard/internal/api/nav"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/booking"
	"github.com/acebook/dashboard/internal/email"
	"github.com/acebook/dashboard/internal/request"
	restempl "github.com/acebook/dashboard/internal/templates/components/reservations"
	"github.com/acebook/dashboard/internal/templates/layouts"
)

const requestTimeout = 10 * time.Second

var (
	client  *backend.Client
	dialogs *DialogRegistry
	mailer  email.Sender
	now     = time.Now
)

var errDialogExpired = apiutil.HandlerError{
	Status:  http.StatusGone,
	Message: "Esta janela de reserva expirou. Abra uma nova reserva.",
}

// InitHandlers must be called during server startup. A nil sender disables
// reservation emails.
func InitHandlers(c *backend.Client, registry *DialogRegistry, sender email.Sender) {
	client = c
	dialogs = registry
	mailer = sender
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

func location() *time.Location {
	if client == nil {
		return time.Local
	}
	return client.Location()
}

func localNow() time.Time {
	return now().In(location())
}

func loadReservations(ctx context.Context, api *backend.Client) ([]booking.Reservation, error) {
	rows, err := api.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return backend.BookingReservations(rows, api.Location()), nil
}

func renderList(w http.ResponseWriter, r *http.Request, page bool) {
	api, user, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	current := localNow()
	rng, err := parseRange(r, booking.StartOfDay(current), location())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	all, err := loadReservations(ctx, api)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	data := listData(all, user, rng, current)
	if page {
		title := "Minhas reservas"
		if data.IsAdmin {
			title = "Reservas"
		}
		apiutil.RenderHTML(w, r, http.StatusOK, layouts.Base(nav.Page(r, title), restempl.Page(data)))
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, restempl.List(data))
}

// HandleReservationsPage renders GET /dashboard/reservations.
func HandleReservationsPage(w http.ResponseWriter, r *http.Request) {
	renderList(w, r, true)
}

// HandleReservationsList renders the filtered table for GET /dashboard/reservations/list.
func HandleReservationsList(w http.ResponseWriter, r *http.Request) {
	renderList(w, r, false)
}

// HandleNewReservation opens a dialog for a new booking.
func HandleNewReservation(w http.ResponseWriter, r *http.Request) {
	openReservationDialog(w, r, 0)
}

// HandleEditReservation opens a dialog preloaded with reservation {id}.
func HandleEditReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}
	openReservationDialog(w, r, id)
}

func openReservationDialog(w http.ResponseWriter, r *http.Request, editID int64) {
	logger := log.Ctx(r.Context())

	api, user, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if dialogs == nil {
		logger.Error().Msg("Reservation dialog registry not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	isAdmin := authz.IsAdmin(user)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		courts       []booking.Court
		reservations []booking.Reservation
		players      []booking.Player
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courts, err = api.ListCourts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = loadReservations(gctx, api)
		return err
	})
	if isAdmin {
		g.Go(func() error {
			users, err := api.ListUsers(gctx, backend.RolePlayer)
			if err != nil {
				return err
			}
			players = make([]booking.Player, 0, len(users))
			for _, u := range users {
				players = append(players, booking.Player{ID: u.ID, Name: u.Name, Email: u.Email})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var initial *booking.Reservation
	if editID > 0 {
		for i := range reservations {
			if reservations[i].ID == editID && authz.CanViewReservation(user, reservations[i].PlayerID) {
				initial = &reservations[i]
				break
			}
		}
		if initial == nil {
			http.Error(w, "Reservation not found", http.StatusNotFound)
			return
		}
	}

	session := booking.NewSession(booking.SessionConfig{
		Courts:          courts,
		Players:         players,
		Reservations:    reservations,
		CurrentPlayerID: user.ID,
		IsAdmin:         isAdmin,
		Initial:         initial,
		Lookup:          api,
		Submitter:       api,
		Clock:           clockFunc(localNow),
	})
	session.RefreshOccupancy(ctx)

	dialogID := dialogs.Open(user.ID, session)
	logger.Debug().Str("dialog_id", dialogID).Int64("reservation_id", editID).Msg("Reservation dialog opened")

	apiutil.RenderHTML(w, r, http.StatusOK, restempl.Dialog(dialogData(dialogID, session, "")))
}

func dialogData(dialogID string, session *booking.Session, message string) restempl.DialogData {
	view := session.View()
	return restempl.DialogData{
		DialogID: dialogID,
		IsEdit:   view.IsEdit,
		IsAdmin:  view.IsAdmin,
		Date:     formatDay(view.Date),
		MinDate:  booking.DateKey(localNow()),
		CourtID:  view.CourtID,
		PlayerID: view.PlayerID,
		Courts:   session.Courts(),
		Players:  session.Players(),
		Slots:    slotsData(dialogID, view, ""),
		Error:    message,
	}
}

func slotsData(dialogID string, view booking.SlotView, message string) restempl.SlotsData {
	return restempl.SlotsData{
		DialogID:    dialogID,
		IsAdmin:     view.IsAdmin,
		Options:     view.Options,
		AllDisabled: view.AllDisabled,
		Error:       message,
	}
}

func lookupDialog(w http.ResponseWriter, r *http.Request) (string, *booking.Session, *authz.AuthUser, bool) {
	user, err := authz.RequireAuthenticated(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return "", nil, nil, false
	}
	dialogID := r.PathValue("dialog")
	if dialogs == nil || dialogID == "" {
		apiutil.WriteError(w, r, errDialogExpired)
		return "", nil, nil, false
	}
	session, ok := dialogs.Get(dialogID, user.ID)
	if !ok {
		apiutil.WriteError(w, r, errDialogExpired)
		return "", nil, nil, false
	}
	return dialogID, session, user, true
}

// HandleDialogField applies one field change (date, court, hour or player)
// posted by an open dialog and answers with the refreshed slots.
func HandleDialogField(w http.ResponseWriter, r *http.Request) {
	dialogID, session, _, ok := lookupDialog(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var message string
	switch r.PathValue("field") {
	case "date":
		date, err := apiutil.ParseDateField(r.FormValue("date"), "date", location())
		if err != nil {
			message = "Informe uma data válida."
			break
		}
		if err := session.SelectDate(date); err != nil {
			if errors.Is(err, booking.ErrDateLocked) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			message = "Escolha uma data a partir de hoje."
			break
		}
		session.RefreshOccupancy(ctx)
	case "court":
		courtID, err := apiutil.ParseOptionalInt64Field(r.FormValue("court"), "court")
		if err != nil {
			message = "Selecione uma quadra válida."
			break
		}
		session.SelectCourt(courtID)
		session.RefreshOccupancy(ctx)
	case "hour":
		switch err := session.SelectHour(strings.TrimSpace(r.FormValue("hour"))); {
		case errors.Is(err, booking.ErrSlotUnavailable):
			message = "Este horário não está mais disponível."
		case errors.Is(err, booking.ErrUnknownHour):
			message = "Escolha um horário da lista."
		}
	case "player":
		playerID, err := apiutil.ParseOptionalInt64Field(r.FormValue("player"), "player")
		if err != nil {
			http.Error(w, "Invalid player", http.StatusBadRequest)
			return
		}
		session.SelectPlayer(playerID)
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		http.NotFound(w, r)
		return
	}

	status := http.StatusOK
	if message != "" {
		status = http.StatusUnprocessableEntity
	}
	apiutil.RenderHTML(w, r, status, restempl.Slots(slotsData(dialogID, session.View(), message)))
}

// HandleDialogSubmit validates and saves the dialog's selection. Failures keep
// the dialog open with the message; success closes it.
func HandleDialogSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	dialogID, session, user, ok := lookupDialog(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	saved, err := session.Submit(ctx)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionClosed):
			dialogs.Close(dialogID)
			apiutil.WriteError(w, r, errDialogExpired)
			return
		case errors.Is(err, backend.ErrUnauthorized):
			apiutil.WriteError(w, r, err)
			return
		}
		logger.Info().Err(err).Str("dialog_id", dialogID).Msg("Reservation rejected")
		apiutil.RenderHTML(w, r, http.StatusUnprocessableEntity, restempl.Dialog(dialogData(dialogID, session, booking.UserMessage(err))))
		return
	}
	dialogs.Close(dialogID)

	isEdit := session.IsEdit()
	logger.Info().
		Int64("reservation_id", saved.ID).
		Int64("court_id", saved.CourtID).
		Time("start", saved.Start).
		Bool("update", isEdit).
		Msg("Reservation saved")

	if !isEdit {
		sendReservationEmail(r.Context(), user, session.Players(), saved, session.Courts(), email.BuildReservationConfirmation)
	}

	toast := "Reserva criada com sucesso!"
	if isEdit {
		toast = "Reserva atualizada"
	}
	htmx.Trigger(w, map[string]any{"reservations-changed": nil})
	htmx.Toast(w, "success", toast)
	w.WriteHeader(http.StatusOK)
}

// HandleCloseDialog discards an open dialog and empties the modal.
func HandleCloseDialog(w http.ResponseWriter, r *http.Request) {
	user, err := authz.RequireAuthenticated(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if dialogs != nil {
		if _, ok := dialogs.Get(r.PathValue("dialog"), user.ID); ok {
			dialogs.Close(r.PathValue("dialog"))
		}
	}
	w.WriteHeader(http.StatusOK)
}

func findReservation(ctx context.Context, api *backend.Client, user *authz.AuthUser, id int64) (booking.Reservation, bool, error) {
	all, err := loadReservations(ctx, api)
	if err != nil {
		return booking.Reservation{}, false, err
	}
	for _, reservation := range all {
		if reservation.ID == id && authz.CanViewReservation(user, reservation.PlayerID) {
			return reservation, true, nil
		}
	}
	return booking.Reservation{}, false, nil
}

func cancellable(w http.ResponseWriter, r *http.Request) (*backend.Client, *authz.AuthUser, booking.Reservation, bool) {
	api, user, err := apiutil.UserClient(r, client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return nil, nil, booking.Reservation{}, false
	}
	id, ok := request.PathID(r, "id")
	if !ok {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return nil, nil, booking.Reservation{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	reservation, found, err := findReservation(ctx, api, user, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return nil, nil, booking.Reservation{}, false
	}
	if !found {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return nil, nil, booking.Reservation{}, false
	}
	if !reservation.Start.After(localNow()) {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Reservas que já começaram não podem ser canceladas.",
		})
		return nil, nil, booking.Reservation{}, false
	}
	return api, user, reservation, true
}

// HandleCancelConfirm renders the confirmation for GET /dashboard/reservations/{id}/cancel.
func HandleCancelConfirm(w http.ResponseWriter, r *http.Request) {
	_, _, reservation, ok := cancellable(w, r)
	if !ok {
		return
	}
	apiutil.RenderHTML(w, r, http.StatusOK, restempl.CancelConfirm(restempl.CancelData{
		ID:         reservation.ID,
		PlayerName: reservation.PlayerName,
		CourtName:  reservation.CourtName,
		Date:       reservation.Start.Format("02/01/2006"),
		TimeRange:  timeRange(reservation),
	}))
}

// HandleCancelReservation serves DELETE /dashboard/reservations/{id}.
func HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
	api, user, reservation, ok := cancellable(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := api.DeleteReservation(ctx, reservation.ID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().Int64("reservation_id", reservation.ID).Msg("Reservation cancelled")

	var players []booking.Player
	if mailer != nil && reservation.PlayerID != user.ID {
		players = lookupPlayers(ctx, api)
	}
	sendReservationEmail(r.Context(), user, players, reservation, nil, email.BuildReservationCancellation)

	htmx.Trigger(w, map[string]any{"reservations-changed": nil})
	htmx.Toast(w, "success", "Reserva cancelada e removida.")
	w.WriteHeader(http.StatusOK)
}

func lookupPlayers(ctx context.Context, api *backend.Client) []booking.Player {
	users, err := api.ListUsers(ctx, backend.RolePlayer)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to load players for reservation email")
		return nil
	}
	players := make([]booking.Player, 0, len(users))
	for _, u := range users {
		players = append(players, booking.Player{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return players
}

// sendReservationEmail mails the reservation's player. The signed-in user is
// the recipient for their own bookings; otherwise the player is looked up in players.
func sendReservationEmail(ctx context.Context, user *authz.AuthUser, players []booking.Player, reservation booking.Reservation, courts []booking.Court, build func(email.ReservationDetails) email.Message) {
	if mailer == nil || user == nil {
		return
	}

	recipient, name := "", reservation.PlayerName
	if reservation.PlayerID == 0 || reservation.PlayerID == user.ID {
		recipient = user.Email
		if name == "" {
			name = user.Name
		}
	} else {
		for _, player := range players {
			if player.ID == reservation.PlayerID {
				recipient = player.Email
				if name == "" {
					name = player.Name
				}
				break
			}
		}
	}

	courtName := reservation.CourtName
	if courtName == "" {
		for _, court := range courts {
			if court.ID == reservation.CourtID {
				courtName = court.Name
				break
			}
		}
	}

	email.SendAsync(ctx, mailer, recipient, build(email.ReservationDetails{
		ReservationID: reservation.ID,
		ClubName:      user.ClubName,
		PlayerName:    name,
		Court:         courtName,
		Start:         reservation.Start,
		End:           reservation.End,
	}), log.Ctx(ctx))
}

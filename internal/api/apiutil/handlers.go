package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/api/auth"
	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/api/htmx"
	"github.com/acebook/dashboard/internal/backend"
)

const msgBackendUnavailable = "Não foi possível falar com o servidor. Tente novamente."

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderHTML buffers the component so a render failure can still become a 500.
func RenderHTML(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to render component")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// BackendError maps a backend client error to a HandlerError. Backend
// messages are passed through; transport failures get a generic message.
func BackendError(err error) HandlerError {
	var apiErr backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		switch {
		case status == http.StatusUnauthorized:
		case status == http.StatusForbidden, status == http.StatusNotFound:
		case status >= 400 && status < 500:
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusBadGateway
		}
		return HandlerError{Status: status, Message: apiErr.Message, Err: err}
	}
	return HandlerError{Status: http.StatusBadGateway, Message: msgBackendUnavailable, Err: err}
}

// WriteError writes err for the browser. A rejected backend token ends the
// session and sends the user to the login page.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, authz.ErrUnauthenticated) {
		logger.Info().Msg("Backend rejected session token")
		auth.ClearSession(w, r)
		htmx.Redirect(w, r, "/login")
		return
	}

	var handlerErr HandlerError
	if !errors.As(err, &handlerErr) {
		handlerErr = BackendError(err)
	}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		handlerErr = HandlerError{Status: http.StatusBadRequest, Message: fieldErr.Error(), Err: err}
	}

	if handlerErr.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", handlerErr.Status).Msg("Request failed")
	} else {
		logger.Warn().Err(err).Int("status", handlerErr.Status).Msg("Request rejected")
	}

	if htmx.IsRequest(r) {
		htmx.Toast(w, "error", handlerErr.Message)
	}
	http.Error(w, handlerErr.Message, handlerErr.Status)
}

// UserClient returns base authenticated as the request's user.
func UserClient(r *http.Request, base *backend.Client) (*backend.Client, *authz.AuthUser, error) {
	user, err := authz.RequireAuthenticated(r.Context())
	if err != nil {
		return nil, nil, HandlerError{Status: http.StatusUnauthorized, Message: "Sessão expirada. Entre novamente.", Err: err}
	}
	if base == nil {
		return nil, nil, HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error", Err: errors.New("backend client not initialized")}
	}
	return base.WithToken(user.Token), user, nil
}

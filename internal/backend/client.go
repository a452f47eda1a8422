// Package backend is the REST client for the club backend that owns courts,
// coaches, players and reservations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acebook/dashboard/internal/booking"
)

const defaultTimeout = 10 * time.Second

// ErrUnauthorized marks a 401 from the backend; callers drop the session.
var ErrUnauthorized = errors.New("backend rejected credentials")

// APIError is a non-2xx backend response. Message is suitable for display.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
}

func (e APIError) Error() string {
	return e.Message
}

func (e APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Location   *time.Location
	HTTPClient *http.Client
}

// Client talks to the backend. The zero token is anonymous; use WithToken for
// authenticated calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	token      string
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		location:   loc,
	}
}

// WithToken returns a copy of c that authenticates as the holder of token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Location is the zone naive backend timestamps are read in.
func (c *Client) Location() *time.Location {
	return c.location
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		message := errorMessage(raw)
		if message == "" {
			message = "Falha ao chamar " + endpoint
		}
		return APIError{Status: resp.StatusCode, Endpoint: endpoint, Message: message}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// errorMessage extracts display text from an error body: a JSON string, an
// array joined by spaces, an object's "detail", or every object value
// flattened one level. Non-JSON bodies are returned as is.
func errorMessage(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return text
	}

	switch value := parsed.(type) {
	case string:
		return value
	case []any:
		return joinValues(value)
	case map[string]any:
		if detail, ok := value["detail"].(string); ok && detail != "" {
			return detail
		}
		return joinObjectValues(raw)
	default:
		return text
	}
}

// joinObjectValues walks the object in document order so field errors keep
// the order the backend sent them in.
func joinObjectValues(raw []byte) string {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if _, err := decoder.Token(); err != nil {
		return ""
	}

	var parts []string
	for decoder.More() {
		if _, err := decoder.Token(); err != nil {
			break
		}
		var value any
		if err := decoder.Decode(&value); err != nil {
			break
		}
		if list, ok := value.([]any); ok {
			parts = append(parts, joinValues(list))
			continue
		}
		parts = append(parts, stringify(value))
	}
	return strings.Join(parts, " ")
}

func joinValues(values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, stringify(value))
	}
	return strings.Join(parts, " ")
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case nil:
		return "null"
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s%d/", prefix, id)
}

func withQuery(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}

// Login exchanges credentials for access and refresh tokens.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	return result, err
}

// Me returns the user owning the client's token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/me/", nil, &user)
	return user, err
}

func (c *Client) Register(ctx context.Context, payload RegisterPayload) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/auth/register/", payload, &user)
	return user, err
}

func (c *Client) ListCourts(ctx context.Context) ([]booking.Court, error) {
	var courts []booking.Court
	err := c.do(ctx, http.MethodGet, "/courts/", nil, &courts)
	return courts, err
}

func (c *Client) CreateCourt(ctx context.Context, input CourtInput) (booking.Court, error) {
	var court booking.Court
	err := c.do(ctx, http.MethodPost, "/courts/", input, &court)
	return court, err
}

func (c *Client) UpdateCourt(ctx context.Context, id int64, input CourtInput) (booking.Court, error) {
	var court booking.Court
	err := c.do(ctx, http.MethodPatch, idPath("/courts/", id), input, &court)
	return court, err
}

func (c *Client) DeleteCourt(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/courts/", id), nil, nil)
}

func (c *Client) ListCoaches(ctx context.Context) ([]Coach, error) {
	var coaches []Coach
	err := c.do(ctx, http.MethodGet, "/coaches/", nil, &coaches)
	return coaches, err
}

func (c *Client) CreateCoach(ctx context.Context, input CoachInput) (Coach, error) {
	var coach Coach
	err := c.do(ctx, http.MethodPost, "/coaches/", input, &coach)
	return coach, err
}

func (c *Client) UpdateCoach(ctx context.Context, id int64, input CoachInput) (Coach, error) {
	var coach Coach
	err := c.do(ctx, http.MethodPatch, idPath("/coaches/", id), input, &coach)
	return coach, err
}

func (c *Client) DeleteCoach(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/coaches/", id), nil, nil)
}

func (c *Client) ListReservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	err := c.do(ctx, http.MethodGet, "/reservations/", nil, &reservations)
	return reservations, err
}

func (c *Client) CreateReservation(ctx context.Context, payload booking.Payload) (Reservation, error) {
	var reservation Reservation
	err := c.do(ctx, http.MethodPost, "/reservations/", payload, &reservation)
	return reservation, err
}

func (c *Client) UpdateReservation(ctx context.Context, id int64, payload booking.Payload) (Reservation, error) {
	var reservation Reservation
	err := c.do(ctx, http.MethodPatch, idPath("/reservations/", id), payload, &reservation)
	return reservation, err
}

func (c *Client) DeleteReservation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/reservations/", id), nil, nil)
}

// Occupied implements booking.AvailabilityLookup.
func (c *Client) Occupied(ctx context.Context, courtID int64, dateKey string) ([]string, error) {
	query := url.Values{}
	query.Set("court", strconv.FormatInt(courtID, 10))
	query.Set("date", dateKey)

	var resp availabilityResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/reservations/availability/", query), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Occupied, nil
}

// SubmitReservation implements booking.Submitter: payloads carrying an id
// update that reservation, others create a new one.
func (c *Client) SubmitReservation(ctx context.Context, payload booking.Payload) (booking.Reservation, error) {
	var (
		saved Reservation
		err   error
	)
	if payload.ID != nil {
		saved, err = c.UpdateReservation(ctx, *payload.ID, payload)
	} else {
		saved, err = c.CreateReservation(ctx, payload)
	}
	if err != nil {
		var apiErr APIError
		if errors.As(err, &apiErr) {
			return booking.Reservation{}, booking.SubmitError{Message: apiErr.Message, Err: err}
		}
		return booking.Reservation{}, booking.SubmitError{Message: "Não foi possível salvar a reserva.", Err: err}
	}

	// The backend has stored the reservation; an unreadable echo must not
	// turn into a failure the user would retry.
	converted, err := saved.Booking(c.location)
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Int64("reservation_id", saved.ID).
			Msg("Saved reservation has unreadable fields; using submitted values")
		return submittedReservation(saved, payload, c.location), nil
	}
	return converted, nil
}

// submittedReservation fills the parts of saved the backend echoed back in an
// unreadable form from the payload that was sent.
func submittedReservation(saved Reservation, payload booking.Payload, loc *time.Location) booking.Reservation {
	out := booking.Reservation{
		ID:         saved.ID,
		CourtID:    saved.Court,
		CourtName:  saved.CourtName,
		PlayerID:   saved.Player,
		PlayerName: saved.PlayerName,
		Status:     saved.Status,
		Type:       saved.Type,
	}
	if out.ID == 0 && payload.ID != nil {
		out.ID = *payload.ID
	}
	if out.CourtID == 0 {
		out.CourtID = payload.Court
	}
	if out.PlayerID == 0 && payload.Player != nil {
		out.PlayerID = *payload.Player
	}
	if out.Type == "" {
		out.Type = payload.Type
	}

	start, err := ParseTimestamp(saved.StartTime, loc)
	if err != nil {
		start, _ = ParseTimestamp(payload.StartTime, loc)
	}
	end, err := ParseTimestamp(saved.EndTime, loc)
	if err != nil || !end.After(start) {
		end, err = ParseTimestamp(payload.EndTime, loc)
		if err != nil {
			end = start.Add(booking.SlotDuration)
		}
	}
	out.Start = start
	out.End = end
	return out
}

// ListUsers lists club users, optionally filtered by role.
func (c *Client) ListUsers(ctx context.Context, role string) ([]User, error) {
	query := url.Values{}
	if role != "" {
		query.Set("role", role)
	}
	var users []User
	err := c.do(ctx, http.MethodGet, withQuery("/club-users/", query), nil, &users)
	return users, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPatch, idPath("/club-users/", id), update, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/club-users/", id), nil, nil)
}

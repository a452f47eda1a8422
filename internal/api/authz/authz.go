package authz

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// AuthUser is the signed-in user resolved from the session cookie. Token is
// the backend access token used for calls made on the user's behalf.
type AuthUser struct {
	ID        int64
	Name      string
	Email     string
	Role      string
	ClubName  string
	SessionID string
	Token     string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether user manages the club.
func IsAdmin(user *AuthUser) bool {
	return user != nil && strings.EqualFold(user.Role, RoleAdmin)
}

// NormalizeRole maps unknown roles to player.
func NormalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), RoleAdmin) {
		return RoleAdmin
	}
	return RolePlayer
}

func RequireAuthenticated(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireRole allows admins everywhere and players only on player routes.
func RequireRole(ctx context.Context, role string) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if IsAdmin(user) {
		return nil
	}
	if NormalizeRole(role) == RolePlayer {
		return nil
	}
	return ErrForbidden
}

// CanViewReservation reports whether user may see a reservation held by playerID.
// Players only see their own bookings.
func CanViewReservation(user *AuthUser, playerID int64) bool {
	if user == nil {
		return false
	}
	return IsAdmin(user) || user.ID == playerID
}

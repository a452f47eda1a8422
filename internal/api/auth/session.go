package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/db"
)

const (
	sessionCookieName = "acebook_session"
	defaultSessionTTL = 8 * time.Hour
	nonceSize         = 24
)

var (
	errAuthConfigMissing = errors.New("auth configuration missing")
	errSealedToken       = errors.New("sealed token is corrupt")
)

// now is swapped in tests.
var now = time.Now

func isSecureCookie() bool {
	return appConfig == nil || !appConfig.IsDevelopment()
}

func sessionTTL() time.Duration {
	if appConfig == nil || appConfig.SessionTTL() <= 0 {
		return defaultSessionTTL
	}
	return appConfig.SessionTTL()
}

func sealKey() (*[32]byte, error) {
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return nil, errAuthConfigMissing
	}
	key := sha256.Sum256([]byte(appConfig.App.SecretKey))
	return &key, nil
}

func sealToken(token string) ([]byte, error) {
	key, err := sealKey()
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], []byte(token), &nonce, key), nil
}

func openToken(sealed []byte) (string, error) {
	key, err := sealKey()
	if err != nil {
		return "", err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", errSealedToken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return "", errSealedToken
	}
	return string(plain), nil
}

// CreateSession stores the backend tokens for user and sets the session cookie.
// Earlier sessions of the same user are dropped.
func CreateSession(ctx context.Context, w http.ResponseWriter, login backend.LoginResult) (*authz.AuthUser, error) {
	if w == nil {
		return nil, errors.New("session requires response writer")
	}
	if queries == nil {
		return nil, errors.New("auth queries not initialized")
	}

	sealedAccess, err := sealToken(login.Access)
	if err != nil {
		return nil, fmt.Errorf("seal access token: %w", err)
	}
	var sealedRefresh []byte
	if login.Refresh != "" {
		if sealedRefresh, err = sealToken(login.Refresh); err != nil {
			return nil, fmt.Errorf("seal refresh token: %w", err)
		}
	}

	if err := queries.DeleteSessionsForUser(ctx, login.User.ID); err != nil {
		return nil, fmt.Errorf("clear sessions: %w", err)
	}

	user := &authz.AuthUser{
		ID:        login.User.ID,
		Name:      displayName(login.User),
		Email:     login.User.Email,
		Role:      authz.NormalizeRole(login.User.Role),
		SessionID: uuid.NewString(),
		Token:     login.Access,
	}
	if login.User.Club != nil {
		user.ClubName = login.User.Club.Name
	}

	createdAt := now()
	expiresAt := createdAt.Add(sessionTTL())
	err = queries.CreateSession(ctx, db.CreateSessionParams{
		ID:            user.SessionID,
		UserID:        user.ID,
		Role:          user.Role,
		Name:          user.Name,
		Email:         user.Email,
		ClubName:      user.ClubName,
		SealedAccess:  sealedAccess,
		SealedRefresh: sealedRefresh,
		CreatedAt:     createdAt,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    user.SessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(sessionTTL().Seconds()),
	})

	return user, nil
}

func displayName(user backend.User) string {
	switch {
	case user.Name != "":
		return user.Name
	case user.Username != "":
		return user.Username
	default:
		return user.Email
	}
}

// UserFromRequest resolves the session cookie. Unknown, expired or unreadable
// sessions clear the cookie and yield a nil user.
func UserFromRequest(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, error) {
	if r == nil {
		return nil, nil
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	if queries == nil {
		ClearSessionCookie(w)
		return nil, errors.New("auth queries not initialized")
	}

	session, err := queries.GetSession(r.Context(), cookie.Value)
	if err != nil {
		ClearSessionCookie(w)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if !session.ExpiresAt.After(now()) {
		_ = queries.DeleteSession(r.Context(), session.ID)
		ClearSessionCookie(w)
		return nil, nil
	}

	token, err := openToken(session.SealedAccess)
	if err != nil {
		_ = queries.DeleteSession(r.Context(), session.ID)
		ClearSessionCookie(w)
		return nil, err
	}

	return &authz.AuthUser{
		ID:        session.UserID,
		Name:      session.Name,
		Email:     session.Email,
		Role:      authz.NormalizeRole(session.Role),
		ClubName:  session.ClubName,
		SessionID: session.ID,
		Token:     token,
	}, nil
}

// ClearSession deletes the server-side session and expires the cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	if r != nil {
		if cookie, err := r.Cookie(sessionCookieName); err == nil && queries != nil {
			_ = queries.DeleteSession(r.Context(), cookie.Value)
		}
	}
	ClearSessionCookie(w)
}

func ClearSessionCookie(w http.ResponseWriter) {
	if w == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// PruneExpiredSessions removes expired rows; the scheduler runs it periodically.
func PruneExpiredSessions(ctx context.Context) (int64, error) {
	if queries == nil {
		return 0, errors.New("auth queries not initialized")
	}
	return queries.DeleteExpiredSessions(ctx, now())
}

package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type Session struct {
	ID            string
	UserID        int64
	Role          string
	Name          string
	Email         string
	ClubName      string
	SealedAccess  []byte
	SealedRefresh []byte
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

type CreateSessionParams struct {
	ID            string
	UserID        int64
	Role          string
	Name          string
	Email         string
	ClubName      string
	SealedAccess  []byte
	SealedRefresh []byte
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

const createSession = `INSERT INTO sessions (
    id, user_id, role, name, email, club_name, sealed_access, sealed_refresh, created_at, expires_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.ID,
		arg.UserID,
		arg.Role,
		arg.Name,
		arg.Email,
		arg.ClubName,
		arg.SealedAccess,
		arg.SealedRefresh,
		arg.CreatedAt.UTC(),
		arg.ExpiresAt.UTC(),
	)
	return err
}

const getSession = `SELECT id, user_id, role, name, email, club_name, sealed_access, sealed_refresh, created_at, expires_at
FROM sessions
WHERE id = ?`

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	var s Session
	err := q.db.QueryRowContext(ctx, getSession, id).Scan(
		&s.ID,
		&s.UserID,
		&s.Role,
		&s.Name,
		&s.Email,
		&s.ClubName,
		&s.SealedAccess,
		&s.SealedRefresh,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	return s, err
}

const deleteSession = `DELETE FROM sessions WHERE id = ?`

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, id)
	return err
}

const deleteSessionsForUser = `DELETE FROM sessions WHERE user_id = ?`

func (q *Queries) DeleteSessionsForUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSessionsForUser, userID)
	return err
}

const deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`

// DeleteExpiredSessions removes sessions that expired at or before now and
// returns how many were removed.
func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredSessions, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

package users

import "github.com/acebook/dashboard/internal/backend"

type ListData struct {
	Query   string
	Players []backend.User
}

type FormData struct {
	ID    int64
	Name  string
	Email string
	Error string
}

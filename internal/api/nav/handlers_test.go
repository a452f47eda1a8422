package nav

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acebook/dashboard/internal/api/authz"
)

func labels(t *testing.T, user *authz.AuthUser, path string) []string {
	t.Helper()
	var out []string
	for _, item := range MenuItems(user, path) {
		label := item.Label
		if item.Active {
			label += "*"
		}
		out = append(out, label)
	}
	return out
}

func TestMenuItemsByRole(t *testing.T) {
	tests := []struct {
		name string
		user *authz.AuthUser
		path string
		want string
	}{
		{
			name: "player",
			user: &authz.AuthUser{ID: 2, Role: authz.RolePlayer},
			path: "/dashboard/reservations",
			want: "Início,Reservas*,Quadras,Instrutores",
		},
		{
			name: "admin",
			user: &authz.AuthUser{ID: 1, Role: authz.RoleAdmin},
			path: "/dashboard",
			want: "Início*,Reservas,Quadras,Instrutores,Jogadores",
		},
		{
			name: "admin nested path",
			user: &authz.AuthUser{ID: 1, Role: authz.RoleAdmin},
			path: "/dashboard/users/4/edit",
			want: "Início,Reservas,Quadras,Instrutores,Jogadores*",
		},
		{
			name: "anonymous",
			path: "/dashboard",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(labels(t, tt.user, tt.path), ",")
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHandleMenuUsesCurrentURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nav/menu", nil)
	req.Header.Set("HX-Current-URL", "http://localhost:8080/dashboard/courts")
	req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: 2, Role: authz.RolePlayer}))
	rec := httptest.NewRecorder()

	HandleMenu(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `href="/dashboard/courts" class="active"`) {
		t.Fatalf("expected courts to be active, got %s", body)
	}
	if strings.Contains(body, "Jogadores") {
		t.Fatalf("player menu must not include admin entries: %s", body)
	}
}

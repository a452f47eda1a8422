package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireRoleUnauthenticated(t *testing.T) {
	err := RequireRole(context.Background(), RolePlayer)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRolePlayerForbiddenFromAdminRoutes(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 10, Role: RolePlayer})

	if err := RequireRole(ctx, RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := RequireRole(ctx, RolePlayer); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRequireRoleAdminAllowedEverywhere(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 10, Role: "ADMIN"})

	if err := RequireRole(ctx, RoleAdmin); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := RequireRole(ctx, RolePlayer); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestUserFromContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), userContextKey{}, "not-a-user")
	if user := UserFromContext(ctx); user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestCanViewReservation(t *testing.T) {
	player := &AuthUser{ID: 4, Role: RolePlayer}
	admin := &AuthUser{ID: 1, Role: RoleAdmin}

	if !CanViewReservation(player, 4) {
		t.Fatal("player should see own reservation")
	}
	if CanViewReservation(player, 5) {
		t.Fatal("player should not see other reservations")
	}
	if !CanViewReservation(admin, 5) {
		t.Fatal("admin should see every reservation")
	}
	if CanViewReservation(nil, 4) {
		t.Fatal("anonymous user should see nothing")
	}
}

func TestNormalizeRole(t *testing.T) {
	if NormalizeRole(" admin ") != RoleAdmin {
		t.Fatal("admin not recognized")
	}
	if NormalizeRole("coach") != RolePlayer {
		t.Fatal("unknown roles must default to player")
	}
}

package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/room-booking/internal/auth"
	"github.com/spec-kit/room-booking/internal/config"
	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/repository"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *repository.MemoryUserRepository, auth.RevocationStore) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	revoked := auth.NewMemoryRevocationStore()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			AdminEmail:            "admin@example.com",
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		Revocation: revoked,
		Now:        fixedNow,
	})
	return svc, users, revoked
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates member account and issues token", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		result, err := svc.Register(context.Background(), "alice@example.com", "Alice", "password123")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected a token")
		}
		if result.User.Role != domain.RoleMember {
			t.Fatalf("expected member role, got %s", result.User.Role)
		}
		if result.User.PasswordHash == "password123" {
			t.Fatal("password must not be stored in the clear")
		}

		claims, err := svc.TokenManager().ParseToken(result.Token)
		if err != nil {
			t.Fatalf("issued token must parse: %v", err)
		}
		if claims.SubjectID != result.User.ID {
			t.Fatalf("token subject mismatch: %s vs %s", claims.SubjectID, result.User.ID)
		}
	})

	t.Run("grants admin role to the configured admin email", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		result, err := svc.Register(context.Background(), "admin@example.com", "Root", "password123")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if result.User.Role != domain.RoleAdmin {
			t.Fatalf("expected admin role, got %s", result.User.Role)
		}
	})

	t.Run("duplicate email is a conflict, case-insensitively", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		if _, err := svc.Register(context.Background(), "alice@example.com", "Alice", "password123"); err != nil {
			t.Fatalf("first register: %v", err)
		}

		_, err := svc.Register(context.Background(), "ALICE@Example.COM", "Other Alice", "password123")
		if !apperrors.IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		cases := []struct {
			name        string
			email       string
			displayName string
			password    string
		}{
			{"missing email", "", "Alice", "password123"},
			{"email without at sign", "alice.example.com", "Alice", "password123"},
			{"blank display name", "alice@example.com", "   ", "password123"},
			{"short password", "alice@example.com", "Alice", "short"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Register(context.Background(), tc.email, tc.displayName, tc.password)
				domainErr := apperrors.ToDomainError(err)
				if domainErr == nil || domainErr.Code != apperrors.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if _, err := svc.Register(context.Background(), "alice@example.com", "Alice", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "alice@example.com", "password123")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected a token")
		}
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "password123")
		_, errWrongPw := svc.Login(context.Background(), "alice@example.com", "not-the-password")

		for _, err := range []error{errUnknown, errWrongPw} {
			domainErr := apperrors.ToDomainError(err)
			if domainErr == nil || domainErr.Code != apperrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		}
		if errUnknown.Error() != errWrongPw.Error() {
			t.Fatalf("error messages must not leak account existence: %q vs %q", errUnknown, errWrongPw)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, revoked := newAuthFixture(t)
	result, err := svc.Register(context.Background(), "alice@example.com", "Alice", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	isRevoked, err := revoked.IsRevoked(context.Background(), claims.ID)
	if err != nil {
		t.Fatalf("revocation check: %v", err)
	}
	if !isRevoked {
		t.Fatal("token id must be on the denylist after logout")
	}

	if err := svc.Logout(context.Background(), "not-a-token"); err == nil {
		t.Fatal("garbage token must not log out successfully")
	}
}

func TestAuthService_UserAdmin(t *testing.T) {
	t.Run("update changes email and display name", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		result, _ := svc.Register(context.Background(), "alice@example.com", "Alice", "password123")

		newName := "Alice B."
		newEmail := "alice.b@example.com"
		updated, err := svc.UpdateUser(context.Background(), result.User.ID, UserUpdateInput{
			Email:       &newEmail,
			DisplayName: &newName,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Email != newEmail || updated.DisplayName != newName {
			t.Fatalf("update not applied: %+v", updated)
		}
	})

	t.Run("change email to one already taken is a conflict", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		alice, _ := svc.Register(context.Background(), "alice@example.com", "Alice", "password123")
		_, _ = svc.Register(context.Background(), "bob@example.com", "Bob", "password123")

		_, err := svc.ChangeEmail(context.Background(), alice.User.ID, "BOB@example.com")
		if !apperrors.IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("delete removes the account but not its reservations", func(t *testing.T) {
		svc, users, _ := newAuthFixture(t)
		alice, _ := svc.Register(context.Background(), "alice@example.com", "Alice", "password123")

		reservations := repository.NewMemoryReservationRepository()
		rooms := repository.NewMemoryRoomRepository()
		_ = rooms.Create(context.Background(), &domain.Room{ID: "room-1", Name: "Room", Capacity: 4, IsActive: true})
		ledger := NewReservationService(ReservationDependencies{
			ReservationRepo: reservations,
			RoomRepo:        rooms,
			Now:             fixedNow,
		})
		if _, err := ledger.Create(context.Background(), ReservationCreateInput{
			RoomID:    "room-1",
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
			UserLabel: alice.User.DisplayName,
		}); err != nil {
			t.Fatalf("book: %v", err)
		}

		if err := svc.DeleteUser(context.Background(), alice.User.ID); err != nil {
			t.Fatalf("delete user: %v", err)
		}
		if _, err := users.GetByID(context.Background(), alice.User.ID); err == nil {
			t.Fatal("user should be gone")
		}

		remaining, _ := ledger.ListByRoom(context.Background(), "room-1")
		if len(remaining) != 1 {
			t.Fatalf("reservations must survive account deletion, got %d", len(remaining))
		}
	})

	t.Run("get missing user is not found", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)
		_, err := svc.GetUser(context.Background(), "nope")
		domainErr := apperrors.ToDomainError(err)
		if domainErr == nil || domainErr.Code != apperrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

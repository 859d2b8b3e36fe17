package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/room-booking/internal/auth"
	"github.com/spec-kit/room-booking/internal/config"
	"github.com/spec-kit/room-booking/internal/domain"
	"github.com/spec-kit/room-booking/internal/events"
	"github.com/spec-kit/room-booking/internal/repository"
	apperrors "github.com/spec-kit/room-booking/pkg/util"
)

// AuthService is the credential store: it owns user and token lifecycle.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationStore
	dispatcher events.Dispatcher
	bcryptCost int
	adminEmail string
	now        func() time.Time
}

// AuthDependencies bundles collaborators for the credential store.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Revocation auth.RevocationStore
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// AuthResult carries the authenticated user and their bearer token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// UserUpdateInput describes a partial admin update of an account.
type UserUpdateInput struct {
	Email       *string
	DisplayName *string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoked:    deps.Revocation,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		adminEmail: strings.ToLower(strings.TrimSpace(cfg.Auth.AdminEmail)),
		now:        now,
	}
}

// Register creates a new account and issues a token bound to it. Email
// uniqueness is case-insensitive; duplicates are a conflict, not a
// validation failure.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	details := map[string]any{}
	if email == "" || !strings.Contains(email, "@") {
		details["email"] = "valid email required"
	}
	if displayName == "" {
		details["displayName"] = "required"
	}
	if len(password) < 8 {
		details["password"] = "minimum 8 characters"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration payload", details)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStorageFault(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	role := domain.RoleMember
	if s.adminEmail != "" && strings.EqualFold(email, s.adminEmail) {
		role = domain.RoleAdmin
	}

	createdAt := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewStorageFault(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Payload:   events.UserRegisteredPayload{Email: user.Email, Role: user.Role},
	})
	return s.issueToken(user)
}

// Login authenticates a user. Unknown email and wrong password produce the
// same error so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewStorageFault(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issueToken(user)
}

// Logout places the token on the denylist until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if s.revoked == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.NewStorageFault(err)
	}
	return nil
}

// ListUsers returns all accounts, oldest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFault(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUser fetches a single account.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.NewStorageFault(err)
	}
	return user, nil
}

// UpdateUser applies a partial update of display name and/or email.
func (s *AuthService) UpdateUser(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, apperrors.NewValidationError("display name cannot be empty", nil)
		}
		user.DisplayName = name
	}
	if input.Email != nil && !strings.EqualFold(*input.Email, user.Email) {
		if err := s.ensureEmailFree(ctx, *input.Email); err != nil {
			return nil, err
		}
		user.Email = strings.TrimSpace(*input.Email)
	}

	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewStorageFault(err)
	}
	return user, nil
}

// ChangeEmail updates only the email address.
func (s *AuthService) ChangeEmail(ctx context.Context, id, newEmail string) (*domain.User, error) {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" || !strings.Contains(newEmail, "@") {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	return s.UpdateUser(ctx, id, UserUpdateInput{Email: &newEmail})
}

// DeleteUser removes an account. Reservations made by the user are keyed by
// the display label already denormalized onto them and are left untouched.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.NewStorageFault(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventUserDeleted,
		SubjectID: id,
	})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("valid email required", nil)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewStorageFault(err)
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

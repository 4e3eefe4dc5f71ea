package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatehouse/gatehouse/internal/apperror"
)

// Service orchestrates registration, login, session issuance/teardown, and
// password reset tokens against the user directory. Handlers call these
// methods -- they never touch the repository directly.
type Service struct {
	repo     UserRepository
	hasher   PasswordHasher
	tokens   TokenGenerator
	sessions SessionStore
}

// NewService creates the auth service from its collaborators.
func NewService(repo UserRepository, hasher PasswordHasher, tokens TokenGenerator, sessions SessionStore) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Register creates a new user account. Fails with the duplicate-user error
// if the email is already registered; the repository enforces the same
// constraint at the schema level for the race window.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	// Check before doing expensive hashing.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.NewDuplicateUser()
	} else if !isNotFound(err) {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	id, err := s.tokens.NewToken()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user := &User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// ValidLogin reports whether the email/password pair matches a registered
// user. An unknown email and a wrong password are indistinguishable to the
// caller; only storage failures surface as errors.
func (s *Service) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	return s.hasher.Verify(password, user.PasswordHash), nil
}

// CreateSession issues a new session for the user registered under email
// and returns its identifier. The previous session, if any, stops working.
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if isNotFound(err) {
		return "", apperror.NewInvalidCredentials()
	}
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	id, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("session created", slog.String("user_id", user.ID))

	return id, nil
}

// UserFromSession resolves a session identifier to its owning user, or nil
// for a missing, unknown, or expired session.
func (s *Service) UserFromSession(ctx context.Context, sessionID string) (*User, error) {
	if sessionID == "" {
		return nil, nil
	}

	userID, err := s.sessions.UserID(ctx, sessionID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("resolving session: %w", err))
	}
	if userID == "" {
		return nil, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("finding session user: %w", err))
	}

	return user, nil
}

// DestroySession tears down the user's active session. Safe to call twice:
// the second call is a no-op.
func (s *Service) DestroySession(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, userID); err != nil {
		return apperror.NewInternal(fmt.Errorf("destroying session: %w", err))
	}
	return nil
}

// ResetToken generates and persists a fresh password reset token for the
// user registered under email. Any previously issued token stops working.
func (s *Service) ResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if isNotFound(err) {
		return "", apperror.NewUserNotFound()
	}
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return "", apperror.NewInternal(err)
	}

	if err := s.repo.SetResetToken(ctx, user.ID, token); err != nil {
		return "", apperror.NewInternal(fmt.Errorf("storing reset token: %w", err))
	}

	slog.Info("reset token issued", slog.String("user_id", user.ID))

	return token, nil
}

// UpdatePassword consumes a reset token: it hashes the new password, stores
// it, and clears the token in the same write, so a token is single-use even
// if the identical value is replayed.
func (s *Service) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return apperror.NewInvalidResetToken()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	ok, err := s.repo.ConsumePasswordReset(ctx, resetToken, hash)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("updating password: %w", err))
	}
	if !ok {
		return apperror.NewInvalidResetToken()
	}

	slog.Info("password updated via reset token")

	return nil
}

// isNotFound reports whether err is the directory's not-found error.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == 404
}

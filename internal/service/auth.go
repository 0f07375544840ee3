package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/database/repository"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 8

// DefaultSessionTTL is how long an untouched session stays valid.
const DefaultSessionTTL = 12 * time.Hour

// AuthService signs staff users in and out.
type AuthService struct {
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Clock    clock.Clock
	TTL      time.Duration
	Logger   *slog.Logger
}

func (s *AuthService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

func (s *AuthService) CreateUser(ctx context.Context, username, password, role string) (repository.StaffUser, error) {
	u := repository.StaffUser{ID: uuid.NewString(), Username: strings.TrimSpace(username), Role: role}
	if u.Username == "" {
		return u, invalid("username", "required")
	}
	if u.Role == "" {
		u.Role = repository.RoleStaff
	}
	if u.Role != repository.RoleAdmin && u.Role != repository.RoleStaff {
		return u, invalid("role", "unknown role %q", role)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return u, err
	}
	u.PasswordHash = hash
	existing, err := s.Users.ByUsername(ctx, u.Username)
	if err != nil {
		return u, err
	}
	if existing != nil {
		return u, fmt.Errorf("user %s exists: %w", u.Username, ErrConflict)
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		return u, fmt.Errorf("insert user: %w", err)
	}
	s.log().Info("user created", "username", u.Username, "role", u.Role)
	return u, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", invalid("password", "at least %d characters", MinPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SignIn checks credentials and opens a session. Unknown users and wrong
// passwords both report ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (repository.StaffUser, repository.Session, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return repository.StaffUser{}, repository.Session{}, err
	}
	if u == nil {
		s.log().Warn("sign in failed", "username", username, "reason", "unknown user")
		return repository.StaffUser{}, repository.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log().Warn("sign in failed", "username", username, "reason", "bad password")
			return repository.StaffUser{}, repository.Session{}, ErrInvalidCredentials
		}
		return repository.StaffUser{}, repository.Session{}, fmt.Errorf("compare password: %w", err)
	}
	now := nowFrom(s.Clock)
	sess := repository.Session{
		Token:      uuid.NewString(),
		UserID:     u.ID,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.ttl()),
	}
	if err := s.Sessions.Insert(ctx, sess); err != nil {
		return repository.StaffUser{}, repository.Session{}, fmt.Errorf("insert session: %w", err)
	}
	s.log().Info("signed in", "username", u.Username)
	return *u, sess, nil
}

// Resume looks up a live session. Expired sessions are deleted and
// reported as ErrSessionExpired.
func (s *AuthService) Resume(ctx context.Context, token string) (repository.StaffUser, repository.Session, error) {
	sess, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return repository.StaffUser{}, repository.Session{}, err
	}
	if sess == nil {
		return repository.StaffUser{}, repository.Session{}, ErrSessionExpired
	}
	if !sess.ExpiresAt.After(nowFrom(s.Clock)) {
		if _, err := s.Sessions.Delete(ctx, token); err != nil {
			s.log().Warn("delete expired session", "err", err)
		}
		return repository.StaffUser{}, repository.Session{}, ErrSessionExpired
	}
	u, err := s.Users.Get(ctx, sess.UserID)
	if err != nil {
		return repository.StaffUser{}, repository.Session{}, err
	}
	if u == nil {
		return repository.StaffUser{}, repository.Session{}, ErrSessionExpired
	}
	return *u, *sess, nil
}

// Touch extends a session by the TTL from now.
func (s *AuthService) Touch(ctx context.Context, token string) error {
	now := nowFrom(s.Clock)
	return s.Sessions.Touch(ctx, token, now, now.Add(s.ttl()))
}

// SignOut deletes the session. Signing out twice is not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.Sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log().Info("signed out")
	return nil
}

func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.Sessions.DeleteExpired(ctx, nowFrom(s.Clock))
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", userID)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]repository.StaffUser, error) {
	return s.Users.List(ctx)
}

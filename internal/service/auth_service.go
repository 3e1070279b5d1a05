package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"staffportal/internal/model"
	"staffportal/internal/util"
)

const sessionTTL = 24 * time.Hour

type UserFinder interface {
	FindByEmailAndDepartment(ctx context.Context, email, department string) (*model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	FindValid(ctx context.Context, token string) (*model.SessionUser, error)
	DeleteActive(ctx context.Context) (int64, error)
}

type AuthService struct {
	users     UserFinder
	sessions  SessionStore
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users UserFinder, sessions SessionStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Login matches a staff user by email and department and opens a session.
func (s *AuthService) Login(ctx context.Context, email, department string) (string, *model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", nil, ErrInvalidCredentials
	}
	if department != model.DepartmentAdmin && department != model.DepartmentStaff {
		return "", nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByEmailAndDepartment(ctx, email, department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	expires := time.Now().Add(sessionTTL)
	token, err := util.GenerateSessionToken(u.ID, s.jwtSecret, expires)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := &model.Session{
		Token:   token,
		UserID:  u.ID,
		Expires: expires,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("staff login",
		zap.Int("user_id", u.ID),
		zap.String("department", u.Department),
	)
	return token, u, nil
}

// CurrentSession resolves the explicit credential to a valid session joined
// with its user. Any failure resolves to the unauthenticated state; expired
// and absent sessions are indistinguishable to callers.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*model.SessionUser, error) {
	if token == "" {
		return nil, nil
	}
	if _, err := util.ParseSessionToken(token, s.jwtSecret); err != nil {
		return nil, nil
	}

	su, err := s.sessions.FindValid(ctx, token)
	if err != nil {
		s.logger.Warn("session lookup failed", zap.Error(err))
		return nil, nil
	}
	return su, nil
}

// Logout deletes every non-expired session system-wide, not only the
// caller's own.
func (s *AuthService) Logout(ctx context.Context) error {
	n, err := s.sessions.DeleteActive(ctx)
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	s.logger.Info("logout invalidated sessions", zap.Int64("count", n))
	return nil
}

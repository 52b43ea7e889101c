package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	portssvc "github.com/vnacct/vnacct/internal/core/ports/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/middleware"
	"github.com/vnacct/vnacct/internal/utils"
)

const (
	maxFailedLoginAttempts = 5
	loginLockoutDuration   = time.Hour
)

// ErrInvalidCredentials is returned for a bad username/password pair. The
// message never distinguishes an unknown user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAccountLocked is returned while the lockout window is active.
var ErrAccountLocked = errors.New("account locked")

// AuthService authenticates operators and issues JWTs. Five consecutive
// failed attempts lock the account for one hour.
type AuthService struct {
	userRepo    portsrepo.UserRepository
	auditSvc    portssvc.AuditSvcFacade
	jwtSecret   string
	tokenExpiry time.Duration
	issuer      string
	companyCode string
	bcryptCost  int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepository, auditSvc portssvc.AuditSvcFacade, jwtSecret string, tokenExpiry time.Duration, issuer, companyCode string, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		auditSvc:    auditSvc,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		issuer:      issuer,
		companyCode: companyCode,
		bcryptCost:  bcryptCost,
	}
}

// Login verifies credentials, enforces the failed-attempt lockout, and issues
// a signed JWT. Both failed and successful attempts land in the audit trail.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if user.IsLoginLocked(now) {
		logger.Warn("Login attempt on locked account", slog.String("username", req.Username))
		return nil, ErrAccountLocked
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLoginAttempts {
			lockedUntil := now.Add(loginLockoutDuration)
			user.LockedUntil = &lockedUntil
			logger.Warn("Account locked after repeated failed logins", slog.String("username", req.Username))
		}
		if err := s.userRepo.UpdateUserLoginState(ctx, *user); err != nil {
			logger.Error("Failed to persist failed-login state", slog.String("username", req.Username), slog.String("error", err.Error()))
		}
		s.recordLoginAudit(ctx, user.UserID, domain.AuditLoginFailed, ipAddress, userAgent,
			fmt.Sprintf("failed login attempt: %d", user.FailedLoginAttempts))
		return nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateUserLoginState(ctx, *user); err != nil {
		logger.Error("Failed to persist login state", slog.String("username", req.Username), slog.String("error", err.Error()))
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.tokenExpiry, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.recordLoginAudit(ctx, user.UserID, domain.AuditLogin, ipAddress, userAgent, "login successful")
	logger.Info("User logged in", slog.String("username", req.Username), slog.String("user_id", user.UserID))

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenExpiry.Seconds()),
	}, nil
}

// CreateUser registers a new operator.
func (s *AuthService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s already taken", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		CompanyCode:  s.companyCode,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(ctx, domain.AuditLog{
			UserID:     creatorUserID,
			Action:     domain.AuditCreate,
			EntityType: "User",
			EntityID:   user.UserID,
			NewValue:   user.Username,
		})
	}
	middleware.GetLoggerFromCtx(ctx).Info("User created", slog.String("username", user.Username), slog.String("role", string(user.Role)))
	return &user, nil
}

func (s *AuthService) recordLoginAudit(ctx context.Context, userID string, action domain.AuditAction, ipAddress, userAgent, detail string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, domain.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: "User",
		EntityID:   userID,
		NewValue:   detail,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	})
}

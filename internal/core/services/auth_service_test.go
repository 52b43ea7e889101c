package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnacct/vnacct/internal/apperrors"
	"github.com/vnacct/vnacct/internal/core/domain"
	portsrepo "github.com/vnacct/vnacct/internal/core/ports/repositories"
	"github.com/vnacct/vnacct/internal/core/services"
	"github.com/vnacct/vnacct/internal/dto"
	"github.com/vnacct/vnacct/internal/utils"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserLoginState(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Test Suite ---

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockAudit    *MockAuditService
	service      *services.AuthService
	ctx          context.Context
	passwordHash string
}

func (s *AuthServiceTestSuite) SetupSuite() {
	// Minimum cost keeps the suite fast.
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	s.Require().NoError(err)
	s.passwordHash = hash
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockAudit = new(MockAuditService)
	s.service = services.NewAuthService(s.mockUserRepo, s.mockAudit, "test-secret", 8*time.Hour, "vnacct-test", "C001", bcrypt.MinCost)
	s.ctx = context.Background()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) activeUser() *domain.User {
	return &domain.User{
		UserID:       "u-1",
		Username:     "ketoan",
		PasswordHash: s.passwordHash,
		Role:         domain.RoleAccountant,
		CompanyCode:  "C001",
		IsActive:     true,
	}
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	user := s.activeUser()
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(user, nil).Once()
	s.mockUserRepo.On("UpdateUserLoginState", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.FailedLoginAttempts == 0 && u.LockedUntil == nil && u.LastLoginAt != nil
	})).Return(nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditLogin
	})).Return(nil).Once()

	resp, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ketoan", Password: "correct-horse"}, "10.0.0.1", "test-agent")

	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(int64(8*60*60), resp.ExpiresIn)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLoginWrongPasswordIncrementsAttempts() {
	user := s.activeUser()
	user.FailedLoginAttempts = 2
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(user, nil).Once()
	s.mockUserRepo.On("UpdateUserLoginState", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.FailedLoginAttempts == 3 && u.LockedUntil == nil
	})).Return(nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditLoginFailed
	})).Return(nil).Once()

	_, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ketoan", Password: "wrong"}, "10.0.0.1", "test-agent")

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidCredentials)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLoginFifthFailureLocksAccount() {
	user := s.activeUser()
	user.FailedLoginAttempts = 4
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(user, nil).Once()
	s.mockUserRepo.On("UpdateUserLoginState", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.FailedLoginAttempts == 5 && u.LockedUntil != nil && u.LockedUntil.After(time.Now().UTC())
	})).Return(nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ketoan", Password: "wrong"}, "10.0.0.1", "test-agent")

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidCredentials)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLoginLockedAccountRejected() {
	user := s.activeUser()
	lockedUntil := time.Now().UTC().Add(30 * time.Minute)
	user.FailedLoginAttempts = 5
	user.LockedUntil = &lockedUntil
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(user, nil).Once()

	_, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ketoan", Password: "correct-horse"}, "10.0.0.1", "test-agent")

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrAccountLocked)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateUserLoginState", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLoginExpiredLockoutAdmitted() {
	user := s.activeUser()
	lockedUntil := time.Now().UTC().Add(-time.Minute)
	user.FailedLoginAttempts = 5
	user.LockedUntil = &lockedUntil
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(user, nil).Once()
	s.mockUserRepo.On("UpdateUserLoginState", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.FailedLoginAttempts == 0 && u.LockedUntil == nil
	})).Return(nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.Anything).Return(nil).Once()

	resp, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ketoan", Password: "correct-horse"}, "10.0.0.1", "test-agent")

	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
}

func (s *AuthServiceTestSuite) TestLoginUnknownUserRejected() {
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ghost", Password: "whatever"}, "10.0.0.1", "test-agent")

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLoginInactiveUserRejected() {
	user := s.activeUser()
	user.IsActive = false
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(user, nil).Once()

	_, err := s.service.Login(s.ctx, dto.LoginRequest{Username: "ketoan", Password: "correct-horse"}, "10.0.0.1", "test-agent")

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestCreateUserSuccess() {
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "newbie").Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "newbie" && u.CompanyCode == "C001" && u.IsActive && u.PasswordHash != "secret-pass"
	})).Return(nil).Once()
	s.mockAudit.On("Record", s.ctx, mock.Anything).Return(nil).Once()

	user, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: "newbie",
		Password: "secret-pass",
		Email:    "newbie@example.com",
		FullName: "Nguyễn Văn B",
		Role:     domain.RoleViewer,
	}, "admin-1")

	s.Require().NoError(err)
	s.NotEmpty(user.UserID)
	s.Equal(domain.RoleViewer, user.Role)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestCreateUserDuplicateUsernameFails() {
	s.mockUserRepo.On("FindUserByUsername", s.ctx, "ketoan").Return(s.activeUser(), nil).Once()

	_, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: "ketoan",
		Password: "secret-pass",
		Email:    "dup@example.com",
		FullName: "Dup",
		Role:     domain.RoleViewer,
	}, "admin-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

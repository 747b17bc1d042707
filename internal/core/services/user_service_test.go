package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/services"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/Ezzerof/smart-invoice-backend/internal/platform/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	cfg      *config.Config
	service  ports.UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "smart-invoice-backend",
		JWTExpiryDuration: time.Hour,
	}
	suite.service = services.NewUserService(suite.mockRepo, suite.cfg)
}

func (suite *UserServiceTestSuite) TestRegister_HashesPassword() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "operator", Password: "s3cret-pass"}

	suite.mockRepo.On("FindUserByUsername", ctx, "operator").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
		if u.Username != "operator" || u.PasswordHash == req.Password {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	existing := &models.User{UserID: "u-1", Username: "operator"}

	suite.mockRepo.On("FindUserByUsername", ctx, "operator").Return(existing, nil).Once()

	user, err := suite.service.Register(ctx, dto.RegisterRequest{Username: "operator", Password: "s3cret-pass"})

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestLogin_ReturnsSignedToken() {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	user := &models.User{UserID: "u-1", Username: "operator", PasswordHash: string(hash)}

	suite.mockRepo.On("FindUserByUsername", ctx, "operator").Return(user, nil).Once()

	token, err := suite.service.Login(ctx, dto.LoginRequest{Username: "operator", Password: "s3cret-pass"})

	suite.Require().NoError(err)
	suite.Require().NotEmpty(token)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(suite.cfg.JWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.True(parsed.Valid)
	suite.Equal("operator", claims.Subject)
	suite.Equal("smart-invoice-backend", claims.Issuer)
}

func (suite *UserServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	user := &models.User{Username: "operator", PasswordHash: string(hash)}

	suite.mockRepo.On("FindUserByUsername", ctx, "operator").Return(user, nil).Once()

	token, err := suite.service.Login(ctx, dto.LoginRequest{Username: "operator", Password: "wrong"})

	suite.Require().Error(err)
	suite.Empty(token)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestLogin_UnknownUserIsUnauthorized() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	token, err := suite.service.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "whatever"})

	suite.Require().Error(err)
	suite.Empty(token)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

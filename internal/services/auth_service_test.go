package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	logger, _ := test.NewNullLogger()
	return services.NewAuthService(repo, testJWTSecret, time.Hour, logger)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	user := &models.User{Email: "test@example.com", Password: "password123"}
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Email already registered
	dup := &models.User{Email: "test@example.com", Password: "password123"}
	mockRepo.On("Create", ctx, dup).Return(fmt.Errorf("user test@example.com: %w", repositories.ErrDuplicate)).Once()
	err = authService.RegisterUser(ctx, dup)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, user.Email, "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Contains(t, claims, "iat")
	exp := int64(claims["exp"].(float64))
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), exp, 5)

	// Wrong password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown user gets the same answer
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, fmt.Errorf("user: %w", repositories.ErrNotFound)).Once()
	_, err = authService.LoginUser(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	valid := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorContains(t, err, "invalid token")

	expired := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(-time.Hour).Unix()}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorContains(t, err, "invalid token")

	foreign := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(time.Hour).Unix()}, "other-secret")
	_, err = authService.ValidateToken(foreign)
	assert.ErrorContains(t, err, "invalid token")

	anonymous := sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
	_, err = authService.ValidateToken(anonymous)
	assert.ErrorContains(t, err, "missing user_id")
}

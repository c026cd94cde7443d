package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"robostore/internal/apperr"
	"robostore/internal/auth"
	"robostore/internal/models"
	"robostore/internal/util"
)

// credentialsMessage is returned for every login failure so the response
// never reveals whether the account exists.
const credentialsMessage = "incorrect email or password"

// authenticateMessage is returned for every bearer-token failure,
// including a token whose user no longer exists.
const authenticateMessage = "could not validate credentials"

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService handles registration, login and bearer-token resolution.
type AuthService struct {
	users    UserStore
	tokens   *auth.TokenService
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens *auth.TokenService, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   util.GetLogger(),
	}
}

// Register creates an account and returns it with a fresh bearer token.
// A duplicate email fails with a conflict.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	util.UserRegistrationsTotal.Inc()
	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			util.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
			return nil, "", apperr.Unauthorized(credentialsMessage)
		}
		return nil, "", err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		util.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return nil, "", apperr.Unauthorized(credentialsMessage)
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to the user it asserts. Any
// failure, including a since-deleted user, yields the same unauthorized
// error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		util.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, apperr.Unauthorized(authenticateMessage)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			util.AuthFailuresTotal.WithLabelValues("unknown_subject").Inc()
			return nil, apperr.Unauthorized(authenticateMessage)
		}
		return nil, err
	}
	return user, nil
}

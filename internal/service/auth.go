package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/checkmark/checkmark/internal/model"
	"github.com/checkmark/checkmark/internal/repository"
	"github.com/oklog/ulid/v2"
)

// Auth service errors.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// TokenTypeBearer is the token_type reported to clients.
const TokenTypeBearer = "bearer"

// dummyPassword is hashed once and verified against when the email is
// unknown, so both login failure paths run the same key derivation.
const dummyPassword = "checkmark-dummy-password"

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
	UserID      string
	Email       string
}

// AuthService handles registration and login.
type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	metrics metrics.Recorder
	now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
		now:     utcNow,
	}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	if _, err := s.users.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = &name
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return s.issue(user)
}

// Login verifies credentials and returns a token.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("look up user: %w", err)
		}
		if err := s.verifyDummy(input.Password); err != nil {
			return nil, err
		}
		s.metrics.IncLogin(metrics.LoginFailed)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginFailed)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(metrics.LoginSuccess)

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		AccessToken: token.Token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   token.ExpiresAt,
		ExpiresIn:   s.tokens.TTL(),
		UserID:      user.ID,
		Email:       user.Email,
	}, nil
}

func (s *AuthService) verifyDummy(password string) error {
	s.dummyOnce.Do(func() {
		s.dummyHash, s.dummyErr = s.hasher.Hash(dummyPassword)
	})
	if s.dummyErr != nil {
		return fmt.Errorf("hash dummy password: %w", s.dummyErr)
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
	return nil
}

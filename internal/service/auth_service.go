package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// ErrEmailTaken is returned when registering an email that already has an account.
var ErrEmailTaken = errors.New("email already registered")

// AuthService coordinates registration, login and logout.
type AuthService struct {
	users      repository.UserRepository
	verifier   *auth.Verifier
	tokens     *auth.TokenManager
	throttle   *auth.LoginThrottle
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	Throttle     *auth.LoginThrottle
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	TokenOptions []auth.TokenOption
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	verifier, err := auth.NewVerifier(deps.UserRepo, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		verifier:   verifier,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), deps.TokenOptions...),
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// RegisterInput is the registration form.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks every field and reports all failures together.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 72)),
	)
}

// Register creates a User-role account. It does not sign the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			conflict := apperrors.NewDomainError("CONFLICT", ErrEmailTaken.Error(), http.StatusConflict, nil)
			conflict.Err = ErrEmailTaken
			return nil, conflict
		}
		return nil, apperrors.MapError(fmt.Errorf("create user: %w", err))
	}

	s.publish(ctx, events.New(events.EventUserRegistered, events.Actor{LoginID: user.Email, Role: user.Role},
		events.UserRegisteredPayload{UserID: user.ID, Email: user.Email}))
	return user, nil
}

// LoginResult carries the authenticated identity and its session token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and mints a token. Unknown accounts and wrong passwords
// both return an error wrapping auth.ErrLoginFailed.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	if err := s.throttle.Allow(ctx, loginID); err != nil {
		s.publish(ctx, events.New(events.EventLoginFailed, events.Actor{},
			events.LoginFailedPayload{LoginID: loginID, Reason: err.Error()}))
		return nil, err
	}

	user, err := s.verifier.Verify(ctx, loginID, password)
	if err != nil {
		if errors.Is(err, auth.ErrLoginFailed) {
			s.throttle.RecordFailure(ctx, loginID)
			s.publish(ctx, events.New(events.EventLoginFailed, events.Actor{},
				events.LoginFailedPayload{LoginID: loginID, Reason: err.Error()}))
		}
		return nil, err
	}
	s.throttle.Reset(ctx, loginID)

	token, meta, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, events.New(events.EventLoginSucceeded, events.Actor{LoginID: user.Email, Role: user.Role}, nil))
	return &LoginResult{User: user, Token: token, ExpiresAt: meta.ExpiresAt}, nil
}

// Logout records the event. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) {
	actor := events.Actor{}
	if principal != nil {
		actor = events.Actor{LoginID: principal.LoginID, Role: principal.Role}
	}
	s.publish(ctx, events.New(events.EventLoggedOut, actor, nil))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// validationError flattens ozzo field errors into one message plus per-field details.
func validationError(err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		details[field] = fieldErr.Error()
	}
	return apperrors.NewValidationError(fieldErrs.Error(), details)
}

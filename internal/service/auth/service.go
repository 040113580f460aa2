package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// Envelope messages returned by the auth service.
const (
	MsgRegistrationSuccessful = "Registration successful"
	MsgLoginSuccessful        = "Login successful"
	MsgEmailExists            = "User with this email already exists"
	MsgEmailExistsDetail      = "Email already registered"
	MsgUsernameTaken          = "Username already taken"
	MsgUsernameTakenDetail    = "Username already exists"
	MsgRegistrationFailed     = "Registration failed"
	MsgRegistrationError      = "An error occurred during registration"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgInvalidCredentialsHint = "Email or password is incorrect"
	MsgAccountInactive        = "Account is inactive"
	MsgAccountInactiveHint    = "Please contact administrator"
	MsgLoginError             = "An error occurred during login"
	MsgUserNotFound           = "User not found"
	MsgUserNotFoundDetail     = "No user found with the provided ID"
	MsgUserLookupError        = "An error occurred while retrieving user"
)

// RegisterInput carries the identity fields of a new account.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	UserID          uuid.UUID `json:"userId"`
	Email           string    `json:"email"`
	Username        string    `json:"userName"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Token           string    `json:"token"`
	TokenExpiration time.Time `json:"tokenExpiration"`
}

// UserProfile is the public view of an identity. It never carries the credential.
type UserProfile struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"userName"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Service authenticates users and issues access tokens.
type Service interface {
	Register(ctx context.Context, in RegisterInput) envelope.Response[*AuthResult]
	Login(ctx context.Context, email, password string) envelope.Response[*AuthResult]
	GetIdentity(ctx context.Context, id uuid.UUID) envelope.Response[*UserProfile]
	// IssueToken signs a token for user carrying every role the user holds.
	IssueToken(ctx context.Context, user *domain.User) (*AccessToken, error)
}

type serviceImpl struct {
	users    store.UserStore
	tokens   JWTService
	verifier PasswordVerifier
	timeFunc func() time.Time
	logger   *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates the auth service.
func NewService(
	users store.UserStore,
	tokens JWTService,
	verifier PasswordVerifier,
	logger *slog.Logger,
) (Service, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("jwt service cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("password verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register implements Service.Register
func (s *serviceImpl) Register(ctx context.Context, in RegisterInput) envelope.Response[*AuthResult] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		log.Info("registration rejected: email taken")
		return envelope.Fail[*AuthResult](envelope.DuplicateEmail, MsgEmailExists, MsgEmailExistsDetail)
	} else if !store.IsNotFoundError(err) {
		log.Error("email lookup failed during registration", slog.String("error", redact.Error(err)))
		return envelope.Fail[*AuthResult](envelope.RegistrationFailed, MsgRegistrationError, redact.Error(err))
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		log.Info("registration rejected: username taken", slog.String("username", in.Username))
		return envelope.Fail[*AuthResult](envelope.DuplicateUsername, MsgUsernameTaken, MsgUsernameTakenDetail)
	} else if !store.IsNotFoundError(err) {
		log.Error("username lookup failed during registration", slog.String("error", redact.Error(err)))
		return envelope.Fail[*AuthResult](envelope.RegistrationFailed, MsgRegistrationError, redact.Error(err))
	}

	user, err := domain.NewUser(in.Email, in.Username, in.Password, in.FirstName, in.LastName, s.timeFunc())
	if err != nil {
		return envelope.Fail[*AuthResult](envelope.RegistrationFailed, MsgRegistrationFailed, err.Error())
	}

	if err := s.users.Create(ctx, user); err != nil {
		var policyErr *domain.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			return envelope.Fail[*AuthResult](envelope.RegistrationFailed, MsgRegistrationFailed, policyErr.Reasons...)
		// a concurrent registration won the race between lookup and insert
		case errors.Is(err, store.ErrEmailExists):
			return envelope.Fail[*AuthResult](envelope.DuplicateEmail, MsgEmailExists, MsgEmailExistsDetail)
		case errors.Is(err, store.ErrUsernameExists):
			return envelope.Fail[*AuthResult](envelope.DuplicateUsername, MsgUsernameTaken, MsgUsernameTakenDetail)
		case errors.Is(err, store.ErrInvalidEntity):
			return envelope.Fail[*AuthResult](envelope.RegistrationFailed, MsgRegistrationFailed, redact.Error(err))
		default:
			log.Error("failed to create user", slog.String("error", redact.Error(err)))
			return envelope.Fail[*AuthResult](envelope.RegistrationFailed, MsgRegistrationError, redact.Error(err))
		}
	}

	result, err := s.authenticate(ctx, user)
	if err != nil {
		log.Error("failed to issue token after registration",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		return envelope.Fail[*AuthResult](envelope.InternalError, MsgRegistrationError, redact.Error(err))
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return envelope.OK(result, MsgRegistrationSuccessful)
}

// Login implements Service.Login.
// Unknown email and wrong password produce the same envelope.
func (s *serviceImpl) Login(ctx context.Context, email, password string) envelope.Response[*AuthResult] {
	log := logger.FromContextOrDefault(ctx, s.logger)
	invalid := envelope.Fail[*AuthResult](envelope.InvalidCredentials, MsgInvalidCredentials, MsgInvalidCredentialsHint)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Info("login failed", slog.String("reason", "unknown_email"))
			return invalid
		}
		log.Error("user lookup failed during login", slog.String("error", redact.Error(err)))
		return envelope.Fail[*AuthResult](envelope.InternalError, MsgLoginError, redact.Error(err))
	}

	if !user.IsActive {
		log.Info("login failed",
			slog.String("reason", "inactive"),
			slog.String("user_id", user.ID.String()))
		return envelope.Fail[*AuthResult](envelope.AccountInactive, MsgAccountInactive, MsgAccountInactiveHint)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			log.Error("stored credential could not be checked",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", user.ID.String()))
		} else {
			log.Info("login failed",
				slog.String("reason", "wrong_password"),
				slog.String("user_id", user.ID.String()))
		}
		return invalid
	}

	result, err := s.authenticate(ctx, user)
	if err != nil {
		log.Error("failed to issue token at login",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		return envelope.Fail[*AuthResult](envelope.InternalError, MsgLoginError, redact.Error(err))
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return envelope.OK(result, MsgLoginSuccessful)
}

// GetIdentity implements Service.GetIdentity
func (s *serviceImpl) GetIdentity(ctx context.Context, id uuid.UUID) envelope.Response[*UserProfile] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return envelope.Fail[*UserProfile](envelope.NotFound, MsgUserNotFound, MsgUserNotFoundDetail)
		}
		log.Error("failed to get user",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", id.String()))
		return envelope.Fail[*UserProfile](envelope.InternalError, MsgUserLookupError, redact.Error(err))
	}

	return envelope.OK(&UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, "")
}

// IssueToken implements Service.IssueToken
func (s *serviceImpl) IssueToken(ctx context.Context, user *domain.User) (*AccessToken, error) {
	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.tokens.GenerateToken(ctx, user, roles)
}

func (s *serviceImpl) authenticate(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:          user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Token:           token.Token,
		TokenExpiration: token.ExpiresAt,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown users, inactive users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken indicates another account already uses the username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrCurrentPasswordInvalid indicates a password change without a valid current password.
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
	// ErrInvalidResetToken covers unknown, used and expired reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID uint, email string, role models.Role) (string, error)
	TTL() time.Duration
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// AuthOptions tunes the password reset flow.
type AuthOptions struct {
	ResetTokenTTL    time.Duration
	ExposeResetToken bool
}

// AuthService handles login, registration and self-service account flows.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, origin Origin) (dto.LoginResponse, error)
	Logout(ctx context.Context, userID uint, origin Origin)
	Me(ctx context.Context, userID uint) (dto.UserResponse, error)
	Register(ctx context.Context, actorID uint, req dto.RegisterRequest, origin Origin) (dto.UserResponse, error)
	EditProfile(ctx context.Context, userID uint, req dto.EditProfileRequest, origin Origin) (dto.UserResponse, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type authService struct {
	users     repository.UserRepository
	resets    repository.PasswordResetRepository
	tokens    TokenIssuer
	hasher    PasswordHasher
	activity  ActivityLogger
	events    EventPublisher
	validator *validator.Validate
	options   AuthOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	activity ActivityLogger,
	events EventPublisher,
	validate *validator.Validate,
	options AuthOptions,
	logger zerolog.Logger,
) AuthService {
	if options.ResetTokenTTL <= 0 {
		options.ResetTokenTTL = time.Hour
	}
	return &authService{
		users:     users,
		resets:    resets,
		tokens:    tokens,
		hasher:    hasher,
		activity:  activity,
		events:    events,
		validator: validate,
		options:   options,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, origin Origin) (dto.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}
	if !user.IsActive || !s.hasher.Verify(req.Password, user.PasswordHash) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("issue token: %w", err)
	}

	s.activity.LogLogin(ctx, user.ID, origin)
	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")

	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: s.now().Add(s.tokens.TTL()).UTC(),
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint, origin Origin) {
	s.activity.LogLogout(ctx, userID, origin)
}

func (s *authService) Me(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) Register(ctx context.Context, actorID uint, req dto.RegisterRequest, origin Origin) (dto.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.ensureUnique(ctx, 0, req.Email, req.Username); err != nil {
		return dto.UserResponse{}, err
	}

	role := models.RoleOperator
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.activity.LogUserCreation(ctx, actorID, user.ID, origin)
	return dto.NewUserResponse(user), nil
}

func (s *authService) EditProfile(ctx context.Context, userID uint, req dto.EditProfileRequest, origin Origin) (dto.UserResponse, error) {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		req.Username = &username
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	email, username := "", ""
	if req.Email != nil && *req.Email != user.Email {
		email = *req.Email
	}
	if req.Username != nil && *req.Username != user.Username {
		username = *req.Username
	}
	if err := s.ensureUnique(ctx, user.ID, email, username); err != nil {
		return dto.UserResponse{}, err
	}

	changed := make([]string, 0, 3)
	if email != "" {
		user.Email = email
		changed = append(changed, "email")
	}
	if username != "" {
		user.Username = username
		changed = append(changed, "username")
	}
	if req.NewPassword != nil {
		if req.CurrentPassword == "" || !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
			return dto.UserResponse{}, ErrCurrentPasswordInvalid
		}
		digest, err := s.hasher.Hash(*req.NewPassword)
		if err != nil {
			return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = digest
		changed = append(changed, "password")
	}

	if len(changed) == 0 {
		return dto.NewUserResponse(user), nil
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    user.ID,
		Action:     models.ActionUpdate,
		Resource:   "user",
		ResourceID: &user.ID,
		Details:    "Updated own profile",
		Origin:     origin,
		Metadata:   map[string]interface{}{"fields": strings.Join(changed, ",")},
	})
	return dto.NewUserResponse(user), nil
}

func (s *authService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return dto.ForgotPasswordResponse{}, nil
		}
		return dto.ForgotPasswordResponse{}, err
	}
	if !user.IsActive {
		return dto.ForgotPasswordResponse{}, nil
	}

	record := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.options.ResetTokenTTL).UTC(),
	}
	if err := s.resets.Create(ctx, &record); err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	s.events.Publish(ctx, SubjectPasswordResetRequested, map[string]interface{}{
		"user_id":    user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"token":      record.Token,
		"expires_at": record.ExpiresAt,
	})

	if !s.options.ExposeResetToken {
		return dto.ForgotPasswordResponse{}, nil
	}
	expiresAt := record.ExpiresAt
	return dto.ForgotPasswordResponse{ResetToken: record.Token, ExpiresAt: &expiresAt}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	req.Token = strings.TrimSpace(req.Token)
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	record, err := s.resets.FindByToken(ctx, req.Token)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidResetToken
		}
		return err
	}
	if record.IsUsed || !s.now().Before(record.ExpiresAt) {
		return ErrInvalidResetToken
	}

	digest, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.resets.Consume(ctx, record.ID, record.UserID, digest); err != nil {
		if isNotFound(err) {
			return ErrInvalidResetToken
		}
		return err
	}

	s.logger.Info().Uint("user_id", record.UserID).Msg("password reset completed")
	return nil
}

// ensureUnique rejects email or username values owned by a user other than selfID.
// Empty values are not checked.
func (s *authService) ensureUnique(ctx context.Context, selfID uint, email, username string) error {
	if email != "" {
		existing, err := s.users.FindByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return ErrEmailTaken
		}
		if err != nil && !isNotFound(err) {
			return err
		}
	}
	if username != "" {
		existing, err := s.users.FindByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return ErrUsernameTaken
		}
		if err != nil && !isNotFound(err) {
			return err
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

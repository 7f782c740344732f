package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

var (
	// ErrInvalidRole indicates a role outside the supported set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSelfLockout prevents an administrator from deactivating or demoting their own account.
	ErrSelfLockout = errors.New("administrators cannot deactivate or demote their own account")
)

// UserService manages accounts on behalf of administrators.
type UserService interface {
	List(ctx context.Context, page, pageSize int) (dto.ListResponse[dto.UserResponse], error)
	UpdateRole(ctx context.Context, actorID, targetID uint, req dto.UpdateRoleRequest, origin Origin) (dto.UserResponse, error)
	UpdateStatus(ctx context.Context, actorID, targetID uint, req dto.UpdateStatusRequest, origin Origin) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	activity  ActivityLogger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user management service.
func NewUserService(users repository.UserRepository, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, page, pageSize int) (dto.ListResponse[dto.UserResponse], error) {
	page, pageSize = normalizePage(page, pageSize)
	users, total, err := s.users.List(ctx, repository.UserFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return dto.ListResponse[dto.UserResponse]{}, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}
	return dto.ListResponse[dto.UserResponse]{Items: items, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

func (s *userService) UpdateRole(ctx context.Context, actorID, targetID uint, req dto.UpdateRoleRequest, origin Origin) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}
	role := models.Role(req.Role)
	if !role.IsValid() {
		return dto.UserResponse{}, ErrInvalidRole
	}

	user, err := s.find(ctx, targetID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if actorID == targetID && role != models.RoleAdmin {
		return dto.UserResponse{}, ErrSelfLockout
	}

	user.Role = role
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.activity.LogRoleChange(ctx, actorID, user.ID, role, origin)
	s.logger.Info().Uint("actor_id", actorID).Uint("user_id", user.ID).Str("role", string(role)).Msg("user role changed")
	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateStatus(ctx context.Context, actorID, targetID uint, req dto.UpdateStatusRequest, origin Origin) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.find(ctx, targetID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	active := *req.IsActive
	if actorID == targetID && !active {
		return dto.UserResponse{}, ErrSelfLockout
	}

	user.IsActive = active
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.activity.LogStatusChange(ctx, actorID, user.ID, active, origin)
	s.logger.Info().Uint("actor_id", actorID).Uint("user_id", user.ID).Bool("is_active", active).Msg("user status changed")
	return dto.NewUserResponse(user), nil
}

func (s *userService) find(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/middleware"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/observability"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	ActorID    uint
	Action     models.ActivityAction
	Resource   string
	ResourceID *uint
	Details    string
	Origin     Origin
	Metadata   map[string]interface{}
}

// ActivityLogger records audit entries. None of its methods can fail the caller.
type ActivityLogger interface {
	Record(ctx context.Context, entry ActivityEntry)
	LogLogin(ctx context.Context, userID uint, origin Origin)
	LogLogout(ctx context.Context, userID uint, origin Origin)
	LogRoleChange(ctx context.Context, actorID, targetID uint, role models.Role, origin Origin)
	LogStatusChange(ctx context.Context, actorID, targetID uint, active bool, origin Origin)
	LogUserCreation(ctx context.Context, actorID, newUserID uint, origin Origin)
	LogTransaction(ctx context.Context, actorID uint, action models.ActivityAction, resource string, resourceID uint, details string, origin Origin)
}

// ActivityService exposes the audit trail.
type ActivityService interface {
	ActivityLogger
	List(ctx context.Context, req dto.ActivityLogListRequest) (dto.ListResponse[dto.ActivityLogResponse], error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, users repository.UserRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		users:  users,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	s.nonCritical(entry, s.write(ctx, entry))
}

func (s *activityService) LogLogin(ctx context.Context, userID uint, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: userID, Action: models.ActionLogin, Resource: "auth", Details: "User logged in", Origin: origin})
}

func (s *activityService) LogLogout(ctx context.Context, userID uint, origin Origin) {
	s.Record(ctx, ActivityEntry{ActorID: userID, Action: models.ActionLogout, Resource: "auth", Details: "User logged out", Origin: origin})
}

func (s *activityService) LogRoleChange(ctx context.Context, actorID, targetID uint, role models.Role, origin Origin) {
	s.Record(ctx, ActivityEntry{
		ActorID:    actorID,
		Action:     models.ActionUpdateRole,
		Resource:   "user",
		ResourceID: &targetID,
		Details:    fmt.Sprintf("Changed user role to %s", role),
		Origin:     origin,
	})
}

func (s *activityService) LogStatusChange(ctx context.Context, actorID, targetID uint, active bool, origin Origin) {
	details := "Deactivated user account"
	if active {
		details = "Activated user account"
	}
	s.Record(ctx, ActivityEntry{
		ActorID:    actorID,
		Action:     models.ActionUpdateStatus,
		Resource:   "user",
		ResourceID: &targetID,
		Details:    details,
		Origin:     origin,
	})
}

func (s *activityService) LogUserCreation(ctx context.Context, actorID, newUserID uint, origin Origin) {
	s.Record(ctx, ActivityEntry{
		ActorID:    actorID,
		Action:     models.ActionCreate,
		Resource:   "user",
		ResourceID: &newUserID,
		Details:    "Created new user account",
		Origin:     origin,
	})
}

func (s *activityService) LogTransaction(ctx context.Context, actorID uint, action models.ActivityAction, resource string, resourceID uint, details string, origin Origin) {
	s.Record(ctx, ActivityEntry{
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		Details:    details,
		Origin:     origin,
	})
}

func (s *activityService) write(ctx context.Context, entry ActivityEntry) error {
	if !entry.Action.IsValid() {
		return fmt.Errorf("unsupported activity action %q", entry.Action)
	}
	resource := strings.ToLower(strings.TrimSpace(entry.Resource))
	if resource == "" {
		return fmt.Errorf("activity resource is required")
	}

	metadata := sanitizeMetadata(entry.Metadata)
	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		metadata["correlation_id"] = correlationID
	}

	model := models.ActivityLog{
		UserID:     entry.ActorID,
		Action:     entry.Action,
		Resource:   resource,
		ResourceID: entry.ResourceID,
		IPAddress:  truncate(entry.Origin.IP, 64),
		UserAgent:  truncate(entry.Origin.UserAgent, 512),
		Metadata:   metadata,
	}
	if details := sanitizeText(entry.Details); details != "" {
		model.Details = &details
	}

	return s.repo.Create(ctx, &model)
}

// nonCritical swallows audit failures after making them visible in logs and metrics.
func (s *activityService) nonCritical(entry ActivityEntry, err error) {
	if err == nil {
		return
	}
	observability.AuditWriteFailures().WithLabelValues(string(entry.Action)).Inc()
	s.logger.Error().
		Err(err).
		Str("action", string(entry.Action)).
		Str("resource", entry.Resource).
		Uint("actor_id", entry.ActorID).
		Msg("failed to record activity log")
}

func (s *activityService) List(ctx context.Context, req dto.ActivityLogListRequest) (dto.ListResponse[dto.ActivityLogResponse], error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	filter := repository.ActivityLogFilter{
		Page:     page,
		PageSize: pageSize,
		Action:   strings.TrimSpace(req.Action),
		Resource: strings.ToLower(strings.TrimSpace(req.Resource)),
		From:     req.From,
		To:       req.To,
	}
	if req.UserID > 0 {
		filter.UserID = &req.UserID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.ActivityLogResponse]{}, err
	}

	actors, err := s.actorsFor(ctx, entries)
	if err != nil {
		return dto.ListResponse[dto.ActivityLogResponse]{}, err
	}

	items := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		var actor *models.User
		if user, ok := actors[entry.UserID]; ok {
			actor = &user
		}
		items = append(items, dto.NewActivityLogResponse(entry, actor))
	}

	return dto.ListResponse[dto.ActivityLogResponse]{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *activityService) actorsFor(ctx context.Context, entries []models.ActivityLog) (map[uint]models.User, error) {
	seen := make(map[uint]struct{}, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.UserID]; ok {
			continue
		}
		seen[entry.UserID] = struct{}{}
		ids = append(ids, entry.UserID)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return byID, nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "email") {
			sanitized[key] = "***"
			continue
		}
		if text, ok := value.(string); ok {
			sanitized[key] = sanitizeText(text)
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}

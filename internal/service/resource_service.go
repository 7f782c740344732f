package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

var (
	// ErrRecordNotFound indicates the requested resource row does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInsufficientStock indicates a movement would make a stock level negative.
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// ReferenceError reports a foreign key that points to a missing row.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced %s does not exist", e.Field)
}

// Actor identifies who performs a mutation and from where.
type Actor struct {
	ID     uint
	Origin Origin
}

// ResourceService is the CRUD contract shared by master data and business transactions.
type ResourceService[T any, R any] interface {
	Name() string
	List(ctx context.Context, req dto.ListRequest) (dto.ListResponse[T], error)
	Get(ctx context.Context, id uint) (T, error)
	Create(ctx context.Context, actor Actor, req R) (T, error)
	Update(ctx context.Context, actor Actor, id uint, req R) (T, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

// resourceSpec describes how one resource maps requests to rows.
type resourceSpec[T any, R any] struct {
	name string
	// build produces the row to persist; existing is nil on create.
	build func(ctx context.Context, req R, existing *T) (T, error)
	// movements lists the stock side effects of creating the row.
	movements func(record T) []repository.StockMovement
	id        func(record T) uint
	describe  func(record T) string
}

type resourceService[T any, R any] struct {
	spec      resourceSpec[T, R]
	repo      repository.CRUDRepository[T]
	stock     *StockLedger
	cache     CacheInvalidator
	activity  ActivityLogger
	validator *validator.Validate
	logger    zerolog.Logger
}

func newResourceService[T any, R any](spec resourceSpec[T, R], repo repository.CRUDRepository[T], stock *StockLedger, cache CacheInvalidator, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) *resourceService[T, R] {
	return &resourceService[T, R]{
		spec:      spec,
		repo:      repo,
		stock:     stock,
		cache:     cache,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", spec.name+"_service").Logger(),
	}
}

func (s *resourceService[T, R]) Name() string {
	return s.spec.name
}

func (s *resourceService[T, R]) List(ctx context.Context, req dto.ListRequest) (dto.ListResponse[T], error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	records, total, err := s.repo.List(ctx, repository.ListFilter{
		Page:     page,
		PageSize: pageSize,
		From:     req.From,
		To:       req.To,
	})
	if err != nil {
		return dto.ListResponse[T]{}, err
	}
	if records == nil {
		records = []T{}
	}
	return dto.ListResponse[T]{Items: records, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

func (s *resourceService[T, R]) Get(ctx context.Context, id uint) (T, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var zero T
		if isNotFound(err) {
			return zero, ErrRecordNotFound
		}
		return zero, err
	}
	return record, nil
}

func (s *resourceService[T, R]) Create(ctx context.Context, actor Actor, req R) (T, error) {
	var zero T
	if err := s.validator.Struct(req); err != nil {
		return zero, err
	}

	record, err := s.spec.build(ctx, req, nil)
	if err != nil {
		return zero, err
	}

	var movements []repository.StockMovement
	if s.spec.movements != nil {
		movements = s.spec.movements(record)
	}

	if len(movements) > 0 && s.stock != nil {
		ref, ok := any(&record).(repository.Referenced)
		if !ok {
			return zero, fmt.Errorf("%s rows cannot carry stock movements", s.spec.name)
		}
		if err := s.stock.CreateWith(ctx, ref, movements); err != nil {
			return zero, err
		}
	} else if err := s.repo.Create(ctx, &record); err != nil {
		return zero, err
	}

	s.invalidate(ctx)
	s.activity.LogTransaction(ctx, actor.ID, models.ActionCreate, s.spec.name, s.spec.id(record), s.spec.describe(record), actor.Origin)
	return record, nil
}

func (s *resourceService[T, R]) Update(ctx context.Context, actor Actor, id uint, req R) (T, error) {
	var zero T
	if err := s.validator.Struct(req); err != nil {
		return zero, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	record, err := s.spec.build(ctx, req, &existing)
	if err != nil {
		return zero, err
	}
	if err := s.repo.Update(ctx, &record); err != nil {
		return zero, err
	}

	s.invalidate(ctx)
	s.activity.LogTransaction(ctx, actor.ID, models.ActionUpdate, s.spec.name, id, s.spec.describe(record), actor.Origin)
	return record, nil
}

func (s *resourceService[T, R]) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrRecordNotFound
		}
		return err
	}

	s.invalidate(ctx)
	s.activity.LogTransaction(ctx, actor.ID, models.ActionDelete, s.spec.name, id, fmt.Sprintf("Deleted %s #%d", s.spec.name, id), actor.Origin)
	return nil
}

func (s *resourceService[T, R]) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

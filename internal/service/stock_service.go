package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/observability"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

// ErrStockItemExists indicates a stock row for the item type already exists.
var ErrStockItemExists = errors.New("stock item already exists")

// StockMovementEvent is published for every committed movement.
type StockMovementEvent struct {
	StokID         uint                        `json:"stok_id"`
	JenisItem      string                      `json:"jenis_item"`
	JenisTransaksi models.StockTransactionType `json:"jenis_transaksi"`
	Jumlah         decimal.Decimal             `json:"jumlah"`
	JumlahSebelum  decimal.Decimal             `json:"jumlah_sebelum"`
	JumlahSesudah  decimal.Decimal             `json:"jumlah_sesudah"`
	ReferensiID    *uint                       `json:"referensi_id,omitempty"`
	ReferensiTabel string                      `json:"referensi_tabel,omitempty"`
	Keterangan     string                      `json:"keterangan,omitempty"`
}

// LowStockEvent is published when a movement leaves an item under its minimum.
type LowStockEvent struct {
	StokID       uint            `json:"stok_id"`
	JenisItem    string          `json:"jenis_item"`
	Jumlah       decimal.Decimal `json:"jumlah"`
	BatasMinimum decimal.Decimal `json:"batas_minimum"`
	Satuan       string          `json:"satuan"`
}

// StockLedger applies stock movements and announces them once committed.
type StockLedger struct {
	repo   repository.StockRepository
	events EventPublisher
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewStockLedger constructs the ledger shared by the transaction and stock services.
func NewStockLedger(repo repository.StockRepository, events EventPublisher, logger zerolog.Logger) *StockLedger {
	return &StockLedger{
		repo:   repo,
		events: events,
		logger: logger.With().Str("component", "stock_ledger").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/padidoc-go-api/internal/service/stock"),
	}
}

// CreateWith inserts record and its movements atomically.
func (l *StockLedger) CreateWith(ctx context.Context, record repository.Referenced, movements []repository.StockMovement) error {
	ctx, span := l.tracer.Start(ctx, "stock.create_with_movements")
	defer span.End()
	span.SetAttributes(
		attribute.String("stock.reference_table", record.TableName()),
		attribute.Int("stock.movement_count", len(movements)),
	)

	changes, err := l.repo.CreateWithMovements(ctx, record, movements)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "movement rejected")
		return err
	}

	l.committed(ctx, changes)
	return nil
}

// Adjust applies a signed correction to one stock row.
func (l *StockLedger) Adjust(ctx context.Context, stockID uint, delta decimal.Decimal, note string) (repository.StockChange, error) {
	ctx, span := l.tracer.Start(ctx, "stock.adjust")
	defer span.End()
	span.SetAttributes(attribute.Int("stock.id", int(stockID)), attribute.String("stock.delta", delta.String()))

	change, err := l.repo.Adjust(ctx, stockID, delta, note)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "adjustment rejected")
		return repository.StockChange{}, err
	}

	l.committed(ctx, []repository.StockChange{change})
	return change, nil
}

func (l *StockLedger) committed(ctx context.Context, changes []repository.StockChange) {
	for _, change := range changes {
		observability.StockMovements().WithLabelValues(change.Stock.JenisItem, string(change.Log.JenisTransaksi)).Inc()

		l.events.Publish(ctx, SubjectStockMovement, StockMovementEvent{
			StokID:         change.Stock.ID,
			JenisItem:      change.Stock.JenisItem,
			JenisTransaksi: change.Log.JenisTransaksi,
			Jumlah:         change.Log.Jumlah,
			JumlahSebelum:  change.Log.JumlahSebelum,
			JumlahSesudah:  change.Log.JumlahSesudah,
			ReferensiID:    change.Log.ReferensiID,
			ReferensiTabel: change.Log.ReferensiTabel,
			Keterangan:     change.Log.Keterangan,
		})

		if change.Stock.BelowMinimum() {
			l.logger.Warn().
				Str("item", change.Stock.JenisItem).
				Str("level", change.Stock.Jumlah.String()).
				Str("minimum", change.Stock.BatasMinimum.String()).
				Msg("stock below minimum")
			l.events.Publish(ctx, SubjectStockLow, LowStockEvent{
				StokID:       change.Stock.ID,
				JenisItem:    change.Stock.JenisItem,
				Jumlah:       change.Stock.Jumlah,
				BatasMinimum: change.Stock.BatasMinimum,
				Satuan:       change.Stock.Satuan,
			})
		}
	}
}

// StockService manages stock rows and exposes the movement log.
type StockService interface {
	List(ctx context.Context, req dto.ListRequest) (dto.ListResponse[models.Stok], error)
	Get(ctx context.Context, id uint) (models.Stok, error)
	Create(ctx context.Context, actor Actor, req dto.StokCreateRequest) (models.Stok, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.StokUpdateRequest) (models.Stok, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Adjust(ctx context.Context, actor Actor, id uint, req dto.StockAdjustRequest) (dto.StockChangeResponse, error)
	ListLogs(ctx context.Context, req dto.StockLogListRequest) (dto.ListResponse[models.LogStok], error)
}

type stockService struct {
	repo      repository.StockRepository
	ledger    *StockLedger
	activity  ActivityLogger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStockService constructs the stock service.
func NewStockService(repo repository.StockRepository, ledger *StockLedger, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) StockService {
	return &stockService{
		repo:      repo,
		ledger:    ledger,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "stock_service").Logger(),
	}
}

func (s *stockService) List(ctx context.Context, req dto.ListRequest) (dto.ListResponse[models.Stok], error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	stocks, total, err := s.repo.List(ctx, repository.ListFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return dto.ListResponse[models.Stok]{}, err
	}
	if stocks == nil {
		stocks = []models.Stok{}
	}
	return dto.ListResponse[models.Stok]{Items: stocks, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

func (s *stockService) Get(ctx context.Context, id uint) (models.Stok, error) {
	stock, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return models.Stok{}, ErrRecordNotFound
		}
		return models.Stok{}, err
	}
	return stock, nil
}

func (s *stockService) Create(ctx context.Context, actor Actor, req dto.StokCreateRequest) (models.Stok, error) {
	req.JenisItem = strings.ToLower(sanitizeText(req.JenisItem))
	if err := s.validator.Struct(req); err != nil {
		return models.Stok{}, err
	}

	if _, err := s.repo.FindByItem(ctx, req.JenisItem); err == nil {
		return models.Stok{}, ErrStockItemExists
	} else if !isNotFound(err) {
		return models.Stok{}, err
	}

	stock := models.Stok{
		JenisItem:     req.JenisItem,
		Jumlah:        req.Jumlah,
		Satuan:        defaultString(sanitizeText(req.Satuan), models.DefaultStockUnit),
		HargaRataRata: decimal.Zero,
		BatasMinimum:  decimal.Zero,
		Lokasi:        defaultString(sanitizeText(req.Lokasi), models.DefaultStockLocation),
	}
	if req.HargaRataRata != nil {
		stock.HargaRataRata = *req.HargaRataRata
	}
	if req.BatasMinimum != nil {
		stock.BatasMinimum = *req.BatasMinimum
	}

	if err := s.repo.Create(ctx, &stock); err != nil {
		return models.Stok{}, err
	}

	s.activity.LogTransaction(ctx, actor.ID, models.ActionCreate, "stok", stock.ID, "Created stock item "+stock.JenisItem, actor.Origin)
	return stock, nil
}

func (s *stockService) Update(ctx context.Context, actor Actor, id uint, req dto.StokUpdateRequest) (models.Stok, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Stok{}, err
	}

	stock, err := s.Get(ctx, id)
	if err != nil {
		return models.Stok{}, err
	}

	if req.Satuan != nil {
		stock.Satuan = defaultString(sanitizeText(*req.Satuan), stock.Satuan)
	}
	if req.HargaRataRata != nil {
		stock.HargaRataRata = *req.HargaRataRata
	}
	if req.BatasMinimum != nil {
		stock.BatasMinimum = *req.BatasMinimum
	}
	if req.Lokasi != nil {
		stock.Lokasi = sanitizeText(*req.Lokasi)
	}

	if err := s.repo.Update(ctx, &stock); err != nil {
		return models.Stok{}, err
	}

	s.activity.LogTransaction(ctx, actor.ID, models.ActionUpdate, "stok", stock.ID, "Updated stock item "+stock.JenisItem, actor.Origin)
	return stock, nil
}

func (s *stockService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrRecordNotFound
		}
		return err
	}
	s.activity.LogTransaction(ctx, actor.ID, models.ActionDelete, "stok", id, "Deleted stock item", actor.Origin)
	return nil
}

func (s *stockService) Adjust(ctx context.Context, actor Actor, id uint, req dto.StockAdjustRequest) (dto.StockChangeResponse, error) {
	req.Keterangan = sanitizeText(req.Keterangan)
	if err := s.validator.Struct(req); err != nil {
		return dto.StockChangeResponse{}, err
	}

	change, err := s.ledger.Adjust(ctx, id, req.Jumlah, defaultString(req.Keterangan, "Penyesuaian stok"))
	if err != nil {
		if isNotFound(err) {
			return dto.StockChangeResponse{}, ErrRecordNotFound
		}
		return dto.StockChangeResponse{}, err
	}

	s.activity.LogTransaction(ctx, actor.ID, models.ActionUpdate, "stok", id, "Adjusted stock "+change.Stock.JenisItem+" by "+req.Jumlah.String(), actor.Origin)
	return dto.StockChangeResponse{Stok: change.Stock, Log: change.Log}, nil
}

func (s *stockService) ListLogs(ctx context.Context, req dto.StockLogListRequest) (dto.ListResponse[models.LogStok], error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	filter := repository.StockLogFilter{Page: page, PageSize: pageSize}
	if req.StokID > 0 {
		filter.StokID = &req.StokID
	}

	logs, total, err := s.repo.ListLogs(ctx, filter)
	if err != nil {
		return dto.ListResponse[models.LogStok]{}, err
	}
	if logs == nil {
		logs = []models.LogStok{}
	}
	return dto.ListResponse[models.LogStok]{Items: logs, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

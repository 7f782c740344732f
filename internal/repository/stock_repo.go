package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

// ErrInsufficientStock is matched by InsufficientStockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a movement that would drive a stock level below zero.
type InsufficientStockError struct {
	Item      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s", e.Item, e.Available.String(), e.Requested.String())
}

// Is lets errors.Is match ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Referenced is a transaction row that stock movements point back to.
type Referenced interface {
	ReferenceID() uint
	TableName() string
}

// StockMovement is one signed change to an item's level.
type StockMovement struct {
	Item  string
	Delta decimal.Decimal
	Kind  models.StockTransactionType
	Note  string
}

// StockChange is the outcome of an applied movement.
type StockChange struct {
	Stock models.Stok
	Log   models.LogStok
}

// StockLogFilter narrows stock movement log queries.
type StockLogFilter struct {
	Page     int
	PageSize int
	StokID   *uint
}

// StockRepository manages stock levels and their movement log.
type StockRepository interface {
	CRUDRepository[models.Stok]
	FindByItem(ctx context.Context, item string) (models.Stok, error)
	ListByItems(ctx context.Context, items []string) ([]models.Stok, error)
	ListLogs(ctx context.Context, filter StockLogFilter) ([]models.LogStok, int64, error)
	// CreateWithMovements inserts record and applies movements in one transaction.
	CreateWithMovements(ctx context.Context, record Referenced, movements []StockMovement) ([]StockChange, error)
	Adjust(ctx context.Context, stockID uint, delta decimal.Decimal, note string) (StockChange, error)
}

type stockRepository struct {
	crudRepository[models.Stok]
}

// NewStockRepository constructs the stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{crudRepository: crudRepository[models.Stok]{db: db}}
}

func (r *stockRepository) FindByItem(ctx context.Context, item string) (models.Stok, error) {
	var stock models.Stok
	err := r.db.WithContext(ctx).Where("jenis_item = ?", item).First(&stock).Error
	return stock, err
}

func (r *stockRepository) ListByItems(ctx context.Context, items []string) ([]models.Stok, error) {
	var stocks []models.Stok
	err := r.db.WithContext(ctx).Where("jenis_item IN ?", items).Order("jenis_item ASC").Find(&stocks).Error
	return stocks, err
}

func (r *stockRepository) ListLogs(ctx context.Context, filter StockLogFilter) ([]models.LogStok, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LogStok{})
	if filter.StokID != nil {
		query = query.Where("stok_id = ?", *filter.StokID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.LogStok
	if err := paginate(query, filter.Page, filter.PageSize).Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *stockRepository) CreateWithMovements(ctx context.Context, record Referenced, movements []StockMovement) ([]StockChange, error) {
	var changes []StockChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		refID := record.ReferenceID()
		changes = make([]StockChange, 0, len(movements))
		for _, movement := range movements {
			stock, err := lockStockByItem(tx, movement.Item)
			if err != nil {
				return err
			}
			change, err := applyMovement(tx, stock, movement, &refID, record.TableName())
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *stockRepository) Adjust(ctx context.Context, stockID uint, delta decimal.Decimal, note string) (StockChange, error) {
	var change StockChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock models.Stok
		if err := withRowLock(tx).First(&stock, stockID).Error; err != nil {
			return err
		}

		var err error
		change, err = applyMovement(tx, stock, StockMovement{
			Item:  stock.JenisItem,
			Delta: delta,
			Kind:  models.StockAdjustment,
			Note:  note,
		}, nil, "")
		return err
	})
	return change, err
}

// lockStockByItem loads the item row for update, creating it with defaults when missing.
func lockStockByItem(tx *gorm.DB, item string) (models.Stok, error) {
	var stock models.Stok
	err := withRowLock(tx).Where("jenis_item = ?", item).First(&stock).Error
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Stok{}, err
	}

	stock = models.Stok{
		JenisItem:     item,
		Jumlah:        decimal.Zero,
		Satuan:        models.DefaultStockUnit,
		HargaRataRata: decimal.Zero,
		BatasMinimum:  decimal.Zero,
		Lokasi:        models.DefaultStockLocation,
	}
	if err := tx.Create(&stock).Error; err != nil {
		return models.Stok{}, err
	}
	return stock, nil
}

func applyMovement(tx *gorm.DB, stock models.Stok, movement StockMovement, refID *uint, refTable string) (StockChange, error) {
	before := stock.Jumlah
	after := before.Add(movement.Delta)
	if after.IsNegative() {
		return StockChange{}, &InsufficientStockError{
			Item:      stock.JenisItem,
			Available: before,
			Requested: movement.Delta.Neg(),
		}
	}

	if err := tx.Model(&stock).Update("jumlah", after).Error; err != nil {
		return StockChange{}, err
	}
	stock.Jumlah = after

	entry := models.LogStok{
		StokID:         stock.ID,
		JenisTransaksi: movement.Kind,
		Jumlah:         movement.Delta,
		JumlahSebelum:  before,
		JumlahSesudah:  after,
		ReferensiID:    refID,
		ReferensiTabel: refTable,
		Keterangan:     movement.Note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return StockChange{}, err
	}

	return StockChange{Stock: stock, Log: entry}, nil
}

// withRowLock adds SELECT ... FOR UPDATE where the dialect supports it.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

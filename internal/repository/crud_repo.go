package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

// ListFilter narrows list queries for master data and transaction tables.
// From is inclusive and To is exclusive; both apply to the record date column.
type ListFilter struct {
	Page     int
	PageSize int
	From     *time.Time
	To       *time.Time
}

// CRUDRepository is the persistence contract shared by the plain resource tables.
type CRUDRepository[T any] interface {
	List(ctx context.Context, filter ListFilter) ([]T, int64, error)
	FindByID(ctx context.Context, id uint) (T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id uint) error
}

type (
	SupplierRepository    = CRUDRepository[models.Supplier]
	CustomerRepository    = CRUDRepository[models.Customer]
	PembelianRepository   = CRUDRepository[models.Pembelian]
	PengeringanRepository = CRUDRepository[models.Pengeringan]
	ProduksiRepository    = CRUDRepository[models.Produksi]
	PenjualanRepository   = CRUDRepository[models.Penjualan]
	PengeluaranRepository = CRUDRepository[models.Pengeluaran]
)

type crudRepository[T any] struct {
	db         *gorm.DB
	dateColumn string
}

// NewSupplierRepository constructs the supplier repository.
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &crudRepository[models.Supplier]{db: db}
}

// NewCustomerRepository constructs the customer repository.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &crudRepository[models.Customer]{db: db}
}

// NewPembelianRepository constructs the purchase repository.
func NewPembelianRepository(db *gorm.DB) PembelianRepository {
	return &crudRepository[models.Pembelian]{db: db, dateColumn: "tanggal"}
}

// NewPengeringanRepository constructs the drying batch repository.
func NewPengeringanRepository(db *gorm.DB) PengeringanRepository {
	return &crudRepository[models.Pengeringan]{db: db, dateColumn: "tanggal_mulai"}
}

// NewProduksiRepository constructs the production repository.
func NewProduksiRepository(db *gorm.DB) ProduksiRepository {
	return &crudRepository[models.Produksi]{db: db, dateColumn: "tanggal"}
}

// NewPenjualanRepository constructs the sales repository.
func NewPenjualanRepository(db *gorm.DB) PenjualanRepository {
	return &crudRepository[models.Penjualan]{db: db, dateColumn: "tanggal"}
}

// NewPengeluaranRepository constructs the expense repository.
func NewPengeluaranRepository(db *gorm.DB) PengeluaranRepository {
	return &crudRepository[models.Pengeluaran]{db: db, dateColumn: "tanggal"}
}

func (r *crudRepository[T]) List(ctx context.Context, filter ListFilter) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	if r.dateColumn != "" {
		if filter.From != nil {
			query = query.Where(r.dateColumn+" >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where(r.dateColumn+" < ?", *filter.To)
		}
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)
	if r.dateColumn != "" {
		query = query.Order(r.dateColumn + " DESC").Order("id DESC")
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}

	var records []T
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *crudRepository[T]) FindByID(ctx context.Context, id uint) (T, error) {
	var record T
	err := r.db.WithContext(ctx).First(&record, id).Error
	return record, err
}

func (r *crudRepository[T]) Create(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *crudRepository[T]) Update(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *crudRepository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

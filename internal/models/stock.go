package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied to stock rows created implicitly by a movement.
const (
	DefaultStockUnit     = "kg"
	DefaultStockLocation = "Gudang Utama"
)

// StockTransactionType classifies a stock movement.
type StockTransactionType string

const (
	StockIn         StockTransactionType = "masuk"
	StockOut        StockTransactionType = "keluar"
	StockAdjustment StockTransactionType = "adjustment"
)

// Stok is the running inventory level of one item type.
type Stok struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	JenisItem     string          `gorm:"size:50;uniqueIndex;not null" json:"jenis_item"`
	Jumlah        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"jumlah"`
	Satuan        string          `gorm:"size:20;not null" json:"satuan"`
	HargaRataRata decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"harga_rata_rata"`
	BatasMinimum  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"batas_minimum"`
	Lokasi        string          `gorm:"size:100" json:"lokasi"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BelowMinimum reports whether the level dropped under the configured threshold.
func (s Stok) BelowMinimum() bool {
	return s.BatasMinimum.IsPositive() && s.Jumlah.LessThan(s.BatasMinimum)
}

// LogStok records one stock movement with the level before and after it.
type LogStok struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	StokID         uint                 `gorm:"not null;index" json:"stok_id"`
	JenisTransaksi StockTransactionType `gorm:"size:20;not null" json:"jenis_transaksi"`
	Jumlah         decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"jumlah"`
	JumlahSebelum  decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"jumlah_sebelum"`
	JumlahSesudah  decimal.Decimal      `gorm:"type:decimal(18,2);not null" json:"jumlah_sesudah"`
	ReferensiID    *uint                `json:"referensi_id"`
	ReferensiTabel string               `gorm:"size:50" json:"referensi_tabel"`
	Keterangan     string               `gorm:"type:text" json:"keterangan"`
	CreatedAt      time.Time            `gorm:"index" json:"created_at"`
}

func (Stok) TableName() string    { return "stok" }
func (LogStok) TableName() string { return "log_stok" }

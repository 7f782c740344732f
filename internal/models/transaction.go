package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item types tracked in stock.
const (
	ItemGabah = "gabah"
	ItemBeras = "beras"
	ItemKatul = "katul"
	ItemMenir = "menir"
	ItemSekam = "sekam"
)

// TrackedItems lists the stock items shown on the dashboard.
var TrackedItems = []string{ItemBeras, ItemGabah, ItemKatul, ItemMenir, ItemSekam}

// Pembelian is a purchase of goods, usually paddy, from a supplier.
type Pembelian struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	SupplierID       *uint               `gorm:"index" json:"supplier_id"`
	Tanggal          time.Time           `gorm:"not null;index" json:"tanggal"`
	JenisGabah       string              `gorm:"size:100;not null" json:"jenis_gabah"`
	JenisBarang      string              `gorm:"size:50;not null" json:"jenis_barang"`
	AsalBarang       string              `gorm:"size:50" json:"asal_barang"`
	Jumlah           decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"jumlah"`
	HargaPerKg       decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"harga_per_kg"`
	TotalHarga       decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"total_harga"`
	KadarAir         decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"kadar_air"`
	Kualitas         string              `gorm:"size:50" json:"kualitas"`
	Status           string              `gorm:"size:30" json:"status"`
	MetodePembayaran string              `gorm:"size:30" json:"metode_pembayaran"`
	Catatan          string              `gorm:"type:text" json:"catatan"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ReferenceID identifies the row in stock movement logs.
func (p Pembelian) ReferenceID() uint { return p.ID }

// Pengeringan is a drying batch for purchased paddy.
type Pengeringan struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	PembelianID    *uint               `gorm:"index" json:"pembelian_id"`
	TanggalMulai   time.Time           `gorm:"not null;index" json:"tanggal_mulai"`
	TanggalSelesai *time.Time          `json:"tanggal_selesai"`
	KadarAirAwal   decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"kadar_air_awal"`
	KadarAirAkhir  decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"kadar_air_akhir"`
	JumlahAwal     decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_awal"`
	JumlahAkhir    decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_akhir"`
	Status         string              `gorm:"size:30" json:"status"`
	Catatan        string              `gorm:"type:text" json:"catatan"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Produksi is a milling run turning paddy into rice and byproducts.
type Produksi struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	PengeringanID      *uint               `gorm:"index" json:"pengeringan_id"`
	PembelianID        *uint               `gorm:"index" json:"pembelian_id"`
	Tanggal            time.Time           `gorm:"not null;index" json:"tanggal"`
	JenisBerasProduced string              `gorm:"size:100;not null" json:"jenis_beras_produced"`
	SumberBahan        string              `gorm:"size:50" json:"sumber_bahan"`
	JumlahGabahInput   decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_gabah_input"`
	JumlahBerasOutput  decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_beras_output"`
	JumlahDedak        decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_dedak"`
	JumlahMenir        decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_menir"`
	JumlahKatul        decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_katul"`
	JumlahSekam        decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"jumlah_sekam"`
	Rendemen           decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"rendemen"`
	Status             string              `gorm:"size:30" json:"status"`
	Catatan            string              `gorm:"type:text" json:"catatan"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ReferenceID identifies the row in stock movement logs.
func (p Produksi) ReferenceID() uint { return p.ID }

// Penjualan is a sale of rice or byproducts to a customer.
type Penjualan struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CustomerID       *uint           `gorm:"index" json:"customer_id"`
	Tanggal          time.Time       `gorm:"not null;index" json:"tanggal"`
	JenisBeras       string          `gorm:"size:100;not null" json:"jenis_beras"`
	JenisBarang      string          `gorm:"size:50;not null" json:"jenis_barang"`
	AsalBarang       string          `gorm:"size:50" json:"asal_barang"`
	Jumlah           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"jumlah"`
	HargaPerKg       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"harga_per_kg"`
	TotalHarga       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_harga"`
	Status           string          `gorm:"size:30" json:"status"`
	MetodePembayaran string          `gorm:"size:30" json:"metode_pembayaran"`
	Catatan          string          `gorm:"type:text" json:"catatan"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ReferenceID identifies the row in stock movement logs.
func (p Penjualan) ReferenceID() uint { return p.ID }

// Pengeluaran is an operational expense.
type Pengeluaran struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Tanggal   time.Time       `gorm:"not null;index" json:"tanggal"`
	Kategori  string          `gorm:"size:100;not null" json:"kategori"`
	Deskripsi string          `gorm:"type:text;not null" json:"deskripsi"`
	Jumlah    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"jumlah"`
	Catatan   string          `gorm:"type:text" json:"catatan"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Pembelian) TableName() string   { return "pembelian" }
func (Pengeringan) TableName() string { return "pengeringan" }
func (Produksi) TableName() string    { return "produksi" }
func (Penjualan) TableName() string   { return "penjualan" }
func (Pengeluaran) TableName() string { return "pengeluaran" }

package dto

import (
	"github.com/shopspring/decimal"
)

// PartnerRequest creates or replaces a supplier or customer.
type PartnerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"max=1000"`
	Phone   string `json:"phone" validate:"max=50"`
}

// PembelianRequest creates or replaces a purchase.
type PembelianRequest struct {
	SupplierID       *uint            `json:"supplier_id"`
	Tanggal          Date             `json:"tanggal" validate:"required,notfuture"`
	JenisGabah       string           `json:"jenis_gabah" validate:"required,max=100"`
	JenisBarang      string           `json:"jenis_barang" validate:"omitempty,oneof=gabah beras katul menir sekam"`
	AsalBarang       string           `json:"asal_barang" validate:"max=50"`
	Jumlah           decimal.Decimal  `json:"jumlah" validate:"gt=0"`
	HargaPerKg       decimal.Decimal  `json:"harga_per_kg" validate:"gt=0"`
	TotalHarga       *decimal.Decimal `json:"total_harga" validate:"omitempty,gt=0"`
	KadarAir         *decimal.Decimal `json:"kadar_air" validate:"omitempty,gte=0,lte=100"`
	Kualitas         string           `json:"kualitas" validate:"max=50"`
	Status           string           `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	MetodePembayaran string           `json:"metode_pembayaran" validate:"omitempty,oneof=cash transfer"`
	Catatan          string           `json:"catatan" validate:"max=2000"`
}

// PengeringanRequest creates or replaces a drying batch.
type PengeringanRequest struct {
	PembelianID    *uint            `json:"pembelian_id"`
	TanggalMulai   Date             `json:"tanggal_mulai" validate:"required,notfuture"`
	TanggalSelesai *Date            `json:"tanggal_selesai"`
	KadarAirAwal   *decimal.Decimal `json:"kadar_air_awal" validate:"omitempty,gte=0,lte=100"`
	KadarAirAkhir  *decimal.Decimal `json:"kadar_air_akhir" validate:"omitempty,gte=0,lte=100"`
	JumlahAwal     *decimal.Decimal `json:"jumlah_awal" validate:"omitempty,gt=0"`
	JumlahAkhir    *decimal.Decimal `json:"jumlah_akhir" validate:"omitempty,gt=0"`
	Status         string           `json:"status" validate:"omitempty,oneof=ongoing completed cancelled"`
	Catatan        string           `json:"catatan" validate:"max=2000"`
}

// ProduksiRequest creates or replaces a milling run.
type ProduksiRequest struct {
	PengeringanID      *uint            `json:"pengeringan_id"`
	PembelianID        *uint            `json:"pembelian_id"`
	Tanggal            Date             `json:"tanggal" validate:"required,notfuture"`
	JenisBerasProduced string           `json:"jenis_beras_produced" validate:"required,max=100"`
	SumberBahan        string           `json:"sumber_bahan" validate:"omitempty,oneof=pengeringan pembelian_langsung"`
	JumlahGabahInput   decimal.Decimal  `json:"jumlah_gabah_input" validate:"gt=0"`
	JumlahBerasOutput  decimal.Decimal  `json:"jumlah_beras_output" validate:"gt=0"`
	JumlahDedak        *decimal.Decimal `json:"jumlah_dedak" validate:"omitempty,gte=0"`
	JumlahMenir        *decimal.Decimal `json:"jumlah_menir" validate:"omitempty,gte=0"`
	JumlahKatul        *decimal.Decimal `json:"jumlah_katul" validate:"omitempty,gte=0"`
	JumlahSekam        *decimal.Decimal `json:"jumlah_sekam" validate:"omitempty,gte=0"`
	Rendemen           *decimal.Decimal `json:"rendemen" validate:"omitempty,gte=0,lte=100"`
	Status             string           `json:"status" validate:"omitempty,oneof=ongoing completed cancelled"`
	Catatan            string           `json:"catatan" validate:"max=2000"`
}

// PenjualanRequest creates or replaces a sale.
type PenjualanRequest struct {
	CustomerID       *uint            `json:"customer_id"`
	Tanggal          Date             `json:"tanggal" validate:"required,notfuture"`
	JenisBeras       string           `json:"jenis_beras" validate:"required,max=100"`
	JenisBarang      string           `json:"jenis_barang" validate:"omitempty,oneof=gabah beras katul menir sekam"`
	AsalBarang       string           `json:"asal_barang" validate:"max=50"`
	Jumlah           decimal.Decimal  `json:"jumlah" validate:"gt=0"`
	HargaPerKg       decimal.Decimal  `json:"harga_per_kg" validate:"gt=0"`
	TotalHarga       *decimal.Decimal `json:"total_harga" validate:"omitempty,gt=0"`
	Status           string           `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	MetodePembayaran string           `json:"metode_pembayaran" validate:"omitempty,oneof=cash transfer"`
	Catatan          string           `json:"catatan" validate:"max=2000"`
}

// PengeluaranRequest creates or replaces an expense.
type PengeluaranRequest struct {
	Tanggal   Date            `json:"tanggal" validate:"required,notfuture"`
	Kategori  string          `json:"kategori" validate:"required,max=100"`
	Deskripsi string          `json:"deskripsi" validate:"required,max=2000"`
	Jumlah    decimal.Decimal `json:"jumlah" validate:"gt=0"`
	Catatan   string          `json:"catatan" validate:"max=2000"`
}

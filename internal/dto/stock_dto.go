package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

// StokCreateRequest registers a stock item.
type StokCreateRequest struct {
	JenisItem     string           `json:"jenis_item" validate:"required,max=50"`
	Jumlah        decimal.Decimal  `json:"jumlah" validate:"gte=0"`
	Satuan        string           `json:"satuan" validate:"max=20"`
	HargaRataRata *decimal.Decimal `json:"harga_rata_rata" validate:"omitempty,gte=0"`
	BatasMinimum  *decimal.Decimal `json:"batas_minimum" validate:"omitempty,gte=0"`
	Lokasi        string           `json:"lokasi" validate:"max=100"`
}

// StokUpdateRequest edits stock metadata. Levels change only through movements.
type StokUpdateRequest struct {
	Satuan        *string          `json:"satuan" validate:"omitempty,min=1,max=20"`
	HargaRataRata *decimal.Decimal `json:"harga_rata_rata" validate:"omitempty,gte=0"`
	BatasMinimum  *decimal.Decimal `json:"batas_minimum" validate:"omitempty,gte=0"`
	Lokasi        *string          `json:"lokasi" validate:"omitempty,max=100"`
}

// StockAdjustRequest applies a signed correction to a stock level.
type StockAdjustRequest struct {
	Jumlah     decimal.Decimal `json:"jumlah" validate:"ne=0"`
	Keterangan string          `json:"keterangan" validate:"max=1000"`
}

// StockLogListRequest filters the movement log.
type StockLogListRequest struct {
	Page     int
	PageSize int
	StokID   uint
}

// StockChangeResponse returns the new level with the movement that produced it.
type StockChangeResponse struct {
	Stok models.Stok    `json:"stok"`
	Log  models.LogStok `json:"log"`
}

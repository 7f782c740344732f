package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PasswordResetToken{},
		&ActivityLog{},
		&Supplier{},
		&Customer{},
		&Pembelian{},
		&Pengeringan{},
		&Produksi{},
		&Penjualan{},
		&Pengeluaran{},
		&Stok{},
		&LogStok{},
		&Settings{},
	}
}

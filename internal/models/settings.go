package models

import "time"

// Settings holds the company profile printed on invoices and reports.
type Settings struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CompanyName     string    `gorm:"size:255;not null" json:"company_name"`
	CompanyAddress  string    `gorm:"type:text" json:"company_address"`
	CompanyPhone    string    `gorm:"size:50" json:"company_phone"`
	CompanyEmail    string    `gorm:"size:255" json:"company_email"`
	CompanyLogo     string    `gorm:"type:text" json:"company_logo"`
	CompanyNPWP     string    `gorm:"column:company_npwp;size:50" json:"company_npwp"`
	InvoiceFooter   string    `gorm:"type:text" json:"invoice_footer"`
	BankName        string    `gorm:"size:100" json:"bank_name"`
	BankAccount     string    `gorm:"size:100" json:"bank_account"`
	BankAccountName string    `gorm:"size:255" json:"bank_account_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

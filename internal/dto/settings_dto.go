package dto

// SettingsRequest carries company settings. Nil fields are left unchanged on update.
type SettingsRequest struct {
	CompanyName     *string `json:"company_name" validate:"omitempty,min=1,max=255"`
	CompanyAddress  *string `json:"company_address" validate:"omitempty,max=1000"`
	CompanyPhone    *string `json:"company_phone" validate:"omitempty,max=50"`
	CompanyEmail    *string `json:"company_email" validate:"omitempty,email,max=255"`
	CompanyNPWP     *string `json:"company_npwp" validate:"omitempty,max=50"`
	InvoiceFooter   *string `json:"invoice_footer" validate:"omitempty,max=2000"`
	BankName        *string `json:"bank_name" validate:"omitempty,max=100"`
	BankAccount     *string `json:"bank_account" validate:"omitempty,max=100"`
	BankAccountName *string `json:"bank_account_name" validate:"omitempty,max=255"`
}

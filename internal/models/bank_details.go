package models

import "time"

// BankDetails — платёжные реквизиты арендодателя, один к одному.
type BankDetails struct {
	ID            int       `json:"id"`
	LandlordUID   string    `json:"landlord_uid"`
	BankName      string    `json:"bank_name"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	UpdatedAt     time.Time `json:"updated_at"`
}

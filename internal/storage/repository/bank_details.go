package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// UpsertBankDetails создаёт или обновляет реквизиты арендодателя.
func (s *Storage) UpsertBankDetails(ctx context.Context, details models.BankDetails) (*models.BankDetails, error) {
	const op = "storage.UpsertBankDetails"

	query := `INSERT INTO bank_details (landlord_uid, bank_name, account_name, account_number)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (landlord_uid) DO UPDATE
			  SET bank_name = EXCLUDED.bank_name,
			      account_name = EXCLUDED.account_name,
			      account_number = EXCLUDED.account_number,
			      updated_at = now()
			  RETURNING id, landlord_uid, bank_name, account_name, account_number, updated_at`
	d := &models.BankDetails{}
	if err := s.DB.QueryRowContext(ctx, query,
		details.LandlordUID, details.BankName, details.AccountName, details.AccountNumber).Scan(
		&d.ID, &d.LandlordUID, &d.BankName, &d.AccountName, &d.AccountNumber, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// GetBankDetails возвращает реквизиты арендодателя или ErrNotFound.
func (s *Storage) GetBankDetails(ctx context.Context, landlordUID string) (*models.BankDetails, error) {
	const op = "storage.GetBankDetails"

	query := `SELECT id, landlord_uid, bank_name, account_name, account_number, updated_at
			  FROM bank_details
			  WHERE landlord_uid = $1`
	d := &models.BankDetails{}
	err := s.DB.QueryRowContext(ctx, query, landlordUID).Scan(
		&d.ID, &d.LandlordUID, &d.BankName, &d.AccountName, &d.AccountNumber, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

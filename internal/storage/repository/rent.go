package repository

import (
	"context"
	"fmt"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// SetPendingRent назначает арендатору аренду к оплате. Назначение
// перезаписывает предыдущее, пока оно не оплачено.
func (s *Storage) SetPendingRent(ctx context.Context, tenantUID string, rent models.PendingRent) error {
	const op = "storage.SetPendingRent"

	query := `UPDATE users
			  SET pending_rent_amount = $2, pending_rent_service_fee = $3,
			      pending_rent_total = $4, pending_rent_set_by = $5,
			      pending_rent_created_at = now(), updated_at = now()
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, tenantUID,
		rent.Amount, rent.ServiceFee, rent.Total, rent.SetBy)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// FindTenantsDueReminder возвращает арендаторов с назначенной арендой,
// которым не отправлялось напоминание дольше суток.
func (s *Storage) FindTenantsDueReminder(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindTenantsDueReminder"

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE role = 'tenant'
			    AND pending_rent_amount IS NOT NULL
			    AND (last_reminder_at IS NULL OR last_reminder_at < now() - interval '24 hours')`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tenants []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tenants = append(tenants, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tenants, nil
}

// StampReminder фиксирует время последнего напоминания арендатору.
func (s *Storage) StampReminder(ctx context.Context, tenantUID string) error {
	const op = "storage.StampReminder"

	query := `UPDATE users SET last_reminder_at = now(), updated_at = now() WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, tenantUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

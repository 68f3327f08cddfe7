package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/renteaseone/rentease-backend/internal/models"
)

const receiptColumns = `id, user_uid, kind, rent_amount, service_fee, total_paid,
		reference, channel, gateway_response, paid_at,
		filename, path, mime_type, size_bytes, created_at`

func scanReceipt(row userRow) (*models.Receipt, error) {
	r := &models.Receipt{}
	var (
		reference, channel, gwResponse sql.NullString
		paidAt                         sql.NullTime
		filename, path, mimeType       sql.NullString
		sizeBytes                      sql.NullInt64
	)
	err := row.Scan(&r.ID, &r.UserUID, &r.Kind, &r.RentAmount, &r.ServiceFee, &r.TotalPaid,
		&reference, &channel, &gwResponse, &paidAt,
		&filename, &path, &mimeType, &sizeBytes, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reference.Valid {
		r.Reference = &reference.String
	}
	if channel.Valid {
		r.Channel = &channel.String
	}
	if gwResponse.Valid {
		r.GatewayResponse = &gwResponse.String
	}
	if paidAt.Valid {
		r.PaidAt = &paidAt.Time
	}
	if filename.Valid {
		r.Filename = &filename.String
	}
	if path.Valid {
		r.Path = &path.String
	}
	if mimeType.Valid {
		r.MimeType = &mimeType.String
	}
	if sizeBytes.Valid {
		r.SizeBytes = &sizeBytes.Int64
	}
	return r, nil
}

// SettlePayment транзакционно проводит подтверждённый шлюзом платёж:
// повторный reference того же пользователя возвращает уже созданную
// квитанцию, чужой reference отклоняется с ErrDuplicate, иначе в одной
// транзакции считается разбивка суммы, вставляется квитанция и очищается
// назначенная аренда. Второй результат — true, если квитанция была
// создана этим вызовом.
func (s *Storage) SettlePayment(ctx context.Context, userUID string, payment models.GatewayPayment) (*models.Receipt, bool, error) {
	const op = "storage.SettlePayment"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Дедупликация по reference: уже проведённый платёж не создаёт
	// вторую квитанцию, а чужую квитанцию получить нельзя.
	existing, err := scanReceipt(tx.QueryRowContext(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE reference = $1`, payment.Reference))
	if err == nil {
		if existing.UserUID != userUID {
			return nil, false, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var pendingAmount sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT pending_rent_amount FROM users WHERE uid = $1 FOR UPDATE`,
		userUID).Scan(&pendingAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	// Без назначенной аренды вся уплаченная сумма считается арендой.
	rentAmount := payment.TotalPaid
	if pendingAmount.Valid {
		rentAmount = pendingAmount.Int64
	}
	serviceFee := payment.TotalPaid - rentAmount

	receipt, err := scanReceipt(tx.QueryRowContext(ctx,
		`INSERT INTO receipts (user_uid, kind, rent_amount, service_fee, total_paid,
		      reference, channel, gateway_response, paid_at)
		 VALUES ($1, 'gateway', $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+receiptColumns,
		userUID, rentAmount, serviceFee, payment.TotalPaid,
		payment.Reference, payment.Channel, payment.GatewayResponse, payment.PaidAt))
	if err != nil {
		// Проигравший гонку параллельный повтор: квитанция уже создана
		// другой транзакцией, перечитываем её вне текущей.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			_ = tx.Rollback()

			created, rerr := scanReceipt(s.DB.QueryRowContext(ctx,
				`SELECT `+receiptColumns+` FROM receipts WHERE reference = $1`, payment.Reference))
			if rerr != nil {
				return nil, false, fmt.Errorf("%s: %w", op, rerr)
			}
			if created.UserUID != userUID {
				return nil, false, fmt.Errorf("%s: %w", op, ErrDuplicate)
			}
			return created, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users
		 SET pending_rent_amount = NULL, pending_rent_service_fee = NULL,
		     pending_rent_total = NULL, pending_rent_set_by = NULL,
		     pending_rent_created_at = NULL, updated_at = now()
		 WHERE uid = $1`, userUID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return receipt, true, nil
}

// CreateUploadReceipt сохраняет запись о загруженном файле-подтверждении.
func (s *Storage) CreateUploadReceipt(ctx context.Context, receipt models.Receipt) (*models.Receipt, error) {
	const op = "storage.CreateUploadReceipt"

	created, err := scanReceipt(s.DB.QueryRowContext(ctx,
		`INSERT INTO receipts (user_uid, kind, filename, path, mime_type, size_bytes)
		 VALUES ($1, 'upload', $2, $3, $4, $5)
		 RETURNING `+receiptColumns,
		receipt.UserUID, receipt.Filename, receipt.Path, receipt.MimeType, receipt.SizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetReceipt возвращает квитанцию по её ID.
func (s *Storage) GetReceipt(ctx context.Context, id int) (*models.Receipt, error) {
	const op = "storage.GetReceipt"

	r, err := scanReceipt(s.DB.QueryRowContext(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ListGatewayReceipts возвращает шлюзовые квитанции пользователя, новые первыми.
func (s *Storage) ListGatewayReceipts(ctx context.Context, userUID string) ([]*models.Receipt, error) {
	const op = "storage.ListGatewayReceipts"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+receiptColumns+` FROM receipts
		 WHERE user_uid = $1 AND kind = 'gateway'
		 ORDER BY created_at DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return receipts, nil
}

// ListAllReceipts возвращает все квитанции с данными владельцев, новые первыми.
func (s *Storage) ListAllReceipts(ctx context.Context) ([]*models.ReceiptInfo, error) {
	const op = "storage.ListAllReceipts"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT r.id, r.user_uid, r.kind, r.rent_amount, r.service_fee, r.total_paid,
		      r.reference, r.channel, r.gateway_response, r.paid_at,
		      r.filename, r.path, r.mime_type, r.size_bytes, r.created_at,
		      u.first_name, u.last_name, u.email
		 FROM receipts r
		 JOIN users u ON u.uid = r.user_uid
		 ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var receipts []*models.ReceiptInfo
	for rows.Next() {
		info := &models.ReceiptInfo{}
		var (
			reference, channel, gwResponse sql.NullString
			paidAt                         sql.NullTime
			filename, path, mimeType       sql.NullString
			sizeBytes                      sql.NullInt64
		)
		if err := rows.Scan(&info.ID, &info.UserUID, &info.Kind,
			&info.RentAmount, &info.ServiceFee, &info.TotalPaid,
			&reference, &channel, &gwResponse, &paidAt,
			&filename, &path, &mimeType, &sizeBytes, &info.CreatedAt,
			&info.OwnerFirstName, &info.OwnerLastName, &info.OwnerEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if reference.Valid {
			info.Reference = &reference.String
		}
		if channel.Valid {
			info.Channel = &channel.String
		}
		if gwResponse.Valid {
			info.GatewayResponse = &gwResponse.String
		}
		if paidAt.Valid {
			info.PaidAt = &paidAt.Time
		}
		if filename.Valid {
			info.Filename = &filename.String
		}
		if path.Valid {
			info.Path = &path.String
		}
		if mimeType.Valid {
			info.MimeType = &mimeType.String
		}
		if sizeBytes.Valid {
			info.SizeBytes = &sizeBytes.Int64
		}
		receipts = append(receipts, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return receipts, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/renteaseone/rentease-backend/internal/models"
)

const userColumns = `uid, first_name, last_name, email, password_hash, role,
		landlord_code, landlord_uid, connected_on,
		pending_rent_amount, pending_rent_service_fee, pending_rent_total,
		pending_rent_set_by, pending_rent_created_at,
		last_reminder_at, photo, created_at`

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (*models.User, error) {
	u := &models.User{}
	var (
		role                       sql.NullString
		landlordCode, landlordUID  sql.NullString
		connectedOn, lastReminder  sql.NullTime
		rentAmount, rentFee, total sql.NullInt64
		rentSetBy                  sql.NullString
		rentCreatedAt              sql.NullTime
		photo                      sql.NullString
	)
	err := row.Scan(&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role,
		&landlordCode, &landlordUID, &connectedOn,
		&rentAmount, &rentFee, &total, &rentSetBy, &rentCreatedAt,
		&lastReminder, &photo, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	u.Role = role.String
	if landlordCode.Valid {
		u.LandlordCode = &landlordCode.String
	}
	if landlordUID.Valid {
		u.LandlordUID = &landlordUID.String
	}
	if connectedOn.Valid {
		u.ConnectedOn = &connectedOn.Time
	}
	if lastReminder.Valid {
		u.LastReminderAt = &lastReminder.Time
	}
	if photo.Valid {
		u.Photo = &photo.String
	}
	if rentAmount.Valid {
		u.PendingRent = &models.PendingRent{
			Amount:     rentAmount.Int64,
			ServiceFee: rentFee.Int64,
			Total:      total.Int64,
			SetBy:      rentSetBy.String,
			CreatedAt:  rentCreatedAt.Time,
		}
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя без роли и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"

	var newUID string
	query := `INSERT INTO users (first_name, last_name, email, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetLandlordByCode возвращает арендодателя по его коду.
func (s *Storage) GetLandlordByCode(ctx context.Context, landlordCode string) (*models.User, error) {
	const op = "storage.GetLandlordByCode"

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE landlord_code = $1 AND role = 'landlord'`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, landlordCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetUserRole назначает пользователю роль; для арендодателя вместе с ролью
// сохраняется его уникальный код.
func (s *Storage) SetUserRole(ctx context.Context, userUID, role string, landlordCode *string) error {
	const op = "storage.SetUserRole"

	query := `UPDATE users SET role = $2, landlord_code = $3, updated_at = now()
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, role, landlordCode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ConnectTenant привязывает арендатора к арендодателю и проставляет
// время подключения. Повторное подключение перезаписывает предыдущую связь.
func (s *Storage) ConnectTenant(ctx context.Context, tenantUID, landlordUID string) (*models.User, error) {
	const op = "storage.ConnectTenant"

	query := `UPDATE users SET landlord_uid = $2, connected_on = now(), updated_at = now()
			  WHERE uid = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, tenantUID, landlordUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// DisconnectTenant отвязывает арендатора от арендодателя.
func (s *Storage) DisconnectTenant(ctx context.Context, tenantUID string) error {
	const op = "storage.DisconnectTenant"

	query := `UPDATE users SET landlord_uid = NULL, connected_on = NULL, updated_at = now()
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, tenantUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListTenants возвращает арендаторов, привязанных к арендодателю.
func (s *Storage) ListTenants(ctx context.Context, landlordUID string) ([]*models.TenantInfo, error) {
	const op = "storage.ListTenants"

	query := `SELECT uid, first_name, last_name, email, connected_on,
			      pending_rent_amount, pending_rent_service_fee, pending_rent_total,
			      pending_rent_set_by, pending_rent_created_at
			  FROM users
			  WHERE landlord_uid = $1
			  ORDER BY connected_on DESC NULLS LAST`
	rows, err := s.DB.QueryContext(ctx, query, landlordUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tenants []*models.TenantInfo
	for rows.Next() {
		t := &models.TenantInfo{}
		var (
			connectedOn                sql.NullTime
			rentAmount, rentFee, total sql.NullInt64
			rentSetBy                  sql.NullString
			rentCreatedAt              sql.NullTime
		)
		if err := rows.Scan(&t.UID, &t.FirstName, &t.LastName, &t.Email, &connectedOn,
			&rentAmount, &rentFee, &total, &rentSetBy, &rentCreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if connectedOn.Valid {
			t.ConnectedOn = &connectedOn.Time
		}
		if rentAmount.Valid {
			t.PendingRent = &models.PendingRent{
				Amount:     rentAmount.Int64,
				ServiceFee: rentFee.Int64,
				Total:      total.Int64,
				SetBy:      rentSetBy.String,
				CreatedAt:  rentCreatedAt.Time,
			}
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tenants, nil
}

// SetResetCode сохраняет код сброса пароля и срок его действия.
func (s *Storage) SetResetCode(ctx context.Context, userUID, resetCode string, expiry time.Time) error {
	const op = "storage.SetResetCode"

	query := `UPDATE users SET reset_code = $2, reset_code_expiry = $3, updated_at = now()
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID, resetCode, expiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetPassword меняет хэш пароля, если код сброса совпадает и не истёк.
// Код одноразовый: при успехе он очищается.
func (s *Storage) ResetPassword(ctx context.Context, email, resetCode, passwordHash string) error {
	const op = "storage.ResetPassword"

	query := `UPDATE users
			  SET password_hash = $3, reset_code = NULL, reset_code_expiry = NULL, updated_at = now()
			  WHERE email = $1 AND reset_code = $2 AND reset_code_expiry > now()`
	res, err := s.DB.ExecContext(ctx, query, email, resetCode, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdatePhoto сохраняет путь к фотографии профиля.
func (s *Storage) UpdatePhoto(ctx context.Context, userUID, path string) error {
	const op = "storage.UpdatePhoto"

	query := `UPDATE users SET photo = $2, updated_at = now() WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

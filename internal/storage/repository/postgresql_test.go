package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/renteaseone/rentease-backend/internal/migrations"
	"github.com/renteaseone/rentease-backend/internal/models"
)

func setupTestDb(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(dsn)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"), "Failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

func createTenantWithLandlord(t *testing.T, s *Storage) (tenantUID, landlordUID string) {
	ctx := context.Background()

	landlordUID, err := s.RegisterUser(ctx, models.User{
		FirstName:    "Ada",
		LastName:     "Okafor",
		Email:        fmt.Sprintf("landlord-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	code := fmt.Sprintf("%08d", time.Now().UnixNano()%100000000)
	require.NoError(t, s.SetUserRole(ctx, landlordUID, "landlord", &code))

	tenantUID, err = s.RegisterUser(ctx, models.User{
		FirstName:    "Emeka",
		LastName:     "Obi",
		Email:        fmt.Sprintf("tenant-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	require.NoError(t, s.SetUserRole(ctx, tenantUID, "tenant", nil))

	_, err = s.ConnectTenant(ctx, tenantUID, landlordUID)
	require.NoError(t, err)

	return tenantUID, landlordUID
}

func TestStorage_RegisterUser_DuplicateEmail(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	user := models.User{
		FirstName:    "Ada",
		LastName:     "Okafor",
		Email:        "dup@example.com",
		PasswordHash: "hashedpassword",
	}

	uid, err := storage.RegisterUser(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	_, err = storage.RegisterUser(ctx, user)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestStorage_SettlePayment(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	tenantUID, landlordUID := createTenantWithLandlord(t, storage)

	require.NoError(t, storage.SetPendingRent(ctx, tenantUID, models.PendingRent{
		Amount:     10000,
		ServiceFee: 300,
		Total:      10300,
		SetBy:      landlordUID,
	}))

	payment := models.GatewayPayment{
		Reference:       "ref123",
		TotalPaid:       10300,
		Channel:         "card",
		GatewayResponse: "Successful",
		PaidAt:          time.Now(),
	}

	receipt, created, err := storage.SettlePayment(ctx, tenantUID, payment)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "gateway", receipt.Kind)
	assert.Equal(t, int64(10000), receipt.RentAmount)
	assert.Equal(t, int64(300), receipt.ServiceFee)
	assert.Equal(t, int64(10300), receipt.TotalPaid)
	require.NotNil(t, receipt.Reference)
	assert.Equal(t, "ref123", *receipt.Reference)

	// Назначенная аренда очищена
	tenant, err := storage.GetUser(ctx, tenantUID)
	require.NoError(t, err)
	assert.Nil(t, tenant.PendingRent)

	// Повторное подтверждение того же reference возвращает ту же квитанцию
	again, created, err := storage.SettlePayment(ctx, tenantUID, payment)
	require.NoError(t, err)
	require.False(t, created)
	assert.Equal(t, receipt.ID, again.ID)

	receipts, err := storage.ListGatewayReceipts(ctx, tenantUID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
}

func TestStorage_SettlePayment_NoPendingRent(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	tenantUID, _ := createTenantWithLandlord(t, storage)

	receipt, created, err := storage.SettlePayment(ctx, tenantUID, models.GatewayPayment{
		Reference: "ref456",
		TotalPaid: 5000,
		Channel:   "bank_transfer",
		PaidAt:    time.Now(),
	})
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, int64(5000), receipt.RentAmount)
	assert.Equal(t, int64(0), receipt.ServiceFee)
}

func TestStorage_SettlePayment_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	_, _, err := storage.SettlePayment(context.Background(),
		"00000000-0000-0000-0000-000000000000",
		models.GatewayPayment{Reference: "ref789", TotalPaid: 1000, PaidAt: time.Now()})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ConnectTenant_ListTenants(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	tenantUID, landlordUID := createTenantWithLandlord(t, storage)

	tenants, err := storage.ListTenants(ctx, landlordUID)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, tenantUID, tenants[0].UID)
	require.NotNil(t, tenants[0].ConnectedOn)

	require.NoError(t, storage.DisconnectTenant(ctx, tenantUID))

	tenants, err = storage.ListTenants(ctx, landlordUID)
	require.NoError(t, err)
	assert.Empty(t, tenants)
}

func TestStorage_ConnectTenant_OverwritesPreviousLink(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	tenantUID, firstLandlordUID := createTenantWithLandlord(t, storage)

	first, err := storage.GetUser(ctx, tenantUID)
	require.NoError(t, err)
	require.NotNil(t, first.ConnectedOn)
	firstConnectedOn := *first.ConnectedOn

	secondLandlordUID, err := storage.RegisterUser(ctx, models.User{
		FirstName:    "Ngozi",
		LastName:     "Eze",
		Email:        fmt.Sprintf("landlord2-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	code := fmt.Sprintf("%08d", (time.Now().UnixNano()+1)%100000000)
	require.NoError(t, storage.SetUserRole(ctx, secondLandlordUID, "landlord", &code))

	// Повторная привязка заменяет арендодателя, а не добавляет второго
	reconnected, err := storage.ConnectTenant(ctx, tenantUID, secondLandlordUID)
	require.NoError(t, err)
	require.NotNil(t, reconnected.LandlordUID)
	assert.Equal(t, secondLandlordUID, *reconnected.LandlordUID)
	require.NotNil(t, reconnected.ConnectedOn)
	assert.False(t, reconnected.ConnectedOn.Before(firstConnectedOn))

	tenants, err := storage.ListTenants(ctx, firstLandlordUID)
	require.NoError(t, err)
	assert.Empty(t, tenants)

	tenants, err = storage.ListTenants(ctx, secondLandlordUID)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, tenantUID, tenants[0].UID)
}

func TestStorage_SettlePayment_ForeignReference(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	firstTenantUID, _ := createTenantWithLandlord(t, storage)
	secondTenantUID, _ := createTenantWithLandlord(t, storage)

	payment := models.GatewayPayment{
		Reference: "ref-shared",
		TotalPaid: 7000,
		Channel:   "card",
		PaidAt:    time.Now(),
	}

	receipt, created, err := storage.SettlePayment(ctx, firstTenantUID, payment)
	require.NoError(t, err)
	require.True(t, created)

	// Чужой reference не возвращает чужую квитанцию
	_, _, err = storage.SettlePayment(ctx, secondTenantUID, payment)
	require.ErrorIs(t, err, ErrDuplicate)

	receipts, err := storage.ListGatewayReceipts(ctx, secondTenantUID)
	require.NoError(t, err)
	assert.Empty(t, receipts)

	receipts, err = storage.ListGatewayReceipts(ctx, firstTenantUID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, receipt.ID, receipts[0].ID)
}

func TestStorage_FindTenantsDueReminder(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	tenantUID, landlordUID := createTenantWithLandlord(t, storage)

	// Без назначенной аренды напоминание не нужно
	due, err := storage.FindTenantsDueReminder(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, storage.SetPendingRent(ctx, tenantUID, models.PendingRent{
		Amount:     20000,
		ServiceFee: 600,
		Total:      20600,
		SetBy:      landlordUID,
	}))

	due, err = storage.FindTenantsDueReminder(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, tenantUID, due[0].UID)
	require.NotNil(t, due[0].PendingRent)
	assert.Equal(t, int64(20600), due[0].PendingRent.Total)

	// После отметки об отправке арендатор выпадает из выборки на сутки
	require.NoError(t, storage.StampReminder(ctx, tenantUID))

	due, err = storage.FindTenantsDueReminder(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestStorage_Notifications(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	tenantUID, _ := createTenantWithLandlord(t, storage)

	created, err := storage.CreateNotification(ctx, tenantUID, "Rent of 10300 has been assigned")
	require.NoError(t, err)
	assert.False(t, created.Read)

	list, err := storage.ListNotifications(ctx, tenantUID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, storage.MarkNotificationRead(ctx, tenantUID, created.ID))

	list, err = storage.ListNotifications(ctx, tenantUID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	// Чужое уведомление пометить нельзя
	otherUID, _ := createTenantWithLandlord(t, storage)
	err = storage.MarkNotificationRead(ctx, otherUID, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/atom-backoffice/internal/migrations"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// TestDataFactory создаёт тестовые данные.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateProfile создаёт профиль с заданной ролью и возвращает его.
func (f *TestDataFactory) CreateProfile(t *testing.T, email string, role models.Role) models.Profile {
	id := uuid.NewString()
	p := models.Profile{
		UserID:      id,
		Email:       email,
		FirstName:   "Test",
		LastName:    "User",
		Role:        role,
		QRCode:      models.QRCodeFor(id),
		InviteState: models.InvitePending,
	}
	require.NoError(t, f.storage.CreateProfile(context.Background(), p))
	return p
}

// CreateSessionPack создаёт пакет занятий, действующий с start.
func (f *TestDataFactory) CreateSessionPack(t *testing.T, memberID string, start time.Time, total, used int) models.Subscription {
	sub, err := f.storage.CreateSubscription(context.Background(), models.Subscription{
		MemberID:      memberID,
		Plan:          models.PlanSessions,
		Type:          models.TypeSessions,
		Status:        models.StatusActive,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, models.SessionPackDays),
		SessionsTotal: total,
		SessionsUsed:  used,
	})
	require.NoError(t, err)
	return *sub
}

// CreateTimePlan создаёт абонемент по времени.
func (f *TestDataFactory) CreateTimePlan(t *testing.T, memberID string, plan models.Plan, start, end time.Time) models.Subscription {
	sub, err := f.storage.CreateSubscription(context.Background(), models.Subscription{
		MemberID:  memberID,
		Plan:      plan,
		Type:      models.TypeTime,
		Status:    models.StatusActive,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	return *sub
}

// CreateProduct создаёт активный товар.
func (f *TestDataFactory) CreateProduct(t *testing.T, name string, priceCents int64) models.Product {
	p, err := f.storage.CreateProduct(context.Background(), models.Product{
		Category:     models.CategoryKimono,
		Name:         name,
		PriceCents:   priceCents,
		Currency:     "EGP",
		InventoryQty: 5,
		IsActive:     true,
	})
	require.NoError(t, err)
	return *p
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	root, err := filepath.Abs("../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

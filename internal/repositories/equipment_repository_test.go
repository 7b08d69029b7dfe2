package repositories

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inventory-system/internal/entities"
	"inventory-system/internal/lifecycle"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД, если TEST_DATABASE_URL задан.
// Без неё интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		os.Exit(m.Run())
	}

	var err error
	testPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer testPool.Close()

	applySchema(testPool)

	os.Exit(m.Run())
}

// applySchema выполняет Up-секции миграций в тестовой БД.
func applySchema(pool *pgxpool.Pool) {
	files, err := filepath.Glob("../../migrations/*.sql")
	if err != nil || len(files) == 0 {
		log.Fatalf("Не найдены файлы миграций: %v", err)
	}
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("Не удалось прочитать %s: %v", file, err)
		}
		up, _, _ := strings.Cut(string(raw), "-- +goose Down")
		up = strings.TrimPrefix(up, "-- +goose Up")
		if _, err := pool.Exec(context.Background(), up); err != nil {
			log.Fatalf("Не удалось применить %s: %v", file, err)
		}
	}
}

func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE TABLE invoices, subscriptions, maintenance_records, transfer_requests,
			equipment_requests, equipment_history, equipments, users, teams
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func requireTestDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

func seedActor(t *testing.T, pool *pgxpool.Pool) (actorID uint64) {
	t.Helper()
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (fio, email, password, role)
		VALUES ('Тестовый Админ', 'admin@test.local', 'x', 'admin')
		RETURNING id`).Scan(&actorID)
	require.NoError(t, err)
	return
}

func TestEquipmentRepository_Integration_CreateAndFind(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t, testPool)
	repo := NewEquipmentRepository(testPool)

	eq := &entities.Equipment{
		Name:         "MacBook Pro 14",
		SerialNumber: "MBP-TEST-0001",
		Category:     "laptop",
		Status:       lifecycle.StatusAvailable,
		Condition:    "good",
	}
	newID, err := repo.CreateEquipment(context.Background(), eq)
	require.NoError(t, err)
	require.True(t, newID > 0)

	found, err := repo.FindEquipment(context.Background(), newID)
	require.NoError(t, err)
	assert.Equal(t, "MBP-TEST-0001", found.SerialNumber)
	assert.Equal(t, lifecycle.StatusAvailable, found.Status)
	assert.Nil(t, found.CurrentOwnerID)
}

func TestEquipmentRepository_Integration_FindNotFound(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t, testPool)
	repo := NewEquipmentRepository(testPool)

	_, err := repo.FindEquipment(context.Background(), 123456)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentRepository_Integration_UpdateInTx(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t, testPool)
	actorID := seedActor(t, testPool)
	repo := NewEquipmentRepository(testPool)

	eq := &entities.Equipment{
		Name:         "Dell Latitude",
		SerialNumber: "DL-TEST-0001",
		Category:     "laptop",
		Status:       lifecycle.StatusAvailable,
		Condition:    "good",
	}
	newID, err := repo.CreateEquipment(context.Background(), eq)
	require.NoError(t, err)

	// Переход available -> assigned внутри транзакции с блокировкой строки.
	err = WithTx(context.Background(), testPool, func(tx pgx.Tx) error {
		locked, txErr := repo.FindEquipmentForUpdate(context.Background(), tx, newID)
		if txErr != nil {
			return txErr
		}
		locked.Status = lifecycle.StatusAssigned
		locked.CurrentOwnerID = &actorID
		return repo.UpdateEquipmentInTx(context.Background(), tx, locked)
	})
	require.NoError(t, err)

	found, err := repo.FindEquipment(context.Background(), newID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAssigned, found.Status)
	require.NotNil(t, found.CurrentOwnerID)
	assert.Equal(t, actorID, *found.CurrentOwnerID)
}

func TestEquipmentRepository_Integration_ListFilter(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t, testPool)
	repo := NewEquipmentRepository(testPool)

	for _, e := range []entities.Equipment{
		{Name: "MacBook", SerialNumber: "SN-1", Category: "laptop", Status: lifecycle.StatusAvailable, Condition: "good"},
		{Name: "Monitor", SerialNumber: "SN-2", Category: "monitor", Status: lifecycle.StatusAvailable, Condition: "good"},
		{Name: "Printer", SerialNumber: "SN-3", Category: "printer", Status: lifecycle.StatusBroken, Condition: "poor"},
	} {
		e := e
		_, err := repo.CreateEquipment(context.Background(), &e)
		require.NoError(t, err)
	}

	filter := types.Filter{
		Filter: map[string]interface{}{"status": "available"},
		Sort:   map[string]interface{}{},
		Limit:  10,
	}
	list, total, err := repo.GetEquipments(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, list, 2)
}

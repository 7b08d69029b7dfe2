package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inventory-system/internal/dto"
	"inventory-system/internal/lifecycle"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	"inventory-system/pkg/contextkeys"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var workflowPool *pgxpool.Pool

// TestMain подключается к тестовой БД, если TEST_DATABASE_URL задан.
// Без неё интеграционные тесты пропускаются, юнит-тесты пакета выполняются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		os.Exit(m.Run())
	}

	var err error
	workflowPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer workflowPool.Close()

	applyWorkflowSchema(workflowPool)

	os.Exit(m.Run())
}

// applyWorkflowSchema выполняет Up-секции миграций в тестовой БД.
func applyWorkflowSchema(pool *pgxpool.Pool) {
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

func requireWorkflowDB(t *testing.T) {
	t.Helper()
	if workflowPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
	_, err := workflowPool.Exec(context.Background(), `
		TRUNCATE TABLE invoices, subscriptions, maintenance_records, transfer_requests,
			equipment_requests, equipment_history, equipments, users, teams
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func workflowCtx(userID uint64, role constants.Role) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, role)
}

func seedTeam(t *testing.T, name string) (id uint64) {
	t.Helper()
	err := workflowPool.QueryRow(context.Background(),
		`INSERT INTO teams (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return
}

func seedUser(t *testing.T, fio, email string, role constants.Role, teamID *uint64) (id uint64) {
	t.Helper()
	err := workflowPool.QueryRow(context.Background(), `
		INSERT INTO users (fio, email, password, role, team_id)
		VALUES ($1, $2, 'x', $3, $4)
		RETURNING id`, fio, email, role.String(), teamID).Scan(&id)
	require.NoError(t, err)
	return
}

func seedEquipment(t *testing.T, serial string, status lifecycle.Status, ownerID, teamID *uint64) (id uint64) {
	t.Helper()
	err := workflowPool.QueryRow(context.Background(), `
		INSERT INTO equipments (name, serial_number, category, status, condition, current_owner_id, team_id)
		VALUES ('Ноутбук', $1, 'laptop', $2, 'good', $3, $4)
		RETURNING id`, serial, status.String(), ownerID, teamID).Scan(&id)
	require.NoError(t, err)
	return
}

func newWorkflowTransferService() TransferServiceInterface {
	return NewTransferService(workflowPool,
		repositories.NewTransferRepository(workflowPool),
		repositories.NewEquipmentRepository(workflowPool),
		repositories.NewEquipmentHistoryRepository(workflowPool),
		repositories.NewUserRepository(workflowPool),
		eventbus.New(zap.NewNop()), zap.NewNop())
}

func newWorkflowRequestService() EquipmentRequestServiceInterface {
	return NewEquipmentRequestService(workflowPool,
		repositories.NewEquipmentRequestRepository(workflowPool),
		repositories.NewEquipmentRepository(workflowPool),
		repositories.NewEquipmentHistoryRepository(workflowPool),
		eventbus.New(zap.NewNop()), zap.NewNop())
}

func newWorkflowMaintenanceService() MaintenanceServiceInterface {
	return NewMaintenanceService(workflowPool,
		repositories.NewMaintenanceRepository(workflowPool),
		repositories.NewEquipmentRepository(workflowPool),
		repositories.NewEquipmentHistoryRepository(workflowPool),
		eventbus.New(zap.NewNop()), zap.NewNop())
}

// Тимлид с флагом немедленной передачи внутри своей команды: правило 1 не
// срабатывает, правило 4 отдаёт передачу сразу, без ошибки авторизации.
func TestTransferService_Integration_TeamLeadImmediateWithinTeam(t *testing.T) {
	requireWorkflowDB(t)

	teamID := seedTeam(t, "Разработка")
	leadID := seedUser(t, "Тимлид", "lead@test.local", constants.RoleTeamLead, &teamID)
	recipientID := seedUser(t, "Получатель", "user@test.local", constants.RoleUser, &teamID)
	eqID := seedEquipment(t, "SN-IMM-1", lifecycle.StatusAvailable, nil, &teamID)

	svc := newWorkflowTransferService()
	res, err := svc.InitiateTransfer(workflowCtx(leadID, constants.RoleTeamLead), dto.InitiateTransferDTO{
		EquipmentID:       eqID,
		ToUserID:          recipientID,
		Reason:            "передача внутри команды",
		ImmediateTransfer: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Immediate)
	require.NotNil(t, res.Equipment)

	eq, err := repositories.NewEquipmentRepository(workflowPool).FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAssigned, eq.Status)
	require.NotNil(t, eq.CurrentOwnerID)
	assert.Equal(t, recipientID, *eq.CurrentOwnerID)

	count, err := repositories.NewEquipmentHistoryRepository(workflowPool).
		CountByEquipmentAndAction(context.Background(), eqID, "transferred")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Ровно одна запись истории на передачу")
}

// Передача от обычного пользователя: сначала ожидающая заявка без побочных
// эффектов, затем одобрение тимлидом — владелец и ровно одна запись истории.
func TestTransferService_Integration_UserPendingThenApproved(t *testing.T) {
	requireWorkflowDB(t)

	teamID := seedTeam(t, "Поддержка")
	leadID := seedUser(t, "Тимлид", "lead@test.local", constants.RoleTeamLead, &teamID)
	requesterID := seedUser(t, "Инициатор", "req@test.local", constants.RoleUser, &teamID)
	recipientID := seedUser(t, "Получатель", "user@test.local", constants.RoleUser, &teamID)
	eqID := seedEquipment(t, "SN-PEND-1", lifecycle.StatusAvailable, nil, &teamID)

	svc := newWorkflowTransferService()
	res, err := svc.InitiateTransfer(workflowCtx(requesterID, constants.RoleUser), dto.InitiateTransferDTO{
		EquipmentID: eqID,
		ToUserID:    recipientID,
		Reason:      "нужен коллеге",
	})
	require.NoError(t, err)
	assert.False(t, res.Immediate)
	require.NotNil(t, res.Transfer)
	assert.Equal(t, "pending", res.Transfer.Status)
	require.NotNil(t, res.Transfer.ApproverID)
	assert.Equal(t, leadID, *res.Transfer.ApproverID)

	// До решения оборудование не тронуто.
	equipmentRepo := repositories.NewEquipmentRepository(workflowPool)
	eq, err := equipmentRepo.FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAvailable, eq.Status)
	assert.Nil(t, eq.CurrentOwnerID)

	// Повторная заявка по тому же оборудованию блокируется.
	_, err = svc.InitiateTransfer(workflowCtx(requesterID, constants.RoleUser), dto.InitiateTransferDTO{
		EquipmentID: eqID,
		ToUserID:    recipientID,
		Reason:      "дубль",
	})
	require.Error(t, err)

	decided, err := svc.DecideTransfer(workflowCtx(leadID, constants.RoleTeamLead),
		res.Transfer.ID, dto.DecideTransferDTO{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", decided.Status)

	eq, err = equipmentRepo.FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAssigned, eq.Status)
	require.NotNil(t, eq.CurrentOwnerID)
	assert.Equal(t, recipientID, *eq.CurrentOwnerID)

	count, err := repositories.NewEquipmentHistoryRepository(workflowPool).
		CountByEquipmentAndAction(context.Background(), eqID, "transferred")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Ровно одна запись истории на передачу")
}

// Двухэтапное согласование заявки: тимлид ставит флаг, статус остаётся pending;
// admin закрывает цепочку; выдача связывает заявку с оборудованием атомарно.
func TestRequestService_Integration_TwoStageDecideAndFulfill(t *testing.T) {
	requireWorkflowDB(t)

	teamID := seedTeam(t, "Разработка")
	leadID := seedUser(t, "Тимлид", "lead@test.local", constants.RoleTeamLead, &teamID)
	adminID := seedUser(t, "Админ", "admin@test.local", constants.RoleAdmin, nil)
	requesterID := seedUser(t, "Заявитель", "req@test.local", constants.RoleUser, &teamID)
	eqID := seedEquipment(t, "SN-REQ-1", lifecycle.StatusAvailable, nil, &teamID)

	svc := newWorkflowRequestService()
	created, err := svc.CreateRequest(workflowCtx(requesterID, constants.RoleUser), dto.CreateEquipmentRequestDTO{
		EquipmentType: "ноутбук",
		Category:      "laptop",
		Justification: "рабочая машина вышла из строя",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	afterLead, err := svc.Decide(workflowCtx(leadID, constants.RoleTeamLead),
		created.ID, dto.DecideRequestDTO{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, "pending", afterLead.Status, "После этапа team_lead заявка ещё не согласована")
	require.NotNil(t, afterLead.TeamLeadApproval)
	assert.True(t, *afterLead.TeamLeadApproval)
	assert.Nil(t, afterLead.AdminApproval)

	afterAdmin, err := svc.Decide(workflowCtx(adminID, constants.RoleAdmin),
		created.ID, dto.DecideRequestDTO{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", afterAdmin.Status)
	require.NotNil(t, afterAdmin.AdminApproval)
	assert.True(t, *afterAdmin.AdminApproval)

	fulfilled, err := svc.Fulfill(workflowCtx(adminID, constants.RoleAdmin),
		created.ID, dto.FulfillRequestDTO{EquipmentID: eqID})
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", fulfilled.Status)
	require.NotNil(t, fulfilled.EquipmentID)
	assert.Equal(t, eqID, *fulfilled.EquipmentID)

	eq, err := repositories.NewEquipmentRepository(workflowPool).FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAssigned, eq.Status)
	require.NotNil(t, eq.CurrentOwnerID)
	assert.Equal(t, requesterID, *eq.CurrentOwnerID)
}

// Завершение ТО возвращает оборудование в available: владелец очищен,
// состояние по умолчанию, дата последнего обслуживания проставлена.
func TestMaintenanceService_Integration_CompletionRestoresAvailability(t *testing.T) {
	requireWorkflowDB(t)

	teamID := seedTeam(t, "Поддержка")
	adminID := seedUser(t, "Админ", "admin@test.local", constants.RoleAdmin, nil)
	ownerID := seedUser(t, "Владелец", "owner@test.local", constants.RoleUser, &teamID)
	eqID := seedEquipment(t, "SN-MNT-1", lifecycle.StatusAssigned, &ownerID, &teamID)

	svc := newWorkflowMaintenanceService()
	rec, err := svc.ScheduleMaintenance(workflowCtx(adminID, constants.RoleAdmin), dto.ScheduleMaintenanceDTO{
		EquipmentID:   eqID,
		Type:          "corrective",
		Description:   "замена клавиатуры",
		EstimatedCost: utils.ToPtr(120.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", rec.Status)

	equipmentRepo := repositories.NewEquipmentRepository(workflowPool)
	eq, err := equipmentRepo.FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusMaintenance, eq.Status)

	// Вторая активная запись по тому же оборудованию не создаётся.
	_, err = svc.ScheduleMaintenance(workflowCtx(adminID, constants.RoleAdmin), dto.ScheduleMaintenanceDTO{
		EquipmentID: eqID,
		Description: "дубль записи",
	})
	require.Error(t, err)

	done, err := svc.UpdateMaintenance(workflowCtx(adminID, constants.RoleAdmin), rec.ID, dto.UpdateMaintenanceDTO{
		Status:     "completed",
		ActualCost: utils.ToPtr(140.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.Cost)
	assert.Equal(t, 140.0, *done.Cost)

	eq, err = equipmentRepo.FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAvailable, eq.Status)
	assert.Nil(t, eq.CurrentOwnerID, "Завершение ТО очищает владельца")
	assert.Equal(t, "good", eq.Condition)
	assert.True(t, eq.LastMaintenanceDate.Valid)
}

package services

import (
	"testing"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMaintenanceRequiresApproval(t *testing.T) {
	cheap := 100.0
	expensive := 750.0
	atThreshold := maintenanceApprovalCostThreshold

	cases := []struct {
		name     string
		cost     *float64
		mType    entities.MaintenanceType
		priority string
		role     constants.Role
		want     bool
	}{
		{"админ, дешёвое плановое", &cheap, entities.MaintenancePreventive, "medium", constants.RoleAdmin, false},
		{"админ, без оценки стоимости", nil, entities.MaintenanceInspection, "low", constants.RoleAdmin, false},
		{"дорогое ТО требует согласования даже у админа", &expensive, entities.MaintenancePreventive, "medium", constants.RoleAdmin, true},
		{"стоимость ровно на пороге не требует согласования", &atThreshold, entities.MaintenancePreventive, "medium", constants.RoleAdmin, false},
		{"аварийное ТО всегда согласуется", &cheap, entities.MaintenanceEmergency, "low", constants.RoleAdmin, true},
		{"срочный приоритет всегда согласуется", &cheap, entities.MaintenanceCorrective, "urgent", constants.RoleAdmin, true},
		{"тимлид согласует всё", &cheap, entities.MaintenancePreventive, "low", constants.RoleTeamLead, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, maintenanceRequiresApproval(c.cost, c.mType, c.priority, c.role))
		})
	}
}

func TestMaintenanceStatusActive(t *testing.T) {
	assert.True(t, entities.MaintenanceStatusPending.Active())
	assert.True(t, entities.MaintenanceStatusInProgress.Active())
	assert.False(t, entities.MaintenanceStatusCompleted.Active())
	assert.False(t, entities.MaintenanceStatusCancelled.Active())
}

// Роль без права работы с ТО отбрасывается до обращения к хранилищу.
func TestMaintenanceService_GatesByCapability(t *testing.T) {
	svc := &MaintenanceService{logger: zap.NewNop()}
	var unauthorized *apperrors.UnauthorizedError

	_, err := svc.ScheduleMaintenance(workflowCtx(1, constants.RoleUser),
		dto.ScheduleMaintenanceDTO{EquipmentID: 1, Description: "попытка пользователя"})
	require.ErrorAs(t, err, &unauthorized)

	_, err = svc.UpdateMaintenance(workflowCtx(1, constants.RoleUser), 1,
		dto.UpdateMaintenanceDTO{Status: "completed"})
	require.ErrorAs(t, err, &unauthorized)
}

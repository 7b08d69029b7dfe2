package services

import (
	"testing"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCanApprove_StageOrder(t *testing.T) {
	// Новая заявка: очередь тимлида, admin ещё не может.
	req := &entities.EquipmentRequest{Status: entities.RequestStatusPending}
	assert.True(t, canApprove(req, constants.RoleTeamLead))
	assert.False(t, canApprove(req, constants.RoleAdmin))
	assert.False(t, canApprove(req, constants.RoleUser))

	// Тимлид одобрил: очередь админа, тимлид своё решение уже принял.
	req.TeamLeadApproval = null.BoolFrom(true)
	assert.False(t, canApprove(req, constants.RoleTeamLead))
	assert.True(t, canApprove(req, constants.RoleAdmin))

	// Оба этапа пройдены — решений больше не требуется.
	req.AdminApproval = null.BoolFrom(true)
	assert.False(t, canApprove(req, constants.RoleTeamLead))
	assert.False(t, canApprove(req, constants.RoleAdmin))
}

func TestCanApprove_RejectedByTeamLead(t *testing.T) {
	// Отказ тимлида фиксирует решение: заявка rejected, админу согласовывать нечего.
	req := &entities.EquipmentRequest{
		Status:           entities.RequestStatusRejected,
		TeamLeadApproval: null.BoolFrom(false),
	}
	assert.False(t, canApprove(req, constants.RoleAdmin))
	assert.False(t, canApprove(req, constants.RoleTeamLead))
}

func TestCanApprove_TerminalStatuses(t *testing.T) {
	for _, status := range []entities.RequestStatus{
		entities.RequestStatusApproved,
		entities.RequestStatusRejected,
		entities.RequestStatusOrdered,
		entities.RequestStatusFulfilled,
	} {
		req := &entities.EquipmentRequest{
			Status:           status,
			TeamLeadApproval: null.BoolFrom(true),
		}
		assert.Falsef(t, canApprove(req, constants.RoleAdmin), "status=%s", status)
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.True(t, entities.RequestStatusRejected.Terminal())
	assert.True(t, entities.RequestStatusFulfilled.Terminal())
	assert.False(t, entities.RequestStatusPending.Terminal())
	assert.False(t, entities.RequestStatusApproved.Terminal())
	assert.False(t, entities.RequestStatusOrdered.Terminal())
}

// Гейты Decide/Fulfill опираются на способности роли и срабатывают
// до обращения к хранилищу.
func TestRequestService_GatesByCapability(t *testing.T) {
	svc := &EquipmentRequestService{logger: zap.NewNop()}
	var unauthorized *apperrors.UnauthorizedError

	_, err := svc.Decide(workflowCtx(1, constants.RoleUser), 1,
		dto.DecideRequestDTO{Approve: true})
	require.ErrorAs(t, err, &unauthorized)

	_, err = svc.Fulfill(workflowCtx(1, constants.RoleTeamLead), 1,
		dto.FulfillRequestDTO{EquipmentID: 1})
	require.ErrorAs(t, err, &unauthorized)
}

package lifecycle

import (
	"errors"
	"testing"

	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusAvailable, true},
		{StatusPending, StatusBroken, true},
		{StatusPending, StatusAssigned, false},
		{StatusAvailable, StatusAssigned, true},
		{StatusAvailable, StatusMaintenance, true},
		{StatusAvailable, StatusDecommissioned, true},
		{StatusAvailable, StatusLost, false},
		{StatusAssigned, StatusAvailable, true},
		{StatusAssigned, StatusLost, true},
		{StatusAssigned, StatusStolen, true},
		{StatusAssigned, StatusDecommissioned, false},
		{StatusMaintenance, StatusAvailable, true},
		{StatusMaintenance, StatusAssigned, false},
		{StatusBroken, StatusMaintenance, true},
		{StatusBroken, StatusAvailable, false},
		{StatusLost, StatusDecommissioned, true},
		{StatusLost, StatusAvailable, false},
		{StatusStolen, StatusDecommissioned, true},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestDecommissionedIsTerminal(t *testing.T) {
	assert.Empty(t, Allowed(StatusDecommissioned))
	for _, to := range Statuses() {
		assert.Falsef(t, CanTransition(StatusDecommissioned, to), "decommissioned -> %s должен быть запрещён", to)
	}
}

func TestValidate_RoleRestrictions(t *testing.T) {
	// Списание доступно только администратору.
	err := Validate(StatusAvailable, StatusDecommissioned, constants.RoleTeamLead)
	var roleErr *apperrors.UnauthorizedError
	require.True(t, errors.As(err, &roleErr))

	require.NoError(t, Validate(StatusAvailable, StatusDecommissioned, constants.RoleAdmin))

	// Перевод в обслуживание запрещен обычному пользователю.
	err = Validate(StatusAvailable, StatusMaintenance, constants.RoleUser)
	require.True(t, errors.As(err, &roleErr))

	require.NoError(t, Validate(StatusAvailable, StatusMaintenance, constants.RoleTeamLead))
}

func TestValidate_InvalidTransitionCarriesAllowed(t *testing.T) {
	err := Validate(StatusBroken, StatusAssigned, constants.RoleAdmin)
	var trErr *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &trErr))
	assert.ElementsMatch(t, []string{"maintenance", "decommissioned"}, trErr.Allowed)
}

func TestValidate_TableCheckedBeforeRole(t *testing.T) {
	// Недопустимый по таблице переход даёт InvalidTransition,
	// даже если роль его всё равно не смогла бы выполнить.
	err := Validate(StatusLost, StatusMaintenance, constants.RoleUser)
	var trErr *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &trErr))
}

func TestAvailableTransitions_FiltersByRole(t *testing.T) {
	assert.ElementsMatch(t,
		[]Status{StatusAssigned, StatusMaintenance, StatusBroken, StatusDecommissioned},
		AvailableTransitions(StatusAvailable, constants.RoleAdmin))

	assert.ElementsMatch(t,
		[]Status{StatusAssigned, StatusMaintenance, StatusBroken},
		AvailableTransitions(StatusAvailable, constants.RoleTeamLead))

	assert.ElementsMatch(t,
		[]Status{StatusAssigned, StatusBroken},
		AvailableTransitions(StatusAvailable, constants.RoleUser))
}

func TestHistoryAction(t *testing.T) {
	assert.Equal(t, "STATUS_AVAILABLE", StatusAvailable.HistoryAction())
	assert.Equal(t, "STATUS_DECOMMISSIONED", StatusDecommissioned.HistoryAction())
	assert.Equal(t, "STATUS_UNKNOWN", Status("nvme").HistoryAction())
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("archived").Valid())
}

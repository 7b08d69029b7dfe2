package authz

import (
	"testing"

	"inventory-system/pkg/constants"

	"github.com/stretchr/testify/assert"
)

func TestFor_Admin(t *testing.T) {
	caps := For(constants.RoleAdmin)
	assert.True(t, caps.CanApproveAsAdmin)
	assert.True(t, caps.CanDecommission)
	assert.True(t, caps.CanImmediateTransfer)
	assert.True(t, caps.CanFulfillRequests)
	assert.True(t, caps.CanManageUsers)
	assert.True(t, caps.CanManageSubscriptions)
	// Админ не согласует за тимлида: этапы воркфлоу разделены.
	assert.False(t, caps.CanApproveAsTeamLead)
}

func TestFor_TeamLead(t *testing.T) {
	caps := For(constants.RoleTeamLead)
	assert.True(t, caps.CanApproveAsTeamLead)
	assert.True(t, caps.CanScheduleMaintenance)
	assert.True(t, caps.CanExportReports)
	assert.False(t, caps.CanApproveAsAdmin)
	assert.False(t, caps.CanDecommission)
	assert.False(t, caps.CanImmediateTransfer)
	assert.False(t, caps.CanManageUsers)
}

func TestFor_User(t *testing.T) {
	assert.Equal(t, Capabilities{}, For(constants.RoleUser))
}

func TestFor_UnknownRole(t *testing.T) {
	assert.Equal(t, Capabilities{}, For(constants.Role("guest")))
}

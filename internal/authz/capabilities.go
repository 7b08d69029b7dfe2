// Пакет authz — разрешения, вычисляемые один раз на запрос из роли актора.
// Вместо разбросанных проверок `role == admin` воркфлоу опрашивают Capabilities.
package authz

import "inventory-system/pkg/constants"

type Capabilities struct {
	CanApproveAsTeamLead   bool `json:"can_approve_as_team_lead"`
	CanApproveAsAdmin      bool `json:"can_approve_as_admin"`
	CanDecommission        bool `json:"can_decommission"`
	CanScheduleMaintenance bool `json:"can_schedule_maintenance"`
	CanImmediateTransfer   bool `json:"can_immediate_transfer"`
	CanFulfillRequests     bool `json:"can_fulfill_requests"`
	CanManageUsers         bool `json:"can_manage_users"`
	CanImportEquipment     bool `json:"can_import_equipment"`
	CanExportReports       bool `json:"can_export_reports"`
	CanManageSubscriptions bool `json:"can_manage_subscriptions"`
}

// For возвращает способности роли. Чистая функция — кеш поверх неё
// (redis) нужен только чтобы не гонять JSON по каждому запросу фронтенда.
func For(role constants.Role) Capabilities {
	switch role {
	case constants.RoleAdmin:
		return Capabilities{
			CanApproveAsAdmin:      true,
			CanDecommission:        true,
			CanScheduleMaintenance: true,
			CanImmediateTransfer:   true,
			CanFulfillRequests:     true,
			CanManageUsers:         true,
			CanImportEquipment:     true,
			CanExportReports:       true,
			CanManageSubscriptions: true,
		}
	case constants.RoleTeamLead:
		return Capabilities{
			CanApproveAsTeamLead:   true,
			CanScheduleMaintenance: true,
			CanExportReports:       true,
		}
	default:
		return Capabilities{}
	}
}

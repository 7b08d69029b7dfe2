package entities

import (
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCorrective MaintenanceType = "corrective"
	MaintenanceEmergency  MaintenanceType = "emergency"
	MaintenanceUpgrade    MaintenanceType = "upgrade"
	MaintenanceInspection MaintenanceType = "inspection"
)

func (t MaintenanceType) String() string { return string(t) }

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) String() string { return string(s) }

// Active — запись ещё держит оборудование в статусе maintenance.
func (s MaintenanceStatus) Active() bool {
	return s == MaintenanceStatusPending || s == MaintenanceStatusInProgress
}

// MaintenanceRecord — запись о техническом обслуживании.
// Инвариант: на единицу оборудования не больше одной активной записи.
type MaintenanceRecord struct {
	ID          uint64            `json:"id" db:"id"`
	EquipmentID uint64            `json:"equipment_id" db:"equipment_id"`
	Type        MaintenanceType   `json:"type" db:"type"`
	Status      MaintenanceStatus `json:"status" db:"status"`
	Description string            `json:"description" db:"description"`

	ScheduledAt null.Time `json:"scheduled_at" db:"scheduled_at"`
	CompletedAt null.Time `json:"completed_at" db:"completed_at"`

	EstimatedCost null.Float64 `json:"estimated_cost" db:"estimated_cost"`
	Cost          null.Float64 `json:"cost" db:"cost"`

	PerformedBy null.String `json:"performed_by" db:"performed_by"`
	Vendor      null.String `json:"vendor" db:"vendor"`
	Notes       null.String `json:"notes" db:"notes"`

	RequiresApproval bool   `json:"requires_approval" db:"requires_approval"`
	CreatedByID      uint64 `json:"created_by_id" db:"created_by_id"`

	types.BaseEntity
}

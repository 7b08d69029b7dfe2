package entities

import (
	"inventory-system/internal/lifecycle"
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type Equipment struct {
	ID           uint64           `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	SerialNumber string           `json:"serial_number" db:"serial_number"`
	Category     string           `json:"category" db:"category"`
	Status       lifecycle.Status `json:"status" db:"status"`
	Condition    string           `json:"condition" db:"condition"`

	// CurrentOwnerID != nil тогда и только тогда, когда Status == assigned.
	CurrentOwnerID *uint64 `json:"current_owner_id" db:"current_owner_id"`
	TeamID         *uint64 `json:"team_id" db:"team_id"`

	PurchasePrice       null.Float64 `json:"purchase_price" db:"purchase_price"`
	LastMaintenanceDate null.Time    `json:"last_maintenance_date" db:"last_maintenance_date"`
	NextMaintenanceDate null.Time    `json:"next_maintenance_date" db:"next_maintenance_date"`

	Notes null.String `json:"notes" db:"notes"`

	types.BaseEntity
}

package dto

type ScheduleMaintenanceDTO struct {
	EquipmentID   uint64   `json:"equipment_id" validate:"required,gt=0"`
	Type          string   `json:"type" validate:"omitempty,maintenance_type"`
	Description   string   `json:"description" validate:"required,min=5"`
	Priority      string   `json:"priority" validate:"omitempty,request_priority"`
	ScheduledAt   *string  `json:"scheduled_at,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	Vendor        *string  `json:"vendor,omitempty"`
}

type UpdateMaintenanceDTO struct {
	Status              string   `json:"status" validate:"required,oneof=in_progress completed cancelled"`
	ActualCost          *float64 `json:"actual_cost,omitempty" validate:"omitempty,gte=0"`
	PerformedBy         *string  `json:"performed_by,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Condition           *string  `json:"condition,omitempty" validate:"omitempty,equipment_condition"`
	NextMaintenanceDate *string  `json:"next_maintenance_date,omitempty"`
}

type MaintenanceRecordDTO struct {
	ID               uint64   `json:"id"`
	EquipmentID      uint64   `json:"equipment_id"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	Description      string   `json:"description"`
	ScheduledAt      *string  `json:"scheduled_at,omitempty"`
	CompletedAt      *string  `json:"completed_at,omitempty"`
	EstimatedCost    *float64 `json:"estimated_cost,omitempty"`
	Cost             *float64 `json:"cost,omitempty"`
	PerformedBy      *string  `json:"performed_by,omitempty"`
	Vendor           *string  `json:"vendor,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	RequiresApproval bool     `json:"requires_approval"`
	CreatedByID      uint64   `json:"created_by_id"`
	CreatedAt        string   `json:"created_at"`
}

package dto

type CreateEquipmentDTO struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	SerialNumber  string   `json:"serial_number" validate:"required,serial_number"`
	Category      string   `json:"category" validate:"required,min=2,max=100"`
	Condition     string   `json:"condition" validate:"omitempty,equipment_condition"`
	TeamID        *uint64  `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	// Новое оборудование становится pending либо сразу available.
	Available bool `json:"available"`
}

type UpdateEquipmentDTO struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,min=2,max=100"`
	Condition     *string  `json:"condition,omitempty" validate:"omitempty,equipment_condition"`
	TeamID        *uint64  `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes,omitempty"`
}

// TransitionEquipmentDTO — запрос на перевод оборудования в новый статус.
type TransitionEquipmentDTO struct {
	Status    string  `json:"status" validate:"required"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,min=3"`
	Condition *string `json:"condition,omitempty" validate:"omitempty,equipment_condition"`
	// Для lost/stolen: описание обстоятельств, попадает в notes оборудования.
	LossReport *string `json:"loss_report,omitempty" validate:"omitempty,min=10"`
}

type EquipmentDTO struct {
	ID                  uint64   `json:"id"`
	Name                string   `json:"name"`
	SerialNumber        string   `json:"serial_number"`
	Category            string   `json:"category"`
	Status              string   `json:"status"`
	Condition           string   `json:"condition"`
	CurrentOwnerID      *uint64  `json:"current_owner_id"`
	CurrentOwnerFio     *string  `json:"current_owner_fio,omitempty"`
	TeamID              *uint64  `json:"team_id"`
	TeamName            *string  `json:"team_name,omitempty"`
	PurchasePrice       *float64 `json:"purchase_price,omitempty"`
	LastMaintenanceDate *string  `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *string  `json:"next_maintenance_date,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

// AvailableTransitionsDTO — ответ read-only запроса для UI.
type AvailableTransitionsDTO struct {
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}

package dto

type CreateEquipmentRequestDTO struct {
	EquipmentType string `json:"equipment_type" validate:"required,min=2,max=100"`
	Category      string `json:"category" validate:"required,min=2,max=100"`
	Justification string `json:"justification" validate:"required,min=10"`
	Priority      string `json:"priority" validate:"omitempty,request_priority"`
}

// DecideRequestDTO — решение согласующего по заявке.
type DecideRequestDTO struct {
	Approve bool    `json:"approve"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,min=3"`
	// Обязателен при отклонении.
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"omitempty,min=3"`
}

// FulfillRequestDTO — выдача оборудования по согласованной заявке.
type FulfillRequestDTO struct {
	EquipmentID uint64 `json:"equipment_id" validate:"required,gt=0"`
}

type EquipmentRequestDTO struct {
	ID               uint64  `json:"id"`
	RequesterID      uint64  `json:"requester_id"`
	RequesterFio     string  `json:"requester_fio,omitempty"`
	EquipmentType    string  `json:"equipment_type"`
	Category         string  `json:"category"`
	Justification    string  `json:"justification"`
	Priority         string  `json:"priority"`
	Status           string  `json:"status"`
	TeamLeadApproval *bool   `json:"team_lead_approval"`
	AdminApproval    *bool   `json:"admin_approval"`
	ApproverID       *uint64 `json:"approver_id,omitempty"`
	ApprovalNotes    *string `json:"approval_notes,omitempty"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
	EquipmentID      *uint64 `json:"equipment_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

package dto

type InitiateTransferDTO struct {
	EquipmentID uint64  `json:"equipment_id" validate:"required,gt=0"`
	ToUserID    uint64  `json:"to_user_id" validate:"required,gt=0"`
	Reason      string  `json:"reason" validate:"required,min=3"`
	Condition   *string `json:"condition,omitempty" validate:"omitempty,equipment_condition"`
	// Выполнить передачу без согласования, если роль это позволяет;
	// для остальных ролей флаг не участвует в выборе пути.
	ImmediateTransfer bool `json:"immediate_transfer"`
}

type DecideTransferDTO struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason,omitempty" validate:"omitempty,min=3"`
}

// TransferResultDTO — либо выполнено сразу, либо создана ожидающая заявка.
type TransferResultDTO struct {
	Immediate bool                `json:"immediate"`
	Equipment *EquipmentDTO       `json:"equipment,omitempty"`
	Transfer  *TransferRequestDTO `json:"transfer,omitempty"`
}

type TransferRequestDTO struct {
	ID            uint64  `json:"id"`
	EquipmentID   uint64  `json:"equipment_id"`
	FromUserID    *uint64 `json:"from_user_id"`
	ToUserID      uint64  `json:"to_user_id"`
	RequestedByID uint64  `json:"requested_by_id"`
	ApproverID    *uint64 `json:"approver_id,omitempty"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason"`
	Condition     *string `json:"condition,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

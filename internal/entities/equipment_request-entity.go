package entities

import (
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// RequestStatus — статус заявки на оборудование.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusOrdered  RequestStatus = "ordered"
	RequestStatusFulfilled RequestStatus = "fulfilled"
)

func (s RequestStatus) String() string { return string(s) }

// Terminal — дальше заявку двигать нельзя.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusRejected || s == RequestStatusFulfilled
}

type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

func (p RequestPriority) String() string { return string(p) }

// EquipmentRequest — заявка пользователя на выдачу оборудования.
// Инвариант: AdminApproval может быть выставлен только после
// TeamLeadApproval == true; любой false немедленно делает заявку rejected.
type EquipmentRequest struct {
	ID            uint64          `json:"id" db:"id"`
	RequesterID   uint64          `json:"requester_id" db:"requester_id"`
	EquipmentType string          `json:"equipment_type" db:"equipment_type"`
	Category      string          `json:"category" db:"category"`
	Justification string          `json:"justification" db:"justification"`
	Priority      RequestPriority `json:"priority" db:"priority"`
	Status        RequestStatus   `json:"status" db:"status"`

	TeamLeadApproval null.Bool `json:"team_lead_approval" db:"team_lead_approval"`
	AdminApproval    null.Bool `json:"admin_approval" db:"admin_approval"`

	ApproverID      null.Uint64 `json:"approver_id" db:"approver_id"`
	ApprovalNotes   null.String `json:"approval_notes" db:"approval_notes"`
	RejectionReason null.String `json:"rejection_reason" db:"rejection_reason"`

	// Заполняется при выдаче (fulfilled).
	EquipmentID null.Uint64 `json:"equipment_id" db:"equipment_id"`

	types.BaseEntity
}

package entities

import (
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusApproved TransferStatus = "approved"
	TransferStatusRejected TransferStatus = "rejected"
)

func (s TransferStatus) String() string { return string(s) }

// TransferRequest — отложенная передача, ждущая согласования.
// FromUserID фиксирует владельца на момент создания заявки.
type TransferRequest struct {
	ID            uint64         `json:"id" db:"id"`
	EquipmentID   uint64         `json:"equipment_id" db:"equipment_id"`
	FromUserID    null.Uint64    `json:"from_user_id" db:"from_user_id"`
	ToUserID      uint64         `json:"to_user_id" db:"to_user_id"`
	RequestedByID uint64         `json:"requested_by_id" db:"requested_by_id"`
	ApproverID    null.Uint64    `json:"approver_id" db:"approver_id"`
	Status        TransferStatus `json:"status" db:"status"`
	Reason        string         `json:"reason" db:"reason"`
	Condition     null.String    `json:"condition" db:"condition"`

	types.BaseEntity
}

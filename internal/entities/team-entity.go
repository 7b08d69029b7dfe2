package entities

import "inventory-system/pkg/types"

type Team struct {
	ID     uint64  `json:"id" db:"id"`
	Name   string  `json:"name" db:"name"`
	LeadID *uint64 `json:"lead_id" db:"lead_id"`

	types.BaseEntity
}

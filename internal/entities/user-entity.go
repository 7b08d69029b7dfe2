// Файл: internal/entities/user-entity.go
package entities

import (
	"inventory-system/pkg/constants"
	"inventory-system/pkg/types"
)

type User struct {
	ID    uint64 `json:"id" db:"id"`
	Fio   string `json:"fio" db:"fio"`
	Email string `json:"email" db:"email"`

	Password string `json:"-" db:"password"`

	Role     constants.Role `json:"role" db:"role"`
	TeamID   *uint64        `json:"team_id" db:"team_id"`
	IsActive bool           `json:"is_active" db:"is_active"`

	types.BaseEntity
	types.SoftDelete
}

package entities

import "time"

// EquipmentHistory — append-only журнал. Записи никогда не обновляются
// и не удаляются; одна запись на каждую операцию, меняющую состояние.
type EquipmentHistory struct {
	ID          uint64    `json:"id" db:"id"`
	EquipmentID uint64    `json:"equipment_id" db:"equipment_id"`
	FromUserID  *uint64   `json:"from_user_id" db:"from_user_id"`
	ToUserID    *uint64   `json:"to_user_id" db:"to_user_id"`
	ActorID     uint64    `json:"actor_id" db:"actor_id"`
	Action      string    `json:"action" db:"action"`
	Condition   *string   `json:"condition" db:"condition"`
	Notes       *string   `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Действия, не являющиеся сменой статуса.
const (
	HistoryActionTransferred = "transferred"
	HistoryActionCreated     = "created"
)

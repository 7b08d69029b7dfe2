package dto

type EquipmentHistoryDTO struct {
	ID          uint64  `json:"id"`
	EquipmentID uint64  `json:"equipment_id"`
	FromUserID  *uint64 `json:"from_user_id,omitempty"`
	FromUserFio *string `json:"from_user_fio,omitempty"`
	ToUserID    *uint64 `json:"to_user_id,omitempty"`
	ToUserFio   *string `json:"to_user_fio,omitempty"`
	ActorID     uint64  `json:"actor_id"`
	ActorFio    *string `json:"actor_fio,omitempty"`
	Action      string  `json:"action"`
	Condition   *string `json:"condition,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

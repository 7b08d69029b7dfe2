package websocket

import "time"

// Envelope — конверт для всех сообщений; Type позволяет фронтенду
// понять, как обработать Payload.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationPayload — уведомление из "колокольчика".
type NotificationPayload struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Links     LinkInfo  `json:"links"`
	CreatedAt time.Time `json:"created_at"`
}

type LinkInfo struct {
	EquipmentID   *uint64 `json:"equipmentId,omitempty"`
	RequestID     *uint64 `json:"requestId,omitempty"`
	TransferID    *uint64 `json:"transferId,omitempty"`
	MaintenanceID *uint64 `json:"maintenanceId,omitempty"`
}

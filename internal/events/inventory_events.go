package events

import (
	"inventory-system/internal/entities"
)

// События доменных операций. Публикуются после коммита транзакции,
// поэтому несут уже зафиксированные сущности.

type RequestSubmittedEvent struct {
	Request entities.EquipmentRequest
}

func (e RequestSubmittedEvent) Name() string { return "request.submitted" }

type RequestDecidedEvent struct {
	Request entities.EquipmentRequest
	// Этап, на котором принято решение: team_lead или admin.
	Stage    string
	Approved bool
	ActorID  uint64
}

func (e RequestDecidedEvent) Name() string { return "request.decided" }

type RequestFulfilledEvent struct {
	Request   entities.EquipmentRequest
	Equipment entities.Equipment
	ActorID   uint64
}

func (e RequestFulfilledEvent) Name() string { return "request.fulfilled" }

type TransferPendingEvent struct {
	Transfer  entities.TransferRequest
	Equipment entities.Equipment
}

func (e TransferPendingEvent) Name() string { return "transfer.pending" }

type TransferDecidedEvent struct {
	Transfer entities.TransferRequest
	Approved bool
	ActorID  uint64
}

func (e TransferDecidedEvent) Name() string { return "transfer.decided" }

type EquipmentStatusChangedEvent struct {
	Equipment entities.Equipment
	From      string
	To        string
	ActorID   uint64
	// Владелец на момент перехода: переходы available/lost/stolen обнуляют
	// CurrentOwnerID, а уведомить нужно именно его.
	PreviousOwnerID *uint64
}

func (e EquipmentStatusChangedEvent) Name() string { return "equipment.status.changed" }

type MaintenanceScheduledEvent struct {
	Record    entities.MaintenanceRecord
	Equipment entities.Equipment
}

func (e MaintenanceScheduledEvent) Name() string { return "maintenance.scheduled" }

type MaintenanceCompletedEvent struct {
	Record    entities.MaintenanceRecord
	Equipment entities.Equipment
	ActorID   uint64
}

func (e MaintenanceCompletedEvent) Name() string { return "maintenance.completed" }

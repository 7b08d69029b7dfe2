package listeners

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/events"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/websocket"
)

// NotificationListener переводит доменные события в websocket-уведомления
// заинтересованным пользователям. Ошибки доставки не влияют на операции:
// шина вызывает обработчики в отдельных горутинах.
type NotificationListener struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewNotificationListener(hub *websocket.Hub, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{hub: hub, logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("request.submitted", l.handleRequestSubmitted)
	bus.Subscribe("request.decided", l.handleRequestDecided)
	bus.Subscribe("request.fulfilled", l.handleRequestFulfilled)
	bus.Subscribe("transfer.pending", l.handleTransferPending)
	bus.Subscribe("transfer.decided", l.handleTransferDecided)
	bus.Subscribe("equipment.status.changed", l.handleEquipmentStatusChanged)
	bus.Subscribe("maintenance.scheduled", l.handleMaintenanceScheduled)
	bus.Subscribe("maintenance.completed", l.handleMaintenanceCompleted)
	l.logger.Info("NotificationListener подписан на доменные события")
}

func (l *NotificationListener) notify(userID uint64, eventType, message string, links websocket.LinkInfo) {
	payload := websocket.NotificationPayload{
		EventID:   uuid.New().String(),
		Type:      eventType,
		Message:   message,
		Links:     links,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.hub.SendMessageToUser(userID, payload, "NOTIFICATION"); err != nil {
		l.logger.Warn("не удалось отправить websocket-уведомление",
			zap.Uint64("user_id", userID), zap.String("type", eventType), zap.Error(err))
	}
}

func (l *NotificationListener) handleRequestSubmitted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestSubmittedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	// Подтверждение заявителю: заявка принята в работу.
	l.notify(e.Request.RequesterID, "request.submitted",
		fmt.Sprintf("Заявка №%d на «%s» отправлена на согласование", e.Request.ID, e.Request.EquipmentType),
		websocket.LinkInfo{RequestID: &e.Request.ID})
	return nil
}

func (l *NotificationListener) handleRequestDecided(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestDecidedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	verdict := "отклонена"
	if e.Approved {
		verdict = "согласована"
		if e.Stage == "team_lead" {
			verdict = "согласована тимлидом, ждёт администратора"
		}
	}
	l.notify(e.Request.RequesterID, "request.decided",
		fmt.Sprintf("Заявка №%d %s", e.Request.ID, verdict),
		websocket.LinkInfo{RequestID: &e.Request.ID})
	return nil
}

func (l *NotificationListener) handleRequestFulfilled(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestFulfilledEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	l.notify(e.Request.RequesterID, "request.fulfilled",
		fmt.Sprintf("По заявке №%d выдано оборудование «%s»", e.Request.ID, e.Equipment.Name),
		websocket.LinkInfo{RequestID: &e.Request.ID, EquipmentID: &e.Equipment.ID})
	return nil
}

func (l *NotificationListener) handleTransferPending(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TransferPendingEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	if e.Transfer.ApproverID.Valid {
		l.notify(e.Transfer.ApproverID.Uint64, "transfer.pending",
			fmt.Sprintf("Передача «%s» ждёт вашего решения", e.Equipment.Name),
			websocket.LinkInfo{TransferID: &e.Transfer.ID, EquipmentID: &e.Equipment.ID})
	}
	return nil
}

func (l *NotificationListener) handleTransferDecided(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.TransferDecidedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	verdict := "отклонена"
	if e.Approved {
		verdict = "выполнена"
	}
	links := websocket.LinkInfo{TransferID: &e.Transfer.ID, EquipmentID: &e.Transfer.EquipmentID}
	l.notify(e.Transfer.RequestedByID, "transfer.decided",
		fmt.Sprintf("Передача №%d %s", e.Transfer.ID, verdict), links)
	if e.Approved {
		l.notify(e.Transfer.ToUserID, "transfer.decided",
			fmt.Sprintf("Вам передано оборудование (передача №%d)", e.Transfer.ID), links)
	}
	return nil
}

func (l *NotificationListener) handleEquipmentStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentStatusChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	// Уведомляем владельца, у которого оборудование забрали не его руками.
	if e.PreviousOwnerID == nil || *e.PreviousOwnerID == e.ActorID {
		return nil
	}
	l.notify(*e.PreviousOwnerID, "equipment.status.changed",
		fmt.Sprintf("Статус вашего оборудования «%s» изменён: %s → %s", e.Equipment.Name, e.From, e.To),
		websocket.LinkInfo{EquipmentID: &e.Equipment.ID})
	return nil
}

func (l *NotificationListener) handleMaintenanceScheduled(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.MaintenanceScheduledEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	// Владелец теряет оборудование на время ТО — его и уведомляем.
	if e.Equipment.CurrentOwnerID != nil {
		l.notify(*e.Equipment.CurrentOwnerID, "maintenance.scheduled",
			fmt.Sprintf("Оборудование «%s» уходит на обслуживание", e.Equipment.Name),
			websocket.LinkInfo{MaintenanceID: &e.Record.ID, EquipmentID: &e.Equipment.ID})
	}
	return nil
}

func (l *NotificationListener) handleMaintenanceCompleted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.MaintenanceCompletedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	l.notify(e.Record.CreatedByID, "maintenance.completed",
		fmt.Sprintf("ТО №%d по «%s» завершено, оборудование снова доступно", e.Record.ID, e.Equipment.Name),
		websocket.LinkInfo{MaintenanceID: &e.Record.ID, EquipmentID: &e.Equipment.ID})
	return nil
}

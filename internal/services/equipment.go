package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/lifecycle"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

const (
	defaultCondition = "good"
	timeLayout       = time.RFC3339
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	// TransitionStatus — единственная точка смены статуса оборудования.
	TransitionStatus(ctx context.Context, id uint64, payload dto.TransitionEquipmentDTO) (*dto.EquipmentDTO, error)
	AvailableTransitions(ctx context.Context, id uint64) (*dto.AvailableTransitionsDTO, error)
}

type EquipmentService struct {
	pool            *pgxpool.Pool
	equipmentRepo   repositories.EquipmentRepositoryInterface
	historyRepo     repositories.EquipmentHistoryRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewEquipmentService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.EquipmentHistoryRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		pool:            pool,
		equipmentRepo:   equipmentRepo,
		historyRepo:     historyRepo,
		maintenanceRepo: maintenanceRepo,
		bus:             bus,
		logger:          logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	list, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EquipmentDTO, 0, len(list))
	for i := range list {
		out = append(out, *toEquipmentDTO(&list[i]))
	}
	return out, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEquipmentDTO(eq), nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	status := lifecycle.StatusPending
	if payload.Available {
		status = lifecycle.StatusAvailable
	}

	condition := payload.Condition
	if condition == "" {
		condition = defaultCondition
	}

	eq := &entities.Equipment{
		Name:         payload.Name,
		SerialNumber: payload.SerialNumber,
		Category:     payload.Category,
		Status:       status,
		Condition:    condition,
		TeamID:       payload.TeamID,
	}
	if payload.PurchasePrice != nil {
		eq.PurchasePrice = null.Float64From(*payload.PurchasePrice)
	}

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		id, txErr := s.equipmentRepo.CreateEquipmentInTx(ctx, tx, eq)
		if txErr != nil {
			return txErr
		}
		eq.ID = id
		return s.historyRepo.CreateInTx(ctx, tx, &entities.EquipmentHistory{
			EquipmentID: id,
			ActorID:     actorID,
			Action:      entities.HistoryActionCreated,
			Condition:   &eq.Condition,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("оборудование создано",
		zap.Uint64("equipment_id", eq.ID),
		zap.String("serial_number", eq.SerialNumber),
		zap.String("status", eq.Status.String()))

	return s.FindEquipment(ctx, eq.ID)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	set := map[string]interface{}{}
	if payload.Name != nil {
		set["name"] = *payload.Name
	}
	if payload.Category != nil {
		set["category"] = *payload.Category
	}
	if payload.Condition != nil {
		set["condition"] = *payload.Condition
	}
	if payload.TeamID != nil {
		set["team_id"] = *payload.TeamID
	}
	if payload.PurchasePrice != nil {
		set["purchase_price"] = *payload.PurchasePrice
	}
	if payload.Notes != nil {
		set["notes"] = *payload.Notes
	}
	if len(set) == 0 {
		return nil, apperrors.NewInvalidInputError("нет полей для обновления")
	}

	if err := s.equipmentRepo.UpdateEquipmentFields(ctx, id, set); err != nil {
		return nil, err
	}
	return s.FindEquipment(ctx, id)
}

// TransitionStatus проверяет переход по таблице жизненного цикла, применяет
// побочные эффекты целевого статуса и пишет историю — всё в одной транзакции.
func (s *EquipmentService) TransitionStatus(ctx context.Context, id uint64, payload dto.TransitionEquipmentDTO) (*dto.EquipmentDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	to := lifecycle.Status(payload.Status)
	if !to.Valid() {
		return nil, apperrors.NewInvalidInputError("неизвестный статус: %q", payload.Status)
	}

	var (
		updated   *entities.Equipment
		from      lifecycle.Status
		prevOwner *uint64
	)

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		eq, txErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		from = eq.Status

		if txErr = lifecycle.Validate(from, to, role); txErr != nil {
			return txErr
		}
		// Назначение владельца идёт только через передачу или выдачу по заявке.
		if to == lifecycle.StatusAssigned {
			return apperrors.NewPreconditionError(
				"статус assigned выставляется только через передачу оборудования")
		}

		prevOwner = eq.CurrentOwnerID
		eq.Status = to
		if payload.Condition != nil {
			eq.Condition = *payload.Condition
		}

		switch to {
		case lifecycle.StatusAvailable:
			eq.CurrentOwnerID = nil
			if from == lifecycle.StatusMaintenance {
				if txErr = s.completeActiveMaintenance(ctx, tx, eq); txErr != nil {
					return txErr
				}
			}
		case lifecycle.StatusLost, lifecycle.StatusStolen:
			eq.CurrentOwnerID = nil
			if payload.LossReport != nil {
				eq.Notes = null.StringFrom(*payload.LossReport)
			}
		case lifecycle.StatusMaintenance:
			description := utils.SafeDeref(payload.Reason)
			if description == "" {
				description = fmt.Sprintf("Перевод в обслуживание из статуса %s", from)
			}
			rec := &entities.MaintenanceRecord{
				EquipmentID:      eq.ID,
				Type:             entities.MaintenanceCorrective,
				Status:           entities.MaintenanceStatusPending,
				Description:      description,
				RequiresApproval: maintenanceRequiresApproval(nil, entities.MaintenanceCorrective, "", role),
				CreatedByID:      actorID,
			}
			if _, txErr = s.maintenanceRepo.CreateRecordInTx(ctx, tx, rec); txErr != nil {
				return txErr
			}
		}

		if txErr = s.equipmentRepo.UpdateEquipmentInTx(ctx, tx, eq); txErr != nil {
			return txErr
		}

		notes := utils.SafeDeref(payload.Reason)
		if notes == "" {
			notes = fmt.Sprintf("Status changed from %s to %s", from, to)
		}
		history := &entities.EquipmentHistory{
			EquipmentID: eq.ID,
			FromUserID:  prevOwner,
			ActorID:     actorID,
			Action:      to.HistoryAction(),
			Condition:   payload.Condition,
			Notes:       &notes,
		}
		if txErr = s.historyRepo.CreateInTx(ctx, tx, history); txErr != nil {
			return txErr
		}

		updated = eq
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("статус оборудования изменён",
		zap.Uint64("equipment_id", id),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Uint64("actor_id", actorID))

	s.bus.Publish(ctx, events.EquipmentStatusChangedEvent{
		Equipment:       *updated,
		From:            from.String(),
		To:              to.String(),
		ActorID:         actorID,
		PreviousOwnerID: prevOwner,
	})

	return toEquipmentDTO(updated), nil
}

// completeActiveMaintenance закрывает активную запись ТО при выходе из
// maintenance напрямую. Отсутствие записи не ошибка.
func (s *EquipmentService) completeActiveMaintenance(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error {
	rec, err := s.maintenanceRepo.FindActiveByEquipment(ctx, tx, eq.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	rec.Status = entities.MaintenanceStatusCompleted
	rec.CompletedAt = null.TimeFrom(time.Now())
	return s.maintenanceRepo.UpdateRecordInTx(ctx, tx, rec)
}

func (s *EquipmentService) AvailableTransitions(ctx context.Context, id uint64) (*dto.AvailableTransitionsDTO, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := lifecycle.AvailableTransitions(eq.Status, role)
	out := make([]string, len(allowed))
	for i, st := range allowed {
		out[i] = st.String()
	}
	return &dto.AvailableTransitionsDTO{
		Current: eq.Status.String(),
		Allowed: out,
	}, nil
}

func formatNullTime(t null.Time) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(time.RFC3339)
	return &s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toEquipmentDTO(eq *entities.Equipment) *dto.EquipmentDTO {
	out := &dto.EquipmentDTO{
		ID:                  eq.ID,
		Name:                eq.Name,
		SerialNumber:        eq.SerialNumber,
		Category:            eq.Category,
		Status:              eq.Status.String(),
		Condition:           eq.Condition,
		CurrentOwnerID:      eq.CurrentOwnerID,
		TeamID:              eq.TeamID,
		LastMaintenanceDate: formatNullTime(eq.LastMaintenanceDate),
		NextMaintenanceDate: formatNullTime(eq.NextMaintenanceDate),
		CreatedAt:           formatTime(eq.CreatedAt),
		UpdatedAt:           formatTime(eq.UpdatedAt),
	}
	if eq.PurchasePrice.Valid {
		out.PurchasePrice = utils.ToPtr(eq.PurchasePrice.Float64)
	}
	if eq.Notes.Valid {
		out.Notes = utils.ToPtr(eq.Notes.String)
	}
	return out
}

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

	"inventory-system/internal/authz"
	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/lifecycle"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

// Порог стоимости, выше которого ТО требует согласования.
const maintenanceApprovalCostThreshold = 500.0

type MaintenanceServiceInterface interface {
	GetRecords(ctx context.Context, filter types.Filter) ([]dto.MaintenanceRecordDTO, uint64, error)
	FindRecord(ctx context.Context, id uint64) (*dto.MaintenanceRecordDTO, error)
	// ScheduleMaintenance создаёт запись ТО и при необходимости переводит
	// оборудование в maintenance одной транзакцией.
	ScheduleMaintenance(ctx context.Context, payload dto.ScheduleMaintenanceDTO) (*dto.MaintenanceRecordDTO, error)
	UpdateMaintenance(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*dto.MaintenanceRecordDTO, error)
}

type MaintenanceService struct {
	pool            *pgxpool.Pool
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	historyRepo     repositories.EquipmentHistoryRepositoryInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewMaintenanceService(
	pool *pgxpool.Pool,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.EquipmentHistoryRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) MaintenanceServiceInterface {
	return &MaintenanceService{
		pool:            pool,
		maintenanceRepo: maintenanceRepo,
		equipmentRepo:   equipmentRepo,
		historyRepo:     historyRepo,
		bus:             bus,
		logger:          logger,
	}
}

// maintenanceRequiresApproval — согласование нужно, если хотя бы одно:
// оценка дороже порога, тип emergency, приоритет urgent, актор не admin.
func maintenanceRequiresApproval(
	estimatedCost *float64,
	mType entities.MaintenanceType,
	priority string,
	role constants.Role,
) bool {
	if estimatedCost != nil && *estimatedCost > maintenanceApprovalCostThreshold {
		return true
	}
	if mType == entities.MaintenanceEmergency {
		return true
	}
	if priority == entities.PriorityUrgent.String() {
		return true
	}
	return role != constants.RoleAdmin
}

func (s *MaintenanceService) GetRecords(ctx context.Context, filter types.Filter) ([]dto.MaintenanceRecordDTO, uint64, error) {
	list, total, err := s.maintenanceRepo.GetRecords(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MaintenanceRecordDTO, 0, len(list))
	for i := range list {
		out = append(out, *toMaintenanceDTO(&list[i]))
	}
	return out, total, nil
}

func (s *MaintenanceService) FindRecord(ctx context.Context, id uint64) (*dto.MaintenanceRecordDTO, error) {
	rec, err := s.maintenanceRepo.FindRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTO(rec), nil
}

func (s *MaintenanceService) ScheduleMaintenance(ctx context.Context, payload dto.ScheduleMaintenanceDTO) (*dto.MaintenanceRecordDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.For(role).CanScheduleMaintenance {
		return nil, apperrors.NewUnauthorizedRoleError(
			"работа с ТО недоступна обычному пользователю", constants.RoleTeamLead.String())
	}

	mType := entities.MaintenanceType(payload.Type)
	if payload.Type == "" {
		mType = entities.MaintenancePreventive
	}

	var created *entities.MaintenanceRecord

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		eq, txErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, payload.EquipmentID)
		if txErr != nil {
			return txErr
		}

		if active, activeErr := s.maintenanceRepo.FindActiveByEquipment(ctx, tx, eq.ID); activeErr == nil {
			return apperrors.NewPreconditionError(
				"по оборудованию %d уже есть активная запись ТО (id=%d)", eq.ID, active.ID)
		} else if !errors.Is(activeErr, apperrors.ErrNotFound) {
			return activeErr
		}

		rec := &entities.MaintenanceRecord{
			EquipmentID:      eq.ID,
			Type:             mType,
			Status:           entities.MaintenanceStatusPending,
			Description:      payload.Description,
			RequiresApproval: maintenanceRequiresApproval(payload.EstimatedCost, mType, payload.Priority, role),
			CreatedByID:      actorID,
		}
		if payload.EstimatedCost != nil {
			rec.EstimatedCost = null.Float64From(*payload.EstimatedCost)
		}
		if payload.Vendor != nil {
			rec.Vendor = null.StringFrom(*payload.Vendor)
		}
		if payload.ScheduledAt != nil {
			at, parseErr := time.Parse(time.RFC3339, *payload.ScheduledAt)
			if parseErr != nil {
				return apperrors.NewInvalidInputError("неверный формат scheduled_at: %v", parseErr)
			}
			rec.ScheduledAt = null.TimeFrom(at)
		}

		id, txErr := s.maintenanceRepo.CreateRecordInTx(ctx, tx, rec)
		if txErr != nil {
			return txErr
		}
		rec.ID = id

		if eq.Status != lifecycle.StatusMaintenance {
			if txErr = lifecycle.Validate(eq.Status, lifecycle.StatusMaintenance, role); txErr != nil {
				return txErr
			}
			from := eq.Status
			eq.Status = lifecycle.StatusMaintenance
			if txErr = s.equipmentRepo.UpdateEquipmentInTx(ctx, tx, eq); txErr != nil {
				return txErr
			}
			notes := payload.Description
			if notes == "" {
				notes = fmt.Sprintf("Status changed from %s to %s", from, lifecycle.StatusMaintenance)
			}
			if txErr = s.historyRepo.CreateInTx(ctx, tx, &entities.EquipmentHistory{
				EquipmentID: eq.ID,
				ActorID:     actorID,
				Action:      lifecycle.StatusMaintenance.HistoryAction(),
				Notes:       &notes,
			}); txErr != nil {
				return txErr
			}
		}

		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("запланировано ТО",
		zap.Uint64("maintenance_id", created.ID),
		zap.Uint64("equipment_id", created.EquipmentID),
		zap.String("type", created.Type.String()),
		zap.Bool("requires_approval", created.RequiresApproval))

	if eq, findErr := s.equipmentRepo.FindEquipment(ctx, created.EquipmentID); findErr == nil {
		s.bus.Publish(ctx, events.MaintenanceScheduledEvent{Record: *created, Equipment: *eq})
	}

	return toMaintenanceDTO(created), nil
}

func (s *MaintenanceService) UpdateMaintenance(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*dto.MaintenanceRecordDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.For(role).CanScheduleMaintenance {
		return nil, apperrors.NewUnauthorizedRoleError(
			"работа с ТО недоступна обычному пользователю", constants.RoleTeamLead.String())
	}

	newStatus := entities.MaintenanceStatus(payload.Status)

	var (
		updated   *entities.MaintenanceRecord
		equipment *entities.Equipment
	)

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		rec, txErr := s.maintenanceRepo.FindRecordForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if !rec.Status.Active() {
			return apperrors.NewPreconditionError(
				"запись ТО уже закрыта, статус %q", rec.Status)
		}

		if payload.PerformedBy != nil {
			rec.PerformedBy = null.StringFrom(*payload.PerformedBy)
		}
		if payload.Notes != nil {
			rec.Notes = null.StringFrom(*payload.Notes)
		}

		switch newStatus {
		case entities.MaintenanceStatusInProgress:
			rec.Status = entities.MaintenanceStatusInProgress
			// Статус оборудования подтверждаем как maintenance, владельца не трогаем.
			eq, eqErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, rec.EquipmentID)
			if eqErr != nil {
				return eqErr
			}
			if eq.Status != lifecycle.StatusMaintenance {
				return apperrors.NewPreconditionError(
					"оборудование %d не в статусе maintenance", eq.ID)
			}

		case entities.MaintenanceStatusCompleted:
			rec.Status = entities.MaintenanceStatusCompleted
			rec.CompletedAt = null.TimeFrom(time.Now())
			if payload.ActualCost != nil {
				rec.Cost = null.Float64From(*payload.ActualCost)
			}

			eq, eqErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, rec.EquipmentID)
			if eqErr != nil {
				return eqErr
			}
			if eq.Status != lifecycle.StatusMaintenance {
				return apperrors.NewPreconditionError(
					"оборудование %d не в статусе maintenance", eq.ID)
			}

			from := eq.Status
			eq.Status = lifecycle.StatusAvailable
			eq.CurrentOwnerID = nil
			eq.Condition = defaultCondition
			if payload.Condition != nil {
				eq.Condition = *payload.Condition
			}
			eq.LastMaintenanceDate = null.TimeFrom(time.Now())
			if payload.NextMaintenanceDate != nil {
				next, parseErr := time.Parse(time.RFC3339, *payload.NextMaintenanceDate)
				if parseErr != nil {
					return apperrors.NewInvalidInputError("неверный формат next_maintenance_date: %v", parseErr)
				}
				eq.NextMaintenanceDate = null.TimeFrom(next)
			}
			if eqErr = s.equipmentRepo.UpdateEquipmentInTx(ctx, tx, eq); eqErr != nil {
				return eqErr
			}

			notes := fmt.Sprintf("Status changed from %s to %s", from, lifecycle.StatusAvailable)
			if eqErr = s.historyRepo.CreateInTx(ctx, tx, &entities.EquipmentHistory{
				EquipmentID: eq.ID,
				ActorID:     actorID,
				Action:      lifecycle.StatusAvailable.HistoryAction(),
				Condition:   &eq.Condition,
				Notes:       &notes,
			}); eqErr != nil {
				return eqErr
			}
			equipment = eq

		case entities.MaintenanceStatusCancelled:
			// Запись закрывается, оборудование остаётся как есть: обратный
			// переход делается отдельной операцией, если нужен.
			rec.Status = entities.MaintenanceStatusCancelled

		default:
			return apperrors.NewInvalidInputError("недопустимый статус ТО: %q", payload.Status)
		}

		if txErr = s.maintenanceRepo.UpdateRecordInTx(ctx, tx, rec); txErr != nil {
			return txErr
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("обновлена запись ТО",
		zap.Uint64("maintenance_id", id),
		zap.String("status", updated.Status.String()),
		zap.Uint64("actor_id", actorID))

	if updated.Status == entities.MaintenanceStatusCompleted && equipment != nil {
		s.bus.Publish(ctx, events.MaintenanceCompletedEvent{
			Record:    *updated,
			Equipment: *equipment,
			ActorID:   actorID,
		})
	}

	return toMaintenanceDTO(updated), nil
}

func toMaintenanceDTO(rec *entities.MaintenanceRecord) *dto.MaintenanceRecordDTO {
	out := &dto.MaintenanceRecordDTO{
		ID:               rec.ID,
		EquipmentID:      rec.EquipmentID,
		Type:             rec.Type.String(),
		Status:           rec.Status.String(),
		Description:      rec.Description,
		ScheduledAt:      formatNullTime(rec.ScheduledAt),
		CompletedAt:      formatNullTime(rec.CompletedAt),
		RequiresApproval: rec.RequiresApproval,
		CreatedByID:      rec.CreatedByID,
		CreatedAt:        formatTime(rec.CreatedAt),
	}
	if rec.EstimatedCost.Valid {
		out.EstimatedCost = utils.ToPtr(rec.EstimatedCost.Float64)
	}
	if rec.Cost.Valid {
		out.Cost = utils.ToPtr(rec.Cost.Float64)
	}
	if rec.PerformedBy.Valid {
		out.PerformedBy = utils.ToPtr(rec.PerformedBy.String)
	}
	if rec.Vendor.Valid {
		out.Vendor = utils.ToPtr(rec.Vendor.String)
	}
	if rec.Notes.Valid {
		out.Notes = utils.ToPtr(rec.Notes.String)
	}
	return out
}

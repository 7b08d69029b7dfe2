package services

import (
	"context"
	"errors"

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

type TransferServiceInterface interface {
	GetTransfers(ctx context.Context, filter types.Filter) ([]dto.TransferRequestDTO, uint64, error)
	FindTransfer(ctx context.Context, id uint64) (*dto.TransferRequestDTO, error)
	// InitiateTransfer выполняет передачу сразу либо создаёт ожидающую заявку —
	// в зависимости от роли инициатора и границ команд.
	InitiateTransfer(ctx context.Context, payload dto.InitiateTransferDTO) (*dto.TransferResultDTO, error)
	DecideTransfer(ctx context.Context, id uint64, payload dto.DecideTransferDTO) (*dto.TransferRequestDTO, error)
}

type TransferService struct {
	pool          *pgxpool.Pool
	transferRepo  repositories.TransferRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	historyRepo   repositories.EquipmentHistoryRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewTransferService(
	pool *pgxpool.Pool,
	transferRepo repositories.TransferRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.EquipmentHistoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) TransferServiceInterface {
	return &TransferService{
		pool:          pool,
		transferRepo:  transferRepo,
		equipmentRepo: equipmentRepo,
		historyRepo:   historyRepo,
		userRepo:      userRepo,
		bus:           bus,
		logger:        logger,
	}
}

func (s *TransferService) GetTransfers(ctx context.Context, filter types.Filter) ([]dto.TransferRequestDTO, uint64, error) {
	list, total, err := s.transferRepo.GetTransfers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TransferRequestDTO, 0, len(list))
	for i := range list {
		out = append(out, *toTransferDTO(&list[i]))
	}
	return out, total, nil
}

func (s *TransferService) FindTransfer(ctx context.Context, id uint64) (*dto.TransferRequestDTO, error) {
	tr, err := s.transferRepo.FindTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransferDTO(tr), nil
}

// resolveApprover определяет, нужно ли согласование, и кто согласующий.
// Правила проверяются по порядку, срабатывает первое:
//  1. право немедленной передачи + флаг immediate_transfer — без согласования;
//  2. user — всегда согласует тимлид команды получателя;
//  3. team_lead через границу команды — согласует любой активный admin;
//  4. иначе — передача сразу.
// Флаг immediate_transfer у роли без права немедленной передачи не ошибка:
// правило 1 просто не срабатывает, и путь решают правила 2–4.
func (s *TransferService) resolveApprover(
	ctx context.Context,
	role constants.Role,
	immediate bool,
	eq *entities.Equipment,
	recipient *entities.User,
) (needsApproval bool, approverID *uint64, err error) {
	if immediate && authz.For(role).CanImmediateTransfer {
		return false, nil, nil
	}

	if role == constants.RoleUser {
		if recipient.TeamID != nil {
			lead, findErr := s.userRepo.FindTeamLead(ctx, *recipient.TeamID)
			if findErr != nil && !errors.Is(findErr, apperrors.ErrNotFound) {
				return false, nil, findErr
			}
			if findErr == nil {
				return true, &lead.ID, nil
			}
		}
		// Тимлида у получателя нет — согласует admin.
		admin, findErr := s.userRepo.FindAnyActiveAdmin(ctx)
		if findErr != nil {
			return false, nil, findErr
		}
		return true, &admin.ID, nil
	}

	if role == constants.RoleTeamLead && crossesTeamBoundary(eq, recipient) {
		admin, findErr := s.userRepo.FindAnyActiveAdmin(ctx)
		if findErr != nil {
			return false, nil, findErr
		}
		return true, &admin.ID, nil
	}

	return false, nil, nil
}

func crossesTeamBoundary(eq *entities.Equipment, recipient *entities.User) bool {
	if eq.TeamID == nil || recipient.TeamID == nil {
		return eq.TeamID != recipient.TeamID
	}
	return *eq.TeamID != *recipient.TeamID
}

func (s *TransferService) InitiateTransfer(ctx context.Context, payload dto.InitiateTransferDTO) (*dto.TransferResultDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.FindUser(ctx, payload.ToUserID)
	if err != nil {
		return nil, err
	}
	if !recipient.IsActive {
		return nil, apperrors.NewPreconditionError("получатель %d деактивирован", recipient.ID)
	}

	var (
		updatedEq *entities.Equipment
		transfer  *entities.TransferRequest
	)

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		eq, txErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, payload.EquipmentID)
		if txErr != nil {
			return txErr
		}
		if eq.Status != lifecycle.StatusAvailable && eq.Status != lifecycle.StatusAssigned {
			return apperrors.NewPreconditionError(
				"оборудование в статусе %q непередаваемо", eq.Status)
		}

		pending, txErr := s.transferRepo.CountPendingByEquipment(ctx, tx, eq.ID)
		if txErr != nil {
			return txErr
		}
		if pending > 0 {
			return apperrors.NewPreconditionError(
				"по оборудованию %d уже есть ожидающая передача", eq.ID)
		}

		needsApproval, approverID, txErr := s.resolveApprover(ctx, role, payload.ImmediateTransfer, eq, recipient)
		if txErr != nil {
			return txErr
		}

		if !needsApproval {
			updatedEq, txErr = s.executeTransfer(ctx, tx, eq, recipient.ID, actorID, payload.Condition, payload.Reason)
			return txErr
		}

		tr := &entities.TransferRequest{
			EquipmentID:   eq.ID,
			ToUserID:      recipient.ID,
			RequestedByID: actorID,
			Status:        entities.TransferStatusPending,
			Reason:        payload.Reason,
		}
		if eq.CurrentOwnerID != nil {
			tr.FromUserID = null.Uint64From(*eq.CurrentOwnerID)
		}
		if approverID != nil {
			tr.ApproverID = null.Uint64From(*approverID)
		}
		if payload.Condition != nil {
			tr.Condition = null.StringFrom(*payload.Condition)
		}

		id, txErr := s.transferRepo.CreateTransferInTx(ctx, tx, tr)
		if txErr != nil {
			return txErr
		}
		tr.ID = id
		transfer = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transfer != nil {
		s.logger.Info("создана заявка на передачу",
			zap.Uint64("transfer_id", transfer.ID),
			zap.Uint64("equipment_id", transfer.EquipmentID),
			zap.Uint64("to_user_id", transfer.ToUserID))

		eq, findErr := s.equipmentRepo.FindEquipment(ctx, transfer.EquipmentID)
		if findErr == nil {
			s.bus.Publish(ctx, events.TransferPendingEvent{Transfer: *transfer, Equipment: *eq})
		}
		return &dto.TransferResultDTO{Immediate: false, Transfer: toTransferDTO(transfer)}, nil
	}

	s.logger.Info("оборудование передано",
		zap.Uint64("equipment_id", updatedEq.ID),
		zap.Uint64("to_user_id", recipient.ID),
		zap.Uint64("actor_id", actorID))

	return &dto.TransferResultDTO{Immediate: true, Equipment: toEquipmentDTO(updatedEq)}, nil
}

// executeTransfer — атомарный блок передачи: владелец, статус assigned и
// ровно одна запись истории "transferred".
func (s *TransferService) executeTransfer(
	ctx context.Context,
	tx pgx.Tx,
	eq *entities.Equipment,
	toUserID uint64,
	actorID uint64,
	condition *string,
	reason string,
) (*entities.Equipment, error) {
	prevOwner := eq.CurrentOwnerID

	eq.Status = lifecycle.StatusAssigned
	eq.CurrentOwnerID = &toUserID
	if condition != nil {
		eq.Condition = *condition
	}
	if err := s.equipmentRepo.UpdateEquipmentInTx(ctx, tx, eq); err != nil {
		return nil, err
	}

	history := &entities.EquipmentHistory{
		EquipmentID: eq.ID,
		FromUserID:  prevOwner,
		ToUserID:    &toUserID,
		ActorID:     actorID,
		Action:      entities.HistoryActionTransferred,
		Condition:   condition,
	}
	if reason != "" {
		history.Notes = &reason
	}
	if err := s.historyRepo.CreateInTx(ctx, tx, history); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *TransferService) DecideTransfer(ctx context.Context, id uint64, payload dto.DecideTransferDTO) (*dto.TransferRequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entities.TransferRequest

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		tr, txErr := s.transferRepo.FindTransferForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if tr.Status != entities.TransferStatusPending {
			return apperrors.NewPreconditionError(
				"передача уже решена, статус %q", tr.Status)
		}
		// Решает назначенный согласующий либо любой администратор.
		if !authz.For(role).CanApproveAsAdmin && (!tr.ApproverID.Valid || tr.ApproverID.Uint64 != actorID) {
			return apperrors.NewUnauthorizedError("вы не являетесь согласующим этой передачи")
		}

		if payload.Approve {
			eq, txErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, tr.EquipmentID)
			if txErr != nil {
				return txErr
			}
			if eq.Status != lifecycle.StatusAvailable && eq.Status != lifecycle.StatusAssigned {
				return apperrors.NewPreconditionError(
					"оборудование в статусе %q непередаваемо", eq.Status)
			}
			var condition *string
			if tr.Condition.Valid {
				condition = utils.ToPtr(tr.Condition.String)
			}
			if _, txErr = s.executeTransfer(ctx, tx, eq, tr.ToUserID, actorID, condition, tr.Reason); txErr != nil {
				return txErr
			}
			tr.Status = entities.TransferStatusApproved
		} else {
			tr.Status = entities.TransferStatusRejected
		}

		tr.ApproverID = null.Uint64From(actorID)
		if txErr = s.transferRepo.UpdateTransferInTx(ctx, tx, tr); txErr != nil {
			return txErr
		}
		updated = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("решение по передаче",
		zap.Uint64("transfer_id", id),
		zap.Bool("approved", payload.Approve),
		zap.Uint64("actor_id", actorID))

	s.bus.Publish(ctx, events.TransferDecidedEvent{
		Transfer: *updated,
		Approved: payload.Approve,
		ActorID:  actorID,
	})

	return toTransferDTO(updated), nil
}

func toTransferDTO(tr *entities.TransferRequest) *dto.TransferRequestDTO {
	out := &dto.TransferRequestDTO{
		ID:            tr.ID,
		EquipmentID:   tr.EquipmentID,
		ToUserID:      tr.ToUserID,
		RequestedByID: tr.RequestedByID,
		Status:        tr.Status.String(),
		Reason:        tr.Reason,
		CreatedAt:     formatTime(tr.CreatedAt),
	}
	if tr.FromUserID.Valid {
		out.FromUserID = utils.ToPtr(tr.FromUserID.Uint64)
	}
	if tr.ApproverID.Valid {
		out.ApproverID = utils.ToPtr(tr.ApproverID.Uint64)
	}
	if tr.Condition.Valid {
		out.Condition = utils.ToPtr(tr.Condition.String)
	}
	return out
}

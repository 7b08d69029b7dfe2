package services

import (
	"context"

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

type EquipmentRequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.EquipmentRequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*dto.EquipmentRequestDTO, error)
	CreateRequest(ctx context.Context, payload dto.CreateEquipmentRequestDTO) (*dto.EquipmentRequestDTO, error)
	// Decide — решение текущего этапа согласования: approve или reject.
	Decide(ctx context.Context, id uint64, payload dto.DecideRequestDTO) (*dto.EquipmentRequestDTO, error)
	// Fulfill — выдача оборудования по согласованной заявке (только admin).
	Fulfill(ctx context.Context, id uint64, payload dto.FulfillRequestDTO) (*dto.EquipmentRequestDTO, error)
}

type EquipmentRequestService struct {
	pool          *pgxpool.Pool
	requestRepo   repositories.EquipmentRequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	historyRepo   repositories.EquipmentHistoryRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewEquipmentRequestService(
	pool *pgxpool.Pool,
	requestRepo repositories.EquipmentRequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.EquipmentHistoryRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentRequestServiceInterface {
	return &EquipmentRequestService{
		pool:          pool,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		historyRepo:   historyRepo,
		bus:           bus,
		logger:        logger,
	}
}

// canApprove — может ли актор принять решение по текущему этапу.
// Порядок этапов фиксирован: сначала team_lead, затем admin.
func canApprove(req *entities.EquipmentRequest, role constants.Role) bool {
	if req.Status != entities.RequestStatusPending {
		return false
	}
	caps := authz.For(role)
	switch {
	case caps.CanApproveAsTeamLead:
		return !req.TeamLeadApproval.Valid
	case caps.CanApproveAsAdmin:
		return req.TeamLeadApproval.Valid && req.TeamLeadApproval.Bool && !req.AdminApproval.Valid
	}
	return false
}

func (s *EquipmentRequestService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.EquipmentRequestDTO, uint64, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	// Обычный пользователь видит только свои заявки.
	if role == constants.RoleUser {
		userID, err := utils.GetUserIDFromCtx(ctx)
		if err != nil {
			return nil, 0, err
		}
		if filter.Filter == nil {
			filter.Filter = map[string]interface{}{}
		}
		filter.Filter["requester_id"] = userID
	}

	list, total, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EquipmentRequestDTO, 0, len(list))
	for i := range list {
		out = append(out, *toEquipmentRequestDTO(&list[i]))
	}
	return out, total, nil
}

func (s *EquipmentRequestService) FindRequest(ctx context.Context, id uint64) (*dto.EquipmentRequestDTO, error) {
	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEquipmentRequestDTO(req), nil
}

func (s *EquipmentRequestService) CreateRequest(ctx context.Context, payload dto.CreateEquipmentRequestDTO) (*dto.EquipmentRequestDTO, error) {
	requesterID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	priority := entities.RequestPriority(payload.Priority)
	if payload.Priority == "" {
		priority = entities.PriorityMedium
	}

	req := &entities.EquipmentRequest{
		RequesterID:   requesterID,
		EquipmentType: payload.EquipmentType,
		Category:      payload.Category,
		Justification: payload.Justification,
		Priority:      priority,
		Status:        entities.RequestStatusPending,
	}

	id, err := s.requestRepo.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	req.ID = id

	s.logger.Info("создана заявка на оборудование",
		zap.Uint64("request_id", id),
		zap.Uint64("requester_id", requesterID),
		zap.String("priority", priority.String()))

	s.bus.Publish(ctx, events.RequestSubmittedEvent{Request: *req})

	return s.FindRequest(ctx, id)
}

func (s *EquipmentRequestService) Decide(ctx context.Context, id uint64, payload dto.DecideRequestDTO) (*dto.EquipmentRequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	caps := authz.For(role)
	if !caps.CanApproveAsTeamLead && !caps.CanApproveAsAdmin {
		return nil, apperrors.NewUnauthorizedRoleError(
			"согласование заявок недоступно обычному пользователю", constants.RoleTeamLead.String())
	}
	if !payload.Approve && utils.SafeDeref(payload.RejectionReason) == "" {
		return nil, apperrors.NewInvalidInputError("при отклонении обязательна причина")
	}

	var (
		updated *entities.EquipmentRequest
		stage   string
	)

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		req, txErr := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}

		// Терминальные заявки не двигаются: повторное решение отклоняется.
		if req.Status.Terminal() {
			return apperrors.NewPreconditionError(
				"заявка уже в терминальном статусе %q", req.Status)
		}
		if !canApprove(req, role) {
			if role == constants.RoleAdmin && !req.TeamLeadApproval.Valid {
				return apperrors.NewOutOfOrderApprovalError(
					"этап team_lead ещё не пройден", "team_lead")
			}
			return apperrors.NewUnauthorizedError("сейчас не ваш этап согласования")
		}

		req.ApproverID = null.Uint64From(actorID)
		if payload.Notes != nil {
			req.ApprovalNotes = null.StringFrom(*payload.Notes)
		}

		switch role {
		case constants.RoleTeamLead:
			stage = "team_lead"
			req.TeamLeadApproval = null.BoolFrom(payload.Approve)
		case constants.RoleAdmin:
			stage = "admin"
			req.AdminApproval = null.BoolFrom(payload.Approve)
		}

		if !payload.Approve {
			req.Status = entities.RequestStatusRejected
			req.RejectionReason = null.StringFrom(*payload.RejectionReason)
		} else if role == constants.RoleAdmin {
			// Этап admin последний: заявка согласована полностью.
			req.Status = entities.RequestStatusApproved
		}

		if txErr = s.requestRepo.UpdateRequestInTx(ctx, tx, req); txErr != nil {
			return txErr
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("решение по заявке",
		zap.Uint64("request_id", id),
		zap.String("stage", stage),
		zap.Bool("approved", payload.Approve),
		zap.Uint64("actor_id", actorID))

	s.bus.Publish(ctx, events.RequestDecidedEvent{
		Request:  *updated,
		Stage:    stage,
		Approved: payload.Approve,
		ActorID:  actorID,
	})

	return toEquipmentRequestDTO(updated), nil
}

// Fulfill связывает согласованную заявку с доступной единицей оборудования:
// оборудование уходит заявителю, заявка закрывается, история пишется —
// одной транзакцией.
func (s *EquipmentRequestService) Fulfill(ctx context.Context, id uint64, payload dto.FulfillRequestDTO) (*dto.EquipmentRequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.For(role).CanFulfillRequests {
		return nil, apperrors.NewUnauthorizedRoleError(
			"выдача оборудования доступна только администратору", constants.RoleAdmin.String())
	}

	var (
		updated   *entities.EquipmentRequest
		equipment *entities.Equipment
	)

	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		req, txErr := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if txErr != nil {
			return txErr
		}
		if req.Status != entities.RequestStatusApproved && req.Status != entities.RequestStatusOrdered {
			return apperrors.NewPreconditionError(
				"выдача возможна только по согласованной заявке, текущий статус %q", req.Status)
		}

		eq, txErr := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, payload.EquipmentID)
		if txErr != nil {
			return txErr
		}
		if eq.Status != lifecycle.StatusAvailable {
			return apperrors.NewPreconditionError(
				"оборудование %d не в статусе available", eq.ID)
		}

		eq.Status = lifecycle.StatusAssigned
		eq.CurrentOwnerID = &req.RequesterID
		if txErr = s.equipmentRepo.UpdateEquipmentInTx(ctx, tx, eq); txErr != nil {
			return txErr
		}

		req.Status = entities.RequestStatusFulfilled
		req.EquipmentID = null.Uint64From(eq.ID)
		if txErr = s.requestRepo.UpdateRequestInTx(ctx, tx, req); txErr != nil {
			return txErr
		}

		notes := "Выдано по заявке"
		if txErr = s.historyRepo.CreateInTx(ctx, tx, &entities.EquipmentHistory{
			EquipmentID: eq.ID,
			ToUserID:    &req.RequesterID,
			ActorID:     actorID,
			Action:      lifecycle.StatusAssigned.HistoryAction(),
			Notes:       &notes,
		}); txErr != nil {
			return txErr
		}

		updated = req
		equipment = eq
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("заявка выполнена",
		zap.Uint64("request_id", id),
		zap.Uint64("equipment_id", equipment.ID),
		zap.Uint64("requester_id", updated.RequesterID))

	s.bus.Publish(ctx, events.RequestFulfilledEvent{
		Request:   *updated,
		Equipment: *equipment,
		ActorID:   actorID,
	})

	return toEquipmentRequestDTO(updated), nil
}

func toEquipmentRequestDTO(req *entities.EquipmentRequest) *dto.EquipmentRequestDTO {
	out := &dto.EquipmentRequestDTO{
		ID:            req.ID,
		RequesterID:   req.RequesterID,
		EquipmentType: req.EquipmentType,
		Category:      req.Category,
		Justification: req.Justification,
		Priority:      req.Priority.String(),
		Status:        req.Status.String(),
		CreatedAt:     formatTime(req.CreatedAt),
		UpdatedAt:     formatTime(req.UpdatedAt),
	}
	if req.TeamLeadApproval.Valid {
		out.TeamLeadApproval = utils.ToPtr(req.TeamLeadApproval.Bool)
	}
	if req.AdminApproval.Valid {
		out.AdminApproval = utils.ToPtr(req.AdminApproval.Bool)
	}
	if req.ApproverID.Valid {
		out.ApproverID = utils.ToPtr(req.ApproverID.Uint64)
	}
	if req.ApprovalNotes.Valid {
		out.ApprovalNotes = utils.ToPtr(req.ApprovalNotes.String)
	}
	if req.RejectionReason.Valid {
		out.RejectionReason = utils.ToPtr(req.RejectionReason.String)
	}
	if req.EquipmentID.Valid {
		out.EquipmentID = utils.ToPtr(req.EquipmentID.Uint64)
	}
	return out
}

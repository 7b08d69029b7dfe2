package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
)

type EquipmentHistoryServiceInterface interface {
	GetByEquipmentID(ctx context.Context, equipmentID uint64) ([]dto.EquipmentHistoryDTO, error)
}

type EquipmentHistoryService struct {
	historyRepo   repositories.EquipmentHistoryRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentHistoryService(
	historyRepo repositories.EquipmentHistoryRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) EquipmentHistoryServiceInterface {
	return &EquipmentHistoryService{
		historyRepo:   historyRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

func (s *EquipmentHistoryService) GetByEquipmentID(ctx context.Context, equipmentID uint64) ([]dto.EquipmentHistoryDTO, error) {
	// Проверяем существование единицы, иначе пустая история неотличима от опечатки в id.
	if _, err := s.equipmentRepo.FindEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}

	items, err := s.historyRepo.FindByEquipmentID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EquipmentHistoryDTO, 0, len(items))
	for i := range items {
		item := &items[i]
		row := dto.EquipmentHistoryDTO{
			ID:          item.ID,
			EquipmentID: item.EquipmentID,
			FromUserID:  item.FromUserID,
			ToUserID:    item.ToUserID,
			ActorID:     item.ActorID,
			Action:      item.Action,
			Condition:   item.Condition,
			Notes:       item.Notes,
			CreatedAt:   item.CreatedAt.Format(timeLayout),
		}
		if item.ActorFio.Valid {
			row.ActorFio = &item.ActorFio.String
		}
		if item.FromUserFio.Valid {
			row.FromUserFio = &item.FromUserFio.String
		}
		if item.ToUserFio.Valid {
			row.ToUserFio = &item.ToUserFio.String
		}
		out = append(out, row)
	}
	return out, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/lifecycle"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type ReportServiceInterface interface {
	// BuildEquipmentReport собирает XLSX-отчёт по парку оборудования:
	// лист с позициями и сводка по статусам.
	BuildEquipmentReport(ctx context.Context, filter types.Filter) (*excelize.File, error)
}

type reportService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewReportService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{equipmentRepo: equipmentRepo, logger: logger}
}

func (s *reportService) BuildEquipmentReport(ctx context.Context, filter types.Filter) (*excelize.File, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.For(role).CanExportReports {
		return nil, apperrors.NewUnauthorizedRoleError(
			"выгрузка отчётов недоступна обычному пользователю", constants.RoleTeamLead.String())
	}

	// Отчёт выгружает весь парк в пределах фильтра, без пагинации.
	filter.Limit = 0
	filter.Offset = 0
	list, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Оборудование"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Наименование", "Серийный номер", "Категория", "Статус", "Состояние", "Владелец (ID)", "Команда (ID)", "Цена закупки"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	byStatus := map[lifecycle.Status]int{}
	for rowIdx := range list {
		eq := &list[rowIdx]
		byStatus[eq.Status]++

		values := []interface{}{
			eq.ID, eq.Name, eq.SerialNumber, eq.Category,
			eq.Status.String(), eq.Condition,
		}
		if eq.CurrentOwnerID != nil {
			values = append(values, *eq.CurrentOwnerID)
		} else {
			values = append(values, "")
		}
		if eq.TeamID != nil {
			values = append(values, *eq.TeamID)
		} else {
			values = append(values, "")
		}
		if eq.PurchasePrice.Valid {
			values = append(values, eq.PurchasePrice.Float64)
		} else {
			values = append(values, "")
		}

		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// Сводка по статусам на отдельном листе.
	const summarySheet = "Сводка"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(summarySheet, "A1", "Статус")
	_ = f.SetCellValue(summarySheet, "B1", "Количество")
	row := 2
	for _, st := range lifecycle.Statuses() {
		if byStatus[st] == 0 {
			continue
		}
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), st.String())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), byStatus[st])
		row++
	}
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Всего")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), total)

	s.logger.Info("сформирован отчёт по оборудованию",
		zap.Uint64("total", total),
		zap.String("role", role.String()))

	return f, nil
}

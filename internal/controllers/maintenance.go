package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type MaintenanceController struct {
	maintenanceService services.MaintenanceServiceInterface
	logger             *zap.Logger
}

func NewMaintenanceController(
	maintenanceService services.MaintenanceServiceInterface,
	logger *zap.Logger,
) *MaintenanceController {
	return &MaintenanceController{maintenanceService: maintenanceService, logger: logger}
}

func (c *MaintenanceController) GetRecords(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.maintenanceService.GetRecords(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetRecords: ошибка получения записей ТО", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список записей ТО успешно получен", http.StatusOK, total)
}

func (c *MaintenanceController) FindRecord(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.FindRecord(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запись ТО успешно найдена", http.StatusOK)
}

// ScheduleMaintenance — POST /maintenance.
func (c *MaintenanceController) ScheduleMaintenance(ctx echo.Context) error {
	var payload dto.ScheduleMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.ScheduleMaintenance(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("ScheduleMaintenance: отказ",
			zap.Uint64("equipment_id", payload.EquipmentID), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "ТО успешно запланировано", http.StatusCreated)
}

// UpdateMaintenance — PATCH /maintenance/:id.
func (c *MaintenanceController) UpdateMaintenance(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.maintenanceService.UpdateMaintenance(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запись ТО успешно обновлена", http.StatusOK)
}

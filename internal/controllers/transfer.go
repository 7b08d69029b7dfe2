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

type TransferController struct {
	transferService services.TransferServiceInterface
	logger          *zap.Logger
}

func NewTransferController(
	transferService services.TransferServiceInterface,
	logger *zap.Logger,
) *TransferController {
	return &TransferController{transferService: transferService, logger: logger}
}

func (c *TransferController) GetTransfers(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.transferService.GetTransfers(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetTransfers: ошибка получения передач", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список передач успешно получен", http.StatusOK, total)
}

func (c *TransferController) FindTransfer(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.transferService.FindTransfer(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Передача успешно найдена", http.StatusOK)
}

// InitiateTransfer — POST /transfers. В ответе либо обновлённое
// оборудование (immediate), либо ожидающая заявка.
func (c *TransferController) InitiateTransfer(ctx echo.Context) error {
	var payload dto.InitiateTransferDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.transferService.InitiateTransfer(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("InitiateTransfer: передача отклонена",
			zap.Uint64("equipment_id", payload.EquipmentID),
			zap.Uint64("to_user_id", payload.ToUserID),
			zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	code := http.StatusOK
	message := "Оборудование передано"
	if !res.Immediate {
		code = http.StatusAccepted
		message = "Передача создана и ждёт согласования"
	}
	return utils.SuccessResponse(ctx, res, message, code)
}

// DecideTransfer — POST /transfers/:id/decision.
func (c *TransferController) DecideTransfer(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.DecideTransferDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.transferService.DecideTransfer(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Решение по передаче принято", http.StatusOK)
}

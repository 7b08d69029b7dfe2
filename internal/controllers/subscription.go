package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
	logger              *zap.Logger
}

func NewSubscriptionController(
	subscriptionService services.SubscriptionServiceInterface,
	logger *zap.Logger,
) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService, logger: logger}
}

func (c *SubscriptionController) GetSubscriptions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.subscriptionService.GetSubscriptions(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetSubscriptions: ошибка получения подписок", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список подписок успешно получен", http.StatusOK, total)
}

func (c *SubscriptionController) FindSubscription(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.subscriptionService.FindSubscription(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Подписка успешно найдена", http.StatusOK)
}

func (c *SubscriptionController) CreateSubscription(ctx echo.Context) error {
	var payload dto.CreateSubscriptionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.subscriptionService.CreateSubscription(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Подписка успешно создана", http.StatusCreated)
}

func (c *SubscriptionController) UpdateSubscription(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateSubscriptionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.subscriptionService.UpdateSubscription(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Подписка успешно обновлена", http.StatusOK)
}

func (c *SubscriptionController) DeleteSubscription(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.subscriptionService.DeleteSubscription(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Подписка успешно удалена", http.StatusOK)
}

// UploadInvoice — POST /subscriptions/:id/invoices. Файл идёт в multipart-поле
// "file", метаданные — в поле "payload" как JSON.
func (c *SubscriptionController) UploadInvoice(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не передан файл счёта", err, nil),
			c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не удалось прочитать файл счёта", err, nil),
			c.logger)
	}
	defer src.Close()

	var payload dto.CreateInvoiceDTO
	if raw := ctx.FormValue("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат метаданных счёта", err, nil),
				c.logger)
		}
		if err := ctx.Validate(&payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	res, err := c.subscriptionService.UploadInvoice(ctx.Request().Context(), id, src, fileHeader.Filename, payload)
	if err != nil {
		c.logger.Error("UploadInvoice: ошибка загрузки счёта",
			zap.Uint64("subscription_id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Счёт успешно загружен", http.StatusCreated)
}

func (c *SubscriptionController) GetInvoices(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.subscriptionService.GetInvoices(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Счета по подписке получены", http.StatusOK)
}

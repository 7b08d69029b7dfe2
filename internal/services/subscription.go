package services

import (
	"context"
	"io"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

const renewalDateLayout = "2006-01-02"

type SubscriptionServiceInterface interface {
	GetSubscriptions(ctx context.Context, filter types.Filter) ([]dto.SubscriptionDTO, uint64, error)
	FindSubscription(ctx context.Context, id uint64) (*dto.SubscriptionDTO, error)
	CreateSubscription(ctx context.Context, payload dto.CreateSubscriptionDTO) (*dto.SubscriptionDTO, error)
	UpdateSubscription(ctx context.Context, id uint64, payload dto.UpdateSubscriptionDTO) (*dto.SubscriptionDTO, error)
	DeleteSubscription(ctx context.Context, id uint64) error

	UploadInvoice(ctx context.Context, subscriptionID uint64, file io.Reader, fileName string, payload dto.CreateInvoiceDTO) (*dto.InvoiceDTO, error)
	GetInvoices(ctx context.Context, subscriptionID uint64) ([]dto.InvoiceDTO, error)
}

type SubscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	userRepo         repositories.UserRepositoryInterface
	fileStorage      filestorage.FileStorageInterface
	logger           *zap.Logger
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		fileStorage:      fileStorage,
		logger:           logger,
	}
}

func (s *SubscriptionService) GetSubscriptions(ctx context.Context, filter types.Filter) ([]dto.SubscriptionDTO, uint64, error) {
	list, total, err := s.subscriptionRepo.GetSubscriptions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SubscriptionDTO, 0, len(list))
	for i := range list {
		out = append(out, *toSubscriptionDTO(&list[i]))
	}
	return out, total, nil
}

func (s *SubscriptionService) FindSubscription(ctx context.Context, id uint64) (*dto.SubscriptionDTO, error) {
	sub, err := s.subscriptionRepo.FindSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubscriptionDTO(sub), nil
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, payload dto.CreateSubscriptionDTO) (*dto.SubscriptionDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	sub := &entities.Subscription{
		Vendor:         payload.Vendor,
		Plan:           payload.Plan,
		Seats:          payload.Seats,
		PricePerMonth:  payload.PricePerMonth,
		BillingCycle:   entities.BillingCycle(payload.BillingCycle),
		Status:         entities.SubscriptionActive,
		AssignedUserID: payload.AssignedUserID,
	}
	if payload.Notes != nil {
		sub.Notes = null.StringFrom(*payload.Notes)
	}
	if payload.RenewalDate != nil {
		date, err := time.Parse(renewalDateLayout, *payload.RenewalDate)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("неверный формат renewal_date: %v", err)
		}
		sub.RenewalDate = null.TimeFrom(date)
	}
	if payload.AssignedUserID != nil {
		if _, err := s.userRepo.FindUser(ctx, *payload.AssignedUserID); err != nil {
			return nil, apperrors.NewInvalidInputError("пользователь %d не найден", *payload.AssignedUserID)
		}
	}

	id, err := s.subscriptionRepo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	s.logger.Info("подписка создана",
		zap.Uint64("subscription_id", id),
		zap.String("vendor", sub.Vendor))

	return s.FindSubscription(ctx, id)
}

func (s *SubscriptionService) UpdateSubscription(ctx context.Context, id uint64, payload dto.UpdateSubscriptionDTO) (*dto.SubscriptionDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	sub, err := s.subscriptionRepo.FindSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Plan != nil {
		sub.Plan = *payload.Plan
	}
	if payload.Seats != nil {
		sub.Seats = *payload.Seats
	}
	if payload.PricePerMonth != nil {
		sub.PricePerMonth = *payload.PricePerMonth
	}
	if payload.BillingCycle != nil {
		sub.BillingCycle = entities.BillingCycle(*payload.BillingCycle)
	}
	if payload.Status != nil {
		sub.Status = entities.SubscriptionStatus(*payload.Status)
	}
	if payload.AssignedUserID != nil {
		if _, err := s.userRepo.FindUser(ctx, *payload.AssignedUserID); err != nil {
			return nil, apperrors.NewInvalidInputError("пользователь %d не найден", *payload.AssignedUserID)
		}
		sub.AssignedUserID = payload.AssignedUserID
	}
	if payload.Notes != nil {
		sub.Notes = null.StringFrom(*payload.Notes)
	}
	if payload.RenewalDate != nil {
		date, parseErr := time.Parse(renewalDateLayout, *payload.RenewalDate)
		if parseErr != nil {
			return nil, apperrors.NewInvalidInputError("неверный формат renewal_date: %v", parseErr)
		}
		sub.RenewalDate = null.TimeFrom(date)
	}

	if err := s.subscriptionRepo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return toSubscriptionDTO(sub), nil
}

func (s *SubscriptionService) DeleteSubscription(ctx context.Context, id uint64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.subscriptionRepo.DeleteSubscription(ctx, id)
}

func (s *SubscriptionService) UploadInvoice(ctx context.Context, subscriptionID uint64, file io.Reader, fileName string, payload dto.CreateInvoiceDTO) (*dto.InvoiceDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.subscriptionRepo.FindSubscription(ctx, subscriptionID); err != nil {
		return nil, err
	}

	filePath, err := s.fileStorage.Save(file, fileName, constants.UploadContextInvoice.String())
	if err != nil {
		return nil, err
	}

	inv := &entities.Invoice{
		SubscriptionID: subscriptionID,
		FileURL:        "/uploads/" + filePath,
		UploadedByID:   actorID,
	}
	if payload.Amount != nil {
		inv.Amount = null.Float64From(*payload.Amount)
	}
	if payload.Vendor != nil {
		inv.Vendor = null.StringFrom(*payload.Vendor)
	}
	if payload.InvoiceDate != nil {
		date, parseErr := time.Parse(renewalDateLayout, *payload.InvoiceDate)
		if parseErr != nil {
			return nil, apperrors.NewInvalidInputError("неверный формат invoice_date: %v", parseErr)
		}
		inv.InvoiceDate = null.TimeFrom(date)
	}

	id, err := s.subscriptionRepo.CreateInvoice(ctx, inv)
	if err != nil {
		// Файл уже сохранён — подчищаем, чтобы не копить сироты.
		_ = s.fileStorage.Delete(inv.FileURL)
		return nil, err
	}
	inv.ID = id

	s.logger.Info("загружен счёт",
		zap.Uint64("invoice_id", id),
		zap.Uint64("subscription_id", subscriptionID))

	return toInvoiceDTO(inv), nil
}

func (s *SubscriptionService) GetInvoices(ctx context.Context, subscriptionID uint64) ([]dto.InvoiceDTO, error) {
	if _, err := s.subscriptionRepo.FindSubscription(ctx, subscriptionID); err != nil {
		return nil, err
	}
	list, err := s.subscriptionRepo.GetInvoicesBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceDTO, 0, len(list))
	for i := range list {
		out = append(out, *toInvoiceDTO(&list[i]))
	}
	return out, nil
}

func toSubscriptionDTO(sub *entities.Subscription) *dto.SubscriptionDTO {
	out := &dto.SubscriptionDTO{
		ID:             sub.ID,
		Vendor:         sub.Vendor,
		Plan:           sub.Plan,
		Seats:          sub.Seats,
		PricePerMonth:  sub.PricePerMonth,
		BillingCycle:   string(sub.BillingCycle),
		Status:         string(sub.Status),
		AssignedUserID: sub.AssignedUserID,
		CreatedAt:      formatTime(sub.CreatedAt),
	}
	if sub.RenewalDate.Valid {
		out.RenewalDate = utils.ToPtr(sub.RenewalDate.Time.Format(renewalDateLayout))
	}
	if sub.Notes.Valid {
		out.Notes = utils.ToPtr(sub.Notes.String)
	}
	return out
}

func toInvoiceDTO(inv *entities.Invoice) *dto.InvoiceDTO {
	out := &dto.InvoiceDTO{
		ID:             inv.ID,
		SubscriptionID: inv.SubscriptionID,
		FileURL:        inv.FileURL,
		UploadedByID:   inv.UploadedByID,
		CreatedAt:      formatTime(inv.CreatedAt),
	}
	if inv.Amount.Valid {
		out.Amount = utils.ToPtr(inv.Amount.Float64)
	}
	if inv.InvoiceDate.Valid {
		out.InvoiceDate = utils.ToPtr(inv.InvoiceDate.Time.Format(renewalDateLayout))
	}
	if inv.Vendor.Valid {
		out.Vendor = utils.ToPtr(inv.Vendor.String)
	}
	return out
}

package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func requireAdmin(ctx context.Context) error {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.For(role).CanManageUsers {
		return apperrors.NewUnauthorizedRoleError(
			"операция доступна только администратору", constants.RoleAdmin.String())
	}
	return nil
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	list, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *toUserDTO(&list[i]))
	}
	return out, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Fio:      payload.Fio,
		Email:    payload.Email,
		Password: hash,
		Role:     constants.Role(payload.Role),
		TeamID:   payload.TeamID,
		IsActive: true,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info("пользователь создан",
		zap.Uint64("user_id", id),
		zap.String("role", payload.Role))

	return toUserDTO(user), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Fio != nil {
		user.Fio = *payload.Fio
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.Role != nil {
		user.Role = constants.Role(*payload.Role)
	}
	if payload.TeamID != nil {
		user.TeamID = payload.TeamID
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if actorID == id {
		return apperrors.NewPreconditionError("нельзя удалить собственный аккаунт")
	}
	return s.userRepo.DeleteUser(ctx, id)
}

func toUserDTO(user *entities.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:       user.ID,
		Fio:      user.Fio,
		Email:    user.Email,
		Role:     user.Role.String(),
		TeamID:   user.TeamID,
		IsActive: user.IsActive,
	}
}

package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, id uint64) error
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{teamRepo: teamRepo, userRepo: userRepo, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	list, err := s.teamRepo.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeamDTO, 0, len(list))
	for i := range list {
		out = append(out, *s.toTeamDTO(ctx, &list[i]))
	}
	return out, nil
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toTeamDTO(ctx, team), nil
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.validateLead(ctx, payload.LeadID); err != nil {
		return nil, err
	}

	team := &entities.Team{Name: payload.Name, LeadID: payload.LeadID}
	id, err := s.teamRepo.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	team.ID = id

	s.logger.Info("команда создана", zap.Uint64("team_id", id), zap.String("name", team.Name))
	return s.toTeamDTO(ctx, team), nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Name != nil {
		team.Name = *payload.Name
	}
	if payload.LeadID != nil {
		if err := s.validateLead(ctx, payload.LeadID); err != nil {
			return nil, err
		}
		team.LeadID = payload.LeadID
	}

	if err := s.teamRepo.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}
	return s.toTeamDTO(ctx, team), nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uint64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.teamRepo.DeleteTeam(ctx, id)
}

func (s *TeamService) validateLead(ctx context.Context, leadID *uint64) error {
	if leadID == nil {
		return nil
	}
	lead, err := s.userRepo.FindUser(ctx, *leadID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewInvalidInputError("пользователь %d не найден", *leadID)
	}
	if err != nil {
		return err
	}
	if !lead.IsActive {
		return apperrors.NewPreconditionError("пользователь %d деактивирован", *leadID)
	}
	return nil
}

func (s *TeamService) toTeamDTO(ctx context.Context, team *entities.Team) *dto.TeamDTO {
	out := &dto.TeamDTO{ID: team.ID, Name: team.Name, LeadID: team.LeadID}
	if team.LeadID != nil {
		if lead, err := s.userRepo.FindUser(ctx, *team.LeadID); err == nil {
			out.LeadFio = &lead.Fio
		}
	}
	return out
}

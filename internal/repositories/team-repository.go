package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const teamTable = "teams"

const teamFields = "id, name, lead_id, created_at, updated_at"

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context) ([]entities.Team, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, team *entities.Team) (uint64, error)
	UpdateTeam(ctx context.Context, team *entities.Team) error
	DeleteTeam(ctx context.Context, id uint64) error
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var team entities.Team
	err := row.Scan(&team.ID, &team.Name, &team.LeadID, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования team: %w", err)
	}
	return &team, nil
}

func (r *TeamRepository) GetTeams(ctx context.Context) ([]entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name ASC", teamFields, teamTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *team)
	}
	return list, rows.Err()
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", teamFields, teamTable)
	return scanTeam(r.storage.QueryRow(ctx, query, id))
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *entities.Team) (uint64, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, lead_id) VALUES ($1, $2) RETURNING id", teamTable)
	var id uint64
	if err := r.storage.QueryRow(ctx, query, team.Name, team.LeadID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team *entities.Team) error {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $1, lead_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`, teamTable)

	result, err := r.storage.Exec(ctx, query, team.Name, team.LeadID, team.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", teamTable)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

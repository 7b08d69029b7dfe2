package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const userTable = "users"

const userFields = `id, fio, email, password, role, team_id, is_active,
	created_at, updated_at, deleted_at`

var userFilterMap = map[string]string{
	"role":      "role",
	"team_id":   "team_id",
	"is_active": "is_active",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	// FindTeamLead находит активного тимлида команды; apperrors.ErrNotFound, если его нет.
	FindTeamLead(ctx context.Context, teamID uint64) (*entities.User, error)
	// FindAnyActiveAdmin — резервный согласующий для кросс-командных переносов.
	FindAnyActiveAdmin(ctx context.Context) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (uint64, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Fio, &user.Email, &user.Password, &user.Role, &user.TeamID,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	builder := sq.Select(userFields).From(userTable).
		Where("deleted_at IS NULL").PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(userTable).
		Where("deleted_at IS NULL").PlaceholderFormat(sq.Dollar)

	for key, value := range filter.Filter {
		column, ok := userFilterMap[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		cond := sq.Or{
			sq.ILike{"fio": like},
			sq.ILike{"email": like},
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	builder = builder.OrderBy("fio ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindTeamLead(ctx context.Context, teamID uint64) (*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE team_id = $1 AND role = 'team_lead' AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY id ASC
		LIMIT 1`, userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, teamID))
}

func (r *UserRepository) FindAnyActiveAdmin(ctx context.Context) (*entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE role = 'admin' AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY id ASC
		LIMIT 1`, userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (fio, email, password, role, team_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, userTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		user.Fio, user.Email, user.Password, user.Role, user.TeamID, user.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET fio = $1, email = $2, role = $3, team_id = $4, is_active = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND deleted_at IS NULL`, userTable)

	result, err := r.storage.Exec(ctx, query,
		user.Fio, user.Email, user.Role, user.TeamID, user.IsActive, user.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = CURRENT_TIMESTAMP, is_active = FALSE
		WHERE id = $1 AND deleted_at IS NULL`, userTable)

	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	"inventory-system/internal/lifecycle"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const equipmentTable = "equipments"

const equipmentFields = `id, name, serial_number, category, status, condition,
	current_owner_id, team_id, purchase_price, last_maintenance_date,
	next_maintenance_date, notes, created_at, updated_at`

// ЕДИНАЯ КАРТА ПОЛЕЙ (Фильтр + Сортировка)
var equipmentFilterMap = map[string]string{
	"status":           "status",
	"category":         "category",
	"team_id":          "team_id",
	"current_owner_id": "current_owner_id",
	"condition":        "condition",
	"created_at":       "created_at",
	"name":             "name",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	// FindEquipmentForUpdate берёт строку под SELECT ... FOR UPDATE: два
	// конкурентных перехода на одной единице сериализуются на уровне БД.
	FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error)
	CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (uint64, error)
	UpdateEquipmentInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error
	UpdateEquipmentFields(ctx context.Context, id uint64, set map[string]interface{}) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.Status, &e.Condition,
		&e.CurrentOwnerID, &e.TeamID, &e.PurchasePrice, &e.LastMaintenanceDate,
		&e.NextMaintenanceDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	builder := sq.Select(equipmentFields).From(equipmentTable).
		PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(equipmentTable).
		PlaceholderFormat(sq.Dollar)

	for key, value := range filter.Filter {
		column, ok := equipmentFilterMap[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		cond := sq.Or{
			sq.ILike{"name": like},
			sq.ILike{"serial_number": like},
			sq.ILike{"category": like},
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	orderBy := "created_at DESC"
	for key, dir := range filter.Sort {
		column, ok := equipmentFilterMap[key]
		if !ok {
			continue
		}
		order := "ASC"
		if s, ok := dir.(string); ok && s == "desc" {
			order = "DESC"
		}
		orderBy = column + " " + order
		break
	}
	builder = builder.OrderBy(orderBy)

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

	var list []entities.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
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

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentFields, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", equipmentFields, equipmentTable)
	return scanEquipment(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error) {
	return r.createEquipment(ctx, r.storage, eq)
}

func (r *EquipmentRepository) CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (uint64, error) {
	return r.createEquipment(ctx, tx, eq)
}

func (r *EquipmentRepository) createEquipment(ctx context.Context, q querier, eq *entities.Equipment) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, serial_number, category, status, condition,
			current_owner_id, team_id, purchase_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`, equipmentTable)

	var id uint64
	err := q.QueryRow(ctx, query,
		eq.Name, eq.SerialNumber, eq.Category, eq.Status, eq.Condition,
		eq.CurrentOwnerID, eq.TeamID, eq.PurchasePrice, eq.Notes,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateEquipmentInTx пишет все изменяемые поля целиком — вызывающий сервис
// уже держит строку под FOR UPDATE в той же транзакции.
func (r *EquipmentRepository) UpdateEquipmentInTx(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, category = $2, status = $3, condition = $4,
			current_owner_id = $5, team_id = $6, purchase_price = $7,
			last_maintenance_date = $8, next_maintenance_date = $9, notes = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $11`, equipmentTable)

	result, err := tx.Exec(ctx, query,
		eq.Name, eq.Category, eq.Status, eq.Condition,
		eq.CurrentOwnerID, eq.TeamID, eq.PurchasePrice,
		eq.LastMaintenanceDate, eq.NextMaintenanceDate, eq.Notes,
		eq.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) UpdateEquipmentFields(ctx context.Context, id uint64, set map[string]interface{}) error {
	builder := sq.Update(equipmentTable).
		PlaceholderFormat(sq.Dollar).
		SetMap(set).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Статус проверяется в БД CHECK-ограничением; эта проверка для импорта.
func ValidEquipmentStatus(s string) bool {
	return lifecycle.Status(s).Valid()
}

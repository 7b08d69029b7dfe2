package repositories

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
)

// EquipmentHistoryItem - обогащённая строка истории для выдачи наружу.
type EquipmentHistoryItem struct {
	entities.EquipmentHistory
	ActorFio    sql.NullString `db:"actor_fio"`
	FromUserFio sql.NullString `db:"from_user_fio"`
	ToUserFio   sql.NullString `db:"to_user_fio"`
}

type EquipmentHistoryRepositoryInterface interface {
	// CreateInTx — единственный способ записи: история пишется только
	// внутри транзакции породившей её операции.
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.EquipmentHistory) error
	FindByEquipmentID(ctx context.Context, equipmentID uint64) ([]EquipmentHistoryItem, error)
	CountByEquipmentAndAction(ctx context.Context, equipmentID uint64, action string) (int, error)
}

type EquipmentHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentHistoryRepository(storage *pgxpool.Pool) EquipmentHistoryRepositoryInterface {
	return &EquipmentHistoryRepository{storage: storage}
}

func (r *EquipmentHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.EquipmentHistory) error {
	query := `
		INSERT INTO equipment_history (equipment_id, from_user_id, to_user_id, actor_id, action, condition, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.Exec(ctx, query,
		history.EquipmentID, history.FromUserID, history.ToUserID,
		history.ActorID, history.Action, history.Condition, history.Notes)
	return err
}

func (r *EquipmentHistoryRepository) FindByEquipmentID(ctx context.Context, equipmentID uint64) ([]EquipmentHistoryItem, error) {
	query := `
		SELECT
			h.id, h.equipment_id, h.from_user_id, h.to_user_id, h.actor_id,
			h.action, h.condition, h.notes, h.created_at,
			a.fio AS actor_fio,
			fu.fio AS from_user_fio,
			tu.fio AS to_user_fio
		FROM equipment_history h
		LEFT JOIN users a ON h.actor_id = a.id
		LEFT JOIN users fu ON h.from_user_id = fu.id
		LEFT JOIN users tu ON h.to_user_id = tu.id
		WHERE h.equipment_id = $1
		ORDER BY h.created_at ASC, h.id ASC
	`

	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []EquipmentHistoryItem
	for rows.Next() {
		var h EquipmentHistoryItem
		if err := rows.Scan(
			&h.ID, &h.EquipmentID, &h.FromUserID, &h.ToUserID, &h.ActorID,
			&h.Action, &h.Condition, &h.Notes, &h.CreatedAt,
			&h.ActorFio, &h.FromUserFio, &h.ToUserFio,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *EquipmentHistoryRepository) CountByEquipmentAndAction(ctx context.Context, equipmentID uint64, action string) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM equipment_history WHERE equipment_id = $1 AND action = $2`,
		equipmentID, action).Scan(&count)
	return count, err
}

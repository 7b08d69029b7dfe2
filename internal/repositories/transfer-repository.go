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

const transferTable = "transfer_requests"

const transferFields = `id, equipment_id, from_user_id, to_user_id, requested_by_id,
	approver_id, status, reason, condition, created_at, updated_at`

var transferFilterMap = map[string]string{
	"status":          "status",
	"equipment_id":    "equipment_id",
	"to_user_id":      "to_user_id",
	"from_user_id":    "from_user_id",
	"approver_id":     "approver_id",
	"requested_by_id": "requested_by_id",
}

type TransferRepositoryInterface interface {
	GetTransfers(ctx context.Context, filter types.Filter) ([]entities.TransferRequest, uint64, error)
	FindTransfer(ctx context.Context, id uint64) (*entities.TransferRequest, error)
	FindTransferForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.TransferRequest, error)
	CreateTransferInTx(ctx context.Context, tx pgx.Tx, tr *entities.TransferRequest) (uint64, error)
	UpdateTransferInTx(ctx context.Context, tx pgx.Tx, tr *entities.TransferRequest) error
	// CountPendingByEquipment используется, чтобы не заводить второй активный перенос.
	CountPendingByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (uint64, error)
}

type TransferRepository struct {
	storage *pgxpool.Pool
}

func NewTransferRepository(storage *pgxpool.Pool) TransferRepositoryInterface {
	return &TransferRepository{storage: storage}
}

func scanTransfer(row pgx.Row) (*entities.TransferRequest, error) {
	var tr entities.TransferRequest
	err := row.Scan(
		&tr.ID, &tr.EquipmentID, &tr.FromUserID, &tr.ToUserID, &tr.RequestedByID,
		&tr.ApproverID, &tr.Status, &tr.Reason, &tr.Condition, &tr.CreatedAt, &tr.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования transfer_request: %w", err)
	}
	return &tr, nil
}

func (r *TransferRepository) GetTransfers(ctx context.Context, filter types.Filter) ([]entities.TransferRequest, uint64, error) {
	builder := sq.Select(transferFields).From(transferTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(transferTable).PlaceholderFormat(sq.Dollar)

	for key, value := range filter.Filter {
		column, ok := transferFilterMap[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}

	builder = builder.OrderBy("created_at DESC")
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

	var list []entities.TransferRequest
	for rows.Next() {
		tr, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *tr)
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

func (r *TransferRepository) FindTransfer(ctx context.Context, id uint64) (*entities.TransferRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", transferFields, transferTable)
	return scanTransfer(r.storage.QueryRow(ctx, query, id))
}

func (r *TransferRepository) FindTransferForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.TransferRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", transferFields, transferTable)
	return scanTransfer(tx.QueryRow(ctx, query, id))
}

func (r *TransferRepository) CreateTransferInTx(ctx context.Context, tx pgx.Tx, tr *entities.TransferRequest) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (equipment_id, from_user_id, to_user_id, requested_by_id, approver_id, status, reason, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`, transferTable)

	var id uint64
	err := tx.QueryRow(ctx, query,
		tr.EquipmentID, tr.FromUserID, tr.ToUserID, tr.RequestedByID,
		tr.ApproverID, tr.Status, tr.Reason, tr.Condition,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *TransferRepository) UpdateTransferInTx(ctx context.Context, tx pgx.Tx, tr *entities.TransferRequest) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, approver_id = $2, condition = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`, transferTable)

	result, err := tx.Exec(ctx, query, tr.Status, tr.ApproverID, tr.Condition, tr.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TransferRepository) CountPendingByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (uint64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE equipment_id = $1 AND status = $2", transferTable)
	var total uint64
	err := tx.QueryRow(ctx, query, equipmentID, entities.TransferStatusPending).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

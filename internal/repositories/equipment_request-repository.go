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

const equipmentRequestTable = "equipment_requests"

const equipmentRequestFields = `id, requester_id, equipment_type, category, justification,
	priority, status, team_lead_approval, admin_approval, approver_id,
	approval_notes, rejection_reason, equipment_id, created_at, updated_at`

var equipmentRequestFilterMap = map[string]string{
	"status":       "status",
	"priority":     "priority",
	"requester_id": "requester_id",
	"category":     "category",
	"created_at":   "created_at",
}

type EquipmentRequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.EquipmentRequest, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.EquipmentRequest, error)
	// FindRequestForUpdate сериализует конкурентные решения по одной заявке.
	FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentRequest, error)
	CreateRequest(ctx context.Context, req *entities.EquipmentRequest) (uint64, error)
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.EquipmentRequest) error
}

type EquipmentRequestRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRequestRepository(storage *pgxpool.Pool) EquipmentRequestRepositoryInterface {
	return &EquipmentRequestRepository{storage: storage}
}

func scanEquipmentRequest(row pgx.Row) (*entities.EquipmentRequest, error) {
	var req entities.EquipmentRequest
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.EquipmentType, &req.Category, &req.Justification,
		&req.Priority, &req.Status, &req.TeamLeadApproval, &req.AdminApproval, &req.ApproverID,
		&req.ApprovalNotes, &req.RejectionReason, &req.EquipmentID, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования equipment_request: %w", err)
	}
	return &req, nil
}

func (r *EquipmentRequestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.EquipmentRequest, uint64, error) {
	builder := sq.Select(equipmentRequestFields).From(equipmentRequestTable).
		PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(equipmentRequestTable).
		PlaceholderFormat(sq.Dollar)

	for key, value := range filter.Filter {
		column, ok := equipmentRequestFilterMap[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		cond := sq.Or{
			sq.ILike{"equipment_type": like},
			sq.ILike{"justification": like},
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
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

	var list []entities.EquipmentRequest
	for rows.Next() {
		req, err := scanEquipmentRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *req)
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

func (r *EquipmentRequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.EquipmentRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentRequestFields, equipmentRequestTable)
	return scanEquipmentRequest(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRequestRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", equipmentRequestFields, equipmentRequestTable)
	return scanEquipmentRequest(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRequestRepository) CreateRequest(ctx context.Context, req *entities.EquipmentRequest) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (requester_id, equipment_type, category, justification, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, equipmentRequestTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		req.RequesterID, req.EquipmentType, req.Category, req.Justification,
		req.Priority, req.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRequestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.EquipmentRequest) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, team_lead_approval = $2, admin_approval = $3,
			approver_id = $4, approval_notes = $5, rejection_reason = $6,
			equipment_id = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8`, equipmentRequestTable)

	result, err := tx.Exec(ctx, query,
		req.Status, req.TeamLeadApproval, req.AdminApproval,
		req.ApproverID, req.ApprovalNotes, req.RejectionReason,
		req.EquipmentID, req.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

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

const maintenanceTable = "maintenance_records"

const maintenanceFields = `id, equipment_id, type, status, description,
	scheduled_at, completed_at, estimated_cost, cost, performed_by, vendor, notes,
	requires_approval, created_by_id, created_at, updated_at`

var maintenanceFilterMap = map[string]string{
	"status":        "status",
	"type":          "type",
	"equipment_id":  "equipment_id",
	"created_by_id": "created_by_id",
}

type MaintenanceRepositoryInterface interface {
	GetRecords(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRecord, uint64, error)
	FindRecord(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error)
	FindRecordForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error)
	CreateRecordInTx(ctx context.Context, tx pgx.Tx, rec *entities.MaintenanceRecord) (uint64, error)
	UpdateRecordInTx(ctx context.Context, tx pgx.Tx, rec *entities.MaintenanceRecord) error
	// FindActiveByEquipment возвращает активную запись (pending/in_progress) по оборудованию.
	FindActiveByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (*entities.MaintenanceRecord, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
}

func NewMaintenanceRepository(storage *pgxpool.Pool) MaintenanceRepositoryInterface {
	return &MaintenanceRepository{storage: storage}
}

func scanMaintenanceRecord(row pgx.Row) (*entities.MaintenanceRecord, error) {
	var rec entities.MaintenanceRecord
	err := row.Scan(
		&rec.ID, &rec.EquipmentID, &rec.Type, &rec.Status, &rec.Description,
		&rec.ScheduledAt, &rec.CompletedAt, &rec.EstimatedCost, &rec.Cost,
		&rec.PerformedBy, &rec.Vendor, &rec.Notes,
		&rec.RequiresApproval, &rec.CreatedByID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования maintenance_record: %w", err)
	}
	return &rec, nil
}

func (r *MaintenanceRepository) GetRecords(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRecord, uint64, error) {
	builder := sq.Select(maintenanceFields).From(maintenanceTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(maintenanceTable).PlaceholderFormat(sq.Dollar)

	for key, value := range filter.Filter {
		column, ok := maintenanceFilterMap[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}

	builder = builder.OrderBy("scheduled_at DESC NULLS LAST", "created_at DESC")
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

	var list []entities.MaintenanceRecord
	for rows.Next() {
		rec, err := scanMaintenanceRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *rec)
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

func (r *MaintenanceRepository) FindRecord(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", maintenanceFields, maintenanceTable)
	return scanMaintenanceRecord(r.storage.QueryRow(ctx, query, id))
}

func (r *MaintenanceRepository) FindRecordForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", maintenanceFields, maintenanceTable)
	return scanMaintenanceRecord(tx.QueryRow(ctx, query, id))
}

func (r *MaintenanceRepository) CreateRecordInTx(ctx context.Context, tx pgx.Tx, rec *entities.MaintenanceRecord) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (equipment_id, type, status, description, scheduled_at,
			estimated_cost, performed_by, vendor, notes, requires_approval, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`, maintenanceTable)

	var id uint64
	err := tx.QueryRow(ctx, query,
		rec.EquipmentID, rec.Type, rec.Status, rec.Description, rec.ScheduledAt,
		rec.EstimatedCost, rec.PerformedBy, rec.Vendor, rec.Notes,
		rec.RequiresApproval, rec.CreatedByID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MaintenanceRepository) UpdateRecordInTx(ctx context.Context, tx pgx.Tx, rec *entities.MaintenanceRecord) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, description = $2, scheduled_at = $3, completed_at = $4,
			cost = $5, performed_by = $6, vendor = $7, notes = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $9`, maintenanceTable)

	result, err := tx.Exec(ctx, query,
		rec.Status, rec.Description, rec.ScheduledAt, rec.CompletedAt,
		rec.Cost, rec.PerformedBy, rec.Vendor, rec.Notes, rec.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) FindActiveByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) (*entities.MaintenanceRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE equipment_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`, maintenanceFields, maintenanceTable)

	return scanMaintenanceRecord(tx.QueryRow(ctx, query, equipmentID,
		entities.MaintenanceStatusPending, entities.MaintenanceStatusInProgress))
}

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

const (
	subscriptionTable = "subscriptions"
	invoiceTable      = "invoices"
)

const subscriptionFields = `id, vendor, plan, seats, price_per_month, billing_cycle,
	renewal_date, status, assigned_user_id, notes, created_at, updated_at`

const invoiceFields = `id, subscription_id, file_url, amount, invoice_date, vendor,
	uploaded_by_id, created_at, updated_at`

var subscriptionFilterMap = map[string]string{
	"status":           "status",
	"billing_cycle":    "billing_cycle",
	"assigned_user_id": "assigned_user_id",
}

type SubscriptionRepositoryInterface interface {
	GetSubscriptions(ctx context.Context, filter types.Filter) ([]entities.Subscription, uint64, error)
	FindSubscription(ctx context.Context, id uint64) (*entities.Subscription, error)
	CreateSubscription(ctx context.Context, sub *entities.Subscription) (uint64, error)
	UpdateSubscription(ctx context.Context, sub *entities.Subscription) error
	DeleteSubscription(ctx context.Context, id uint64) error

	CreateInvoice(ctx context.Context, inv *entities.Invoice) (uint64, error)
	GetInvoicesBySubscription(ctx context.Context, subscriptionID uint64) ([]entities.Invoice, error)
	FindInvoice(ctx context.Context, id uint64) (*entities.Invoice, error)
}

type SubscriptionRepository struct {
	storage *pgxpool.Pool
}

func NewSubscriptionRepository(storage *pgxpool.Pool) SubscriptionRepositoryInterface {
	return &SubscriptionRepository{storage: storage}
}

func scanSubscription(row pgx.Row) (*entities.Subscription, error) {
	var sub entities.Subscription
	err := row.Scan(
		&sub.ID, &sub.Vendor, &sub.Plan, &sub.Seats, &sub.PricePerMonth, &sub.BillingCycle,
		&sub.RenewalDate, &sub.Status, &sub.AssignedUserID, &sub.Notes, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования subscription: %w", err)
	}
	return &sub, nil
}

func scanInvoice(row pgx.Row) (*entities.Invoice, error) {
	var inv entities.Invoice
	err := row.Scan(
		&inv.ID, &inv.SubscriptionID, &inv.FileURL, &inv.Amount, &inv.InvoiceDate,
		&inv.Vendor, &inv.UploadedByID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования invoice: %w", err)
	}
	return &inv, nil
}

func (r *SubscriptionRepository) GetSubscriptions(ctx context.Context, filter types.Filter) ([]entities.Subscription, uint64, error) {
	builder := sq.Select(subscriptionFields).From(subscriptionTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(subscriptionTable).PlaceholderFormat(sq.Dollar)

	for key, value := range filter.Filter {
		column, ok := subscriptionFilterMap[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		cond := sq.Or{
			sq.ILike{"vendor": like},
			sq.ILike{"plan": like},
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	builder = builder.OrderBy("renewal_date ASC NULLS LAST", "vendor ASC")
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

	var list []entities.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *sub)
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

func (r *SubscriptionRepository) FindSubscription(ctx context.Context, id uint64) (*entities.Subscription, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", subscriptionFields, subscriptionTable)
	return scanSubscription(r.storage.QueryRow(ctx, query, id))
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *entities.Subscription) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (vendor, plan, seats, price_per_month, billing_cycle, renewal_date, status, assigned_user_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`, subscriptionTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		sub.Vendor, sub.Plan, sub.Seats, sub.PricePerMonth, sub.BillingCycle,
		sub.RenewalDate, sub.Status, sub.AssignedUserID, sub.Notes,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SubscriptionRepository) UpdateSubscription(ctx context.Context, sub *entities.Subscription) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET vendor = $1, plan = $2, seats = $3, price_per_month = $4, billing_cycle = $5,
			renewal_date = $6, status = $7, assigned_user_id = $8, notes = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $10`, subscriptionTable)

	result, err := r.storage.Exec(ctx, query,
		sub.Vendor, sub.Plan, sub.Seats, sub.PricePerMonth, sub.BillingCycle,
		sub.RenewalDate, sub.Status, sub.AssignedUserID, sub.Notes, sub.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) DeleteSubscription(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", subscriptionTable)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) CreateInvoice(ctx context.Context, inv *entities.Invoice) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (subscription_id, file_url, amount, invoice_date, vendor, uploaded_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, invoiceTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		inv.SubscriptionID, inv.FileURL, inv.Amount, inv.InvoiceDate, inv.Vendor, inv.UploadedByID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SubscriptionRepository) GetInvoicesBySubscription(ctx context.Context, subscriptionID uint64) ([]entities.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE subscription_id = $1
		ORDER BY invoice_date DESC NULLS LAST, id DESC`, invoiceFields, invoiceTable)

	rows, err := r.storage.Query(ctx, query, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *inv)
	}
	return list, rows.Err()
}

func (r *SubscriptionRepository) FindInvoice(ctx context.Context, id uint64) (*entities.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", invoiceFields, invoiceTable)
	return scanInvoice(r.storage.QueryRow(ctx, query, id))
}

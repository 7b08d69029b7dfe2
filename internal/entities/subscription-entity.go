package entities

import (
	"inventory-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

type Subscription struct {
	ID             uint64             `json:"id" db:"id"`
	Vendor         string             `json:"vendor" db:"vendor"`
	Plan           string             `json:"plan" db:"plan"`
	Seats          int                `json:"seats" db:"seats"`
	PricePerMonth  float64            `json:"price_per_month" db:"price_per_month"`
	BillingCycle   BillingCycle       `json:"billing_cycle" db:"billing_cycle"`
	RenewalDate    null.Time          `json:"renewal_date" db:"renewal_date"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	AssignedUserID *uint64            `json:"assigned_user_id" db:"assigned_user_id"`
	Notes          null.String        `json:"notes" db:"notes"`

	types.BaseEntity
}

// Invoice — счёт по подписке. Поля Amount/InvoiceDate приходят от клиента
// (распознавание файла — забота внешнего OCR-сервиса, не наша).
type Invoice struct {
	ID             uint64       `json:"id" db:"id"`
	SubscriptionID uint64       `json:"subscription_id" db:"subscription_id"`
	FileURL        string       `json:"file_url" db:"file_url"`
	Amount         null.Float64 `json:"amount" db:"amount"`
	InvoiceDate    null.Time    `json:"invoice_date" db:"invoice_date"`
	Vendor         null.String  `json:"vendor" db:"vendor"`
	UploadedByID   uint64       `json:"uploaded_by_id" db:"uploaded_by_id"`

	types.BaseEntity
}

package dto

type CreateSubscriptionDTO struct {
	Vendor         string   `json:"vendor" validate:"required,min=2,max=100"`
	Plan           string   `json:"plan" validate:"required,min=1,max=100"`
	Seats          int      `json:"seats" validate:"required,gt=0"`
	PricePerMonth  float64  `json:"price_per_month" validate:"required,gte=0"`
	BillingCycle   string   `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
	RenewalDate    *string  `json:"renewal_date,omitempty"`
	AssignedUserID *uint64  `json:"assigned_user_id,omitempty" validate:"omitempty,gt=0"`
	Notes          *string  `json:"notes,omitempty"`
}

type UpdateSubscriptionDTO struct {
	Plan           *string  `json:"plan,omitempty" validate:"omitempty,min=1,max=100"`
	Seats          *int     `json:"seats,omitempty" validate:"omitempty,gt=0"`
	PricePerMonth  *float64 `json:"price_per_month,omitempty" validate:"omitempty,gte=0"`
	BillingCycle   *string  `json:"billing_cycle,omitempty" validate:"omitempty,oneof=monthly yearly"`
	RenewalDate    *string  `json:"renewal_date,omitempty"`
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=active cancelled expired"`
	AssignedUserID *uint64  `json:"assigned_user_id,omitempty" validate:"omitempty,gt=0"`
	Notes          *string  `json:"notes,omitempty"`
}

type SubscriptionDTO struct {
	ID             uint64   `json:"id"`
	Vendor         string   `json:"vendor"`
	Plan           string   `json:"plan"`
	Seats          int      `json:"seats"`
	PricePerMonth  float64  `json:"price_per_month"`
	BillingCycle   string   `json:"billing_cycle"`
	RenewalDate    *string  `json:"renewal_date,omitempty"`
	Status         string   `json:"status"`
	AssignedUserID *uint64  `json:"assigned_user_id,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// CreateInvoiceDTO — метаданные счёта; сам файл идёт multipart-полем.
// Суммы/даты заполняет клиент (например после внешнего OCR).
type CreateInvoiceDTO struct {
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	InvoiceDate *string  `json:"invoice_date,omitempty"`
	Vendor      *string  `json:"vendor,omitempty"`
}

type InvoiceDTO struct {
	ID             uint64   `json:"id"`
	SubscriptionID uint64   `json:"subscription_id"`
	FileURL        string   `json:"file_url"`
	Amount         *float64 `json:"amount,omitempty"`
	InvoiceDate    *string  `json:"invoice_date,omitempty"`
	Vendor         *string  `json:"vendor,omitempty"`
	UploadedByID   uint64   `json:"uploaded_by_id"`
	CreatedAt      string   `json:"created_at"`
}

package dto

type CreateUserDTO struct {
	Fio      string  `json:"fio" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,inventory_role"`
	TeamID   *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateUserDTO struct {
	Fio      *string `json:"fio,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Role     *string `json:"role,omitempty" validate:"omitempty,inventory_role"`
	TeamID   *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UserDTO struct {
	ID       uint64  `json:"id"`
	Fio      string  `json:"fio"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TeamID   *uint64 `json:"team_id,omitempty"`
	TeamName *string `json:"team_name,omitempty"`
	IsActive bool    `json:"is_active"`
}

type CreateTeamDTO struct {
	Name   string  `json:"name" validate:"required,min=2,max=100"`
	LeadID *uint64 `json:"lead_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateTeamDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	LeadID *uint64 `json:"lead_id,omitempty" validate:"omitempty,gt=0"`
}

type TeamDTO struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	LeadID  *uint64 `json:"lead_id,omitempty"`
	LeadFio *string `json:"lead_fio,omitempty"`
}

// Пакет lifecycle — жизненный цикл оборудования: закрытый набор статусов,
// таблица допустимых переходов и ролевой фильтр. Вся прочая логика
// (побочные эффекты переходов) живёт в сервисе оборудования.
package lifecycle

import (
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
)

// Status — статус единицы оборудования.
type Status string

const (
	StatusPending        Status = "pending"
	StatusAvailable      Status = "available"
	StatusAssigned       Status = "assigned"
	StatusMaintenance    Status = "maintenance"
	StatusBroken         Status = "broken"
	StatusLost           Status = "lost"
	StatusStolen         Status = "stolen"
	StatusDecommissioned Status = "decommissioned"
)

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// HistoryAction — код действия для записи в историю ("STATUS_AVAILABLE" и т.д.).
func (s Status) HistoryAction() string {
	switch s {
	case StatusPending:
		return "STATUS_PENDING"
	case StatusAvailable:
		return "STATUS_AVAILABLE"
	case StatusAssigned:
		return "STATUS_ASSIGNED"
	case StatusMaintenance:
		return "STATUS_MAINTENANCE"
	case StatusBroken:
		return "STATUS_BROKEN"
	case StatusLost:
		return "STATUS_LOST"
	case StatusStolen:
		return "STATUS_STOLEN"
	case StatusDecommissioned:
		return "STATUS_DECOMMISSIONED"
	}
	return "STATUS_UNKNOWN"
}

// transitions — таблица допустимых переходов. decommissioned терминален.
var transitions = map[Status][]Status{
	StatusPending:        {StatusAvailable, StatusBroken},
	StatusAvailable:      {StatusAssigned, StatusMaintenance, StatusBroken, StatusDecommissioned},
	StatusAssigned:       {StatusAvailable, StatusMaintenance, StatusBroken, StatusLost, StatusStolen},
	StatusMaintenance:    {StatusAvailable, StatusBroken, StatusDecommissioned},
	StatusBroken:         {StatusMaintenance, StatusDecommissioned},
	StatusLost:           {StatusDecommissioned},
	StatusStolen:         {StatusDecommissioned},
	StatusDecommissioned: {},
}

// Allowed возвращает допустимые целевые статусы без учёта роли.
func Allowed(from Status) []Status {
	allowed, ok := transitions[from]
	if !ok {
		return []Status{}
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition — допустим ли переход по таблице (роль не учитывается).
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AvailableTransitions фильтрует таблицу по роли актора:
// decommissioned видит только admin, maintenance скрыт от роли user.
// Используется для подсказок UI и предварительной проверки.
func AvailableTransitions(from Status, role constants.Role) []Status {
	out := make([]Status, 0, len(transitions[from]))
	for _, to := range transitions[from] {
		if to == StatusDecommissioned && role != constants.RoleAdmin {
			continue
		}
		if to == StatusMaintenance && role == constants.RoleUser {
			continue
		}
		out = append(out, to)
	}
	return out
}

// Validate проверяет переход и авторизацию роли. Порядок проверок важен:
// сначала таблица (InvalidTransition несёт допустимый набор), затем роль.
func Validate(from, to Status, role constants.Role) error {
	if !CanTransition(from, to) {
		return apperrors.NewInvalidTransitionError(from.String(), to.String(), statusStrings(Allowed(from)))
	}
	if to == StatusDecommissioned && role != constants.RoleAdmin {
		return apperrors.NewUnauthorizedRoleError(
			"списание оборудования доступно только администратору", constants.RoleAdmin.String())
	}
	if to == StatusMaintenance && role == constants.RoleUser {
		return apperrors.NewUnauthorizedRoleError(
			"перевод в обслуживание недоступен обычному пользователю", constants.RoleTeamLead.String())
	}
	return nil
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// Statuses возвращает все статусы; нужен для сидирования и валидации импорта.
func Statuses() []Status {
	return []Status{
		StatusPending, StatusAvailable, StatusAssigned, StatusMaintenance,
		StatusBroken, StatusLost, StatusStolen, StatusDecommissioned,
	}
}

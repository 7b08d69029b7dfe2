package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrInvalidUserID           = fmt.Errorf("недопустимый UserID")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// InvalidTransitionError — запрошенный статус недостижим из текущего.
// Allowed отдаётся клиенту, чтобы он мог показать допустимые варианты.
type InvalidTransitionError struct {
	From      string
	Requested string
	Allowed   []string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("переход статуса %q -> %q недопустим", e.From, e.Requested)
}

func NewInvalidTransitionError(from, requested string, allowed []string) error {
	return &InvalidTransitionError{From: from, Requested: requested, Allowed: allowed}
}

// UnauthorizedError — роль или личность актора не позволяет действие.
// Stage заполняется для ошибок порядка согласования (например admin до team_lead).
type UnauthorizedError struct {
	Reason       string
	RequiredRole string
	Stage        string
}

func (e *UnauthorizedError) Error() string { return e.Reason }

func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

func NewUnauthorizedRoleError(reason, requiredRole string) error {
	return &UnauthorizedError{Reason: reason, RequiredRole: requiredRole}
}

// NewOutOfOrderApprovalError — попытка согласовать этап, чья очередь ещё не наступила.
func NewOutOfOrderApprovalError(reason, stage string) error {
	return &UnauthorizedError{Reason: reason, Stage: stage}
}

// PreconditionError — объект не в том состоянии, чтобы выполнить операцию
// (оборудование непередаваемо, запись ТО уже закрыта и т.п.).
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

func NewPreconditionError(format string, args ...interface{}) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// InvalidInputError — ошибка валидации входных данных.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// PersistenceError — сбой слоя хранения (begin/commit/запрос). Отделён от
// доменных ошибок, чтобы клиент мог отличить "запрос неверен" от "повторите позже".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ошибка хранилища (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// HttpError — транспортный конверт для контроллеров.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// IsDomainError — true для ошибок, которые поднимаются из бизнес-логики как есть.
func IsDomainError(err error) bool {
	var (
		it *InvalidTransitionError
		ua *UnauthorizedError
		pc *PreconditionError
		ii *InvalidInputError
	)
	return errors.As(err, &it) || errors.As(err, &ua) || errors.As(err, &pc) ||
		errors.As(err, &ii) || errors.Is(err, ErrNotFound)
}

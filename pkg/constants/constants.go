// pkg/constants/constants.go
package constants

//============== РОЛИ ==============

// Role — роль пользователя. Выдаётся провайдером сессии, бизнес-логика ей доверяет.
type Role string

const (
	RoleUser     Role = "user"
	RoleTeamLead Role = "team_lead"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTeamLead, RoleAdmin:
		return true
	}
	return false
}

//============== UPLOAD CONTEXTS ==============

type UploadContext string

const (
	// UploadContextInvoice — скан/файл счёта по подписке.
	UploadContextInvoice UploadContext = "invoice"
	// UploadContextImport — загруженный XLSX для массового импорта оборудования.
	UploadContextImport UploadContext = "import"
)

func (uc UploadContext) String() string { return string(uc) }

//============== CACHE KEYS ==============

const (
	// Ключ для кеша способностей роли.
	// Формат: capabilities:<role> -> JSON
	CacheKeyCapabilities = "capabilities:%s"

	// Ключ, указывающий, что аккаунт заблокирован из-за неудачных попыток входа.
	// Формат: lockout:<userID> -> "locked"
	CacheKeyLockout = "lockout:%d"

	// Ключ для подсчета неудачных попыток входа.
	// Формат: login_attempts:<userID> -> count
	CacheKeyLoginAttempts = "login_attempts:%d"
)

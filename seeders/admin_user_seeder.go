package seeders

import (
	"context"
	"fmt"
	"log"

	"inventory-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedAdmin создает первого администратора, если его еще нет.
func SeedAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("  - Создание пользователя 'Admin'...")

	email := "admin@inventory.local"
	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return
	}
	if err.Error() != "no rows in result set" {
		log.Fatalf("ошибка при проверке существования администратора: %v", err)
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		log.Fatalf("не удалось захешировать пароль: %v", err)
	}

	err = db.QueryRow(ctx, `
		INSERT INTO users (fio, email, password, role, is_active)
		VALUES ($1, $2, $3, 'admin', TRUE)
		RETURNING id`,
		"Администратор Системы", email, hashed).Scan(&userID)
	if err != nil {
		log.Fatalf("не удалось создать администратора: %v", err)
	}

	log.Println(fmt.Sprintf("    - ✅ Администратор создан (id=%d, email=%s, пароль=admin123)", userID, email))
	log.Println("    - ⚠️  Не забудьте сменить пароль после первого входа!")
}

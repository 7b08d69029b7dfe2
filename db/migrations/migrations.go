package migrations

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Run выполняет все миграции из папки ./migrations
func Run(dsn string) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("не удалось открыть соединение с БД: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("не удалось установить диалект: %v", err)
	}

	migrationDir := "./migrations"

	log.Printf("Запуск миграций из %s\n", migrationDir)
	if err := goose.Up(db, migrationDir); err != nil {
		log.Fatalf("не удалось применить миграции: %v", err)
	}
}

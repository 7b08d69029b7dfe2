package main

import (
	"flag"
	"log"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	"inventory-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runAdmin := flag.Bool("admin", false, "Создать первого администратора")
	runEquipment := flag.Bool("equipment", false, "Наполнить парк демонстрационным оборудованием")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -admin -equipment)")

	flag.Parse()

	if !*runAdmin && !*runEquipment && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -admin")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runAdmin {
		seeders.SeedAdmin(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runEquipment {
		// Оборудование пишет историю от имени администратора.
		seeders.SeedEquipments(dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ Сидеры завершены.")
}

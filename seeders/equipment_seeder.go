package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var equipmentsData = []struct {
	Name         string
	SerialNumber string
	Category     string
	Status       string
	Condition    string
}{
	{Name: "MacBook Pro 14 M3", SerialNumber: "MBP-2024-0001", Category: "laptop", Status: "available", Condition: "good"},
	{Name: "MacBook Pro 14 M3", SerialNumber: "MBP-2024-0002", Category: "laptop", Status: "available", Condition: "good"},
	{Name: "Dell Latitude 5540", SerialNumber: "DL-2023-0117", Category: "laptop", Status: "available", Condition: "fair"},
	{Name: "Dell UltraSharp U2723QE", SerialNumber: "MON-2023-0045", Category: "monitor", Status: "available", Condition: "good"},
	{Name: "Dell UltraSharp U2723QE", SerialNumber: "MON-2023-0046", Category: "monitor", Status: "available", Condition: "good"},
	{Name: "iPhone 15", SerialNumber: "IPH-2024-0012", Category: "phone", Status: "available", Condition: "good"},
	{Name: "Logitech MX Master 3S", SerialNumber: "ACC-2023-0201", Category: "accessory", Status: "available", Condition: "good"},
	{Name: "HP LaserJet Pro M404", SerialNumber: "PRN-2021-0003", Category: "printer", Status: "maintenance", Condition: "fair"},
	{Name: "Lenovo ThinkPad X1 Carbon", SerialNumber: "LTP-2020-0088", Category: "laptop", Status: "broken", Condition: "poor"},
}

// SeedEquipments наполняет парк демонстрационным оборудованием.
// Запись истории идет от имени первого администратора.
func SeedEquipments(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("  - Наполнение таблицы 'equipments'...")

	var adminID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE role = 'admin' ORDER BY id LIMIT 1").Scan(&adminID)
	if err != nil {
		log.Fatalf("не найден администратор: сначала запустите сидер -admin (%v)", err)
	}

	inserted := 0
	for _, e := range equipmentsData {
		var exists uint64
		err := db.QueryRow(ctx, "SELECT id FROM equipments WHERE serial_number = $1", e.SerialNumber).Scan(&exists)
		if err == nil {
			continue
		}

		var equipmentID uint64
		err = db.QueryRow(ctx, `
			INSERT INTO equipments (name, serial_number, category, status, condition)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			e.Name, e.SerialNumber, e.Category, e.Status, e.Condition).Scan(&equipmentID)
		if err != nil {
			log.Printf("ПРЕДУПРЕЖДЕНИЕ: не удалось вставить '%s' (%s): %v", e.Name, e.SerialNumber, err)
			continue
		}

		_, err = db.Exec(ctx, `
			INSERT INTO equipment_history (equipment_id, actor_id, action, condition, notes)
			VALUES ($1, $2, 'created', $3, 'Добавлено сидером')`,
			equipmentID, adminID, e.Condition)
		if err != nil {
			log.Printf("ПРЕДУПРЕЖДЕНИЕ: не удалось записать историю для '%s': %v", e.SerialNumber, err)
		}
		inserted++
	}

	log.Printf("    - ✅ Вставлено единиц оборудования: %d", inserted)
}

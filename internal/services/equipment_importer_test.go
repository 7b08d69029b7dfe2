package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHeader_Russian(t *testing.T) {
	rows := [][]string{
		{"Реестр оборудования", "", ""},
		{"Наименование", "Серийный номер", "Категория", "Состояние", "Статус", "Цена"},
		{"MacBook Pro", "MBP-001", "laptop", "good", "available", "2500"},
	}
	cols, headerRow := detectHeader(rows)
	assert.Equal(t, 1, headerRow)
	assert.Equal(t, 0, cols.name)
	assert.Equal(t, 1, cols.serial)
	assert.Equal(t, 2, cols.category)
	assert.Equal(t, 3, cols.condition)
	assert.Equal(t, 4, cols.status)
	assert.Equal(t, 5, cols.price)
}

func TestDetectHeader_English(t *testing.T) {
	rows := [][]string{
		{"Name", "Serial Number", "Category"},
	}
	cols, headerRow := detectHeader(rows)
	assert.Equal(t, 0, headerRow)
	assert.Equal(t, 0, cols.name)
	assert.Equal(t, 1, cols.serial)
	assert.Equal(t, 2, cols.category)
	assert.Equal(t, -1, cols.status)
}

func TestDetectHeader_NotFound(t *testing.T) {
	rows := [][]string{
		{"Это просто заметка"},
		{"Серийный номер", "Статус"}, // нет колонки наименования
	}
	_, headerRow := detectHeader(rows)
	assert.Equal(t, -1, headerRow)
}

func TestSafeCell(t *testing.T) {
	row := []string{" MacBook ", "MBP-001"}
	assert.Equal(t, "MacBook", safeCell(row, 0))
	assert.Equal(t, "", safeCell(row, 5))
	assert.Equal(t, "", safeCell(row, -1))
}

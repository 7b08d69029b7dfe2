package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/entities"
	"inventory-system/internal/lifecycle"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// ImportResult — итог массового импорта: что создано, что пропущено и почему.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type EquipmentImportServiceInterface interface {
	ImportFromXLSX(ctx context.Context, file io.Reader) (*ImportResult, error)
}

type EquipmentImportService struct {
	pool          *pgxpool.Pool
	equipmentRepo repositories.EquipmentRepositoryInterface
	historyRepo   repositories.EquipmentHistoryRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentImportService(
	pool *pgxpool.Pool,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.EquipmentHistoryRepositoryInterface,
	logger *zap.Logger,
) EquipmentImportServiceInterface {
	return &EquipmentImportService{
		pool:          pool,
		equipmentRepo: equipmentRepo,
		historyRepo:   historyRepo,
		logger:        logger,
	}
}

// колонки, которые мы умеем распознавать в шапке
type importColumns struct {
	name      int
	serial    int
	category  int
	condition int
	status    int
	price     int
}

func newImportColumns() importColumns {
	return importColumns{name: -1, serial: -1, category: -1, condition: -1, status: -1, price: -1}
}

// detectHeader ищет строку шапки: обязательны колонки наименования и
// серийного номера, остальные опциональны.
func detectHeader(rows [][]string) (importColumns, int) {
	for rIdx, row := range rows {
		cols := newImportColumns()
		for cIdx, raw := range row {
			c := strings.ToLower(strings.TrimSpace(raw))
			switch {
			case strings.Contains(c, "серийн") || strings.Contains(c, "serial"):
				cols.serial = cIdx
			case strings.Contains(c, "наимен") || strings.Contains(c, "назван") || c == "name":
				cols.name = cIdx
			case strings.Contains(c, "категор") || strings.Contains(c, "category"):
				cols.category = cIdx
			case strings.Contains(c, "состоян") || strings.Contains(c, "condition"):
				cols.condition = cIdx
			case strings.Contains(c, "статус") || strings.Contains(c, "status"):
				cols.status = cIdx
			case strings.Contains(c, "цена") || strings.Contains(c, "стоимост") || strings.Contains(c, "price"):
				cols.price = cIdx
			}
		}
		if cols.name != -1 && cols.serial != -1 {
			return cols, rIdx
		}
	}
	return newImportColumns(), -1
}

func safeCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (s *EquipmentImportService) ImportFromXLSX(ctx context.Context, file io.Reader) (*ImportResult, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.For(role).CanImportEquipment {
		return nil, apperrors.NewUnauthorizedRoleError(
			"импорт оборудования доступен только администратору", constants.RoleAdmin.String())
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("не удалось открыть XLSX: %v", err)
	}
	defer f.Close()

	var (
		rows      [][]string
		cols      importColumns
		headerRow = -1
	)
	for _, sheet := range f.GetSheetList() {
		sheetRows, rowsErr := f.GetRows(sheet)
		if rowsErr != nil {
			continue
		}
		if c, h := detectHeader(sheetRows); h != -1 {
			rows, cols, headerRow = sheetRows, c, h
			break
		}
	}
	if headerRow == -1 {
		return nil, apperrors.NewInvalidInputError(
			"не найдена шапка таблицы: нужны колонки наименования и серийного номера")
	}

	result := &ImportResult{}
	seen := map[string]bool{}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		name := safeCell(row, cols.name)
		serial := safeCell(row, cols.serial)
		if name == "" && serial == "" {
			continue
		}
		if name == "" || serial == "" {
			result.Skipped++
			result.Errors = append(result.Errors,
				fmt.Sprintf("строка %d: пустое наименование или серийный номер", lineNum))
			continue
		}
		if seen[serial] {
			result.Skipped++
			result.Errors = append(result.Errors,
				fmt.Sprintf("строка %d: дубликат серийного номера %q в файле", lineNum, serial))
			continue
		}
		seen[serial] = true

		status := lifecycle.StatusPending
		if raw := safeCell(row, cols.status); raw != "" {
			candidate := lifecycle.Status(strings.ToLower(raw))
			if !candidate.Valid() {
				result.Skipped++
				result.Errors = append(result.Errors,
					fmt.Sprintf("строка %d: неизвестный статус %q", lineNum, raw))
				continue
			}
			status = candidate
		}

		condition := safeCell(row, cols.condition)
		if condition == "" {
			condition = defaultCondition
		}
		category := safeCell(row, cols.category)
		if category == "" {
			category = "uncategorized"
		}

		eq := &entities.Equipment{
			Name:         name,
			SerialNumber: serial,
			Category:     category,
			Status:       status,
			Condition:    condition,
		}
		if raw := safeCell(row, cols.price); raw != "" {
			price, parseErr := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if parseErr == nil && price >= 0 {
				eq.PurchasePrice = null.Float64From(price)
			}
		}

		err := repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
			id, txErr := s.equipmentRepo.CreateEquipmentInTx(ctx, tx, eq)
			if txErr != nil {
				return txErr
			}
			return s.historyRepo.CreateInTx(ctx, tx, &entities.EquipmentHistory{
				EquipmentID: id,
				ActorID:     actorID,
				Action:      entities.HistoryActionCreated,
				Condition:   &eq.Condition,
			})
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors,
				fmt.Sprintf("строка %d (%s): %v", lineNum, serial, err))
			continue
		}
		result.Created++
	}

	s.logger.Info("импорт оборудования завершён",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Uint64("actor_id", actorID))

	return result, nil
}

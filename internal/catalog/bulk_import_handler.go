package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// POST /api/products/bulk-import
// Uploads an xlsx with columns: SKU, Name, Category, Unit Cost, Sale Price,
// Units Per Box, Barcode. Existing SKUs are updated, new ones created.
// Per-row problems are collected and returned; none of them abort the run.
func BulkImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "An xlsx file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are supported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open uploaded file")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read Excel file: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read sheet: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		// first row is treated as a header when it mentions sku or name
		startRow := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToLower(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "sku") || strings.Contains(firstCell, "name") || strings.Contains(firstCell, "product") {
				startRow = 1
			}
		}

		cellAt := func(row []string, idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		created := 0
		updated := 0
		var rowErrors []string

		for i := startRow; i < len(rows); i++ {
			row := rows[i]
			rowNum := i + 1

			sku := cellAt(row, 0)
			name := cellAt(row, 1)
			if sku == "" && name == "" {
				continue
			}
			if sku == "" || name == "" {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: sku and name are required", rowNum))
				continue
			}

			unitCost := 0.0
			if s := cellAt(row, 3); s != "" {
				v, err := strconv.ParseFloat(strings.TrimPrefix(s, "£"), 64)
				if err != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid unit cost %q", rowNum, s))
					continue
				}
				unitCost = v
			}
			salePrice := 0.0
			if s := cellAt(row, 4); s != "" {
				v, err := strconv.ParseFloat(strings.TrimPrefix(s, "£"), 64)
				if err != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid sale price %q", rowNum, s))
					continue
				}
				salePrice = v
			}
			unitsPerBox := 1
			if s := cellAt(row, 5); s != "" {
				v, err := strconv.Atoi(s)
				if err != nil || v < 1 {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid units per box %q", rowNum, s))
					continue
				}
				unitsPerBox = v
			}

			var existing models.Product
			if err := database.DB.Where("sku = ?", sku).First(&existing).Error; err == nil {
				existing.Name = name
				existing.Category = cellAt(row, 2)
				existing.UnitCost = unitCost
				existing.SalePrice = salePrice
				existing.UnitsPerBox = unitsPerBox
				if barcode := cellAt(row, 6); barcode != "" {
					existing.Barcode = barcode
				}
				if err := database.DB.Save(&existing).Error; err != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: could not update %s", rowNum, sku))
					continue
				}
				updated++
				continue
			}

			p := models.Product{
				SKU:         sku,
				Name:        name,
				Category:    cellAt(row, 2),
				UnitCost:    unitCost,
				SalePrice:   salePrice,
				UnitsPerBox: unitsPerBox,
				Barcode:     cellAt(row, 6),
			}
			if err := database.DB.Create(&p).Error; err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: could not create %s", rowNum, sku))
				continue
			}
			created++
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Bulk import %s: %d created, %d updated", fileHeader.Filename, created, updated),
			})
		}

		if rowErrors == nil {
			rowErrors = []string{}
		}

		return c.JSON(fiber.Map{
			"created":    created,
			"updated":    updated,
			"row_errors": rowErrors,
		})
	}
}

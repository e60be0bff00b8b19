package sales

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseDateRange reads optional ?from= and ?to= query params (YYYY-MM-DD).
// "to" is made exclusive by pushing it to the start of the next day, so
// ?from=2026-08-01&to=2026-08-31 covers the whole of August 31st.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}

	return from, to, nil
}

// POST /api/sales/import
// Multipart upload of a POS export, .csv or .xlsx. Rows with problems are
// reported back but never abort the import.
func ImportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "A sales export file is required")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open uploaded file")
		}
		defer file.Close()

		var records []SaleRecord
		var rowErrors []string

		switch ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext {
		case ".csv":
			data, readErr := io.ReadAll(file)
			if readErr != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not read uploaded file")
			}
			records, rowErrors, err = ParseSalesCSV(data)
		case ".xlsx":
			records, rowErrors, err = ParseSalesXLSX(file)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Only .csv and .xlsx exports are supported")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := ImportSales(database.DB, records, fileHeader.Filename, rowErrors)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not import sales")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale_import",
				EntityID:    result.Import.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Imported %s: %d added, %d skipped", fileHeader.Filename, result.Import.RecordsAdded, result.Import.RecordsSkipped),
				After:       result.Import,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"import_id":        result.Import.ID,
			"records_added":    result.Import.RecordsAdded,
			"records_skipped":  result.Import.RecordsSkipped,
			"products_created": result.ProductsCreated,
			"row_errors":       result.RowErrors,
		})
	}
}

// GET /api/sales
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Sale{}).Order("sold_at DESC")
		if from != nil {
			q = q.Where("sold_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("sold_at < ?", *to)
		}
		if sku := c.Query("sku"); sku != "" {
			q = q.Where("sku = ?", sku)
		}
		if location := c.Query("location"); location != "" {
			q = q.Where("location_name = ?", location)
		}

		limit := c.QueryInt("limit", 200)
		if limit < 1 || limit > 1000 {
			limit = 200
		}

		var sales []models.Sale
		if err := q.Limit(limit).Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		return c.JSON(sales)
	}
}

// GET /api/sales/imports
func ListImportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var imports []models.SaleImport
		if err := database.DB.Order("created_at DESC").Limit(100).Find(&imports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list imports")
		}
		return c.JSON(imports)
	}
}

func summaryHandler(fn func(from, to *time.Time) ([]Summary, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		summaries, err := fn(from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}
		if summaries == nil {
			summaries = []Summary{}
		}

		return c.JSON(summaries)
	}
}

// GET /api/sales/by-product
func SalesByProductHandler() fiber.Handler {
	return summaryHandler(func(from, to *time.Time) ([]Summary, error) {
		return AggregateByProduct(database.DB, from, to)
	})
}

// GET /api/sales/by-category
func SalesByCategoryHandler() fiber.Handler {
	return summaryHandler(func(from, to *time.Time) ([]Summary, error) {
		return AggregateByCategory(database.DB, from, to)
	})
}

// GET /api/sales/by-day
func SalesByDayHandler() fiber.Handler {
	return summaryHandler(func(from, to *time.Time) ([]Summary, error) {
		return AggregateByDay(database.DB, from, to)
	})
}

// POST /api/sales/reconcile
// Applies imported sales in the window as stock decrements at the mapped
// locations. Deliberately a manual trigger rather than an import side
// effect, so an operator can re-import a file without double-decrementing.
func ReconcileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		result, err := ReconcileStockFromSales(database.DB, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reconcile stock from sales")
		}
		if result.SkippedLocations == nil {
			result.SkippedLocations = []string{}
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "reconciliation",
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Reconciled sales into stock: %d units across %d locations", result.UnitsDecremented, result.LocationsTouched),
				After:       result,
			})
		}

		return c.JSON(result)
	}
}

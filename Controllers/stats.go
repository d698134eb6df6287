package Controllers

import (
	"fmt"
	"regexp"

	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// GetMonthlyStats returns the per-day failed-task counts of a YYYY-MM month
func GetMonthlyStats(c *fiber.Ctx) error {
	month := c.Params("month")
	if !monthPattern.MatchString(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Month must be in YYYY-MM format"})
	}

	stats, err := Models.MonthlyStats(Models.DB, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load stats"})
	}

	return c.JSON(fiber.Map{
		"month": month,
		"stats": stats,
	})
}

// UpdateMonthlyStats manually re-runs the rollup for yesterday
func UpdateMonthlyStats(c *fiber.Ctx) error {
	stat, err := Models.RollStatsForYesterday(Models.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stat":    stat,
	})
}

// ExportMonthlyStats renders a month's stats as a spreadsheet download
func ExportMonthlyStats(c *fiber.Ctx) error {
	month := c.Params("month")
	if !monthPattern.MatchString(month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Month must be in YYYY-MM format"})
	}

	stats, err := Models.MonthlyStats(Models.DB, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load stats"})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Stats"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	}

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Failed Tasks")
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 14)

	for i, stat := range stats {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), stat.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), stat.FailedTasksCount)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate spreadsheet"})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="task_stats_%s.xlsx"`, month))
	return c.Send(buf.Bytes())
}

package Controllers

import (
	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
)

// GetTaskHistory lists the audit trail of a (space, task) pair, newest first
func GetTaskHistory(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")
	taskId := c.Params("task_id")

	var history []Models.HistoryRecord
	err := Models.DB.Where("task_id = ? AND space_id = ?", taskId, spaceId).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load history"})
	}

	return c.JSON(history)
}

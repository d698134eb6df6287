package Controllers

import (
	"fmt"
	"strings"

	"TapirTwins/AbstractFunctions"
	"TapirTwins/Models"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// GetTaskRecords lists every record of a task, oldest first
func GetTaskRecords(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	taskId := c.Params("id")

	var task Models.Task
	if err := Models.DB.Where("id = ?", taskId).First(&task).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	if task.SpaceId != "" {
		if !Models.IsSpaceMember(Models.DB, task.SpaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
	} else if task.SubmitterId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this task"})
	}

	var records []Models.TaskRecord
	if err := Models.DB.Where("task_id = ?", taskId).Order("date").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}

	return c.JSON(records)
}

// GetSpaceTaskRecords lists every record in a space (membership enforced by route)
func GetSpaceTaskRecords(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var records []Models.TaskRecord
	if err := Models.DB.Where("space_id = ?", spaceId).Order("date").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}

	return c.JSON(records)
}

// GetTodayRecords lists today's records, personal or per space with ?space_id=
func GetTodayRecords(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Query("space_id")
	today := AbstractFunctions.GetTodayDate()

	var records []Models.TaskRecord
	var err error
	if spaceId != "" {
		if !Models.IsSpaceMember(Models.DB, spaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
		err = Models.DB.Where("date = ? AND space_id = ?", today, spaceId).Find(&records).Error
	} else {
		err = Models.DB.Where("date = ? AND submitter_id = ? AND (space_id = '' OR space_id IS NULL)",
			today, user.Id).Find(&records).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}

	return c.JSON(records)
}

// GetSpaceTodayRecords lists today's records of a space (membership enforced by route)
func GetSpaceTodayRecords(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var records []Models.TaskRecord
	err := Models.DB.Where("date = ? AND space_id = ?", AbstractFunctions.GetTodayDate(), spaceId).
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load records"})
	}

	return c.JSON(records)
}

// ApproveTaskRecord marks a submitted record approved. Gated by the record's
// assigned-approver snapshot when one exists; a non-empty comment is required.
// Approval is terminal and appends to the audit trail.
func ApproveTaskRecord(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Params("space_id")
	recordId := c.Params("record_id")

	var input struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(input.Comment) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing approval comment"})
	}

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transaction error"})
	}

	var record Models.TaskRecord
	if err := tx.Where("id = ? AND space_id = ?", recordId, spaceId).First(&record).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	}

	if record.Status != Models.TaskStatusSubmitted {
		tx.Rollback()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Record already reviewed"})
	}

	if approverIds := Models.StringList(record.AssignedApproverIds); len(approverIds) > 0 {
		if !slices.Contains(approverIds, user.Id) {
			tx.Rollback()
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only an assigned approver can review this record",
			})
		}
	}

	now := AbstractFunctions.NowTimestamp()
	if err := tx.Model(&record).Updates(map[string]interface{}{
		"status":           Models.TaskStatusApproved,
		"approver_id":      user.Id,
		"approver_name":    user.Username,
		"approved_at":      now,
		"approval_comment": input.Comment,
	}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update record"})
	}

	// The audit entry is only written when the task still exists
	var history *Models.HistoryRecord
	var task Models.Task
	if err := tx.Where("id = ?", record.TaskId).First(&task).Error; err == nil {
		if err := tx.Model(&task).Updates(map[string]interface{}{
			"status":      Models.TaskStatusApproved,
			"updated_at":  now,
			"approver_id": user.Id,
		}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
		}

		history = &Models.HistoryRecord{
			Id:        uuid.NewString(),
			TaskId:    record.TaskId,
			SpaceId:   spaceId,
			Date:      AbstractFunctions.GetTodayDate(),
			CreatedAt: now,
			UserId:    user.Id,
			UserName:  user.Username,
			Action:    "approve",
			Description: fmt.Sprintf("Approved task %s with comment: %s",
				task.Title, input.Comment),
		}
		if err := tx.Create(history).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write history"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to approve record"})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Record approved",
		"history_record": history,
	})
}

// RejectTaskRecord marks a submitted record rejected with a reason. Terminal,
// same approver gate as approval, but writes no history entry.
func RejectTaskRecord(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Params("space_id")
	recordId := c.Params("record_id")

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(input.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing rejection reason"})
	}

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transaction error"})
	}

	var record Models.TaskRecord
	if err := tx.Where("id = ? AND space_id = ?", recordId, spaceId).First(&record).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	}

	if record.Status != Models.TaskStatusSubmitted {
		tx.Rollback()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Record already reviewed"})
	}

	if approverIds := Models.StringList(record.AssignedApproverIds); len(approverIds) > 0 {
		if !slices.Contains(approverIds, user.Id) {
			tx.Rollback()
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only an assigned approver can review this record",
			})
		}
	}

	now := AbstractFunctions.NowTimestamp()
	if err := tx.Model(&record).Updates(map[string]interface{}{
		"status":           Models.TaskStatusRejected,
		"approver_id":      user.Id,
		"approver_name":    user.Username,
		"rejection_reason": input.Reason,
	}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update record"})
	}

	var task Models.Task
	if err := tx.Where("id = ?", record.TaskId).First(&task).Error; err == nil {
		if err := tx.Model(&task).Updates(map[string]interface{}{
			"status":     Models.TaskStatusRejected,
			"updated_at": now,
		}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject record"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Record rejected",
	})
}

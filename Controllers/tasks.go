package Controllers

import (
	"fmt"

	"TapirTwins/AbstractFunctions"
	"TapirTwins/Models"
	"TapirTwins/Storage"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskInput struct {
	Title               string   `json:"title" validate:"required"`
	Description         string   `json:"description"`
	DueDate             string   `json:"due_date"`
	RequiredImages      int      `json:"required_images"`
	SpaceId             string   `json:"space_id"`
	AssignedSubmitterId string   `json:"assigned_submitter_id"`
	AssignedApproverIds []string `json:"assigned_approver_ids"`
}

func attachCompletedToday(tasks []Models.Task) []Models.Task {
	for i := range tasks {
		tasks[i].CompletedToday = Models.TaskCompletedToday(Models.DB, tasks[i].Id)
	}
	return tasks
}

// createTask builds and stores a task for the caller. For space tasks the
// assigned submitter and every assigned approver must be current members,
// checked all-or-nothing at creation time with display names snapshotted.
func createTask(c *fiber.Ctx, user Models.User, spaceId string, input TaskInput) error {
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if input.RequiredImages < 1 {
		input.RequiredImages = 1
	}

	now := AbstractFunctions.NowTimestamp()
	task := Models.Task{
		Id:             uuid.NewString(),
		SpaceId:        spaceId,
		Title:          input.Title,
		Description:    input.Description,
		DueDate:        input.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		RequiredImages: input.RequiredImages,
		Status:         Models.TaskStatusPending,
		SubmitterId:    user.Id,
	}

	if spaceId != "" {
		if input.AssignedSubmitterId != "" {
			name := memberName(spaceId, input.AssignedSubmitterId)
			if name == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "The assigned submitter is not a member of this space",
				})
			}
			task.AssignedSubmitterId = input.AssignedSubmitterId
			task.AssignedSubmitterName = name
		}

		if len(input.AssignedApproverIds) > 0 {
			names := make([]string, 0, len(input.AssignedApproverIds))
			for _, approverId := range input.AssignedApproverIds {
				name := memberName(spaceId, approverId)
				if name == "" {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": fmt.Sprintf("The assigned approver %s is not a member of this space", approverId),
					})
				}
				names = append(names, name)
			}
			task.AssignedApproverIds = Models.JSONStringList(input.AssignedApproverIds)
			task.AssignedApproverNames = Models.JSONStringList(names)
		}
	}

	if err := Models.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// memberName returns a member's display name, empty if not a member
func memberName(spaceId, userId string) string {
	if !Models.IsSpaceMember(Models.DB, spaceId, userId) {
		return ""
	}
	return Models.GetUsername(Models.DB, userId)
}

// GetTasks lists the caller's personal tasks, or a space's tasks with ?space_id=
func GetTasks(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Query("space_id")

	var tasks []Models.Task
	var err error
	if spaceId != "" {
		if !Models.IsSpaceMember(Models.DB, spaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
		err = Models.DB.Where("space_id = ?", spaceId).Find(&tasks).Error
	} else {
		err = Models.DB.Where("submitter_id = ? AND (space_id = '' OR space_id IS NULL)", user.Id).Find(&tasks).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tasks"})
	}

	return c.JSON(attachCompletedToday(tasks))
}

// GetSpaceTasks lists a space's tasks (membership enforced by route)
func GetSpaceTasks(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var tasks []Models.Task
	if err := Models.DB.Where("space_id = ?", spaceId).Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tasks"})
	}

	return c.JSON(attachCompletedToday(tasks))
}

// GetTask returns one task with its derived completed_today flag
func GetTask(c *fiber.Ctx) error {
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

	task.CompletedToday = Models.TaskCompletedToday(Models.DB, task.Id)
	return c.JSON(task)
}

// CreateTask creates a personal task, or a space task when the body carries a
// space_id the caller is a member of
func CreateTask(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var input TaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.SpaceId != "" && !Models.IsSpaceMember(Models.DB, input.SpaceId, user.Id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
	}

	return createTask(c, user, input.SpaceId, input)
}

// CreateSpaceTask creates a task inside a space (membership enforced by route)
func CreateSpaceTask(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Params("space_id")

	var input TaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return createTask(c, user, spaceId, input)
}

// UpdateTask replaces the task with the submitted object. Id, created_at,
// submitter_id and space_id are always preserved from the stored version.
func UpdateTask(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	taskId := c.Params("id")

	var stored Models.Task
	if err := Models.DB.Where("id = ?", taskId).First(&stored).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	if stored.SpaceId != "" {
		if !Models.IsSpaceMember(Models.DB, stored.SpaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
	} else if stored.SubmitterId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this task"})
	}

	var incoming Models.Task
	if err := c.BodyParser(&incoming); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	incoming.Id = stored.Id
	incoming.CreatedAt = stored.CreatedAt
	incoming.SubmitterId = stored.SubmitterId
	incoming.SpaceId = stored.SpaceId
	incoming.UpdatedAt = AbstractFunctions.NowTimestamp()

	if err := Models.DB.Save(&incoming).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}

	incoming.CompletedToday = Models.TaskCompletedToday(Models.DB, incoming.Id)
	return c.JSON(incoming)
}

// DeleteTask removes a task and all of its records. Personal tasks require the
// owner, space tasks a space admin.
func DeleteTask(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	taskId := c.Params("id")

	var task Models.Task
	if err := Models.DB.Where("id = ?", taskId).First(&task).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	if task.SpaceId != "" {
		if Models.SpaceRole(Models.DB, task.SpaceId, user.Id) != Models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only a space admin can delete this task"})
		}
	} else if task.SubmitterId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this task"})
	}

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transaction error"})
	}

	if err := tx.Where("task_id = ?", taskId).Delete(&Models.TaskRecord{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task records"})
	}
	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}

	return c.JSON(task)
}

// CompleteTask records today's check-in for a task with photo evidence.
// Preconditions run in order: existence, authorization, the once-per-day
// gate, then the image count.
func CompleteTask(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	taskId := c.Params("id")

	var task Models.Task
	if err := Models.DB.Where("id = ?", taskId).First(&task).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	if task.SpaceId != "" {
		if task.AssignedSubmitterId != "" {
			if task.AssignedSubmitterId != user.Id {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Only the assigned submitter can complete this task",
				})
			}
		} else if !Models.IsSpaceMember(Models.DB, task.SpaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
	} else if task.SubmitterId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this task"})
	}

	if Models.TaskCompletedToday(Models.DB, taskId) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task already completed today"})
	}

	var input struct {
		Images []string `json:"images"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(input.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing image data"})
	}
	if len(input.Images) < task.RequiredImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("At least %d images are required", task.RequiredImages),
		})
	}

	today := AbstractFunctions.GetTodayDate()

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transaction error"})
	}

	// Re-check the daily gate inside the transaction so two concurrent
	// submissions cannot both pass it
	var count int64
	tx.Model(&Models.TaskRecord{}).Where("task_id = ? AND date = ?", taskId, today).Count(&count)
	if count > 0 {
		tx.Rollback()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task already completed today"})
	}

	// Blobs go to disk only after the gate held, and are removed again if the
	// record ultimately does not land
	filenames, err := Storage.SaveImages(input.Images)
	if err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	now := AbstractFunctions.NowTimestamp()
	record := Models.TaskRecord{
		Id:            uuid.NewString(),
		TaskId:        taskId,
		SpaceId:       task.SpaceId,
		Date:          today,
		CreatedAt:     now,
		Images:        Models.JSONStringList(filenames),
		SubmitterId:   user.Id,
		SubmitterName: user.Username,
		Status:        Models.TaskStatusSubmitted,
	}
	if task.SpaceId != "" {
		record.AssignedApproverIds = task.AssignedApproverIds
		record.AssignedApproverNames = task.AssignedApproverNames
	}

	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		Storage.RemoveImages(filenames)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save record"})
	}
	if err := tx.Model(&task).Updates(map[string]interface{}{
		"status":     Models.TaskStatusSubmitted,
		"updated_at": now,
	}).Error; err != nil {
		tx.Rollback()
		Storage.RemoveImages(filenames)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}
	if err := tx.Commit().Error; err != nil {
		Storage.RemoveImages(filenames)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save record"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Check-in recorded",
		"record_id": record.Id,
	})
}

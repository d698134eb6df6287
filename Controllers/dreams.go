package Controllers

import (
	"TapirTwins/AbstractFunctions"
	"TapirTwins/Models"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DreamInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Date    string `json:"date"`
	SpaceId string `json:"space_id"`
}

// GetDreams lists the caller's personal dreams, or a space's with ?space_id=
func GetDreams(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Query("space_id")

	var dreams []Models.Dream
	var err error
	if spaceId != "" {
		if !Models.IsSpaceMember(Models.DB, spaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
		err = Models.DB.Where("space_id = ?", spaceId).Find(&dreams).Error
	} else {
		err = Models.DB.Where("user_id = ? AND (space_id = '' OR space_id IS NULL)", user.Id).Find(&dreams).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dreams"})
	}

	return c.JSON(dreams)
}

// GetSpaceDreams lists a space's dreams with author names (membership enforced by route)
func GetSpaceDreams(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var dreams []Models.Dream
	if err := Models.DB.Where("space_id = ?", spaceId).Find(&dreams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dreams"})
	}

	for i := range dreams {
		dreams[i].Username = Models.GetUsername(Models.DB, dreams[i].UserId)
	}

	return c.JSON(dreams)
}

// GetDream returns one dream; personal dreams are visible to their author only
func GetDream(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	dreamId := c.Params("id")

	var dream Models.Dream
	if err := Models.DB.Where("id = ?", dreamId).First(&dream).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dream not found"})
	}

	if dream.SpaceId != "" {
		if !Models.IsSpaceMember(Models.DB, dream.SpaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
	} else if dream.UserId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this dream"})
	}

	return c.JSON(dream)
}

// CreateDream records a personal dream, or a shared one when space_id is given
func CreateDream(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var input DreamInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if input.SpaceId != "" && !Models.IsSpaceMember(Models.DB, input.SpaceId, user.Id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
	}

	dream := Models.Dream{
		Id:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		Date:      input.Date,
		CreatedAt: AbstractFunctions.NowTimestamp(),
		SpaceId:   input.SpaceId,
		UserId:    user.Id,
	}

	if err := Models.DB.Create(&dream).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create dream"})
	}

	return c.Status(fiber.StatusCreated).JSON(dream)
}

// CreateSpaceDream records a dream inside a space (membership enforced by route)
func CreateSpaceDream(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Params("space_id")

	var input DreamInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	dream := Models.Dream{
		Id:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		Date:      input.Date,
		CreatedAt: AbstractFunctions.NowTimestamp(),
		SpaceId:   spaceId,
		UserId:    user.Id,
		Username:  user.Username,
	}

	if err := Models.DB.Create(&dream).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create dream"})
	}

	return c.Status(fiber.StatusCreated).JSON(dream)
}

// UpdateDream replaces a dream's content, preserving id, author, space and
// creation time
func UpdateDream(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	dreamId := c.Params("id")

	var stored Models.Dream
	if err := Models.DB.Where("id = ?", dreamId).First(&stored).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dream not found"})
	}

	if stored.SpaceId != "" {
		if !Models.IsSpaceMember(Models.DB, stored.SpaceId, user.Id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a member of this space"})
		}
	} else if stored.UserId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this dream"})
	}

	var incoming Models.Dream
	if err := c.BodyParser(&incoming); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	incoming.Id = stored.Id
	incoming.CreatedAt = stored.CreatedAt
	incoming.UserId = stored.UserId
	incoming.SpaceId = stored.SpaceId
	incoming.UpdatedAt = AbstractFunctions.NowTimestamp()

	if err := Models.DB.Save(&incoming).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update dream"})
	}

	return c.JSON(incoming)
}

// DeleteDream removes a dream. Personal dreams require the author, space
// dreams a space admin.
func DeleteDream(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	dreamId := c.Params("id")

	var dream Models.Dream
	if err := Models.DB.Where("id = ?", dreamId).First(&dream).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dream not found"})
	}

	if dream.SpaceId != "" {
		if Models.SpaceRole(Models.DB, dream.SpaceId, user.Id) != Models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only a space admin can delete this dream"})
		}
	} else if dream.UserId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No access to this dream"})
	}

	if err := Models.DB.Delete(&dream).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete dream"})
	}

	return c.JSON(dream)
}

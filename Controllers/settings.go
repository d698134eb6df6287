package Controllers

import (
	"TapirTwins/Models"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetUserSettings returns the caller's settings, zero values if none stored
func GetUserSettings(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var setting Models.UserSetting
	Models.DB.Where("user_id = ?", user.Id).First(&setting)

	return c.JSON(setting)
}

// UpdateUserSettings upserts the caller's settings
func UpdateUserSettings(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var input Models.UserSetting
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var setting Models.UserSetting
	if err := Models.DB.Where("user_id = ?", user.Id).First(&setting).Error; err != nil {
		setting = Models.UserSetting{UserId: user.Id, DefaultShareSpaceId: input.DefaultShareSpaceId}
		if err := Models.DB.Create(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
		}
	} else {
		setting.DefaultShareSpaceId = input.DefaultShareSpaceId
		if err := Models.DB.Save(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
		}
	}

	return c.JSON(setting)
}

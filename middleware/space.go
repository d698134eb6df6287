package middleware

import (
	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
)

// MemberRequired gates a space-scoped route on membership of the :space_id
// space. With a non-empty role, the member must hold that role; admins pass
// any role requirement. Must run after Verify.
func MemberRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not logged in",
			})
		}

		spaceId := c.Params("space_id")

		var space Models.Space
		if err := Models.DB.Where("id = ?", spaceId).First(&space).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Space not found",
			})
		}

		userRole := Models.SpaceRole(Models.DB, spaceId, user.Id)
		if userRole == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You are not a member of this space",
			})
		}

		if role != "" && userRole != role && userRole != Models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "The " + role + " role is required for this operation",
			})
		}

		c.Locals("space_id", spaceId)
		c.Locals("role", userRole)

		return c.Next()
	}
}

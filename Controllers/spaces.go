package Controllers

import (
	"time"

	"TapirTwins/AbstractFunctions"
	"TapirTwins/Models"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

const inviteCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Seeded per process; the default global source is fixed-seeded and would
// replay the same code sequence on every restart
var inviteRand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

func generateInviteCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = inviteCodeChars[inviteRand.Intn(len(inviteCodeChars))]
	}
	return string(code)
}

// newInviteCode draws codes until one is free of the unique index
func newInviteCode(db *gorm.DB) string {
	for {
		code := generateInviteCode(8)
		var count int64
		db.Model(&Models.Space{}).Where("invite_code = ?", code).Count(&count)
		if count == 0 {
			return code
		}
	}
}

type SpaceInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func spaceWithUsernames(space Models.Space) Models.Space {
	space.Members = Models.DecorateMembers(Models.DB, space.Members)
	return space
}

// CreateSpace creates a space with the caller as its admin
func CreateSpace(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var input SpaceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	now := AbstractFunctions.NowTimestamp()
	space := Models.Space{
		Id:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		CreatorId:   user.Id,
		CreatedAt:   now,
		UpdatedAt:   now,
		InviteCode:  newInviteCode(Models.DB),
		Members: []Models.SpaceMember{
			{UserId: user.Id, Role: Models.RoleAdmin},
		},
	}

	if err := Models.DB.Create(&space).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create space"})
	}

	return c.Status(fiber.StatusCreated).JSON(spaceWithUsernames(space))
}

// JoinSpace adds the caller to the space matching the invite code, as a submitter
func JoinSpace(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var input struct {
		InviteCode string `json:"invite_code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.InviteCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing invite code"})
	}

	var space Models.Space
	if err := Models.DB.Preload("Members").Where("invite_code = ?", input.InviteCode).First(&space).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invalid invite code"})
	}

	if Models.IsSpaceMember(Models.DB, space.Id, user.Id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You are already a member of this space"})
	}

	member := Models.SpaceMember{SpaceId: space.Id, UserId: user.Id, Role: Models.RoleSubmitter}
	if err := Models.DB.Create(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to join space"})
	}
	Models.DB.Model(&space).Update("updated_at", AbstractFunctions.NowTimestamp())

	space.Members = append(space.Members, member)
	return c.JSON(spaceWithUsernames(space))
}

// GetUserSpaces lists every space the caller belongs to
func GetUserSpaces(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var memberships []Models.SpaceMember
	if err := Models.DB.Where("user_id = ?", user.Id).Find(&memberships).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load spaces"})
	}

	spaces := make([]Models.Space, 0, len(memberships))
	for _, membership := range memberships {
		var space Models.Space
		if err := Models.DB.Preload("Members").Where("id = ?", membership.SpaceId).First(&space).Error; err != nil {
			continue
		}
		spaces = append(spaces, spaceWithUsernames(space))
	}

	return c.JSON(spaces)
}

// GetSpace returns one space with decorated member names
func GetSpace(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var space Models.Space
	if err := Models.DB.Preload("Members").Where("id = ?", spaceId).First(&space).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Space not found"})
	}

	return c.JSON(spaceWithUsernames(space))
}

// UpdateSpace renames or re-describes a space (admin only, enforced by route)
func UpdateSpace(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var space Models.Space
	if err := Models.DB.Preload("Members").Where("id = ?", spaceId).First(&space).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Space not found"})
	}

	var input SpaceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Name != "" {
		space.Name = input.Name
	}
	if input.Description != "" {
		space.Description = input.Description
	}
	space.UpdatedAt = AbstractFunctions.NowTimestamp()

	if err := Models.DB.Save(&space).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update space"})
	}

	return c.JSON(spaceWithUsernames(space))
}

// DeleteSpace removes a space and its memberships. Creator only.
func DeleteSpace(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	spaceId := c.Params("space_id")

	var space Models.Space
	if err := Models.DB.Where("id = ?", spaceId).First(&space).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Space not found"})
	}

	if space.CreatorId != user.Id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the space creator can delete the space"})
	}

	Models.DB.Where("space_id = ?", spaceId).Delete(&Models.SpaceMember{})
	Models.DB.Delete(&space)

	return c.JSON(fiber.Map{"message": "Space deleted"})
}

type InviteInput struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// InviteMember adds a registered user to the space by username
func InviteMember(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")

	var input InviteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if input.Role != Models.RoleSubmitter && input.Role != Models.RoleApprover {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	var invitee Models.User
	if err := Models.DB.Where("username = ?", input.Username).First(&invitee).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if Models.IsSpaceMember(Models.DB, spaceId, invitee.Id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User is already a member of this space"})
	}

	member := Models.SpaceMember{SpaceId: spaceId, UserId: invitee.Id, Role: input.Role}
	if err := Models.DB.Create(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add member"})
	}
	Models.DB.Model(&Models.Space{}).Where("id = ?", spaceId).Update("updated_at", AbstractFunctions.NowTimestamp())

	var space Models.Space
	Models.DB.Preload("Members").Where("id = ?", spaceId).First(&space)
	return c.JSON(spaceWithUsernames(space))
}

// RemoveMember drops a member from the space, never the creator
func RemoveMember(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")
	userId := c.Params("user_id")

	var space Models.Space
	if err := Models.DB.Where("id = ?", spaceId).First(&space).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Space not found"})
	}

	if userId == space.CreatorId {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The space creator cannot be removed"})
	}

	var member Models.SpaceMember
	if err := Models.DB.Where("space_id = ? AND user_id = ?", spaceId, userId).First(&member).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User is not a member of this space"})
	}

	Models.DB.Delete(&member)
	Models.DB.Model(&space).Update("updated_at", AbstractFunctions.NowTimestamp())

	Models.DB.Preload("Members").Where("id = ?", spaceId).First(&space)
	return c.JSON(spaceWithUsernames(space))
}

// UpdateMemberRole changes a member's role, never the creator's
func UpdateMemberRole(c *fiber.Ctx) error {
	spaceId := c.Params("space_id")
	userId := c.Params("user_id")

	var input struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Role != Models.RoleSubmitter && input.Role != Models.RoleApprover {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	var space Models.Space
	if err := Models.DB.Where("id = ?", spaceId).First(&space).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Space not found"})
	}

	if userId == space.CreatorId {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The space creator's role cannot be changed"})
	}

	var member Models.SpaceMember
	if err := Models.DB.Where("space_id = ? AND user_id = ?", spaceId, userId).First(&member).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User is not a member of this space"})
	}

	Models.DB.Model(&member).Update("role", input.Role)
	Models.DB.Model(&space).Update("updated_at", AbstractFunctions.NowTimestamp())

	Models.DB.Preload("Members").Where("id = ?", spaceId).First(&space)
	return c.JSON(spaceWithUsernames(space))
}
